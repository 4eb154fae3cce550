// Package treepolicy implements the TreePolicy capability shared by
// MCTSEngine and PolicyMCTSEngine (spec §4.12): given a parent node and its
// children, pick which child to descend into during Select.
package treepolicy

import "github.com/chewxy/math32"

// Node is the capability set a TreePolicy needs from a tree node, satisfied
// by both internal/searchers/mcts's and internal/searchers/policymcts's node
// types without either depending on the other.
type Node interface {
	VisitCount() int
	CurrentPlayer() int
	WinsFor(player int) int
	ScoreFor(player int) (min, max, sum float32)
	PriorValue() float32 // 0 when not applicable (UCT, Scored UCT)
}

// Policy selects one child from children, given the already-visited parent.
type Policy interface {
	Select(parent Node, children []Node) int
	String() string
}

// UCT is the classic win-rate-plus-exploration tree policy.
type UCT struct {
	// C is the exploration constant; sqrt(2) is the textbook default.
	C float32
}

func NewUCT() UCT { return UCT{C: math32.Sqrt(2)} }

func (p UCT) String() string { return "UCT" }

func (p UCT) Select(parent Node, children []Node) int {
	logN := math32.Log(float32(parent.VisitCount()))
	best, bestScore := -1, float32(math32.Inf(-1))
	for i, child := range children {
		n := child.VisitCount()
		if n == 0 {
			return i // unvisited children must be tried before any score comparison is meaningful
		}
		wins := child.WinsFor(parent.CurrentPlayer())
		score := float32(wins)/float32(n) + p.C*math32.Sqrt(logN/float32(n))
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// ScoredUCT replaces the win-rate term with the average neutral score for
// the parent's player, scaled by that child's observed score range, and can
// optionally blend in the plain UCT winrate term at a fixed percentage.
type ScoredUCT struct {
	C float32
	// BlendPercent, in [0,1], weights the scored term against the UCT
	// winrate term: 1 is pure Scored UCT, 0 is pure UCT.
	BlendPercent float32
}

func NewScoredUCT() ScoredUCT { return ScoredUCT{C: math32.Sqrt(2), BlendPercent: 1} }

func (p ScoredUCT) String() string { return "ScoredUCT" }

func (p ScoredUCT) Select(parent Node, children []Node) int {
	logN := math32.Log(float32(parent.VisitCount()))
	best, bestScore := -1, float32(math32.Inf(-1))
	for i, child := range children {
		n := child.VisitCount()
		if n == 0 {
			return i
		}
		player := parent.CurrentPlayer()
		_, _, sum := child.ScoreFor(player)
		scoreRange := scoreRangeFor(child, player)
		exploration := p.C * scoreRange * math32.Sqrt(logN/float32(n))
		scoredTerm := sum/float32(n) + exploration

		if p.BlendPercent >= 1 {
			if scoredTerm > bestScore {
				best, bestScore = i, scoredTerm
			}
			continue
		}
		wins := child.WinsFor(player)
		uctTerm := float32(wins)/float32(n) + p.C*math32.Sqrt(logN/float32(n))
		blended := p.BlendPercent*scoredTerm + (1-p.BlendPercent)*uctTerm
		if blended > bestScore {
			best, bestScore = i, blended
		}
	}
	return best
}

func scoreRangeFor(n Node, player int) float32 {
	lo, hi, _ := n.ScoreFor(player)
	r := hi - lo
	if r <= 0 {
		return 1
	}
	return r
}

// PUCT is AlphaZero's prior-guided tree policy, used by PolicyMCTSEngine.
type PUCT struct {
	C float32
	// FPUReduction is subtracted from the parent's own average value to
	// produce the First-Play-Urgency estimate given to an unvisited child,
	// instead of an absolute constant.
	FPUReduction float32
}

func NewPUCT() PUCT { return PUCT{C: 1.5, FPUReduction: 0.2} }

func (p PUCT) String() string { return "PUCT" }

func (p PUCT) Select(parent Node, children []Node) int {
	sqrtN := math32.Sqrt(float32(parent.VisitCount()))
	best, bestScore := -1, float32(math32.Inf(-1))
	for i, child := range children {
		n := child.VisitCount()
		var q float32
		if n > 0 {
			player := parent.CurrentPlayer()
			_, _, sum := child.ScoreFor(player)
			q = sum / float32(n)
		} else {
			_, _, parentSum := parent.ScoreFor(parent.CurrentPlayer())
			parentN := parent.VisitCount()
			parentQ := float32(0)
			if parentN > 0 {
				parentQ = parentSum / float32(parentN)
			}
			q = parentQ - p.FPUReduction
		}
		score := q + p.C*child.PriorValue()*sqrtN/float32(1+n)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
