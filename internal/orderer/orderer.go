// Package orderer implements move ordering for the tree searchers: given a
// position and its legal actions, produce a permutation that tries the
// actions most likely to cause an alpha-beta cutoff first. Good ordering is
// what makes alpha-beta pruning effective in practice (spec §4.9).
package orderer

import (
	"sort"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
)

// hashMoveScore is high enough to sort ahead of any StaticEvaluator score
// (whose terms are all bounded well under eval.WinScore).
const hashMoveScore = 2 * eval.WinScore

// ActionOrderer scores and sorts a position's legal actions before search
// visits them.
type ActionOrderer interface {
	// Order sorts actions in place, most-promising first, for the position
	// to move at g (g.Flags.CurrentPlayer()). hashMove, if not action.NullAction,
	// is tried first regardless of its heuristic score (the transposition
	// table's remembered best move from a prior, possibly-shallower search).
	Order(g *game.GameState, actions []action.Action, hashMove action.Action)
}

// StaticOrderer scores each action by the static evaluation of the position
// it leads to, from the mover's perspective: DoAction/UndoAction each
// candidate once (this package has no access to a search-depth budget, so it
// always pays the one-ply lookahead) and sort by that score, descending.
type StaticOrderer struct {
	Evaluator eval.Evaluator
}

func NewStaticOrderer(evaluator eval.Evaluator) *StaticOrderer {
	return &StaticOrderer{Evaluator: evaluator}
}

func (o *StaticOrderer) Order(g *game.GameState, actions []action.Action, hashMove action.Action) {
	mover := g.Flags.CurrentPlayer()
	scores := make([]float32, len(actions))
	for i, a := range actions {
		if a.Equal(hashMove) {
			scores[i] = hashMoveScore
			continue
		}
		if err := g.DoAction(a, true); err != nil {
			continue
		}
		var s float32
		if g.IsTerminated() {
			s = o.Evaluator.EvaluateTerminal(g)
		} else {
			s = o.Evaluator.EvaluateIntermediate(g)
		}
		if mover == 2 {
			s = -s
		}
		scores[i] = s
		_ = g.UndoAction(a)
	}

	sortJointly(actions, scores)
}

func sortJointly(actions []action.Action, scores []float32) {
	idx := make([]int, len(actions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return scores[idx[i]] > scores[idx[j]] })

	orderedActions := make([]action.Action, len(actions))
	for newPos, oldPos := range idx {
		orderedActions[newPos] = actions[oldPos]
	}
	copy(actions, orderedActions)
}
