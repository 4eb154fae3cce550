// Package pvs implements Principal Variation Search (spec §4.9): a
// negamax-style alpha-beta search that assumes the first move explored at
// each node is (close to) best, full-window-searching only that move and
// cheaply null-window-verifying the rest, re-searching only on a fail-high.
package pvs

import (
	"context"
	"time"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/orderer"
	"github.com/nicozeitz/patchwork/internal/tt"
)

// Engine is a single-threaded iterative-deepening PVS searcher.
type Engine struct {
	Evaluator eval.Evaluator
	Orderer   orderer.ActionOrderer
	Table     *tt.Table

	// MaxDepth bounds the iterative-deepening loop; 0 means a cap of 64
	// plies (rely on MaxTime/ctx to stop earlier).
	MaxDepth int
	// MaxTime bounds total search time across every depth, like the
	// teacher's alpha-beta searcher's WithMaxTime. 0 disables the bound.
	MaxTime time.Duration

	age uint32

	Stats Stats
}

// Stats are running counters collected during the most recent Search call.
type Stats struct {
	Nodes      int
	Evaluated  int
	TTHits     int
	TTStores   int
	DepthReached int
}

// New builds an Engine with a fresh table of the given capacity.
func New(evaluator eval.Evaluator, tableCapacity int) *Engine {
	return &Engine{
		Evaluator: evaluator,
		Orderer:   orderer.NewStaticOrderer(evaluator),
		Table:     tt.New(tableCapacity),
		MaxDepth:  4,
	}
}

// Search returns the best action found for g's current mover, its evaluation
// (from that mover's perspective), and the deepest depth completed.
func (e *Engine) Search(ctx context.Context, g *game.GameState) (best action.Action, score float32, depthReached int) {
	e.age++
	e.Stats = Stats{}

	var deadline time.Time
	hasDeadline := e.MaxTime > 0
	if hasDeadline {
		deadline = time.Now().Add(e.MaxTime)
	}

	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 64
	}

	for depth := 1; depth <= maxDepth; depth++ {
		searchCtx := ctx
		var cancel context.CancelFunc
		if hasDeadline {
			searchCtx, cancel = context.WithDeadline(ctx, deadline)
		}

		candidateAction, candidateScore, completed := e.searchRoot(searchCtx, g, depth)
		if cancel != nil {
			cancel()
		}
		if !completed {
			break
		}
		best, score, depthReached = candidateAction, candidateScore, depth
		if hasDeadline && time.Now().After(deadline) {
			break
		}
	}
	e.Stats.DepthReached = depthReached
	return
}

func (e *Engine) searchRoot(ctx context.Context, g *game.GameState, depth int) (best action.Action, score float32, completed bool) {
	actions := g.GetValidActions()
	if len(actions) == 0 {
		return action.NullAction, 0, true
	}

	hashMove, _ := e.Table.BestAction(g.Hash)
	hashAction, _ := action.FromSurrogate(hashMove, g.MarketPatchID, g.Library)
	e.Orderer.Order(g, actions, hashAction)

	alpha := -tt.PositiveInfinity - 1
	beta := tt.PositiveInfinity + 1
	best = actions[0]
	bestScore := float32(alpha)
	isFirst := true

	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return best, bestScore, false
		}
		if err := g.DoAction(a, true); err != nil {
			continue
		}

		var value float32
		if isFirst {
			value = -e.negamax(ctx, g, depth-1, 1, -float32(beta), -float32(alpha))
		} else {
			value = -e.negamax(ctx, g, depth-1, 1, -float32(alpha)-1, -float32(alpha))
			if value > float32(alpha) && ctx.Err() == nil {
				value = -e.negamax(ctx, g, depth-1, 1, -float32(beta), -float32(alpha))
			}
		}
		_ = g.UndoAction(a)

		if ctx.Err() != nil {
			return best, bestScore, false
		}

		if isFirst || value > bestScore {
			bestScore = value
			best = a
		}
		if value > float32(alpha) {
			alpha = int32(value)
		}
		isFirst = false
	}

	e.Table.Store(g.Hash, uint8(depth), int32(bestScore), tt.Exact, action.Surrogate(best), e.age)
	e.Stats.TTStores++
	return best, bestScore, true
}

// negamax is the recursive PVS workhorse. plyFromRoot is carried through the
// recursion but does not affect the search.
func (e *Engine) negamax(ctx context.Context, g *game.GameState, depth int, plyFromRoot int, alpha, beta float32) float32 {
	e.Stats.Nodes++
	if err := ctx.Err(); err != nil {
		return 0
	}

	if g.TurnType.IsPhantom() {
		// A phantom turn has exactly one legal action (Phantom) and
		// consumes no search depth: the original engine treats it as a
		// transparent pass-through node rather than spending a ply on it.
		if err := g.DoAction(action.PhantomAction, true); err != nil {
			return e.leafEvaluation(g)
		}
		value := -e.negamax(ctx, g, depth, plyFromRoot+1, -beta, -alpha)
		_ = g.UndoAction(action.PhantomAction)
		return value
	}

	if tableAction, tableEval, found := e.Table.Probe(g.Hash, int32(alpha), int32(beta), uint8(depth)); found {
		e.Stats.TTHits++
		_ = tableAction
		return float32(tableEval)
	}

	if depth <= 0 || g.IsTerminated() {
		return e.leafEvaluation(g)
	}

	actions := g.GetValidActions()
	if len(actions) == 0 {
		return e.leafEvaluation(g)
	}

	hashMoveID, _ := e.Table.BestAction(g.Hash)
	hashMove, _ := action.FromSurrogate(hashMoveID, g.MarketPatchID, g.Library)
	e.Orderer.Order(g, actions, hashMove)

	originalAlpha := alpha
	bestAction := action.NullAction
	bestValue := alpha
	isFirst := true

	for _, a := range actions {
		if err := ctx.Err(); err != nil {
			return 0
		}
		if err := g.DoAction(a, true); err != nil {
			continue
		}

		var value float32
		if isFirst {
			value = -e.negamax(ctx, g, depth-1, plyFromRoot+1, -beta, -alpha)
		} else {
			value = -e.negamax(ctx, g, depth-1, plyFromRoot+1, -alpha-1, -alpha)
			if value > alpha && value < beta {
				value = -e.negamax(ctx, g, depth-1, plyFromRoot+1, -beta, -alpha)
			}
		}
		_ = g.UndoAction(a)
		isFirst = false

		if ctx.Err() != nil {
			return 0
		}

		if value >= beta {
			e.Table.Store(g.Hash, uint8(depth), int32(beta), tt.LowerBound, action.Surrogate(a), e.age)
			e.Stats.TTStores++
			return beta
		}
		if value > bestValue {
			bestValue = value
			bestAction = a
		}
		if value > alpha {
			alpha = value
		}
	}

	evalType := tt.UpperBound
	if alpha > originalAlpha {
		evalType = tt.Exact
	}
	e.Table.Store(g.Hash, uint8(depth), int32(alpha), evalType, action.Surrogate(bestAction), e.age)
	e.Stats.TTStores++
	return alpha
}

func (e *Engine) leafEvaluation(g *game.GameState) float32 {
	e.Stats.Evaluated++
	mover := g.Flags.CurrentPlayer()
	var score float32
	if g.IsTerminated() {
		score = e.Evaluator.EvaluateTerminal(g)
	} else {
		score = e.Evaluator.EvaluateIntermediate(g)
	}
	if mover == 2 {
		score = -score
	}
	return score
}
