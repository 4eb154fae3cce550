package mcts_test

import (
	"context"
	"testing"
	"time"

	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/searchers/mcts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchReturnsALegalAction(t *testing.T) {
	seed := uint64(1)
	g := game.InitialState(patch.Default, &seed)

	engine := mcts.New(eval.NewStaticEvaluator())
	best, _, err := engine.Search(context.Background(), g, mcts.EndCondition{MaxIterations: 50})
	require.NoError(t, err)

	valid := g.GetValidActions()
	found := false
	for _, a := range valid {
		if a.Equal(best) {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestSearchDoesNotMutateTheInputPosition(t *testing.T) {
	seed := uint64(2)
	g := game.InitialState(patch.Default, &seed)
	beforeHash := g.Hash

	engine := mcts.New(eval.NewStaticEvaluator())
	_, _, err := engine.Search(context.Background(), g, mcts.EndCondition{MaxIterations: 30})
	require.NoError(t, err)

	assert.Equal(t, beforeHash, g.Hash, "MCTS must operate on clones, never mutate the caller's state")
}

func TestSearchRespectsATimeBudget(t *testing.T) {
	seed := uint64(3)
	g := game.InitialState(patch.Default, &seed)

	engine := mcts.New(eval.NewStaticEvaluator())
	start := time.Now()
	_, _, err := engine.Search(context.Background(), g, mcts.EndCondition{MaxTime: 50 * time.Millisecond})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRootParallelSearchCombinesTrees(t *testing.T) {
	seed := uint64(4)
	g := game.InitialState(patch.Default, &seed)

	engine := mcts.New(eval.NewStaticEvaluator())
	engine.RootParallelism = 4
	best, _, err := engine.Search(context.Background(), g, mcts.EndCondition{MaxIterations: 20})
	require.NoError(t, err)

	valid := g.GetValidActions()
	found := false
	for _, a := range valid {
		if a.Equal(best) {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestReuseTreeAcrossSuccessiveSearches(t *testing.T) {
	seed := uint64(5)
	g := game.InitialState(patch.Default, &seed)

	engine := mcts.New(eval.NewStaticEvaluator())
	engine.ReuseTree = true

	best, _, err := engine.Search(context.Background(), g, mcts.EndCondition{MaxIterations: 30})
	require.NoError(t, err)
	require.NoError(t, g.DoAction(best, true))

	// A second search from the post-move state should succeed whether or
	// not the retained tree contains a matching node.
	_, _, err = engine.Search(context.Background(), g, mcts.EndCondition{MaxIterations: 30})
	require.NoError(t, err)
}
