package pvs_test

import (
	"context"
	"testing"
	"time"

	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/searchers/pvs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchReturnsALegalAction(t *testing.T) {
	seed := uint64(1)
	g := game.InitialState(patch.Default, &seed)

	engine := pvs.New(eval.NewStaticEvaluator(), 1<<10)
	engine.MaxDepth = 2

	best, _, depth := engine.Search(context.Background(), g)
	require.Equal(t, 2, depth)

	valid := g.GetValidActions()
	found := false
	for _, a := range valid {
		if a.Equal(best) {
			found = true
			break
		}
	}
	assert.True(t, found, "search must return one of the position's legal actions")
}

func TestSearchDoesNotMutateTheInputPosition(t *testing.T) {
	seed := uint64(2)
	g := game.InitialState(patch.Default, &seed)
	beforeHash := g.Hash

	engine := pvs.New(eval.NewStaticEvaluator(), 1<<10)
	engine.MaxDepth = 2
	engine.Search(context.Background(), g)

	assert.Equal(t, beforeHash, g.Hash, "every DoAction during search must be matched by an UndoAction")
}

func TestSearchRespectsADeadline(t *testing.T) {
	seed := uint64(3)
	g := game.InitialState(patch.Default, &seed)

	engine := pvs.New(eval.NewStaticEvaluator(), 1<<12)
	engine.MaxDepth = 0
	engine.MaxTime = 50 * time.Millisecond

	start := time.Now()
	_, _, depth := engine.Search(context.Background(), g)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, depth, 1, "at least depth 1 should complete within the budget")
	assert.Less(t, elapsed, 2*time.Second, "search must not run far past its time budget")
}

func TestSearchAtFreshPositionScoreIsSmallAndFinite(t *testing.T) {
	seed := uint64(4)
	g := game.InitialState(patch.Default, &seed)

	engine := pvs.New(eval.NewStaticEvaluator(), 1<<10)
	engine.MaxDepth = 1

	_, score, depth := engine.Search(context.Background(), g)
	require.Equal(t, 1, depth)
	// Neither side can approach a terminal score one ply into a fresh game.
	assert.Less(t, float64(score), float64(eval.WinScore))
	assert.Greater(t, float64(score), float64(-eval.WinScore))
}
