package eval_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateIntermediateIsZeroAtStart(t *testing.T) {
	seed := uint64(1)
	g := game.InitialState(patch.Default, &seed)
	e := eval.NewStaticEvaluator()
	assert.Equal(t, float32(0), e.EvaluateIntermediate(g), "a fresh, symmetric position must evaluate to exactly zero")
}

func TestEvaluateTerminalMatchesWinner(t *testing.T) {
	e := eval.NewStaticEvaluator()
	g := &game.GameState{}
	g.Players[0].ButtonBalance = 10
	g.Players[1].ButtonBalance = 0
	assert.Equal(t, eval.WinScore, e.EvaluateTerminal(g))

	g.Players[0].ButtonBalance = 0
	g.Players[1].ButtonBalance = 10
	assert.Equal(t, -eval.WinScore, e.EvaluateTerminal(g))

	g.Players[0].ButtonBalance = 5
	g.Players[1].ButtonBalance = 5
	assert.Equal(t, float32(0), e.EvaluateTerminal(g))
}

func TestEvaluateIntermediateIsNonZeroOnceStatesDiverge(t *testing.T) {
	seed := uint64(2)
	g := game.InitialState(patch.Default, &seed)
	e := eval.NewStaticEvaluator()

	for i := 0; i < 3; i++ {
		valid := g.GetValidActions()
		require.NotEmpty(t, valid)
		require.NoError(t, g.DoAction(valid[0], true))
	}

	// Whichever direction the position drifted, the evaluator must at least
	// be sensitive to it: it should no longer be exactly symmetric once the
	// two players' states have diverged.
	score := e.EvaluateIntermediate(g)
	if g.Players[0] != g.Players[1] {
		assert.NotEqual(t, float32(0), score)
	}
}

func TestIsStable(t *testing.T) {
	assert.True(t, eval.NewStaticEvaluator().IsStable())
}
