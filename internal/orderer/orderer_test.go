package orderer_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/orderer"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPutsHashMoveFirst(t *testing.T) {
	seed := uint64(5)
	g := game.InitialState(patch.Default, &seed)
	valid := g.GetValidActions()
	require.True(t, len(valid) > 1)

	hashMove := valid[len(valid)-1]
	o := orderer.NewStaticOrderer(eval.NewStaticEvaluator())
	actions := append([]action.Action(nil), valid...)
	o.Order(g, actions, hashMove)

	assert.True(t, actions[0].Equal(hashMove))
}

func TestOrderIsAPermutation(t *testing.T) {
	seed := uint64(5)
	g := game.InitialState(patch.Default, &seed)
	valid := g.GetValidActions()
	require.NotEmpty(t, valid)

	o := orderer.NewStaticOrderer(eval.NewStaticEvaluator())
	actions := append([]action.Action(nil), valid...)
	o.Order(g, actions, action.NullAction)

	assert.ElementsMatch(t, valid, actions, "ordering must be a permutation, not a filter")
}
