package notation_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/notation"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameNotationRoundTripsAtInitialState(t *testing.T) {
	seed := uint64(42)
	g := game.InitialState(patch.Default, &seed)

	s := notation.SerializeGame(g)
	parsed, err := notation.ParseGame(s, patch.Default, false)
	require.NoError(t, err)

	assert.Equal(t, g.Players, parsed.Players)
	assert.Equal(t, g.Market, parsed.Market)
	assert.Equal(t, g.Flags, parsed.Flags)
}

func TestGameNotationRoundTripsAfterSomeMoves(t *testing.T) {
	seed := uint64(7)
	g := game.InitialState(patch.Default, &seed)

	for i := 0; i < 5 && !g.IsTerminated(); i++ {
		valid := g.GetValidActions()
		require.NotEmpty(t, valid)
		require.NoError(t, g.DoAction(valid[0], true))
	}

	s := notation.SerializeGame(g)
	parsed, err := notation.ParseGame(s, patch.Default, true)
	require.NoError(t, err)
	assert.Equal(t, g.Players, parsed.Players)
	assert.Equal(t, g.Market, parsed.Market)
}

func TestGameNotationRejectsPhantomInStrictMode(t *testing.T) {
	seed := uint64(1)
	g := game.InitialState(patch.Default, &seed)
	s := notation.SerializeGame(g) + " (Phantom)"

	_, err := notation.ParseGame(s, patch.Default, false)
	assert.Error(t, err)

	_, err = notation.ParseGame(s, patch.Default, true)
	assert.NoError(t, err)
}

func TestActionNotationRoundTrips(t *testing.T) {
	cases := []action.Action{
		action.NullAction,
		action.NewWalking(12),
		action.NewSpecialPatchPlacement(34, 3, 4),
	}
	for _, a := range cases {
		s := notation.SerializeAction(a)
		parsed, err := notation.ParseAction(s, patch.Default)
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestActionNotationRoundTripsPatchPlacement(t *testing.T) {
	seed := uint64(3)
	g := game.InitialState(patch.Default, &seed)

	var placement action.Action
	for _, a := range g.GetValidActions() {
		if a.IsPatchPlacement() {
			placement = a
			break
		}
	}
	require.True(t, placement.IsPatchPlacement())

	s := notation.SerializeAction(placement)
	parsed, err := notation.ParseAction(s, patch.Default)
	require.NoError(t, err)
	assert.Equal(t, placement, parsed)
}

func TestParseActionRejectsGarbage(t *testing.T) {
	_, err := notation.ParseAction("Z1/2/3", patch.Default)
	assert.Error(t, err)
}
