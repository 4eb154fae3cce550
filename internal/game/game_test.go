package game_test

import (
	"reflect"
	"testing"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) *game.GameState {
	t.Helper()
	seed := uint64(42)
	return game.InitialState(patch.Default, &seed)
}

func TestInitialState(t *testing.T) {
	g := newGame(t)
	require.False(t, g.IsTerminated())
	assert.Equal(t, game.StartingButtonBalance, g.Players[0].ButtonBalance)
	assert.Equal(t, game.StartingButtonBalance, g.Players[1].ButtonBalance)
	assert.Equal(t, uint8(0), g.Players[0].Position)
	assert.Equal(t, uint8(0), g.Players[1].Position)
}

// S1 from the acceptance scenarios: a Walking action that lands the mover
// exactly on the other player's position plus one earns one button per
// square up to the other player's position, plus a one-button bonus for not
// overshooting the track.
func TestWalkingEarnsButtonIncome(t *testing.T) {
	g := newGame(t)
	valid := g.GetValidActions()
	var walk action.Action
	found := false
	for _, a := range valid {
		if a.IsWalking() {
			walk = a
			found = true
			break
		}
	}
	require.True(t, found)

	before := g.Players[0].ButtonBalance
	require.NoError(t, g.DoAction(walk, true))
	// Both players started at 0, so Walking is a 1-square advance, earning 0
	// buttons for squares up to the other player plus the 1-button
	// no-overshoot bonus.
	assert.Equal(t, before+1, g.Players[0].ButtonBalance)
}

func TestDoUndoIsIdentity(t *testing.T) {
	g := newGame(t)

	type step struct {
		a     action.Action
		force bool
	}
	var steps []step
	for i := 0; i < 6; i++ {
		valid := g.GetValidActions()
		require.NotEmpty(t, valid)
		a := valid[len(valid)/2]
		before := snapshot(g)
		require.NoError(t, g.DoAction(a, true))
		steps = append(steps, step{a, true})
		assert.False(t, reflect.DeepEqual(before, snapshot(g)), "state should change after DoAction")
	}

	for i := len(steps) - 1; i >= 0; i-- {
		require.NoError(t, g.UndoAction(steps[i].a))
	}

	fresh := newGame(t)
	assert.True(t, reflect.DeepEqual(snapshot(fresh), snapshot(g)))
	assert.Equal(t, 0, g.HistoryDepth())
}

func TestUndoWithoutHistoryFails(t *testing.T) {
	g := newGame(t)
	err := g.UndoAction(action.PhantomAction)
	require.Error(t, err)
	var gameErr *game.Error
	require.ErrorAs(t, err, &gameErr)
	assert.Equal(t, game.GameAlreadyInitial, gameErr.Kind)
}

// S5: driving the game to completion (always taking the first valid action,
// forcing a player switch every time) must terminate within a bounded number
// of actions and leave both players at the end of the track.
func TestGameReachesTermination(t *testing.T) {
	g := newGame(t)
	for i := 0; i < 100000 && !g.IsTerminated(); i++ {
		valid := g.GetValidActions()
		require.NotEmpty(t, valid)
		require.NoError(t, g.DoAction(valid[0], true))
	}
	require.True(t, g.IsTerminated())
	assert.GreaterOrEqual(t, g.Players[0].Position, uint8(53))
	assert.GreaterOrEqual(t, g.Players[1].Position, uint8(53))
}

func snapshot(g *game.GameState) game.GameState { return *g }
