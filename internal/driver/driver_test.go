package driver_test

import (
	"context"
	"testing"

	"github.com/nicozeitz/patchwork/internal/driver"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/players"
	"github.com/stretchr/testify/require"
)

func TestRunDrivesAMatchToTermination(t *testing.T) {
	p1, err := players.New("pvs,max_depth=1")
	require.NoError(t, err)
	p2, err := players.New("mcts,iterations=16,root_parallelization=1")
	require.NoError(t, err)

	seed := uint64(42)
	g := game.InitialState(patch.Default, &seed)

	outcome, err := driver.Run(context.Background(), g, [2]players.Player{p1, p2}, driver.Options{MaxMoves: 400})
	require.NoError(t, err)
	require.True(t, g.IsTerminated() || outcome.Moves == 400)
	require.Len(t, []int32{outcome.Scores[0], outcome.Scores[1]}, 2)
}

func TestRunRespectsMaxMoves(t *testing.T) {
	p1, err := players.New("pvs,max_depth=1")
	require.NoError(t, err)

	seed := uint64(1)
	g := game.InitialState(patch.Default, &seed)

	outcome, err := driver.Run(context.Background(), g, [2]players.Player{p1, p1}, driver.Options{MaxMoves: 1})
	require.NoError(t, err)
	require.Equal(t, 1, outcome.Moves)
}

func TestRunSurfacesCancellation(t *testing.T) {
	p1, err := players.New("pvs,max_depth=1")
	require.NoError(t, err)

	seed := uint64(2)
	g := game.InitialState(patch.Default, &seed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = driver.Run(ctx, g, [2]players.Player{p1, p1}, driver.Options{})
	require.Error(t, err)
}
