package policymcts_test

import (
	"context"
	"testing"
	"time"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/searchers/policymcts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformNetwork is a stub satisfying eval.Network for tests: every legal
// action gets an equal share of probability mass and the value head always
// reports a draw. It exercises the engine's masking/renormalisation and
// mini-batch plumbing without depending on a trained GoMLX model.
type uniformNetwork struct{}

func (uniformNetwork) String() string { return "uniformNetwork" }

func (uniformNetwork) EvaluateBatch(boards []*game.GameState) ([]float32, [][action.AmountOfNormalNaturalActionIDs]float32) {
	values := make([]float32, len(boards))
	policies := make([][action.AmountOfNormalNaturalActionIDs]float32, len(boards))
	for i, b := range boards {
		values[i] = 0
		actions := b.GetValidActions()
		var p [action.AmountOfNormalNaturalActionIDs]float32
		for _, a := range actions {
			if id := action.Natural(a); id >= 0 {
				p[id] = 1
			}
		}
		policies[i] = p
	}
	return values, policies
}

var _ eval.Network = uniformNetwork{}

func TestSearchReturnsALegalActionPerGame(t *testing.T) {
	seed1, seed2 := uint64(1), uint64(2)
	games := []*game.GameState{
		game.InitialState(patch.Default, &seed1),
		game.InitialState(patch.Default, &seed2),
	}

	engine := policymcts.New(uniformNetwork{}, policymcts.Options{BatchSize: 4, Parallelization: 2})
	actions, policies, err := engine.Search(context.Background(), games, policymcts.EndCondition{MaxIterations: 20}, false)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	require.Len(t, policies, 2)

	for i, g := range games {
		valid := g.GetValidActions()
		found := false
		for _, a := range valid {
			if a.Equal(actions[i]) {
				found = true
				break
			}
		}
		assert.True(t, found, "game %d returned an illegal action", i)
	}
}

func TestSearchDoesNotMutateInputGames(t *testing.T) {
	seed := uint64(3)
	games := []*game.GameState{game.InitialState(patch.Default, &seed)}
	beforeHash := games[0].Hash

	engine := policymcts.New(uniformNetwork{}, policymcts.Options{BatchSize: 2, Parallelization: 1})
	_, _, err := engine.Search(context.Background(), games, policymcts.EndCondition{MaxIterations: 10}, false)
	require.NoError(t, err)

	assert.Equal(t, beforeHash, games[0].Hash)
}

func TestSearchRespectsATimeBudget(t *testing.T) {
	seed := uint64(4)
	games := []*game.GameState{game.InitialState(patch.Default, &seed)}

	engine := policymcts.New(uniformNetwork{}, policymcts.Options{BatchSize: 4, Parallelization: 2})
	start := time.Now()
	_, _, err := engine.Search(context.Background(), games, policymcts.EndCondition{MaxTime: 50 * time.Millisecond, SafetyMargin: 10 * time.Millisecond}, false)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSearchWithDirichletNoiseStillReturnsLegalAction(t *testing.T) {
	seed := uint64(5)
	games := []*game.GameState{game.InitialState(patch.Default, &seed)}

	engine := policymcts.New(uniformNetwork{}, policymcts.Options{
		BatchSize: 4, Parallelization: 1,
		DirichletEpsilon: 0.25, DirichletAlpha: 0.3,
	})
	actions, _, err := engine.Search(context.Background(), games, policymcts.EndCondition{MaxIterations: 10}, true)
	require.NoError(t, err)

	valid := games[0].GetValidActions()
	found := false
	for _, a := range valid {
		if a.Equal(actions[0]) {
			found = true
			break
		}
	}
	assert.True(t, found)
}
