package players_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToPVS(t *testing.T) {
	p, err := players.New("")
	require.NoError(t, err)
	assert.Contains(t, p.String(), "PVS")
}

func TestNewPVSPlaysALegalAction(t *testing.T) {
	p, err := players.New("pvs,max_depth=1")
	require.NoError(t, err)

	seed := uint64(7)
	g := game.InitialState(patch.Default, &seed)
	chosen, _, _, err := p.Play(g)
	require.NoError(t, err)

	valid := g.GetValidActions()
	found := false
	for _, a := range valid {
		if a.Equal(chosen) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewMCTSPlaysALegalAction(t *testing.T) {
	p, err := players.New("mcts,iterations=20,root_parallelization=1")
	require.NoError(t, err)

	seed := uint64(8)
	g := game.InitialState(patch.Default, &seed)
	chosen, _, _, err := p.Play(g)
	require.NoError(t, err)

	valid := g.GetValidActions()
	found := false
	for _, a := range valid {
		if a.Equal(chosen) {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	_, err := players.New("nonsense,foo=1")
	assert.Error(t, err)
}

func TestNewRejectsUnknownParameter(t *testing.T) {
	_, err := players.New("pvs,bogus_param=1")
	assert.Error(t, err)
}

func TestNewPolicyMCTSRequiresCheckpoint(t *testing.T) {
	_, err := players.New("policymcts,batch_size=4")
	assert.Error(t, err)
}
