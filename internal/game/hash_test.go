package game

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMatchesFromScratchRecompute(t *testing.T) {
	seed := uint64(7)
	g := InitialState(patch.Default, &seed)
	assert.Equal(t, computeHashFromScratch(g), g.Hash)

	for i := 0; i < 10; i++ {
		valid := g.GetValidActions()
		require.NotEmpty(t, valid)
		a := valid[len(valid)/2]
		require.NoError(t, g.DoAction(a, true))
		assert.Equal(t, computeHashFromScratch(g), g.Hash, "hash must stay in sync with the position after DoAction #%d", i)
	}
}

func TestHashChangesAcrossDistinctPositions(t *testing.T) {
	seed := uint64(7)
	g := InitialState(patch.Default, &seed)
	initial := g.Hash
	valid := g.GetValidActions()
	require.NotEmpty(t, valid)
	require.NoError(t, g.DoAction(valid[0], true))
	assert.NotEqual(t, initial, g.Hash)
}
