package patch_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueShape(t *testing.T) {
	lib := patch.Default
	patches := lib.Patches()
	require.Len(t, patches, patch.AmountOfPatches)
	assert.Equal(t, uint8(2), patches[0].ButtonCost)
	assert.Equal(t, uint8(0), patches[32].ButtonCost)
	for id := uint8(33); id <= 37; id++ {
		assert.Equal(t, 1, patches[id].AmountOfTiles(), "special patch %d must be single-tile", id)
	}
}

func TestSpecialPatchTrackMapping(t *testing.T) {
	lib := patch.Default
	cases := map[int]uint8{26: 33, 32: 34, 38: 35, 44: 36, 50: 37}
	for trackIndex, wantID := range cases {
		assert.Equal(t, wantID, lib.SpecialPatch(trackIndex))
	}
}

func TestSpecialPatchInvalidIndexPanics(t *testing.T) {
	assert.Panics(t, func() { patch.Default.SpecialPatch(27) })
}

func TestPlacementsFitBoard(t *testing.T) {
	lib := patch.Default
	for id := uint8(0); id < patch.AmountOfPatches; id++ {
		placements := lib.Placements(id)
		require.NotEmpty(t, placements, "patch %d must have at least one placement", id)
		for _, p := range placements {
			assert.Equal(t, lib.Patch(id).AmountOfTiles(), patch.PopCount(p.Mask))
		}
	}
}

func TestGenerateMarketIsPermutationPlusStarting(t *testing.T) {
	seed := uint64(42)
	market := patch.Default.GenerateMarket(&seed)
	require.Len(t, market, patch.NormalPatches+patch.StartingPatches)
	assert.Equal(t, uint8(patch.StartingPatchID), market[len(market)-1])
	seen := make(map[uint8]bool)
	for _, id := range market[:patch.NormalPatches] {
		assert.False(t, seen[id], "duplicate patch id %d in market", id)
		seen[id] = true
		assert.True(t, id >= 1 && id <= patch.NormalPatches, "id %d out of normal range", id)
	}
}

func TestGenerateMarketDeterministicForSeed(t *testing.T) {
	seed := uint64(42)
	a := patch.Default.GenerateMarket(&seed)
	b := patch.Default.GenerateMarket(&seed)
	assert.Equal(t, a, b)
}
