package network

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
)

func TestForBoardProducesExpectedDimAndTurnScalar(t *testing.T) {
	seed := uint64(3)
	g := game.InitialState(patch.Default, &seed)

	dst := make([]float32, FeaturesDim)
	forBoard(dst, g)

	assert.Equal(t, float32(1), dst[FeaturesDim-1], "player 1 moves first in a fresh game")

	require := assert.New(t)
	require.Equal(float32(0), dst[81], "player 1 starts at position 0")
	require.Equal(float32(5.0/30.0), dst[82], "player 1 starts with 5 buttons")
}

func TestForBoardMarketOneHotMatchesMarketSlots(t *testing.T) {
	seed := uint64(3)
	g := game.InitialState(patch.Default, &seed)

	dst := make([]float32, FeaturesDim)
	forBoard(dst, g)

	marketBase := 2 * (81 + 3)
	for slot := 0; slot < 3; slot++ {
		patchID := g.MarketPatchID(uint8(slot))
		idx := marketBase + slot*patch.AmountOfPatches + int(patchID)
		assert.Equal(t, float32(1), dst[idx])
	}
}
