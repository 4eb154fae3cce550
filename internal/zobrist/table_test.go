package zobrist_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/nicozeitz/patchwork/internal/zobrist"
	"github.com/stretchr/testify/assert"
)

func TestTableKeysAreDistinct(t *testing.T) {
	seen := make(map[uint64]bool)
	dup := 0
	record := func(k uint64) {
		if seen[k] {
			dup++
		}
		seen[k] = true
	}
	tbl := zobrist.Default
	for p := 0; p < 2; p++ {
		for _, k := range tbl.QuiltBit[p] {
			record(k)
		}
		for _, k := range tbl.Position[p] {
			record(k)
		}
	}
	record(tbl.CurrentPlayerTwo)
	assert.Zero(t, dup, "zobrist key table should not produce accidental collisions")
}

func TestQuiltBitsXORTogglesCleanly(t *testing.T) {
	tbl := zobrist.Default
	mask := patch.Bit(0).Or(patch.Bit(5))
	h := tbl.QuiltBitsXOR(0, mask)
	// XORing the same mask's keys back in removes exactly what was added.
	assert.Zero(t, h^tbl.QuiltBitsXOR(0, mask))
}

func TestMarketContributionOrderSensitive(t *testing.T) {
	tbl := zobrist.Default
	a := tbl.MarketContribution([]uint8{1, 2, 3})
	b := tbl.MarketContribution([]uint8{3, 2, 1})
	assert.NotEqual(t, a, b)
}
