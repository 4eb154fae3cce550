// Package zobrist holds the process-wide random key table used to hash a
// GameState for the transposition table, per spec §4.8. Keys are generated
// once from a fixed seed: they only need to be internally consistent within
// (and reproducible across) a single process, not cryptographically random.
package zobrist

import (
	"math/rand/v2"

	"github.com/nicozeitz/patchwork/internal/patch"
)

const (
	maxRawPosition = 64
	balanceOffset  = 300
	balanceRange   = 601
	incomeRange    = 64
	// maxMarketSlots comfortably covers the market's largest possible size
	// (32 shuffled patches + the starting patch = 33).
	maxMarketSlots = 40
)

// Table is the full set of random keys. Every component of GameState that
// feeds into equality (see spec §4.8's "two states with the same Zobrist hash
// must be move-for-move equivalent" requirement) has a corresponding entry
// here.
type Table struct {
	QuiltBit           [2][81]uint64
	Position           [2][maxRawPosition]uint64
	ButtonBalance      [2][balanceRange]uint64
	ButtonIncome       [2][incomeRange]uint64
	MarketSlot         [maxMarketSlots][patch.AmountOfPatches]uint64
	SpecialPatchAlive  [5]uint64
	CurrentPlayerTwo   uint64
	TurnType           [4]uint64
	SpecialTileClaimed [2]uint64
	FirstToGoal        [2]uint64
}

// Default is the single process-wide key table.
var Default = buildTable()

func buildTable() *Table {
	r := rand.New(rand.NewPCG(0x9E3779B97F4A7C15, 0xBF58476D1CE4E5B9))
	t := &Table{}
	for p := 0; p < 2; p++ {
		for i := range t.QuiltBit[p] {
			t.QuiltBit[p][i] = r.Uint64()
		}
		for i := range t.Position[p] {
			t.Position[p][i] = r.Uint64()
		}
		for i := range t.ButtonBalance[p] {
			t.ButtonBalance[p][i] = r.Uint64()
		}
		for i := range t.ButtonIncome[p] {
			t.ButtonIncome[p][i] = r.Uint64()
		}
		t.SpecialTileClaimed[p] = r.Uint64()
		t.FirstToGoal[p] = r.Uint64()
	}
	for s := range t.MarketSlot {
		for id := range t.MarketSlot[s] {
			t.MarketSlot[s][id] = r.Uint64()
		}
	}
	for i := range t.SpecialPatchAlive {
		t.SpecialPatchAlive[i] = r.Uint64()
	}
	t.CurrentPlayerTwo = r.Uint64()
	for i := range t.TurnType {
		t.TurnType[i] = r.Uint64()
	}
	return t
}

// PositionIndex clamps a raw (possibly beyond-53) track position into the
// table's range.
func PositionIndex(position uint8) int {
	idx := int(position)
	if idx >= maxRawPosition {
		idx = maxRawPosition - 1
	}
	return idx
}

// BalanceIndex clamps a signed button balance into the table's range.
func BalanceIndex(balance int32) int {
	idx := int(balance) + balanceOffset
	if idx < 0 {
		idx = 0
	}
	if idx >= balanceRange {
		idx = balanceRange - 1
	}
	return idx
}

// IncomeIndex clamps accumulated per-turn button income into the table's range.
func IncomeIndex(income uint8) int {
	idx := int(income)
	if idx >= incomeRange {
		idx = incomeRange - 1
	}
	return idx
}

// QuiltBitsXOR returns the XOR of player's tile keys for every bit set in
// mask: XORing this into a running hash both adds (0->1) and removes (1->0)
// those exact tiles, since XOR is its own inverse.
func (t *Table) QuiltBitsXOR(player int, mask patch.Mask81) uint64 {
	var h uint64
	for i := 0; i < 81; i++ {
		if !mask.And(patch.Bit(i)).IsZero() {
			h ^= t.QuiltBit[player][i]
		}
	}
	return h
}

// MarketContribution is the XOR of every (slot, patchID) key for the given
// market ordering. A single patch purchase reorders most of the market at
// once (rotate-left then pop the last slot), so the hash is recomputed
// wholesale here rather than incrementally toggled slot by slot.
func (t *Table) MarketContribution(market []uint8) uint64 {
	var h uint64
	for slot, id := range market {
		if slot >= len(t.MarketSlot) {
			break
		}
		h ^= t.MarketSlot[slot][id]
	}
	return h
}
