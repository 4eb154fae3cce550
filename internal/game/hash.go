package game

import "github.com/nicozeitz/patchwork/internal/zobrist"

// computeHashFromScratch rebuilds a GameState's Zobrist hash directly from
// the key table by scanning the whole position. DoAction calls this once per
// move rather than threading incremental XOR toggles through every branch:
// see DESIGN.md for the rationale (the same "favor a simple, obviously
// correct implementation over a hand-rolled incremental one" tradeoff as
// UndoAction's snapshot restore).
func computeHashFromScratch(g *GameState) uint64 {
	t := zobrist.Default
	var h uint64
	for i := 0; i < 2; i++ {
		player := i + 1
		h ^= t.QuiltBitsXOR(i, g.Players[i].Quilt.Tiles)
		h ^= t.Position[i][zobrist.PositionIndex(g.Players[i].Position)]
		h ^= t.ButtonBalance[i][zobrist.BalanceIndex(g.Players[i].ButtonBalance)]
		h ^= t.ButtonIncome[i][zobrist.IncomeIndex(g.Players[i].Quilt.ButtonIncome)]
		if g.Flags.HasSpecialTile(player) {
			h ^= t.SpecialTileClaimed[i]
		}
		if g.Flags.FirstToGoal(player) {
			h ^= t.FirstToGoal[i]
		}
	}
	h ^= t.MarketContribution(g.Market)
	for i := 0; i < 5; i++ {
		if g.Time.IsSpecialPatchAlive(i) {
			h ^= t.SpecialPatchAlive[i]
		}
	}
	if g.Flags.CurrentPlayer() == 2 {
		h ^= t.CurrentPlayerTwo
	}
	h ^= t.TurnType[g.TurnType]
	return h
}
