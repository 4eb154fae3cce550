package game

import (
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/board"
	"github.com/nicozeitz/patchwork/internal/patch"
)

// DoAction applies a to the current position, mutating g in place. When
// forcePlayerSwitch is true, a phantom turn is injected instead of leaving
// the same player to move again (search engines pass true to guarantee every
// DoAction call changes whose turn it is, so iterative deepening and MCTS
// don't need special-case "same player again" handling; see spec §4.5).
//
// The case order and arithmetic below follow the original engine's
// do_action move-by-move (see SPEC_FULL.md Part D): read the acting player's
// raw (possibly >53) position and the other player's raw position, compute
// time_cost and any button income, advance the mover, then resolve
// button-income triggers and special-patch squares crossed along the way
// before deciding whether to hand the turn to the other player.
func (g *GameState) DoAction(a action.Action, forcePlayerSwitch bool) error {
	rec := undoRecord{action: a, prevFlags: g.Flags, prevTurnType: g.TurnType, prevHash: g.Hash, snapshot: g.snapshotMutable()}

	switch {
	case a.IsPhantom():
		if !forcePlayerSwitch {
			g.history = append(g.history, rec)
			return nil
		}
		switch g.TurnType {
		case board.NormalPhantom:
			g.TurnType = board.Normal
		case board.SpecialPhantom:
			g.TurnType = board.SpecialPatchPlacement
		default:
			return newError(InvalidAction, "do_action: phantom action requires a pending phantom turn, got %v", g.TurnType)
		}
		g.switchPlayer()
		g.Hash = computeHashFromScratch(g)
		g.history = append(g.history, rec)
		return nil

	case a.IsSpecialPatchPlacement():
		if g.TurnType != board.SpecialPatchPlacement {
			return newError(InvalidAction, "do_action: special patch placement requires a pending SpecialPatchPlacement turn, got %v", g.TurnType)
		}
		current := g.Flags.CurrentPlayer()
		idx := current - 1
		clamped := g.Players[idx].ClampedPosition()
		trackIdx := g.Time.GetSpecialPatchBeforePosition(clamped)
		if trackIdx < 0 {
			return newError(InvalidRange, "do_action: no alive special patch at or before position %d", clamped)
		}
		mask := patch.Bit(int(a.Row)*patch.BoardSize + int(a.Col))
		if !g.Players[idx].Quilt.CanPlace(mask) {
			return newError(InvalidAction, "do_action: tile (%d,%d) is already covered", a.Row, a.Col)
		}
		g.Players[idx].Quilt.Place(mask)
		if g.Players[idx].Quilt.IsSpecialTileConditionReached() && !g.Flags.IsSpecialTileConditionReached() {
			g.Flags = g.Flags.WithSpecialTileClaimed(current)
		}
		g.Time.UnsetSpecialPatch(trackIdx)
		g.switchPlayer()
		g.TurnType = board.Normal
		g.Hash = computeHashFromScratch(g)
		g.history = append(g.history, rec)
		return nil

	case a.IsWalking(), a.IsPatchPlacement():
		return g.doNormalAction(a, forcePlayerSwitch, rec)

	default:
		return newError(InvalidAction, "do_action: action %v cannot be applied to a %v turn", a.Type, g.TurnType)
	}
}

func (g *GameState) doNormalAction(a action.Action, forcePlayerSwitch bool, rec undoRecord) error {
	if g.TurnType != board.Normal {
		return newError(InvalidAction, "do_action: %v requires a Normal turn, got %v", a.Type, g.TurnType)
	}
	current := g.Flags.CurrentPlayer()
	idx := current - 1
	other := 1 - idx
	nowCurrentPos := g.Players[idx].Position
	nowOtherPos := g.Players[other].Position

	var timeCost uint8
	switch {
	case a.IsWalking():
		if nowOtherPos < nowCurrentPos {
			return newError(InvalidAction, "do_action: Walking is only legal while the current player is not ahead of the other")
		}
		timeCost = nowOtherPos - nowCurrentPos + 1
		buttonIncome := int32(minU8(nowOtherPos, board.MaxPosition)) - int32(nowCurrentPos)
		if uint16(nowCurrentPos)+uint16(timeCost) > uint16(board.MaxPosition) {
			g.Players[idx].ButtonBalance += buttonIncome
		} else {
			g.Players[idx].ButtonBalance += buttonIncome + 1
		}

	case a.IsPatchPlacement():
		if int(a.PatchIndex) >= len(g.Market) {
			return newError(InvalidRange, "do_action: patch index %d out of range for market of size %d", a.PatchIndex, len(g.Market))
		}
		if g.Market[a.PatchIndex] != a.PatchID {
			return newError(InvalidAction, "do_action: action names patch %d but market slot %d holds patch %d", a.PatchID, a.PatchIndex, g.Market[a.PatchIndex])
		}
		p := g.Library.Patch(a.PatchID)
		if int32(p.ButtonCost) > g.Players[idx].ButtonBalance {
			return newError(InvalidAction, "do_action: insufficient button balance for patch %d", a.PatchID)
		}
		placements := g.Library.Placements(a.PatchID)
		if int(a.PlacementIndex) >= len(placements) {
			return newError(InvalidRange, "do_action: placement index %d out of range for patch %d", a.PlacementIndex, a.PatchID)
		}
		placement := placements[a.PlacementIndex]
		if !g.Players[idx].Quilt.CanPlace(placement.Mask) {
			return newError(InvalidAction, "do_action: patch %d cannot be placed at row=%d col=%d", a.PatchID, placement.Row, placement.Col)
		}

		rotateLeft(g.Market, int(a.PatchIndex)+1)
		g.Market = g.Market[:len(g.Market)-1]
		g.Players[idx].ButtonBalance -= int32(p.ButtonCost)
		g.Players[idx].Quilt.Place(placement.Mask)
		g.Players[idx].Quilt.ButtonIncome += p.ButtonIncome
		if g.Players[idx].Quilt.IsSpecialTileConditionReached() && !g.Flags.IsSpecialTileConditionReached() {
			g.Flags = g.Flags.WithSpecialTileClaimed(current)
		}
		timeCost = p.TimeCost
	}

	newPosWide := uint16(nowCurrentPos) + uint16(timeCost)
	g.Players[idx].Position = uint8(newPosWide)
	oldClamped := board.Clamp(uint16(nowCurrentPos))
	nextClamped := board.Clamp(newPosWide)
	if nextClamped >= board.MaxPosition && !g.Flags.IsFirstToGoalDecided() {
		g.Flags = g.Flags.WithFirstToGoal(current)
	}
	g.Time.MovePlayerPosition(idx, oldClamped, nextClamped)

	if lo := oldClamped + 1; lo <= nextClamped {
		hi := nextClamped
		if g.Time.IsButtonIncomeTriggerInRange(lo, hi) {
			g.Players[idx].ButtonBalance += int32(g.Players[idx].Quilt.ButtonIncome)
		}
		if trackIdx := g.Time.GetSingleSpecialPatchInRange(lo, hi); trackIdx >= 0 {
			if g.Players[idx].Quilt.IsFull() {
				g.Time.UnsetSpecialPatch(trackIdx)
				g.switchPlayer()
				g.Hash = computeHashFromScratch(g)
				g.history = append(g.history, rec)
				return nil
			}
			if forcePlayerSwitch {
				g.TurnType = board.SpecialPhantom
				g.switchPlayer()
			} else {
				g.TurnType = board.SpecialPatchPlacement
			}
			g.Hash = computeHashFromScratch(g)
			g.history = append(g.history, rec)
			return nil
		}
	}

	// nowOtherPos is intentionally compared raw (unclamped): the other
	// player's own last move may itself have overshot past 53, and whether
	// the mover has now caught up to *that* raw value is what decides who
	// moves next.
	if nextClamped > nowOtherPos {
		g.switchPlayer()
	} else if forcePlayerSwitch {
		g.TurnType = board.NormalPhantom
		g.switchPlayer()
	}
	g.Hash = computeHashFromScratch(g)
	g.history = append(g.history, rec)
	return nil
}

// UndoAction reverses the most recently applied action, which must be
// exactly equal to it; this cheap check catches callers whose search stack
// has gotten out of sync with the position.
func (g *GameState) UndoAction(a action.Action) error {
	if len(g.history) == 0 {
		return newError(GameAlreadyInitial, "undo_action: no action to undo")
	}
	rec := g.history[len(g.history)-1]
	if !rec.action.Equal(a) {
		return newError(InvalidAction, "undo_action: %v does not match the last applied action %v", a, rec.action)
	}
	g.history = g.history[:len(g.history)-1]
	if len(g.history) == 0 {
		// Fully unwound: match a freshly constructed state's nil history.
		g.history = nil
	}
	g.Flags = rec.prevFlags
	g.TurnType = rec.prevTurnType
	g.Hash = rec.prevHash
	g.restoreMutable(rec.snapshot)
	return nil
}

// HistoryDepth returns how many actions are currently undoable, mostly for
// tests and engine assertions.
func (g *GameState) HistoryDepth() int { return len(g.history) }
