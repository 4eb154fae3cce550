package game

import (
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/board"
)

// GetValidActions enumerates every legal action in the current position, per
// spec §4.4: a single Phantom action while a phantom turn is pending, every
// empty tile while a special-patch placement is pending, and otherwise
// Walking plus every (patch, placement) pair affordable and purchasable from
// the first three market slots.
func (g *GameState) GetValidActions() []action.Action {
	switch {
	case g.TurnType.IsPhantom():
		return []action.Action{action.PhantomAction}

	case g.TurnType == board.SpecialPatchPlacement:
		idx := g.currentIdx()
		clamped := g.Players[idx].ClampedPosition()
		trackIdx := g.Time.GetSpecialPatchBeforePosition(clamped)
		if trackIdx < 0 {
			return nil
		}
		patchID := g.Library.SpecialPatch(int(board.TrackIndexToPosition(trackIdx)))
		cells := g.Players[idx].Quilt.ValidSingleTilePlacements()
		actions := make([]action.Action, 0, len(cells))
		for _, rc := range cells {
			actions = append(actions, action.NewSpecialPatchPlacement(patchID, rc[0], rc[1]))
		}
		return actions

	default:
		idx := g.currentIdx()
		actions := []action.Action{action.NewWalking(g.Players[idx].ClampedPosition())}
		limit := minInt(3, len(g.Market))
		for i := 0; i < limit; i++ {
			patchID := g.Market[i]
			p := g.Library.Patch(patchID)
			if int32(p.ButtonCost) > g.Players[idx].ButtonBalance {
				continue
			}
			placements := g.Library.Placements(patchID)
			for _, pidx := range g.Players[idx].Quilt.ValidPlacements(g.Library, patchID) {
				pl := placements[pidx]
				actions = append(actions, action.NewPatchPlacement(patchID, uint8(i), uint16(pidx), pl.Rotation, pl.Orientation, pl.Row, pl.Col))
			}
		}
		return actions
	}
}

// IsNormalTurn reports whether a Walking/PatchPlacement action is legal right
// now, as opposed to a pending SpecialPatchPlacement or phantom turn.
func (g *GameState) IsNormalTurn() bool { return g.TurnType == board.Normal }
