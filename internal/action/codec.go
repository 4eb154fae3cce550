package action

import (
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/pkg/errors"
)

// Surrogate 17-bit id layout, reserved low ids first (spec §4.3): Null,
// Phantom, then the 54 Walking starting indices, then the 81 single-tile
// SpecialPatchPlacement cells, then PatchPlacement enumerated by
// (patch_index, placement_index). MaxPlacementsPerPatch is a generous upper
// bound on how many distinct (rotation, orientation, row, col) placements
// any single patch shape can have on a 9x9 board (rotations(4) *
// orientations(2) * translations(<=81) = 648 at most before dedup), leaving
// the whole surrogate space comfortably under 2^17 = 131072.
const (
	surrogateNull    uint32 = 0
	surrogatePhantom uint32 = 1
	surrogateWalkingBase          = 2
	surrogateWalkingCount         = 54
	surrogateSpecialBase          = surrogateWalkingBase + surrogateWalkingCount   // 56
	surrogateSpecialCount         = 81
	surrogatePatchPlacementBase   = surrogateSpecialBase + surrogateSpecialCount   // 137

	MaxPlacementsPerPatch uint32 = 648
)

// AmountOfSurrogateIDs is one past the highest possible surrogate id.
const AmountOfSurrogateIDs = surrogatePatchPlacementBase + 3*MaxPlacementsPerPatch

// Surrogate returns a's flat 17-bit-range id.
func Surrogate(a Action) uint32 {
	switch a.Type {
	case Null:
		return surrogateNull
	case Phantom:
		return surrogatePhantom
	case Walking:
		return surrogateWalkingBase + uint32(a.StartingIndex)
	case SpecialPatchPlacement:
		return surrogateSpecialBase + uint32(a.Row)*patch.BoardSize + uint32(a.Col)
	case PatchPlacement:
		return surrogatePatchPlacementBase + uint32(a.PatchIndex)*MaxPlacementsPerPatch + uint32(a.PlacementIndex)
	default:
		panic(errors.Errorf("action: unknown type %v", a.Type))
	}
}

// FromSurrogate is the inverse of Surrogate. For PatchPlacement ids,
// marketPatchID resolves the patch id actually sitting at the encoded
// patch_index (0,1,2) in the current market, and lib supplies that patch's
// placement list so Row/Col/Rotation/Orientation can be filled in.
func FromSurrogate(id uint32, marketPatchID func(patchIndex uint8) uint8, lib *patch.Library) (Action, error) {
	switch {
	case id == surrogateNull:
		return NullAction, nil
	case id == surrogatePhantom:
		return PhantomAction, nil
	case id >= surrogateWalkingBase && id < surrogateSpecialBase:
		return NewWalking(uint8(id - surrogateWalkingBase)), nil
	case id >= surrogateSpecialBase && id < surrogatePatchPlacementBase:
		rel := id - surrogateSpecialBase
		row, col := uint8(rel/patch.BoardSize), uint8(rel%patch.BoardSize)
		return NewSpecialPatchPlacement(0, row, col), nil
	case id >= surrogatePatchPlacementBase && id < AmountOfSurrogateIDs:
		rel := id - surrogatePatchPlacementBase
		patchIndex := uint8(rel / MaxPlacementsPerPatch)
		placementIndex := rel % MaxPlacementsPerPatch
		patchID := marketPatchID(patchIndex)
		placements := lib.Placements(patchID)
		if int(placementIndex) >= len(placements) {
			return Action{}, errors.Errorf("action: placement index %d out of range for patch %d", placementIndex, patchID)
		}
		p := placements[placementIndex]
		return NewPatchPlacement(patchID, patchIndex, uint16(placementIndex), p.Rotation, p.Orientation, p.Row, p.Col), nil
	default:
		return Action{}, errors.Errorf("action: surrogate id %d out of range", id)
	}
}

// AmountOfNormalNaturalActionIDs is the size of the dense policy-vector
// index space, matching the original game's AMOUNT_OF_ACTIONS constant
// exactly (see SPEC_FULL.md Part D): this is the only place the natural-id
// formula is defined, adopted verbatim from the original's Action::calculate_id.
const AmountOfNormalNaturalActionIDs = 2026

const (
	naturalWalking       = 0
	naturalSpecialBase   = 1  // + row*9 + col, range [1, 81]
	naturalPlacementBase = 82 // + patch_index*9*9*4*2 + row*9*4*2 + col*4*2 + rotation*2 + orientation

	naturalRotations    = 4
	naturalOrientations = 2
)

// Natural returns a's dense natural-id, or -1 for actions that are never fed
// to the policy network (Phantom, Null): those are excluded from
// AmountOfNormalNaturalActionIDs by definition.
func Natural(a Action) int {
	switch a.Type {
	case Walking:
		return naturalWalking
	case SpecialPatchPlacement:
		return naturalSpecialBase + int(a.Row)*patch.BoardSize + int(a.Col)
	case PatchPlacement:
		return naturalPlacementBase +
			int(a.PatchIndex)*patch.BoardSize*patch.BoardSize*naturalRotations*naturalOrientations +
			int(a.Row)*patch.BoardSize*naturalRotations*naturalOrientations +
			int(a.Col)*naturalRotations*naturalOrientations +
			int(a.Rotation)*naturalOrientations +
			int(a.Orientation)
	default:
		return -1
	}
}

// FromNatural is the inverse of Natural for SpecialPatchPlacement and
// PatchPlacement ids; the Walking id carries no starting index, so it returns
// an error. marketPatchID/lib play the same role as in FromSurrogate.
func FromNatural(id int, marketPatchID func(patchIndex uint8) uint8, lib *patch.Library) (Action, error) {
	switch {
	case id == naturalWalking:
		return Action{}, errors.New("action: natural id for Walking does not carry a starting index; use the game's current Walking action directly")
	case id >= naturalSpecialBase && id < naturalPlacementBase:
		rel := id - naturalSpecialBase
		return NewSpecialPatchPlacement(0, uint8(rel/patch.BoardSize), uint8(rel%patch.BoardSize)), nil
	case id >= naturalPlacementBase && id < AmountOfNormalNaturalActionIDs:
		rel := id - naturalPlacementBase
		perPatch := patch.BoardSize * patch.BoardSize * naturalRotations * naturalOrientations
		patchIndex := rel / perPatch
		rel -= patchIndex * perPatch
		perRow := patch.BoardSize * naturalRotations * naturalOrientations
		row := rel / perRow
		rel -= row * perRow
		perCol := naturalRotations * naturalOrientations
		col := rel / perCol
		rel -= col * perCol
		rotation := rel / naturalOrientations
		orientation := rel % naturalOrientations

		patchID := marketPatchID(uint8(patchIndex))
		placements := lib.Placements(patchID)
		placementIndex := -1
		for i, p := range placements {
			if int(p.Row) == row && int(p.Col) == col && int(p.Rotation) == rotation && int(p.Orientation) == orientation {
				placementIndex = i
				break
			}
		}
		if placementIndex < 0 {
			return Action{}, errors.Errorf("action: natural id %d does not correspond to a valid placement of patch %d", id, patchID)
		}
		return NewPatchPlacement(patchID, uint8(patchIndex), uint16(placementIndex), uint8(rotation), uint8(orientation), uint8(row), uint8(col)), nil
	default:
		return Action{}, errors.Errorf("action: natural id %d out of range", id)
	}
}
