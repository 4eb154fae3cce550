// Package board implements the two board-shaped pieces of Patchwork state
// that sit directly above internal/patch: the per-player QuiltBoard and the
// shared TimeBoard, plus the status-flag byte and turn-type state machine
// that GameState layers on top of them.
package board

import "github.com/nicozeitz/patchwork/internal/patch"

// FullMask is the 81-bit mask with every tile set.
var FullMask = patch.Mask81{Lo: ^uint64(0), Hi: 0x1FFFF}

// sevenBySevenMasks holds every aligned 7x7 sub-square mask (there are
// (9-7+1)^2 = 9 of them), precomputed once.
var sevenBySevenMasks = computeSevenBySevenMasks()

func computeSevenBySevenMasks() []patch.Mask81 {
	var masks []patch.Mask81
	for row := 0; row+7 <= patch.BoardSize; row++ {
		for col := 0; col+7 <= patch.BoardSize; col++ {
			var m patch.Mask81
			for r := 0; r < 7; r++ {
				for c := 0; c < 7; c++ {
					m = m.Or(patch.Bit((row + r) * patch.BoardSize + (col + c)))
				}
			}
			masks = append(masks, m)
		}
	}
	return masks
}

// QuiltBoard is a player's 9x9 patchwork, per spec §4.2: a packed 81-bit
// bitmap plus the accumulated button income of every patch placed on it.
type QuiltBoard struct {
	Tiles        patch.Mask81
	ButtonIncome uint8
}

// Place sets every bit in mask. The caller is responsible for having checked
// CanPlace and for updating ButtonIncome separately (it is not derivable from
// the mask alone).
func (q *QuiltBoard) Place(mask patch.Mask81) {
	q.Tiles = q.Tiles.Or(mask)
}

// UndoPlace clears every bit in mask; the exact inverse of Place.
func (q *QuiltBoard) UndoPlace(mask patch.Mask81) {
	q.Tiles = q.Tiles.And(mask.Not())
}

// CanPlace reports whether mask does not overlap any already-placed tile.
func (q *QuiltBoard) CanPlace(mask patch.Mask81) bool {
	return q.Tiles.And(mask).IsZero()
}

// IsFull reports whether every one of the 81 tiles is covered.
func (q *QuiltBoard) IsFull() bool {
	return q.Tiles.Equal(FullMask)
}

// EmptyTileCount returns the number of uncovered tiles.
func (q *QuiltBoard) EmptyTileCount() int {
	return 81 - patch.PopCount(q.Tiles)
}

// Score implements spec §4.2: -2 per empty tile.
func (q *QuiltBoard) Score() int32 {
	return -2 * int32(q.EmptyTileCount())
}

// IsSpecialTileConditionReached reports whether some aligned 7x7 sub-square
// is fully covered.
func (q *QuiltBoard) IsSpecialTileConditionReached() bool {
	for _, m := range sevenBySevenMasks {
		if q.Tiles.And(m).Equal(m) {
			return true
		}
	}
	return false
}

// ValidPlacements returns the index into lib.Placements(patchID) of every
// precomputed placement that fits on the current board. Only the indices are
// returned, not the masks; a mask is read from the placement at that index.
func (q *QuiltBoard) ValidPlacements(lib *patch.Library, patchID uint8) []int {
	placements := lib.Placements(patchID)
	var valid []int
	for i, p := range placements {
		if q.CanPlace(p.Mask) {
			valid = append(valid, i)
		}
	}
	return valid
}

// ValidSingleTilePlacements returns the (row, col) of every empty tile, used
// when placing a special 1x1 patch awarded from the time track.
func (q *QuiltBoard) ValidSingleTilePlacements() [][2]uint8 {
	var out [][2]uint8
	for r := 0; r < patch.BoardSize; r++ {
		for c := 0; c < patch.BoardSize; c++ {
			idx := r*patch.BoardSize + c
			if q.Tiles.And(patch.Bit(idx)).IsZero() {
				out = append(out, [2]uint8{uint8(r), uint8(c)})
			}
		}
	}
	return out
}

// Clone returns a value copy (QuiltBoard has no pointer fields, so this is
// just a reminder that callers should copy, not alias, when snapshotting).
func (q QuiltBoard) Clone() QuiltBoard { return q }
