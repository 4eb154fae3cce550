// Package patch holds the static, process-wide catalogue of Patchwork's 38
// patches and every way each one can be legally placed on a 9x9 quilt board.
package patch

import "fmt"

// Rotation values for a Placement: one of four 90-degree rotations. The
// flipped (mirrored) form is held separately in Placement.Orientation.
const (
	Rotation0 uint8 = iota
	Rotation90
	Rotation180
	Rotation270
)

const (
	OrientationNormal  uint8 = 0
	OrientationFlipped uint8 = 1
)

const (
	// StartingPatches is the number of neutral starting patches (always 1).
	StartingPatches = 1
	// NormalPatches is the number of shuffled, purchasable patches.
	NormalPatches = 32
	// SpecialPatches is the number of single-tile bonus patches awarded on the time track.
	SpecialPatches = 5
	// AmountOfPatches is the total catalogue size.
	AmountOfPatches = StartingPatches + NormalPatches + SpecialPatches

	// StartingPatchID is the id of the neutral 1x2 starting patch.
	StartingPatchID = 0
	// BoardSize is the quilt board's side length in tiles.
	BoardSize = 9
)

// Patch is an immutable catalogue entry: a shape plus its costs.
type Patch struct {
	ID           uint8
	ButtonCost   uint8
	TimeCost     uint8
	ButtonIncome uint8
	// Tiles is the canonical shape, row-major, true where the patch covers a cell.
	Tiles [][]bool
}

// AmountOfTiles returns the number of covered cells, i.e. the patch's area.
func (p *Patch) AmountOfTiles() int {
	n := 0
	for _, row := range p.Tiles {
		for _, set := range row {
			if set {
				n++
			}
		}
	}
	return n
}

func (p *Patch) String() string {
	return fmt.Sprintf("Patch#%d{cost=%d,time=%d,income=%d,area=%d}",
		p.ID, p.ButtonCost, p.TimeCost, p.ButtonIncome, p.AmountOfTiles())
}

// Placement is one precomputed way to lay a patch on the 9x9 board: a
// specific rotation/orientation at a specific (row, col) anchor, expressed as
// an 81-bit occupancy mask (bit r*9+c).
type Placement struct {
	Row, Col       uint8
	Rotation       uint8
	Orientation    uint8
	Mask           Mask81
}

// Mask81 is an 81-bit occupancy mask for a 9x9 quilt board, stored as two
// 64-bit halves (bits 0..63 in Lo, bits 64..80 in Hi).
type Mask81 struct {
	Lo uint64
	Hi uint64 // only the low 17 bits are meaningful
}

// Bit returns the mask with only bit index i (0..80) set.
func Bit(i int) Mask81 {
	if i < 64 {
		return Mask81{Lo: 1 << uint(i)}
	}
	return Mask81{Hi: 1 << uint(i-64)}
}

func (m Mask81) And(o Mask81) Mask81 { return Mask81{m.Lo & o.Lo, m.Hi & o.Hi} }
func (m Mask81) Or(o Mask81) Mask81  { return Mask81{m.Lo | o.Lo, m.Hi | o.Hi} }
func (m Mask81) Xor(o Mask81) Mask81 { return Mask81{m.Lo ^ o.Lo, m.Hi ^ o.Hi} }
func (m Mask81) Not() Mask81         { return Mask81{^m.Lo, (^m.Hi) & 0x1FFFF} }
func (m Mask81) IsZero() bool        { return m.Lo == 0 && m.Hi == 0 }
func (m Mask81) IsSet(i int) bool {
	if i < 64 {
		return m.Lo&(1<<uint(i)) != 0
	}
	return m.Hi&(1<<uint(i-64)) != 0
}
func (m Mask81) Equal(o Mask81) bool { return m.Lo == o.Lo && m.Hi == o.Hi }
