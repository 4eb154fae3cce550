package patch

import (
	"math/bits"
	"math/rand/v2"

	"github.com/pkg/errors"
)

// Library is the process-wide, read-only catalogue of all patches and their
// precomputed placements. It is built once at init() and never mutated
// afterwards, matching the "only legitimately global entity" note in the
// design notes: a PatchLibrary shared by reference.
type Library struct {
	patches      [AmountOfPatches]Patch
	placements   [AmountOfPatches][]Placement
	specialTrack map[int]uint8 // track index -> patch id
}

// Default is the single process-wide instance, analogous to the teacher's
// backend = sync.OnceValue(...) singletons, except the data here is pure and
// needs no lazy construction: it is built directly at package init.
var Default = buildLibrary()

// Patches returns the full catalogue.
func (l *Library) Patches() [AmountOfPatches]Patch { return l.patches }

// Patch returns the patch with the given id.
func (l *Library) Patch(id uint8) *Patch { return &l.patches[id] }

// Placements returns every precomputed placement of the given patch id.
func (l *Library) Placements(id uint8) []Placement { return l.placements[id] }

// SpecialPatch maps one of the five fixed time-track indices {26,32,38,44,50}
// to its patch id. Panics on any other index, matching the original's
// programmer-error treatment of invalid special-patch indices (InvalidRange).
func (l *Library) SpecialPatch(trackIndex int) uint8 {
	id, ok := l.specialTrack[trackIndex]
	if !ok {
		panic(errors.Errorf("patch: invalid special patch track index %d", trackIndex))
	}
	return id
}

// GenerateMarket shuffles the 32 normal patches with the given PRNG source
// (nil means an unseeded, process-random shuffle) and appends the starting
// patch at the end, so it is initially "before" the neutral token when the
// market is read from position 0.
func (l *Library) GenerateMarket(seed *uint64) []uint8 {
	market := make([]uint8, 0, NormalPatches+StartingPatches)
	for id := uint8(StartingPatches); id < StartingPatches+NormalPatches; id++ {
		market = append(market, id)
	}
	var src rand.Source
	if seed != nil {
		src = rand.NewPCG(*seed, *seed^0x9E3779B97F4A7C15)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	r := rand.New(src)
	r.Shuffle(len(market), func(i, j int) { market[i], market[j] = market[j], market[i] })
	market = append(market, StartingPatchID)
	return market
}

func buildLibrary() *Library {
	l := &Library{
		specialTrack: map[int]uint8{26: 33, 32: 34, 38: 35, 44: 36, 50: 37},
	}
	data := rawPatchData()
	if len(data) != AmountOfPatches {
		panic(errors.Errorf("patch: expected %d catalogue rows, got %d", AmountOfPatches, len(data)))
	}
	for _, row := range data {
		l.patches[row.id] = Patch{
			ID:           row.id,
			ButtonCost:   row.buttonCost,
			TimeCost:     row.timeCost,
			ButtonIncome: row.buttonIncome,
			Tiles:        row.tiles,
		}
		l.placements[row.id] = computePlacements(row.tiles)
	}
	return l
}

// computePlacements enumerates every (rotation, orientation, row, col) that
// fits inside the 9x9 board, deduplicated by resulting mask.
func computePlacements(tiles [][]bool) []Placement {
	seen := make(map[Mask81]bool)
	var out []Placement
	shape := tiles
	for orientation := uint8(0); orientation < 2; orientation++ {
		rotated := shape
		for rotation := uint8(0); rotation < 4; rotation++ {
			h, w := len(rotated), len(rotated[0])
			for row := 0; row+h <= BoardSize; row++ {
				for col := 0; col+w <= BoardSize; col++ {
					mask := maskFor(rotated, row, col)
					if seen[mask] {
						continue
					}
					seen[mask] = true
					out = append(out, Placement{
						Row: uint8(row), Col: uint8(col),
						Rotation: rotation, Orientation: orientation,
						Mask: mask,
					})
				}
			}
			rotated = rotate90(rotated)
		}
		shape = flip(shape)
	}
	return out
}

func maskFor(shape [][]bool, row, col int) Mask81 {
	var m Mask81
	for r, line := range shape {
		for c, set := range line {
			if !set {
				continue
			}
			idx := (row+r)*BoardSize + (col + c)
			m = m.Or(Bit(idx))
		}
	}
	return m
}

func rotate90(shape [][]bool) [][]bool {
	h, w := len(shape), len(shape[0])
	out := make([][]bool, w)
	for i := range out {
		out[i] = make([]bool, h)
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			out[c][h-1-r] = shape[r][c]
		}
	}
	return out
}

func flip(shape [][]bool) [][]bool {
	h, w := len(shape), len(shape[0])
	out := make([][]bool, h)
	for r := 0; r < h; r++ {
		out[r] = make([]bool, w)
		for c := 0; c < w; c++ {
			out[r][c] = shape[r][w-1-c]
		}
	}
	return out
}

// PopCount counts the set bits of an 81-bit mask.
func PopCount(m Mask81) int {
	return bits.OnesCount64(m.Lo) + bits.OnesCount64(m.Hi)
}
