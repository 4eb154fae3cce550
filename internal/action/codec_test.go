package action_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marketAllPatch5(patchIndex uint8) uint8 { return 5 }

func TestSurrogateRoundTripWalkingPhantomNull(t *testing.T) {
	for _, a := range []action.Action{
		action.NullAction,
		action.PhantomAction,
		action.NewWalking(0),
		action.NewWalking(53),
		action.NewSpecialPatchPlacement(33, 4, 7),
	} {
		id := action.Surrogate(a)
		got, err := action.FromSurrogate(id, marketAllPatch5, patch.Default)
		require.NoError(t, err)
		assert.Equal(t, a.Type, got.Type)
	}
}

func TestSurrogateRoundTripPatchPlacement(t *testing.T) {
	lib := patch.Default
	for _, placement := range lib.Placements(5) {
		for _, idx := range []uint8{0, 1, 2} {
			a := action.NewPatchPlacement(5, idx, 0, placement.Rotation, placement.Orientation, placement.Row, placement.Col)
			// Find this placement's real index so Surrogate/Natural agree with the library.
			placements := lib.Placements(5)
			for i, p := range placements {
				if p == placement {
					a.PlacementIndex = uint16(i)
					break
				}
			}
			id := action.Surrogate(a)
			got, err := action.FromSurrogate(id, marketAllPatch5, lib)
			require.NoError(t, err)
			assert.Equal(t, a.PatchID, got.PatchID)
			assert.Equal(t, a.Row, got.Row)
			assert.Equal(t, a.Col, got.Col)
			assert.Equal(t, a.Rotation, got.Rotation)
			assert.Equal(t, a.Orientation, got.Orientation)
		}
	}
}

func TestNaturalRoundTripPatchPlacement(t *testing.T) {
	lib := patch.Default
	placements := lib.Placements(5)
	for i, p := range placements {
		a := action.NewPatchPlacement(5, 1, uint16(i), p.Rotation, p.Orientation, p.Row, p.Col)
		id := action.Natural(a)
		require.GreaterOrEqual(t, id, 0)
		require.Less(t, id, action.AmountOfNormalNaturalActionIDs)
		got, err := action.FromNatural(id, marketAllPatch5, lib)
		require.NoError(t, err)
		assert.Equal(t, a.PatchID, got.PatchID)
		assert.Equal(t, a.Row, got.Row)
		assert.Equal(t, a.Col, got.Col)
	}
}

func TestNaturalIDsAreBounded(t *testing.T) {
	seen := make(map[int]bool)
	lib := patch.Default
	for id := uint8(1); id <= patch.NormalPatches; id++ {
		for pidx := uint8(0); pidx < 3; pidx++ {
			for i, p := range lib.Placements(id) {
				a := action.NewPatchPlacement(id, pidx, uint16(i), p.Rotation, p.Orientation, p.Row, p.Col)
				n := action.Natural(a)
				require.GreaterOrEqual(t, n, 0)
				require.Less(t, n, action.AmountOfNormalNaturalActionIDs)
				seen[n] = true
			}
		}
	}
	assert.NotEmpty(t, seen)
}
