package network

import (
	"github.com/gomlx/gomlx/types/shapes"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/nicozeitz/patchwork/internal/board"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/patch"
)

// forBoard writes one position's feature vector into dst (len(dst) must be
// FeaturesDim): per player, 81 quilt occupancy bits plus (clamped position,
// button balance, button income) each scaled to roughly [0,1]/[-1,1], then
// the three market slots one-hot over the patch catalogue, then a single
// +1/-1 scalar for whose turn it is.
func forBoard(dst []float32, g *game.GameState) {
	offset := 0
	for player := 0; player < 2; player++ {
		p := g.Players[player]
		for i := 0; i < 81; i++ {
			if p.Quilt.Tiles.IsSet(i) {
				dst[offset+i] = 1
			}
		}
		offset += 81
		dst[offset] = float32(p.ClampedPosition()) / float32(board.MaxPosition)
		dst[offset+1] = float32(p.ButtonBalance) / 30.0
		dst[offset+2] = float32(p.Quilt.ButtonIncome) / 10.0
		offset += 3
	}

	for slot := 0; slot < 3; slot++ {
		if slot < len(g.Market) {
			dst[offset+int(g.Market[slot])] = 1
		}
		offset += patch.AmountOfPatches
	}

	if g.Flags.CurrentPlayer() == 2 {
		dst[offset] = -1
	} else {
		dst[offset] = 1
	}
}

// createInputs builds a single [batch, FeaturesDim] float32 tensor for
// boards, no padding: the policy/value heads here are plain dense layers, so
// (unlike the teacher's ragged AlphaZeroFNN) there is no separate padded
// batch-size bucketing to worry about.
func createInputs(boards []*game.GameState) *tensors.Tensor {
	t := tensors.FromShape(shapes.Make(dtypes.Float32, len(boards), FeaturesDim))
	tensors.MutableFlatData(t, func(flat []float32) {
		for i, b := range boards {
			forBoard(flat[i*FeaturesDim:(i+1)*FeaturesDim], b)
		}
	})
	return t
}
