// Package network is a concrete, GoMLX-backed eval.Network: a small
// feed-forward model that scores a batch of positions and, for each, a dense
// policy vector over the fixed 2026-entry natural action-id space (spec
// §4.3/§4.10), used by PolicyMCTSEngine in place of random rollouts.
//
// Patchwork's action space, unlike Hive's, is bounded and known at compile
// time (action.AmountOfNormalNaturalActionIDs): the policy head is therefore
// a plain dense output layer, with no ragged per-board ActionsToBoardIdx
// bookkeeping or message-passing step.
package network

import (
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/layers"
	"github.com/gomlx/gomlx/ml/layers/activations"
	"github.com/gomlx/gomlx/ml/layers/fnn"
	"github.com/gomlx/gomlx/ml/layers/regularizers"
	"github.com/gomlx/gomlx/ml/train/optimizers"
	"github.com/gomlx/gomlx/ml/train/optimizers/cosineschedule"
	"github.com/nicozeitz/patchwork/internal/patch"
)

// FeaturesDim is the width of one position's flat feature vector; see
// features.go for the exact layout.
const FeaturesDim = 2*(81+3) + 3*patch.AmountOfPatches + 1

// model holds the context (weights + hyperparameters) for the shared board
// tower and its two heads.
type model struct {
	ctx *context.Context
}

// newModel creates a model with a fresh context, hyperparameters set to the
// same defaults the teacher's FNN/AlphaZeroFNN models use.
func newModel() *model {
	m := &model{ctx: context.New()}
	m.ctx.RngStateReset()
	m.ctx.SetParams(map[string]any{
		"batch_size": 128,

		optimizers.ParamOptimizer:       "adam",
		optimizers.ParamLearningRate:    0.001,
		optimizers.ParamAdamEpsilon:     1e-7,
		cosineschedule.ParamPeriodSteps: 0,
		activations.ParamActivation:     "sigmoid",
		layers.ParamDropoutRate:         0.0,
		regularizers.ParamL2:            1e-5,
		regularizers.ParamL1:            1e-5,

		fnn.ParamNumHiddenLayers: 2,
		fnn.ParamNumHiddenNodes:  128,
		fnn.ParamResidual:        true,
		fnn.ParamNormalization:   "layer",
	})
	m.ctx = m.ctx.Checked(false)
	return m
}

func (m *model) Context() *context.Context { return m.ctx }
