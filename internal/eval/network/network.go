package network

import (
	"fmt"
	"sync"

	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/graph"
	"github.com/gomlx/gomlx/ml/context"
	"github.com/gomlx/gomlx/ml/context/checkpoints"
	"github.com/gomlx/gomlx/ml/layers/fnn"
	"github.com/gomlx/gomlx/ml/train"
	"github.com/gomlx/gomlx/ml/train/optimizers"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/parameters"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// backend is a process-wide singleton, mirroring the teacher's gomlx.go: one
// XLA client shared by every Network instance, created lazily on first use.
var backend = sync.OnceValue(func() backends.Backend { return backends.New() })

// Network is the concrete eval.Network backed by a GoMLX feed-forward model.
type Network struct {
	model *model

	scoreExec, lossExec, trainStepExec *context.Exec

	checkpoint        *checkpoints.Handler
	checkpointsToKeep int
	batchSize         int

	muLearning sync.RWMutex
	optimizer  optimizers.Interface
}

var _ eval.Network = (*Network)(nil)

// New builds a Network, optionally loading/saving weights at checkpointDir
// (empty string for an ephemeral, randomly-initialized model). params
// overrides hyperparameters by name, the same way the teacher's gomlx.New
// does for Hive.
func New(checkpointDir string, params parameters.Params) (*Network, error) {
	n := &Network{model: newModel()}

	var err error
	n.checkpointsToKeep, err = parameters.PopParamOr(params, "keep", 10)
	if err != nil {
		return nil, err
	}

	if checkpointDir != "" {
		n.checkpoint, err = checkpoints.
			Build(n.model.Context()).
			Dir(checkpointDir).
			Immediate().
			Keep(n.checkpointsToKeep).
			Done()
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to build checkpoint at %q", checkpointDir)
		}
	}

	if err = extractParams(params, n.model.Context()); err != nil {
		return nil, err
	}
	ctx := n.model.Context()
	n.batchSize = context.GetParamOr(ctx, "batch_size", 128)
	n.optimizer = optimizers.FromContext(ctx)

	n.scoreExec = context.NewExec(backend(), ctx,
		func(ctx *context.Context, inputs []*graph.Node) []*graph.Node {
			ctx = ctx.Checked(false)
			value, policy := n.forwardGraph(ctx, inputs[0])
			return []*graph.Node{value, policy}
		})
	n.lossExec = context.NewExec(backend(), ctx,
		func(ctx *context.Context, inputsAndLabels []*graph.Node) *graph.Node {
			return n.lossGraph(ctx, inputsAndLabels)
		})
	n.trainStepExec = context.NewExec(backend(), ctx,
		func(ctx *context.Context, inputsAndLabels []*graph.Node) *graph.Node {
			g := inputsAndLabels[0].Graph()
			ctx.SetTraining(g, true)
			loss := n.lossGraph(ctx, inputsAndLabels)
			n.optimizer.UpdateGraph(ctx, g, loss)
			train.ExecPerStepUpdateGraphFn(ctx, g)
			return loss
		})

	return n, nil
}

func (n *Network) String() string {
	if n.checkpoint == nil {
		return "Network[GoMLX]"
	}
	return fmt.Sprintf("Network[GoMLX]@%s", n.checkpoint.Dir())
}

// forwardGraph is the shared board tower plus its value and policy heads:
// value is squeezed to shape [batch], policy logits run through a plain
// Softmax over the fixed action axis (no raggedness to account for, unlike a
// variable-branching-factor game).
func (n *Network) forwardGraph(ctx *context.Context, boardFeatures *graph.Node) (value, policy *graph.Node) {
	towerCtx := ctx.In("tower")
	embed := fnn.New(towerCtx.In("fnn"), boardFeatures, context.GetParamOr(towerCtx, fnn.ParamNumHiddenNodes, 128)).Done()

	valueLogits := fnn.New(ctx.In("value_head"), embed, 1).NumHiddenLayers(0, 0).Done()
	value = graph.Squeeze(graph.Tanh(valueLogits), -1)

	policyLogits := fnn.New(ctx.In("policy_head"), embed, action.AmountOfNormalNaturalActionIDs).
		NumHiddenLayers(0, 0).Done()
	policy = graph.Softmax(policyLogits, -1)
	return value, policy
}

func (n *Network) lossGraph(ctx *context.Context, inputsAndLabels []*graph.Node) *graph.Node {
	boardFeatures, valueLabels, policyLabels := inputsAndLabels[0], inputsAndLabels[1], inputsAndLabels[2]
	predictedValue, predictedPolicy := n.forwardGraph(ctx, boardFeatures)
	valueLoss := graph.ReduceAllMean(graph.Square(graph.Sub(predictedValue, valueLabels)))
	// Cross-entropy against the MCTS-derived visit-count policy target.
	g := boardFeatures.Graph()
	epsilon := graph.Scalar(g, predictedPolicy.DType(), 1e-9)
	logPolicy := graph.Log(graph.Add(predictedPolicy, epsilon))
	policyLoss := graph.Neg(graph.ReduceAllMean(graph.ReduceSum(graph.Mul(policyLabels, logPolicy), -1)))
	return graph.Add(valueLoss, policyLoss)
}

// EvaluateBatch implements eval.Network.
func (n *Network) EvaluateBatch(boards []*game.GameState) ([]float32, [][action.AmountOfNormalNaturalActionIDs]float32) {
	inputs := createInputs(boards)

	n.muLearning.RLock()
	defer n.muLearning.RUnlock()
	donated := graph.DonateTensorBuffer(inputs, backend())
	outputs := n.scoreExec.Call(donated)
	values := outputs[0].Value().([]float32)
	flatPolicies := tensors.CopyFlatData[float32](outputs[1])

	policies := make([][action.AmountOfNormalNaturalActionIDs]float32, len(boards))
	for i := range boards {
		copy(policies[i][:], flatPolicies[i*action.AmountOfNormalNaturalActionIDs:(i+1)*action.AmountOfNormalNaturalActionIDs])
	}
	return values, policies
}

// Save persists the model's weights to its checkpoint directory, if any.
func (n *Network) Save() error {
	if n.checkpoint == nil {
		klog.Warningf("network: not associated with a checkpoint directory, not saving")
		return nil
	}
	return n.checkpoint.Save()
}

// BatchSize is the recommended training/evaluation batch size.
func (n *Network) BatchSize() int { return n.batchSize }

func extractParams(params parameters.Params, ctx *context.Context) error {
	var err error
	ctx.EnumerateParams(func(scope, key string, valueAny any) {
		if err != nil || scope != context.RootScope {
			return
		}
		switch defaultValue := valueAny.(type) {
		case string:
			value, _ := parameters.PopParamOr(params, key, defaultValue)
			ctx.SetParam(key, value)
		case int:
			value, newErr := parameters.PopParamOr(params, key, defaultValue)
			if newErr != nil {
				err = errors.WithMessagef(newErr, "parsing %q (int)", key)
				return
			}
			ctx.SetParam(key, value)
		case float64:
			value, newErr := parameters.PopParamOr(params, key, defaultValue)
			if newErr != nil {
				err = errors.WithMessagef(newErr, "parsing %q (float64)", key)
				return
			}
			ctx.SetParam(key, value)
		case float32:
			value, newErr := parameters.PopParamOr(params, key, defaultValue)
			if newErr != nil {
				err = errors.WithMessagef(newErr, "parsing %q (float32)", key)
				return
			}
			ctx.SetParam(key, value)
		case bool:
			value, newErr := parameters.PopParamOr(params, key, defaultValue)
			if newErr != nil {
				err = errors.WithMessagef(newErr, "parsing %q (bool)", key)
				return
			}
			ctx.SetParam(key, value)
		default:
			err = errors.Errorf("network: parameter %q is of unknown type %T", key, defaultValue)
		}
	})
	return err
}
