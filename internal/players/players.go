// Package players builds a configured engine, driven by a comma-separated
// configuration string, into a uniform Player interface a driver can call
// without knowing which search algorithm backs it (spec §6's engine-knobs
// contract).
package players

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/eval/network"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/parameters"
	"github.com/nicozeitz/patchwork/internal/searchers/mcts"
	"github.com/nicozeitz/patchwork/internal/searchers/policymcts"
	"github.com/nicozeitz/patchwork/internal/searchers/pvs"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Player is anything that can choose an action for a position and be
// cleaned up once a match ends.
type Player interface {
	// Play returns the chosen action, its evaluation from the mover's
	// perspective, and (when the backing engine produces one) a policy
	// over the position's legal actions in the same order as
	// game.GameState.GetValidActions.
	Play(g *game.GameState) (chosen action.Action, score float32, policy []float32, err error)
	Finalize()
	String() string
}

// DefaultPlayerConfig mirrors the teacher's DefaultPlayerConfig: used when
// New is called with an empty config string.
const DefaultPlayerConfig = "pvs,max_depth=3"

// New builds a Player from a comma-separated configuration string, e.g.
// "pvs,max_depth=4,max_time=2s", "mcts,root_parallelization=4,iterations=400",
// or "policymcts,checkpoint=/path,batch_size=16,iterations=200" (spec §6's
// PVS/MCTS/PolicyMCTS option structs).
//
// Unlike the teacher's ScorerBuilder/SearcherBuilder registry (which exists
// to let independently-registered scorer and searcher implementations mix
// and match), this port has exactly one Evaluator implementation and one
// Network implementation, so New dispatches on the engine name directly
// instead of threading params through a registry with one registrant per
// slot — see DESIGN.md.
func New(config string) (Player, error) {
	if config == "" {
		config = DefaultPlayerConfig
	}
	params := parameters.NewFromConfigString(config)

	engineName, err := parameters.PopParamOr(params, "engine", "")
	if err != nil {
		return nil, err
	}
	if engineName == "" {
		for _, candidate := range []string{"pvs", "mcts", "policymcts"} {
			if _, present := params[candidate]; present {
				engineName = candidate
				delete(params, candidate)
				break
			}
		}
	}

	var player Player
	switch engineName {
	case "", "pvs":
		player, err = newPVSPlayer(params)
	case "mcts":
		player, err = newMCTSPlayer(params)
	case "policymcts":
		player, err = newPolicyMCTSPlayer(params)
	default:
		return nil, errors.Errorf("players: unknown engine %q in config %q", engineName, config)
	}
	if err != nil {
		return nil, err
	}

	if len(params) > 0 {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		return nil, errors.Errorf("players: unknown parameters %q passed in config %q", strings.Join(keys, ", "), config)
	}
	return player, nil
}

func parseDuration(params parameters.Params, key string, def time.Duration) (time.Duration, error) {
	raw, err := parameters.PopParamOr(params, key, "")
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def, errors.Wrapf(err, "players: invalid duration for %s=%q", key, raw)
	}
	return d, nil
}

// pvsPlayer adapts *pvs.Engine to the Player interface.
type pvsPlayer struct {
	engine *pvs.Engine
}

func newPVSPlayer(params parameters.Params) (*pvsPlayer, error) {
	maxDepth, err := parameters.PopParamOr(params, "max_depth", 3)
	if err != nil {
		return nil, err
	}
	maxTime, err := parseDuration(params, "max_time", 0)
	if err != nil {
		return nil, err
	}
	tableSize, err := parameters.PopParamOr(params, "tt_size", 1<<20)
	if err != nil {
		return nil, err
	}

	engine := pvs.New(eval.NewStaticEvaluator(), tableSize)
	engine.MaxDepth = maxDepth
	engine.MaxTime = maxTime
	return &pvsPlayer{engine: engine}, nil
}

func (p *pvsPlayer) Play(g *game.GameState) (action.Action, float32, []float32, error) {
	best, score, depth := p.engine.Search(context.Background(), g)
	if klog.V(2).Enabled() {
		klog.Infof("pvs: chose %s at depth %d, score=%.2f", best, depth, score)
	}
	return best, score, nil, nil
}

func (p *pvsPlayer) Finalize()      {}
func (p *pvsPlayer) String() string { return fmt.Sprintf("PVS(maxDepth=%d)", p.engine.MaxDepth) }

// mctsPlayer adapts *mcts.Engine to the Player interface.
type mctsPlayer struct {
	engine *mcts.Engine
	end    mcts.EndCondition
}

func newMCTSPlayer(params parameters.Params) (*mctsPlayer, error) {
	rootParallelism, err := parameters.PopParamOr(params, "root_parallelization", 1)
	if err != nil {
		return nil, err
	}
	leafParallelism, err := parameters.PopParamOr(params, "leaf_parallelization", 1)
	if err != nil {
		return nil, err
	}
	reuseTree, err := parameters.PopParamOr(params, "reuse_tree", true)
	if err != nil {
		return nil, err
	}
	iterations, err := parameters.PopParamOr(params, "iterations", 1000)
	if err != nil {
		return nil, err
	}
	maxTime, err := parseDuration(params, "max_time", 0)
	if err != nil {
		return nil, err
	}

	engine := mcts.New(eval.NewStaticEvaluator())
	engine.RootParallelism = rootParallelism
	engine.LeafParallelism = leafParallelism
	engine.ReuseTree = reuseTree
	return &mctsPlayer{
		engine: engine,
		end:    mcts.EndCondition{MaxIterations: iterations, MaxTime: maxTime},
	}, nil
}

func (p *mctsPlayer) Play(g *game.GameState) (action.Action, float32, []float32, error) {
	best, score, err := p.engine.Search(context.Background(), g, p.end)
	return best, score, nil, err
}

func (p *mctsPlayer) Finalize() {}
func (p *mctsPlayer) String() string {
	return fmt.Sprintf("MCTS(root=%d,leaf=%d)", p.engine.RootParallelism, p.engine.LeafParallelism)
}

// policyMCTSPlayer adapts *policymcts.Engine to the Player interface,
// always searching a batch of exactly one game (Play's contract is one
// position at a time); PolicyMCTSEngine's K-way batching is reachable only
// by calling policymcts.Engine.Search directly, which nothing else in this
// module does.
type policyMCTSPlayer struct {
	engine *policymcts.Engine
	end    policymcts.EndCondition
}

func newPolicyMCTSPlayer(params parameters.Params) (*policyMCTSPlayer, error) {
	checkpointDir, err := parameters.PopParamOr(params, "checkpoint", "")
	if err != nil {
		return nil, err
	}
	batchSize, err := parameters.PopParamOr(params, "batch_size", 16)
	if err != nil {
		return nil, err
	}
	parallelization, err := parameters.PopParamOr(params, "parallelization", 1)
	if err != nil {
		return nil, err
	}
	dirichletEpsilon, err := parameters.PopParamOr(params, "dirichlet_epsilon", float32(0))
	if err != nil {
		return nil, err
	}
	dirichletAlpha, err := parameters.PopParamOr(params, "dirichlet_alpha", float32(0.3))
	if err != nil {
		return nil, err
	}
	iterations, err := parameters.PopParamOr(params, "iterations", 400)
	if err != nil {
		return nil, err
	}
	maxTime, err := parseDuration(params, "max_time", 0)
	if err != nil {
		return nil, err
	}
	safetyMargin, err := parseDuration(params, "safety_margin", 50*time.Millisecond)
	if err != nil {
		return nil, err
	}

	if checkpointDir == "" {
		return nil, errors.New("players: policymcts requires checkpoint=<dir>")
	}
	net, err := network.New(checkpointDir, parameters.Params{})
	if err != nil {
		return nil, errors.Wrap(err, "players: failed to load policymcts network")
	}

	engine := policymcts.New(net, policymcts.Options{
		BatchSize:        batchSize,
		Parallelization:  parallelization,
		DirichletEpsilon: dirichletEpsilon,
		DirichletAlpha:   dirichletAlpha,
	})
	return &policyMCTSPlayer{
		engine: engine,
		end:    policymcts.EndCondition{MaxIterations: iterations, MaxTime: maxTime, SafetyMargin: safetyMargin},
	}, nil
}

func (p *policyMCTSPlayer) Play(g *game.GameState) (action.Action, float32, []float32, error) {
	actions, policies, err := p.engine.Search(context.Background(), []*game.GameState{g}, p.end, false)
	if err != nil {
		return action.NullAction, 0, nil, err
	}
	return actions[0], 0, policies[0], nil
}

func (p *policyMCTSPlayer) Finalize() {}
func (p *policyMCTSPlayer) String() string {
	return fmt.Sprintf("PolicyMCTS(%s)", p.engine.Network)
}
