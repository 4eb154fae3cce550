// Package policymcts implements PolicyMCTSEngine (spec §4.11): a batch of K
// root games searched together, with leaves evaluated by a neural
// policy/value network in mini-batches, virtual-loss coordination between
// worker goroutines, and an atomically-swappable mini-batch map.
package policymcts

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"github.com/nicozeitz/patchwork/internal/action"
	"github.com/nicozeitz/patchwork/internal/eval"
	"github.com/nicozeitz/patchwork/internal/game"
	"github.com/nicozeitz/patchwork/internal/searchers/treepolicy"
)

// EndCondition mirrors mcts.EndCondition (spec §5: Iterations | Time | Flag),
// plus a SafetyMargin subtracted from MaxTime so the driver always has time
// left to force-flush any in-flight mini-batch before returning.
type EndCondition struct {
	MaxIterations int
	MaxTime       time.Duration
	SafetyMargin  time.Duration
	Cancel        *atomic.Bool
}

func (e EndCondition) done(iterations int, start time.Time) bool {
	if e.MaxIterations > 0 && iterations >= e.MaxIterations {
		return true
	}
	if e.MaxTime > 0 && time.Since(start) >= e.MaxTime-e.SafetyMargin {
		return true
	}
	if e.Cancel != nil && e.Cancel.Load() {
		return true
	}
	return false
}

// Node is one arena entry for one of the K games. Unlike internal/searchers/
// mcts's single-owner Node, this one is mutated by multiple worker
// goroutines concurrently and so carries its own lock, per spec §5's
// per-node reader-writer-lock requirement.
type Node struct {
	mu sync.RWMutex

	state       *game.GameState
	parent      *Node
	actionTaken action.Action
	children    []*Node
	priors      []float32 // parallel to children, read-only after expand

	expanded bool

	visitCount int
	virtual    atomic.Int32
	wins       [2]int
	scoreMin   float32
	scoreMax   float32
	scoreSum   float32
	prior      float32
}

func newLeafNode(state *game.GameState, parent *Node, actionTaken action.Action, prior float32) *Node {
	return &Node{state: state, parent: parent, actionTaken: actionTaken, prior: prior, scoreMin: math32.Inf(1), scoreMax: math32.Inf(-1)}
}

func (n *Node) VisitCount() int    { return n.visitCount }
func (n *Node) CurrentPlayer() int { return n.state.Flags.CurrentPlayer() }
func (n *Node) PriorValue() float32 { return n.prior }

func (n *Node) WinsFor(player int) int {
	if player == 1 {
		return n.wins[0]
	}
	return n.wins[1]
}

func (n *Node) ScoreFor(player int) (lo, hi, sum float32) {
	if player == 1 {
		return n.scoreMin, n.scoreMax, n.scoreSum
	}
	return -n.scoreMax, -n.scoreMin, -n.scoreSum
}

func childrenAsNodes(children []*Node) []treepolicy.Node {
	out := make([]treepolicy.Node, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// batchKey identifies one pending leaf: which of the K games, and which node
// within that game's tree.
type batchKey struct {
	gameIndex int
	node      *Node
}

// miniBatch is the swappable accumulation map: node -> how many times it was
// selected since the last swap (spec §4.11's "bump its count if already
// present").
type miniBatch struct {
	mu     sync.Mutex
	counts map[batchKey]int
}

func newMiniBatch() *miniBatch { return &miniBatch{counts: make(map[batchKey]int)} }

func (b *miniBatch) add(k batchKey) {
	b.mu.Lock()
	b.counts[k]++
	b.mu.Unlock()
}

// Options configures one PolicyMCTSEngine run.
type Options struct {
	Policy          treepolicy.Policy // defaults to PUCT if nil
	BatchSize       int
	Parallelization int
	DirichletEpsilon float32
	DirichletAlpha   float32
}

// Engine runs the policy-guided batched MCTS search for a batch of K root
// games at once, sharing one Network across all of them.
type Engine struct {
	Network eval.Network
	Options Options

	pendingCount atomic.Int32
	batch        atomic.Pointer[miniBatch]
}

func New(network eval.Network, opts Options) *Engine {
	if opts.Policy == nil {
		opts.Policy = treepolicy.NewPUCT()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 16
	}
	if opts.Parallelization <= 0 {
		opts.Parallelization = 1
	}
	e := &Engine{Network: network, Options: opts}
	e.batch.Store(newMiniBatch())
	return e
}

// Search runs PolicyMCTSEngine over games (the K root positions), returning
// for each the chosen action and its derived policy (normalised root-child
// visit counts, spec §4.11's shutdown step).
func (e *Engine) Search(ctx context.Context, games []*game.GameState, end EndCondition, addDirichletNoise bool) ([]action.Action, [][]float32, error) {
	roots := make([]*Node, len(games))
	for i, g := range games {
		roots[i] = newLeafNode(g.Clone(), nil, action.NullAction, 0)
	}
	if err := e.initializeRoots(roots, addDirichletNoise); err != nil {
		return nil, nil, err
	}

	cancel := &atomic.Bool{}
	start := time.Now()
	iterations := atomic.Int32{}

	var wg sync.WaitGroup
	for w := 0; w < e.Options.Parallelization; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !end.done(int(iterations.Load()), start) && !cancel.Load() && ctx.Err() == nil {
				for gi, root := range roots {
					if err := e.workerSweep(gi, root); err != nil {
						cancel.Store(true)
						return
					}
				}
				iterations.Add(1)
				e.tryMiniBatchEvaluation(roots, false)
			}
		}()
	}
	wg.Wait()

	// Shutdown: force-flush whatever is left in-flight so every pending
	// leaf gets resolved before results are read (spec §4.11).
	e.tryMiniBatchEvaluation(roots, true)

	actions := make([]action.Action, len(roots))
	policies := make([][]float32, len(roots))
	for i, root := range roots {
		actions[i], policies[i] = bestActionAndPolicy(root)
	}
	return actions, policies, nil
}

// workerSweep performs one Select pass for game gi's tree, incrementing
// virtual loss at every visited node, then either resolves a terminal leaf
// immediately or enqueues it into the mini-batch.
func (e *Engine) workerSweep(gi int, root *Node) error {
	node := root
	for {
		node.mu.RLock()
		expanded := node.expanded
		childCount := len(node.children)
		node.mu.RUnlock()

		if !expanded || childCount == 0 {
			break
		}

		node.virtual.Add(1)
		node.mu.RLock()
		children := childrenAsNodes(node.children)
		idx := e.Options.Policy.Select(node, children)
		next := node.children[idx]
		node.mu.RUnlock()
		node = next
	}
	node.virtual.Add(1)

	if node.state.IsTerminated() {
		value := evaluateTerminalNeutral(node.state)
		backpropagate(node, value, 1)
		return nil
	}

	e.batch.Load().add(batchKey{gameIndex: gi, node: node})
	e.pendingCount.Add(1)
	return nil
}

// tryMiniBatchEvaluation implements do_mini_batch_evaluation (spec §4.11):
// atomically test-and-reset the pending counter, swap out the accumulation
// map, forward the swapped-out leaves through the network, expand each and
// backpropagate its value `count` times.
func (e *Engine) tryMiniBatchEvaluation(roots []*Node, force bool) {
	if !force {
		for {
			current := e.pendingCount.Load()
			if current < int32(e.Options.BatchSize) {
				return
			}
			if e.pendingCount.CompareAndSwap(current, 0) {
				break
			}
		}
	} else {
		e.pendingCount.Store(0)
	}

	swapped := e.batch.Swap(newMiniBatch())
	swapped.mu.Lock()
	entries := make([]batchKey, 0, len(swapped.counts))
	counts := make([]int, 0, len(swapped.counts))
	for k, c := range swapped.counts {
		entries = append(entries, k)
		counts = append(counts, c)
	}
	swapped.mu.Unlock()
	if len(entries) == 0 {
		return
	}

	states := make([]*game.GameState, len(entries))
	for i, k := range entries {
		states[i] = k.node.state
	}

	values, policies := e.Network.EvaluateBatch(states)

	for i, k := range entries {
		node := k.node
		node.mu.Lock()
		if !node.expanded {
			e.expandWithPolicy(node, policies[i])
		}
		node.mu.Unlock()

		value := values[i]
		if node.CurrentPlayer() == 2 {
			value = -value
		}
		backpropagate(node, value, counts[i])
	}
}

// expandWithPolicy creates one child per legal action whose masked,
// renormalised prior is non-zero (spec §4.11's node expansion rule).
// Caller must hold node.mu for writing.
func (e *Engine) expandWithPolicy(node *Node, rawPolicy [action.AmountOfNormalNaturalActionIDs]float32) {
	actions := node.state.GetValidActions()
	masked := make([]float32, len(actions))
	var sum float32
	for i, a := range actions {
		id := action.Natural(a)
		var p float32
		if id >= 0 {
			p = rawPolicy[id]
		} else {
			p = 1 // Phantom/Null: no policy entry exists, treat as the sole forced move
		}
		if p < 0 {
			p = 0
		}
		masked[i] = p
		sum += p
	}
	if sum <= 0 {
		// Degenerate network output: fall back to a uniform prior so search
		// can still proceed instead of expanding with every child masked out.
		for i := range masked {
			masked[i] = 1
		}
		sum = float32(len(masked))
	}

	node.children = make([]*Node, 0, len(actions))
	node.priors = make([]float32, 0, len(actions))
	for i, a := range actions {
		prior := masked[i] / sum
		if prior <= 0 {
			continue
		}
		child := node.state.Clone()
		if err := child.DoAction(a, true); err != nil {
			continue
		}
		node.children = append(node.children, newLeafNode(child, node, a, prior))
		node.priors = append(node.priors, prior)
	}
	node.expanded = true
}

// initializeRoots forwards every root once, masks+renormalises, optionally
// mixes in Dirichlet noise, and expands (spec §4.11's "Root initialisation").
func (e *Engine) initializeRoots(roots []*Node, addDirichletNoise bool) error {
	states := make([]*game.GameState, len(roots))
	for i, r := range roots {
		states[i] = r.state
	}
	_, policies := e.Network.EvaluateBatch(states)

	for i, root := range roots {
		policy := policies[i]
		if addDirichletNoise && e.Options.DirichletEpsilon > 0 {
			policy = mixDirichletNoise(policy, e.Options.DirichletEpsilon, e.Options.DirichletAlpha)
		}
		root.mu.Lock()
		e.expandWithPolicy(root, policy)
		root.mu.Unlock()
	}
	return nil
}

// mixDirichletNoise blends Dir(alpha) noise into policy at weight epsilon,
// approximating a symmetric Dirichlet draw via independent Gamma(alpha,1)
// samples normalised to sum to 1 (the standard construction).
func mixDirichletNoise(policy [action.AmountOfNormalNaturalActionIDs]float32, epsilon, alpha float32) [action.AmountOfNormalNaturalActionIDs]float32 {
	noise := make([]float32, len(policy))
	var sum float32
	for i := range noise {
		noise[i] = sampleGamma(alpha)
		sum += noise[i]
	}
	var out [action.AmountOfNormalNaturalActionIDs]float32
	for i := range policy {
		out[i] = (1-epsilon)*policy[i] + epsilon*noise[i]/sum
	}
	return out
}

// sampleGamma draws from Gamma(shape, 1) via Marsaglia-Tsang, adequate for
// shape >= ~0.3 which covers Dirichlet-noise alphas used in practice (e.g.
// AlphaZero's 0.03-0.3 range scaled by action-space size).
func sampleGamma(shape float32) float32 {
	if shape < 1 {
		return sampleGamma(shape+1) * math32.Pow(rand.Float32(), 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math32.Sqrt(9*d)
	for {
		x := float32(rand.NormFloat64())
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rand.Float32()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math32.Log(u) < 0.5*x*x+d*(1-v+math32.Log(v)) {
			return d * v
		}
	}
}

func backpropagate(leaf *Node, value float32, count int) {
	for node := leaf; node != nil; node = node.parent {
		node.mu.Lock()
		node.visitCount += count
		node.scoreSum += value * float32(count)
		if value < node.scoreMin {
			node.scoreMin = value
		}
		if value > node.scoreMax {
			node.scoreMax = value
		}
		switch {
		case value > 0:
			node.wins[0] += count
		case value < 0:
			node.wins[1] += count
		}
		node.mu.Unlock()
		node.virtual.Add(int32(-count))
	}
}

func evaluateTerminalNeutral(g *game.GameState) float32 {
	se := eval.NewStaticEvaluator()
	return se.EvaluateTerminal(g)
}

// bestActionAndPolicy returns the root's most-visited child action and the
// normalised root-child visit-count distribution (spec §4.11's reported
// action probabilities).
func bestActionAndPolicy(root *Node) (action.Action, []float32) {
	root.mu.RLock()
	defer root.mu.RUnlock()

	if len(root.children) == 0 {
		return action.NullAction, nil
	}
	total := 0
	best, bestVisits := 0, -1
	for i, c := range root.children {
		total += c.visitCount
		if c.visitCount > bestVisits {
			best, bestVisits = i, c.visitCount
		}
	}
	policy := make([]float32, len(root.children))
	if total > 0 {
		for i, c := range root.children {
			policy[i] = float32(c.visitCount) / float32(total)
		}
	}
	return root.children[best].actionTaken, policy
}
