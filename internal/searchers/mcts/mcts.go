// Package mcts implements MCTSEngine (spec §4.10): tree-policy-parameterised
// Monte Carlo Tree Search with root parallelism, tree reuse across turns, and
// a pluggable evaluator for leaf values.
//
// Unlike the original engine's arena of integer node IDs (needed in Rust to
// satisfy the borrow checker across a tree with back-pointers), this port
// uses a plain pointer tree: Go's garbage collector reclaims everything
// outside the reachable subtree once from_root re-roots it, so there is no
// need for a manual allocator or an ID-remapping pass (see DESIGN.md).
package mcts

import (
	"container/list"
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
	"golang.org/x/sync/errgroup"
)

// EndCondition tells a search loop when to stop: any of a fixed iteration
// count, a wall-clock budget, or an externally-set cancellation flag (spec
// §5's "Iterations(N) | Time(d) | Flag(atomic_bool)").
type EndCondition struct {
	MaxIterations int
	MaxTime       time.Duration
	Cancel        *atomic.Bool
}

func (e EndCondition) done(iterations int, start time.Time) bool {
	if e.MaxIterations > 0 && iterations >= e.MaxIterations {
		return true
	}
	if e.MaxTime > 0 && time.Since(start) >= e.MaxTime {
		return true
	}
	if e.Cancel != nil && e.Cancel.Load() {
		return true
	}
	return false
}

// Node is one arena entry: a cloned game state plus MCTS bookkeeping.
// Score/win counters are kept "neutral" — always from player 1's
// perspective — and converted to a requested player's viewpoint on read, per
// spec §4.10/§4.12.
type Node struct {
	state        *game.GameState
	parent       *Node
	actionTaken  action.Action
	children     []*Node
	expandable   []action.Action // shuffled, not-yet-expanded actions

	visitCount int
	wins       [2]int // wins[0] = rollouts net-favoring player 1, wins[1] = player 2
	scoreMin   float32
	scoreMax   float32
	scoreSum   float32
}

func newNode(state *game.GameState, parent *Node, actionTaken action.Action) *Node {
	n := &Node{state: state, parent: parent, actionTaken: actionTaken, scoreMin: math32.Inf(1), scoreMax: math32.Inf(-1)}
	if !state.IsTerminated() {
		actions := state.GetValidActions()
		order := rand.Perm(len(actions))
		n.expandable = make([]action.Action, len(actions))
		for i, j := range order {
			n.expandable[i] = actions[j]
		}
	}
	return n
}

func (n *Node) fullyExpanded() bool { return len(n.expandable) == 0 }
func (n *Node) isLeaf() bool        { return len(n.children) == 0 && len(n.expandable) == 0 }

// treepolicy.Node implementation.
func (n *Node) VisitCount() int        { return n.visitCount }
func (n *Node) CurrentPlayer() int     { return n.state.Flags.CurrentPlayer() }
func (n *Node) PriorValue() float32    { return 0 }

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

// Engine is a single configured MCTSEngine. Policy defaults to UCT.
type Engine struct {
	Evaluator        eval.Evaluator
	Policy           treepolicy.Policy
	RootParallelism  int // number of independent trees run in parallel, combined by summed visit counts
	LeafParallelism  int // number of parallel rollouts averaged per Simulate call
	ReuseTree        bool

	mu   sync.Mutex
	tree *Node // retained root, used by ReuseTree across successive Search calls
}

func New(evaluator eval.Evaluator) *Engine {
	return &Engine{
		Evaluator:       evaluator,
		Policy:          treepolicy.NewUCT(),
		RootParallelism: 1,
		LeafParallelism: 1,
	}
}

// Search runs the configured end condition's worth of MCTS iterations and
// returns the root child action with the highest visit count (spec §4.10
// step 3), breaking ties by wins-for-the-root-player.
func (e *Engine) Search(ctx context.Context, g *game.GameState, end EndCondition) (action.Action, float32, error) {
	if g.IsTerminated() {
		return action.NullAction, 0, nil
	}

	roots := make([]*Node, e.RootParallelism)
	group, gctx := errgroup.WithContext(ctx)
	for i := range roots {
		i := i
		group.Go(func() error {
			root := e.rootFor(g)
			if err := e.runToEndCondition(gctx, root, end); err != nil {
				return err
			}
			roots[i] = root
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return action.NullAction, 0, err
	}

	best, score := combineRoots(roots)
	if e.ReuseTree && e.RootParallelism == 1 {
		e.mu.Lock()
		e.tree = roots[0]
		e.mu.Unlock()
	}
	return best, score, nil
}

// rootFor returns a freshly built root, or the retained tree re-rooted onto
// g via fromRoot when ReuseTree is set and a single-tree search is running.
func (e *Engine) rootFor(g *game.GameState) *Node {
	if e.ReuseTree && e.RootParallelism == 1 {
		e.mu.Lock()
		prev := e.tree
		e.mu.Unlock()
		if found := fromRoot(prev, g); found != nil {
			return found
		}
	}
	return newNode(g.Clone(), nil, action.NullAction)
}

// fromRoot is the tree-reuse BFS from mcts-tree-reuse.rs's from_root: search
// up to depth 8 in the previous tree for a node whose state matches g, and
// re-root onto it (dropping its parent link so the rest of the old tree
// becomes unreachable garbage). Returns nil if no match is found in budget,
// in which case the caller starts fresh.
func fromRoot(previous *Node, g *game.GameState) *Node {
	if previous == nil {
		return nil
	}
	type item struct {
		node  *Node
		depth int
	}
	queue := list.New()
	queue.PushBack(item{previous, 0})
	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(item)
		if front.depth >= 8 {
			continue
		}
		if front.node.state.Hash == g.Hash {
			front.node.parent = nil
			return front.node
		}
		for _, child := range front.node.children {
			queue.PushBack(item{child, front.depth + 1})
		}
	}
	return nil
}

func (e *Engine) runToEndCondition(ctx context.Context, root *Node, end EndCondition) error {
	start := time.Now()
	iterations := 0
	for !end.done(iterations, start) {
		if ctx.Err() != nil {
			return nil
		}
		if _, err := e.iterate(root); err != nil {
			return err
		}
		iterations++
	}
	return nil
}

// iterate runs one Select → Expand → Simulate → Backpropagate pass and
// returns the neutral (player-1-perspective) value backpropagated.
func (e *Engine) iterate(root *Node) (float32, error) {
	node := root
	for !node.isLeaf() && node.fullyExpanded() {
		children := childrenAsNodes(node.children)
		idx := e.Policy.Select(node, children)
		node = node.children[idx]
	}

	if node.state.IsTerminated() {
		value := e.Evaluator.EvaluateTerminal(node.state)
		e.backpropagate(node, value)
		return value, nil
	}

	if !node.fullyExpanded() {
		node = e.expand(node)
	}

	value := e.simulate(node)
	e.backpropagate(node, value)
	return value, nil
}

func (e *Engine) expand(node *Node) *Node {
	n := len(node.expandable)
	a := node.expandable[n-1]
	node.expandable = node.expandable[:n-1]

	child := node.state.Clone()
	if err := child.DoAction(a, true); err != nil {
		return node
	}
	childNode := newNode(child, node, a)
	node.children = append(node.children, childNode)
	return childNode
}

// simulate evaluates node, averaging LeafParallelism independent evaluator
// calls when > 1 (spec §4.10's leaf-parallelism for non-deterministic
// evaluators such as a random-rollout policy).
func (e *Engine) simulate(node *Node) float32 {
	l := e.LeafParallelism
	if l < 1 {
		l = 1
	}
	if l == 1 {
		return e.Evaluator.EvaluateIntermediate(node.state)
	}

	values := make([]float32, l)
	var wg sync.WaitGroup
	for i := 0; i < l; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			values[i] = e.Evaluator.EvaluateIntermediate(node.state)
		}(i)
	}
	wg.Wait()

	var sum float32
	for _, v := range values {
		sum += v
	}
	return sum / float32(l)
}

func (e *Engine) backpropagate(leaf *Node, value float32) {
	for node := leaf; node != nil; node = node.parent {
		node.visitCount++
		node.scoreSum += value
		if value < node.scoreMin {
			node.scoreMin = value
		}
		if value > node.scoreMax {
			node.scoreMax = value
		}
		switch {
		case value > 0:
			node.wins[0]++
		case value < 0:
			node.wins[1]++
		}
	}
}

// combineRoots sums per-action visit counts (keyed by surrogate id, spec
// §4.10's root-parallelism combination rule) across every root tree and
// picks the action with the most total visits, breaking ties by wins for
// the root player.
func combineRoots(roots []*Node) (action.Action, float32) {
	type tally struct {
		a         action.Action
		visits    int
		winsForRootPlayer int
		scoreSum  float32
	}
	totals := make(map[uint32]*tally)

	for _, root := range roots {
		if root == nil {
			continue
		}
		player := root.CurrentPlayer()
		for _, child := range root.children {
			id := action.Surrogate(child.actionTaken)
			t, ok := totals[id]
			if !ok {
				t = &tally{a: child.actionTaken}
				totals[id] = t
			}
			t.visits += child.visitCount
			t.winsForRootPlayer += child.WinsFor(player)
			t.scoreSum += child.scoreSum
		}
	}

	var best *tally
	for _, t := range totals {
		if best == nil || t.visits > best.visits || (t.visits == best.visits && t.winsForRootPlayer > best.winsForRootPlayer) {
			best = t
		}
	}
	if best == nil {
		return action.NullAction, 0
	}
	score := float32(0)
	if best.visits > 0 {
		score = best.scoreSum / float32(best.visits)
	}
	return best.a, score
}
