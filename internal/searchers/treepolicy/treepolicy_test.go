package treepolicy_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/searchers/treepolicy"
	"github.com/stretchr/testify/assert"
)

type fakeNode struct {
	visits  int
	player  int
	wins    [2]int
	lo, hi, sum float32
	prior   float32
}

func (n *fakeNode) VisitCount() int    { return n.visits }
func (n *fakeNode) CurrentPlayer() int { return n.player }
func (n *fakeNode) WinsFor(player int) int {
	return n.wins[player-1]
}
func (n *fakeNode) ScoreFor(player int) (lo, hi, sum float32) {
	if player == 1 {
		return n.lo, n.hi, n.sum
	}
	return -n.hi, -n.lo, -n.sum
}
func (n *fakeNode) PriorValue() float32 { return n.prior }

func TestUCTPrefersUnvisitedChild(t *testing.T) {
	parent := &fakeNode{visits: 10, player: 1}
	visited := &fakeNode{visits: 5, wins: [2]int{3, 2}}
	unvisited := &fakeNode{visits: 0}

	p := treepolicy.NewUCT()
	idx := p.Select(parent, []treepolicy.Node{visited, unvisited})
	assert.Equal(t, 1, idx, "an unvisited child must always be tried before exploitation kicks in")
}

func TestUCTPrefersHigherWinrateAtEqualVisits(t *testing.T) {
	parent := &fakeNode{visits: 20, player: 1}
	low := &fakeNode{visits: 10, wins: [2]int{2, 8}}
	high := &fakeNode{visits: 10, wins: [2]int{8, 2}}

	p := treepolicy.UCT{C: 0} // disable exploration term to isolate the winrate comparison
	idx := p.Select(parent, []treepolicy.Node{low, high})
	assert.Equal(t, 1, idx)
}

func TestPUCTUnvisitedChildUsesFPUFallback(t *testing.T) {
	parent := &fakeNode{visits: 4, player: 1, lo: -1, hi: 1, sum: 2}
	unvisited := &fakeNode{prior: 0.9}

	p := treepolicy.NewPUCT()
	// Sole child: whatever FPU value is computed, it must still be selected.
	idx := p.Select(parent, []treepolicy.Node{unvisited})
	assert.Equal(t, 0, idx)
}

func TestPUCTPrefersHigherPriorAtEqualVisits(t *testing.T) {
	parent := &fakeNode{visits: 16, player: 1}
	lowPrior := &fakeNode{visits: 4, sum: 0, prior: 0.1}
	highPrior := &fakeNode{visits: 4, sum: 0, prior: 0.8}

	p := treepolicy.NewPUCT()
	idx := p.Select(parent, []treepolicy.Node{lowPrior, highPrior})
	assert.Equal(t, 1, idx)
}

func TestScoredUCTPrefersHigherAverageScore(t *testing.T) {
	parent := &fakeNode{visits: 20, player: 1}
	low := &fakeNode{visits: 10, lo: -1, hi: 1, sum: -5}
	high := &fakeNode{visits: 10, lo: -1, hi: 1, sum: 5}

	p := treepolicy.ScoredUCT{C: 0, BlendPercent: 1}
	idx := p.Select(parent, []treepolicy.Node{low, high})
	assert.Equal(t, 1, idx)
}
