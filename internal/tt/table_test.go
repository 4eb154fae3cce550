package tt_test

import (
	"testing"

	"github.com/nicozeitz/patchwork/internal/tt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreThenProbeExact(t *testing.T) {
	table := tt.New(1024)
	const hash = uint64(0xDEADBEEF)
	table.Store(hash, 5, 42, tt.Exact, 99, 1)

	actionID, eval, found := table.Probe(hash, tt.NegativeInfinity, tt.PositiveInfinity, 5)
	require.True(t, found)
	assert.Equal(t, uint32(99), actionID)
	assert.Equal(t, int32(42), eval)
}

func TestProbeRejectsShallowerStoredDepth(t *testing.T) {
	table := tt.New(1024)
	const hash = uint64(12345)
	table.Store(hash, 2, 10, tt.Exact, 1, 1)

	_, _, found := table.Probe(hash, tt.NegativeInfinity, tt.PositiveInfinity, 5)
	assert.False(t, found)
}

func TestProbeMissOnEmptySlot(t *testing.T) {
	table := tt.New(1024)
	_, _, found := table.Probe(0xABCDEF, tt.NegativeInfinity, tt.PositiveInfinity, 0)
	assert.False(t, found)
}

func TestProbeUpperBoundOnlyUsableBelowAlpha(t *testing.T) {
	table := tt.New(1024)
	const hash = uint64(777)
	table.Store(hash, 3, -50, tt.UpperBound, 7, 1)

	_, _, found := table.Probe(hash, -100, 100, 3)
	assert.False(t, found, "an UpperBound entry above alpha cannot be reused")

	actionID, eval, found := table.Probe(hash, -40, 100, 3)
	require.True(t, found)
	assert.Equal(t, uint32(7), actionID)
	assert.Equal(t, int32(-40), eval)
}

func TestProbeLowerBoundOnlyUsableAboveBeta(t *testing.T) {
	table := tt.New(1024)
	const hash = uint64(888)
	table.Store(hash, 3, 50, tt.LowerBound, 9, 1)

	_, _, found := table.Probe(hash, -100, 100, 3)
	assert.False(t, found, "a LowerBound entry below beta cannot be reused")

	actionID, eval, found := table.Probe(hash, -100, 40, 3)
	require.True(t, found)
	assert.Equal(t, uint32(9), actionID)
	assert.Equal(t, int32(40), eval)
}

func TestDeeperSameAgeEntrySurvivesShallowerOverwrite(t *testing.T) {
	table := tt.New(1)
	const hash = uint64(1)
	table.Store(hash, 10, 5, tt.Exact, 1, 1)
	table.Store(hash, 3, 999, tt.Exact, 2, 1)

	actionID, eval, found := table.Probe(hash, tt.NegativeInfinity, tt.PositiveInfinity, 3)
	require.True(t, found)
	assert.Equal(t, uint32(1), actionID, "a same-age, shallower search must not evict a deeper result")
	assert.Equal(t, int32(5), eval)
}

func TestNewerAgeOverwritesEvenIfShallower(t *testing.T) {
	table := tt.New(1)
	const hash = uint64(1)
	table.Store(hash, 10, 5, tt.Exact, 1, 1)
	table.Store(hash, 3, 999, tt.Exact, 2, 2)

	actionID, _, found := table.Probe(hash, tt.NegativeInfinity, tt.PositiveInfinity, 3)
	require.True(t, found)
	assert.Equal(t, uint32(2), actionID)
}

func TestDiagnosticsTrackHitsAndMisses(t *testing.T) {
	table := tt.New(1024)
	table.Store(1, 1, 0, tt.Exact, 1, 1)
	table.Probe(1, tt.NegativeInfinity, tt.PositiveInfinity, 1)
	table.Probe(2, tt.NegativeInfinity, tt.PositiveInfinity, 1)

	diag := table.Diagnostics()
	assert.Equal(t, uint64(2), diag.Accesses.Load())
	assert.Equal(t, uint64(1), diag.Misses.Load())
	assert.Equal(t, uint64(1), diag.Hits())
}
