package tt

import "sync/atomic"

// slot is one lockless-hashing cell: key is always hash^data, so a reader
// that reloads key and data independently (no lock) can detect a torn write
// by recomputing hash^data and comparing; a mismatch is treated as a miss
// rather than a crash, which is the point of the scheme.
type slot struct {
	key  atomic.Uint64
	data atomic.Uint64
	age  atomic.Uint32
}

// Table is a fixed-capacity transposition table addressed by hash % len.
type Table struct {
	entries []slot
	diag    Diagnostics
}

// Diagnostics mirrors the original engine's TranspositionTableDiagnostics:
// atomic counters safe to read concurrently with search.
type Diagnostics struct {
	Accesses   atomic.Uint64
	Misses     atomic.Uint64
	Overwrites atomic.Uint64
	StoredKeys atomic.Uint64
}

func (d *Diagnostics) Hits() uint64 { return d.Accesses.Load() - d.Misses.Load() }

func (d *Diagnostics) HitRatio() float64 {
	accesses := d.Accesses.Load()
	if accesses == 0 {
		return 0
	}
	return float64(d.Hits()) / float64(accesses)
}

func (d *Diagnostics) FillRatio(capacity int) float64 {
	if capacity == 0 {
		return 0
	}
	return float64(d.StoredKeys.Load()) / float64(capacity)
}

// New allocates a table with room for capacityInEntries positions.
func New(capacityInEntries int) *Table {
	if capacityInEntries < 1 {
		capacityInEntries = 1
	}
	return &Table{entries: make([]slot, capacityInEntries)}
}

// Capacity returns the table's entry count.
func (t *Table) Capacity() int { return len(t.entries) }

// Diagnostics exposes the table's running counters.
func (t *Table) Diagnostics() *Diagnostics { return &t.diag }

func (t *Table) index(hash uint64) int {
	return int(hash % uint64(len(t.entries)))
}

// Store records the result of searching hash to the given depth. Replacement
// policy favors deeper, more-recent searches: an empty slot, a slot from an
// earlier search (age mismatch), or a slot searched to a shallower or equal
// depth are all overwritten; a slot holding a deeper same-age result is kept.
func (t *Table) Store(hash uint64, depth uint8, evaluation int32, evalType EvaluationType, actionID uint32, age uint32) {
	s := &t.entries[t.index(hash)]
	existingData := s.data.Load()
	existingKey := s.key.Load()
	occupied := existingKey != 0 || existingData != 0
	replace := true
	if occupied {
		existingAge := s.age.Load()
		existingDepth := Data(existingData).Depth()
		if existingAge == age && existingDepth > depth {
			replace = false
		}
		if replace {
			t.diag.Overwrites.Add(1)
		}
	} else {
		t.diag.StoredKeys.Add(1)
	}
	if !replace {
		return
	}
	data := uint64(PackData(depth, evaluation, evalType, actionID))
	s.data.Store(data)
	s.key.Store(hash ^ data)
	s.age.Store(age)
}

// Probe mirrors the original engine's probe_hash_entry: validate the slot via
// the XOR check, reject entries searched to a shallower depth than requested,
// then apply the usual alpha-beta reuse rule for the entry's EvaluationType.
// found is false whenever the stored value cannot safely be reused, in which
// case the caller must re-search.
func (t *Table) Probe(hash uint64, alpha, beta int32, depth uint8) (actionID uint32, evaluation int32, found bool) {
	t.diag.Accesses.Add(1)
	s := &t.entries[t.index(hash)]
	data := s.data.Load()
	key := s.key.Load()
	if key != hash^data {
		t.diag.Misses.Add(1)
		return 0, 0, false
	}

	tableDepth, tableEval, evalType, tableAction := Data(data).Unpack()
	if tableDepth < depth {
		t.diag.Misses.Add(1)
		return 0, 0, false
	}

	switch evalType {
	case Exact:
		return tableAction, clampEval(tableEval, alpha, beta), true
	case UpperBound:
		if tableEval <= alpha {
			return tableAction, alpha, true
		}
	case LowerBound:
		if tableEval >= beta {
			return tableAction, beta, true
		}
	}
	t.diag.Misses.Add(1)
	return 0, 0, false
}

// BestAction returns the action id stored for hash regardless of depth or
// alpha-beta window, or (0, false) on a miss. Used for move ordering (trying
// the table's best move first) where the stricter Probe rules don't apply.
func (t *Table) BestAction(hash uint64) (actionID uint32, found bool) {
	s := &t.entries[t.index(hash)]
	data := s.data.Load()
	key := s.key.Load()
	if key != hash^data {
		return 0, false
	}
	return Data(data).ActionID(), true
}

// Clear resets every slot and all diagnostics counters, used between games.
func (t *Table) Clear() {
	t.entries = make([]slot, len(t.entries))
	t.diag = Diagnostics{}
}
