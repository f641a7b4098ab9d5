package tt

import (
	"go.uber.org/atomic"
)

const entrySize = 8 // bytes per encoded Entry

// Hit carries the hinting information returned by Probe when a usable
// record was found but the caller still has to keep searching: a best move
// for ordering, the bound kind and depth the entry was written at, and the
// raw (not mate-reconstructed) stored score.
type Hit struct {
	Move  Move
	Depth int
	Bound Bound
	Value int
}

// ProbeOutcome discriminates the three shapes a Probe call can return.
type ProbeOutcome uint8

const (
	// Miss means the table has no usable information for this key.
	Miss ProbeOutcome = iota
	// Cut means the caller may return Value immediately from this node.
	Cut
	// Info means the caller gets a Hit for move ordering but must keep searching.
	Info
)

// ProbeResult is the outcome of a Probe call. Exactly one of Value (when
// Outcome == Cut) or Hit (when Outcome == Info) is meaningful.
type ProbeResult struct {
	Outcome ProbeOutcome
	Value   int
	Hit     Hit
}

// Table is a fixed-length array of independently atomic 64-bit cells. It is
// the sole owner of its backing storage; any number of callers may Store
// and Probe concurrently once it has been sized with Resize. There are no
// cross-cell invariants: every operation touches exactly one cell with a
// single atomic load or store, is wait-free, and never allocates or blocks.
type Table struct {
	cells []atomic.Uint64
}

// New returns an empty table (length zero). Call Resize before using it.
func New() *Table {
	return &Table{}
}

// Len returns the current number of cells.
func (t *Table) Len() int {
	return len(t.cells)
}

// Resize sets the table's capacity to floor(bytes/8) cells and fills every
// cell with the NULL encoding. Resize is destructive: no prior contents
// survive, and it must not be called concurrently with Store or Probe --
// it is a single-threaded setup operation invoked from option handling.
func (t *Table) Resize(bytes int) {
	length := bytes / entrySize
	if length < 0 {
		length = 0
	}
	t.cells = make([]atomic.Uint64, length)
	// make zero-initializes the slice, which is already the NULL encoding,
	// but Clear is run regardless to keep a single source of truth for "what
	// does an empty cell look like".
	t.Clear()
}

// Clear stores the NULL encoding into every cell. It may run concurrently
// with an active search; individual entries observed mid-Clear may be lost,
// but every cell read after Clear returns is either NULL or a write issued
// after Clear started.
func (t *Table) Clear() {
	null := encode(NullEntry)
	for i := range t.cells {
		t.cells[i].Store(null)
	}
}

// Store inserts a search result for key, subject to the replacement policy
// below. root is true iff this is the caller's root position, in which
// case the slot is always overwritten.
//
// If bestMove is NullMove, the existing slot's move is inherited, so that a
// fail-low re-store (which has no best move of its own) does not clobber a
// previously known good move. The score is normalised for ply before
// storage so that a cached mate distance remains meaningful when the entry
// is later probed from a different ply.
func (t *Table) Store(root bool, key uint64, ply int, bestMove Move, score int, flag Bound, depth int) {
	if len(t.cells) == 0 {
		return
	}

	index := wrapKey(key, len(t.cells))
	key16 := uint16(key)

	existing := decode(t.cells[index].Load())

	if bestMove == NullMove {
		bestMove = existing.Move
	}

	normalised := normaliseMateScore(score, ply)

	insQuality := depth + flag.bonus()
	curQuality := int(existing.Depth) + existing.Flag.bonus()

	replace := root ||
		existing.Key != key16 ||
		(flag == BoundExact && existing.Flag != BoundExact) ||
		3*insQuality >= 2*curQuality

	if !replace {
		return
	}

	entry := Entry{
		Key:   key16,
		Move:  bestMove,
		Score: int16(normalised),
		Depth: uint8(depth),
		Flag:  flag,
	}
	t.cells[index].Store(encode(entry))
}

// Probe looks up key for a node searched in [alpha, beta) at the given ply
// and depth. root is true iff this is the caller's root position: the root
// never takes a Cut, because the root caller must examine every move to
// build a well-defined principal variation.
func (t *Table) Probe(root bool, key uint64, ply, alpha, beta, depth int) ProbeResult {
	if len(t.cells) == 0 {
		return ProbeResult{Outcome: Miss}
	}

	index := wrapKey(key, len(t.cells))
	key16 := uint16(key)

	entry := decode(t.cells[index].Load())
	if entry.Key != key16 {
		return ProbeResult{Outcome: Miss}
	}

	entryDepth := int(entry.Depth)
	if entryDepth < depth {
		// Too shallow to trust for a cutoff, but the move and bound are
		// still useful for move ordering.
		return ProbeResult{
			Outcome: Info,
			Hit: Hit{
				Move:  entry.Move,
				Depth: entryDepth,
				Bound: entry.Flag,
				Value: int(entry.Score),
			},
		}
	}

	score := reconstructMateScore(int(entry.Score), ply)

	switch entry.Flag {
	case BoundNone:
		// Only reached when an all-zeros cell happens to share a
		// low-16-bit match with a real key. Treated as a miss because a
		// Store never legally writes BoundNone.
		return ProbeResult{Outcome: Miss}

	case BoundUpperBound:
		if !root && score <= alpha {
			return ProbeResult{Outcome: Cut, Value: alpha}
		}
		return ProbeResult{Outcome: Info, Hit: Hit{Move: entry.Move, Depth: entryDepth, Bound: entry.Flag, Value: int(entry.Score)}}

	case BoundLowerBound:
		if !root && score >= beta {
			return ProbeResult{Outcome: Cut, Value: beta}
		}
		return ProbeResult{Outcome: Info, Hit: Hit{Move: entry.Move, Depth: entryDepth, Bound: entry.Flag, Value: int(entry.Score)}}

	case BoundExact:
		if root {
			return ProbeResult{Outcome: Info, Hit: Hit{Move: entry.Move, Depth: entryDepth, Bound: entry.Flag, Value: int(entry.Score)}}
		}
		return ProbeResult{Outcome: Cut, Value: score}

	default:
		return ProbeResult{Outcome: Miss}
	}
}

// Hashfull returns the occupancy of the first 1000 cells in per-mille, the
// UCI "hashfull" convention. Occupied means the decoded Key fragment is
// non-zero. Uses relaxed loads: this is reporting only, with no ordering
// requirements against Store/Probe.
func (t *Table) Hashfull() int {
	n := len(t.cells)
	if n > 1000 {
		n = 1000
	}

	used := 0
	for i := 0; i < n; i++ {
		if uint16(t.cells[i].Load()) != 0 {
			used++
		}
	}
	return used
}
