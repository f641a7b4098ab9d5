// Package search contains the alpha-beta search driver and its transposition table
// collaborator. The table itself lives in pkg/search/tt; this package owns move ordering,
// the negamax tree walk, quiescence, and converting between board.Move and the table's
// opaque 16-bit token.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search/tt"
)

// PV is a principal variation: the best line found, its score, and basic search stats.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
}

func (pv PV) String() string {
	return fmt.Sprintf("{depth=%v, score=%v, nodes=%v, time=%v, pv=%v}", pv.Depth, pv.Score, pv.Nodes, pv.Time, pv.Moves)
}

// Context carries the per-call collaborators and mutable counters a search needs: the
// shared transposition table, evaluation noise, and a node counter the caller can read for
// "info nodes" reporting or a soft node limit.
type Context struct {
	TT    TranspositionTable
	Noise eval.Random
	Nodes uint64
}

// Search runs a fixed-depth search from the current position and returns its principal
// variation. Implementations are expected to consult wctx.TT for move ordering and cutoffs
// and to increment wctx.Nodes once per visited node.
type Search interface {
	Search(ctx context.Context, wctx *Context, b *board.Board, depth int) PV
}

// TranspositionTable is the interface the search driver uses to talk to the shared table
// in pkg/search/tt. *tt.Table satisfies it directly; NoTranspositionTable is a null object
// for when hashing is disabled.
type TranspositionTable interface {
	Store(root bool, key uint64, ply int, move tt.Move, score int, flag tt.Bound, depth int)
	Probe(root bool, key uint64, ply, alpha, beta, depth int) tt.ProbeResult
	Resize(bytes int)
	Clear()
	Hashfull() int
}

// TranspositionTableFactory constructs a TranspositionTable of the given byte size.
type TranspositionTableFactory func(ctx context.Context, bytes uint64) TranspositionTable

// NewTranspositionTable is the default TranspositionTableFactory, backed by pkg/search/tt.
func NewTranspositionTable(ctx context.Context, bytes uint64) TranspositionTable {
	table := tt.New()
	table.Resize(int(bytes))
	return table
}

// NoTranspositionTable is a null TranspositionTable: every probe misses, every store is a
// no-op. Used when the engine is configured with Hash=0.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Store(bool, uint64, int, tt.Move, int, tt.Bound, int) {}

func (NoTranspositionTable) Probe(bool, uint64, int, int, int, int) tt.ProbeResult {
	return tt.ProbeResult{Outcome: tt.Miss}
}

func (NoTranspositionTable) Resize(int) {}

func (NoTranspositionTable) Clear() {}

func (NoTranspositionTable) Hashfull() int { return 0 }
