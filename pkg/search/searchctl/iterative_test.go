package searchctl

import (
	"context"
	"testing"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/board/fen"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search"
	"github.com/vthas/viridithas/pkg/search/tt"
)

// fakeSearch returns a one-move PV whose depth echoes the requested depth, so tests can
// observe how many iterations a launcher ran without depending on real move generation cost.
type fakeSearch struct {
	move  board.Move
	score board.Score
}

func (f fakeSearch) Search(ctx context.Context, wctx *search.Context, b *board.Board, depth int) search.PV {
	return search.PV{Depth: depth, Moves: []board.Move{f.move}, Score: f.score}
}

func newTestBoard(t *testing.T) *board.Board {
	t.Helper()

	pos, turn, noprogress, fullmoves, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	return board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)
}

func drain(out <-chan search.PV) []search.PV {
	var all []search.PV
	for pv := range out {
		all = append(all, pv)
	}
	return all
}

func TestIterativeStopsAtDepthLimit(t *testing.T) {
	it := &Iterative{Root: fakeSearch{move: board.Move{From: board.E2, To: board.E4}}}

	b := newTestBoard(t)
	_, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, eval.Random{}, Options{
		DepthLimit: lang.Some(uint(3)),
	})

	all := drain(out)
	require.NotEmpty(t, all)
	assert.Equal(t, 3, all[len(all)-1].Depth)
}

func TestIterativeHaltReturnsLastPV(t *testing.T) {
	it := &Iterative{Root: fakeSearch{move: board.Move{From: board.D2, To: board.D4}}}

	b := newTestBoard(t)
	h, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, eval.Random{}, Options{
		DepthLimit: lang.Some(uint(2)),
	})

	drain(out)
	pv := h.Halt()
	assert.Equal(t, 2, pv.Depth)
	assert.Equal(t, board.D2, pv.Moves[0].From)
}

func TestMateDistancePositive(t *testing.T) {
	score := board.Score(tt.MinimumMateScore + tt.MaxDepth - 4)
	d, ok := mateDistance(score)
	assert.True(t, ok)
	assert.Equal(t, 4, d)
}

func TestMateDistanceNegative(t *testing.T) {
	score := board.Score(-(tt.MinimumMateScore + tt.MaxDepth - 4))
	d, ok := mateDistance(score)
	assert.True(t, ok)
	assert.Equal(t, 4, d)
}

func TestMateDistanceNoneForOrdinaryScore(t *testing.T) {
	_, ok := mateDistance(board.Score(150))
	assert.False(t, ok)
}

func TestOptionsString(t *testing.T) {
	opt := Options{DepthLimit: lang.Some(uint(5)), Workers: 4}
	assert.Contains(t, opt.String(), "depth=5")
	assert.Contains(t, opt.String(), "workers=4")
}
