package search_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/board/fen"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search"
	"github.com/vthas/viridithas/pkg/search/tt"
)

func newBoard(t *testing.T, position string) *board.Board {
	t.Helper()

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	require.NoError(t, err)

	return board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)
}

func TestAlphaBetaFindsMateInOne(t *testing.T) {
	// White to move after 1.e4 e5 2.Bc4 Bc5 3.Qh5 Nf6??, where Qxf7 is the classic
	// "scholar's mate" finish: the queen is defended by the bishop on c4.
	b := newBoard(t, "rnbqk2r/pppp1ppp/5n2/2b1p2Q/2B1P3/8/PPPP1PPP/RN2KBNR w KQkq - 4 4")

	a := search.AlphaBeta{Eval: eval.Sum{eval.Material{Weights: eval.NewWeights()}}}
	pv := a.Search(context.Background(), &search.Context{TT: search.NoTranspositionTable{}}, b, 3)

	require.NotEmpty(t, pv.Moves)

	want := board.Move{Type: board.Capture, Piece: board.Queen, From: board.H5, To: board.F7, Capture: board.Pawn}
	if diff := cmp.Diff(want, pv.Moves[0]); diff != "" {
		t.Fatalf("Qxf7# mismatch (-want +got):\n%s", diff)
	}
	assert.Greater(t, int(pv.Score), tt.MinimumMateScore)
}

func TestAlphaBetaPrefersMaterialGain(t *testing.T) {
	// White to move with an undefended black knight on c4, capturable by the knight on e5.
	b := newBoard(t, "r1bqkbnr/pppppppp/8/4N3/2n5/8/PPPPPPPP/RNBQKB1R w KQkq - 0 1")

	a := search.AlphaBeta{Eval: eval.Sum{eval.Material{Weights: eval.NewWeights()}}}
	pv := a.Search(context.Background(), &search.Context{TT: search.NoTranspositionTable{}}, b, 2)

	require.NotEmpty(t, pv.Moves)
	assert.Equal(t, board.C4, pv.Moves[0].To)
}

func TestAlphaBetaUsesTranspositionTable(t *testing.T) {
	b := newBoard(t, fen.Initial)

	table := tt.New()
	table.Resize(8192) // 1024 cells, so most of them fall in Hashfull's 1000-cell sample

	a := search.AlphaBeta{Eval: eval.Sum{eval.Material{Weights: eval.NewWeights()}}}
	pv := a.Search(context.Background(), &search.Context{TT: table}, b, 3)

	require.NotEmpty(t, pv.Moves)
	assert.Greater(t, table.Hashfull(), 0)
}

func TestAlphaBetaNoLegalMovesReturnsEmptyPV(t *testing.T) {
	// Fool's mate position: Black has just delivered checkmate, White to move has no moves.
	b := newBoard(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	a := search.AlphaBeta{Eval: eval.Sum{eval.Material{Weights: eval.NewWeights()}}}
	pv := a.Search(context.Background(), &search.Context{TT: search.NoTranspositionTable{}}, b, 2)

	assert.Empty(t, pv.Moves)
}
