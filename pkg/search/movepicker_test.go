package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/search/tt"
)

func TestOrderMovesPutsCaptureFirstByMVVLVA(t *testing.T) {
	quiet := board.Move{Type: board.Normal, Piece: board.Knight, From: board.G1, To: board.F3}
	capturePawn := board.Move{Type: board.Capture, Piece: board.Knight, From: board.F3, To: board.E5, Capture: board.Pawn}
	captureQueen := board.Move{Type: board.Capture, Piece: board.Knight, From: board.F3, To: board.D4, Capture: board.Queen}

	moves := []board.Move{quiet, capturePawn, captureQueen}
	orderMoves(moves, tt.NullMove)

	assert.Equal(t, captureQueen, moves[0])
	assert.Equal(t, capturePawn, moves[1])
	assert.Equal(t, quiet, moves[2])
}

func TestOrderMovesPutsTTHintFirst(t *testing.T) {
	a := board.Move{Type: board.Normal, Piece: board.Pawn, From: board.E2, To: board.E4}
	b := board.Move{Type: board.Normal, Piece: board.Pawn, From: board.D2, To: board.D4}

	moves := []board.Move{a, b}
	hint := tt.Move(board.PackMove(b))

	orderMoves(moves, hint)
	assert.Equal(t, b, moves[0])
}

func TestCapturesFiltersNonCaptures(t *testing.T) {
	quiet := board.Move{Type: board.Normal}
	capture := board.Move{Type: board.Capture}
	enPassant := board.Move{Type: board.EnPassant}
	promo := board.Move{Type: board.Promotion}

	out := captures([]board.Move{quiet, capture, enPassant, promo})
	assert.ElementsMatch(t, []board.Move{capture, enPassant}, out)
}
