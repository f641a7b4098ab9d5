package eval

import (
	"context"

	"github.com/vthas/viridithas/pkg/board"
)

// Mobility rewards officers (non-pawn, non-king pieces) for the number of squares they
// attack, per the Weights.Mobility-per-piece bonus. Pins are not excluded: a precise
// mobility count would subtract pinned attack rays, but that is a refinement left to
// cmd/tune's corpus rather than hand-tuned here.
type Mobility struct {
	Weights *Weights
}

func (e Mobility) Evaluate(ctx context.Context, b *board.Board) board.Score {
	pos := b.Position()
	turn := b.Turn()

	return e.side(pos, turn) - e.side(pos, turn.Opponent())
}

func (e Mobility) side(pos *board.Position, c board.Color) board.Score {
	own := pos.Color(c)

	var score board.Score
	for _, piece := range [...]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		for _, sq := range pos.Piece(c, piece).ToSquares() {
			attacks := board.Attackboard(pos.Rotated(), sq, piece) &^ own
			score += board.Score(attacks.PopCount()) * e.Weights.Mobility
		}
	}
	return score
}
