package eval

import (
	"context"

	"github.com/vthas/viridithas/pkg/board"
)

// PST scores each piece by its square, using a tunable table indexed from White's
// perspective; Black's squares are mirrored across the board's horizontal midline.
type PST struct {
	Weights *Weights
}

func (e PST) Evaluate(ctx context.Context, b *board.Board) board.Score {
	pos := b.Position()
	turn := b.Turn()

	return e.side(pos, turn) - e.side(pos, turn.Opponent())
}

func (e PST) side(pos *board.Position, c board.Color) board.Score {
	var score board.Score
	for p := board.Pawn; p <= board.King; p++ {
		for _, sq := range pos.Piece(c, p).ToSquares() {
			score += e.Weights.PST[p][mirror(c, sq)]
		}
	}
	return score
}

// mirror reflects sq vertically for Black, so both colors index the same White-oriented
// table.
func mirror(c board.Color, sq board.Square) board.Square {
	if c == board.White {
		return sq
	}
	return board.NewSquare(sq.File(), board.Rank8-sq.Rank())
}
