// Package eval contains static position evaluation: material, piece-square tables,
// mobility and tunable weights.
package eval

import (
	"context"

	"github.com/vthas/viridithas/pkg/board"
)

// Evaluator is a static position evaluator. It returns the position score in centipawns
// from the perspective of the side to move.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) board.Score
}

// Sum composes evaluators by summing their scores.
type Sum []Evaluator

func (s Sum) Evaluate(ctx context.Context, b *board.Board) board.Score {
	var total board.Score
	for _, e := range s {
		total += e.Evaluate(ctx, b)
	}
	return total
}

// Material returns the nominal material advantage for the side to move, in centipawns,
// weighted by the given table (see NewWeights for the default values).
type Material struct {
	Weights *Weights
}

func (m Material) Evaluate(ctx context.Context, b *board.Board) board.Score {
	pos := b.Position()
	turn := b.Turn()

	var score board.Score
	for p := board.Pawn; p <= board.Queen; p++ {
		diff := pos.Piece(turn, p).PopCount() - pos.Piece(turn.Opponent(), p).PopCount()
		score += board.Score(diff) * m.Weights.Material[p]
	}
	return score
}
