package eval

import (
	"context"
	"math/rand"

	"github.com/vthas/viridithas/pkg/board"
)

// Random adds a small amount of centipawn noise to evaluations, in the range
// [-limit/2, limit-1-limit/2]. The zero value always returns zero, so an engine built without
// -noise behaves deterministically.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, b *board.Board) board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit) - n.limit/2)
}
