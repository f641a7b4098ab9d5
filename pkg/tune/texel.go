package tune

import (
	"context"
	"fmt"
	"math"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/board/fen"
	"github.com/vthas/viridithas/pkg/eval"
)

// sigmoidScale controls how centipawn scores map to a [0,1] win probability; 400 is the
// conventional Texel-tuning value (roughly, 400cp ~ 91% win probability).
const sigmoidScale = 400.0

// Options configure a tuning run.
type Options struct {
	Iterations int // coordinate-descent passes over every tunable parameter
	Step       int // centipawn step size tried at each parameter per pass
}

// Tune runs gradient-free coordinate-descent tuning of w's material and mobility weights
// against corpus, per the Texel-tuning method: each scalar parameter is nudged by +/-Step
// and kept if it lowers mean squared sigmoid error against the corpus's game results.
// PST entries are left untouched, since a per-square coordinate descent over the full table
// is too slow for a hand-run tuner; they are expected to be seeded from known-good values.
func Tune(ctx context.Context, w *eval.Weights, corpus []Position, opt Options) (*eval.Weights, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("empty corpus")
	}

	boards := make([]*board.Board, len(corpus))
	zt := board.NewZobristTable(0)
	for i, p := range corpus {
		pos, turn, noprogress, fullmoves, err := fen.Decode(p.FEN)
		if err != nil {
			return nil, fmt.Errorf("invalid corpus fen %q: %w", p.FEN, err)
		}
		boards[i] = board.NewBoard(zt, pos, turn, noprogress, fullmoves)
	}

	tuned := *w
	best := meanSquaredError(ctx, &tuned, boards, corpus)

	for iter := 0; iter < opt.Iterations; iter++ {
		improved := false

		for p := board.Pawn; p <= board.Queen; p++ {
			if next, err := bestOf(ctx, tuned, boards, corpus, best, opt.Step, func(w *eval.Weights, delta board.Score) {
				w.Material[p] += delta
			}); err == nil && next.err < best {
				tuned = next.w
				best = next.err
				improved = true
			}
		}

		if next, err := bestOf(ctx, tuned, boards, corpus, best, opt.Step, func(w *eval.Weights, delta board.Score) {
			w.Mobility += delta
		}); err == nil && next.err < best {
			tuned = next.w
			best = next.err
			improved = true
		}

		if !improved {
			break
		}
	}

	return &tuned, nil
}

type candidate struct {
	w   eval.Weights
	err float64
}

// bestOf tries both step directions for one parameter (via apply) and returns whichever of
// {-step, +step} improves on current, or an error if neither does.
func bestOf(ctx context.Context, w eval.Weights, boards []*board.Board, corpus []Position, current float64, step int, apply func(*eval.Weights, board.Score)) (candidate, error) {
	best := candidate{err: current}
	found := false

	for _, delta := range [...]board.Score{board.Score(step), board.Score(-step)} {
		trial := w
		apply(&trial, delta)

		err := meanSquaredError(ctx, &trial, boards, corpus)
		if err < best.err {
			best = candidate{w: trial, err: err}
			found = true
		}
	}

	if !found {
		return candidate{}, fmt.Errorf("no improving step")
	}
	return best, nil
}

func meanSquaredError(ctx context.Context, w *eval.Weights, boards []*board.Board, corpus []Position) float64 {
	e := eval.Sum{eval.Material{Weights: w}, eval.PST{Weights: w}, eval.Mobility{Weights: w}}

	var total float64
	for i, b := range boards {
		score := e.Evaluate(ctx, b)
		if b.Turn() == board.Black {
			score = -score // normalize to White's perspective, matching corpus.Result
		}

		predicted := sigmoid(float64(score))
		diff := corpus[i].Result - predicted
		total += diff * diff
	}
	return total / float64(len(boards))
}

func sigmoid(cp float64) float64 {
	return 1 / (1 + math.Pow(10, -cp/sigmoidScale))
}
