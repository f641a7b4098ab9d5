package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/board/fen"
	"github.com/vthas/viridithas/pkg/eval"
)

func newBoard(t *testing.T, position string) *board.Board {
	t.Helper()

	pos, turn, noprogress, fullmoves, err := fen.Decode(position)
	require.NoError(t, err)

	return board.NewBoard(board.NewZobristTable(0), pos, turn, noprogress, fullmoves)
}

func TestMaterialStartingPositionIsBalanced(t *testing.T) {
	b := newBoard(t, fen.Initial)
	w := eval.NewWeights()

	assert.Zero(t, eval.Material{Weights: w}.Evaluate(context.Background(), b))
}

func TestMaterialRewardsExtraPiece(t *testing.T) {
	// White is up a queen.
	b := newBoard(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	w := eval.NewWeights()

	score := eval.Material{Weights: w}.Evaluate(context.Background(), b)
	assert.Equal(t, w.Material[board.Queen], score)
}

func TestSumAddsEvaluators(t *testing.T) {
	b := newBoard(t, fen.Initial)
	w := eval.NewWeights()

	sum := eval.Sum{eval.Material{Weights: w}, eval.PST{Weights: w}, eval.Mobility{Weights: w}}
	got := sum.Evaluate(context.Background(), b)

	var want board.Score
	want += eval.Material{Weights: w}.Evaluate(context.Background(), b)
	want += eval.PST{Weights: w}.Evaluate(context.Background(), b)
	want += eval.Mobility{Weights: w}.Evaluate(context.Background(), b)

	assert.Equal(t, want, got)
}

func TestPSTSymmetricForMirroredSides(t *testing.T) {
	// A position symmetric across colors should score zero, since Black's squares mirror
	// White's in the same table.
	b := newBoard(t, fen.Initial)
	w := eval.NewWeights()

	assert.Zero(t, eval.PST{Weights: w}.Evaluate(context.Background(), b))
}

func TestRandomIsDeterministicForFixedSeed(t *testing.T) {
	b := newBoard(t, fen.Initial)

	a := eval.NewRandom(50, 42)
	c := eval.NewRandom(50, 42)

	assert.Equal(t, a.Evaluate(context.Background(), b), c.Evaluate(context.Background(), b))
}

func TestRandomZeroLimitIsAlwaysZero(t *testing.T) {
	b := newBoard(t, fen.Initial)
	n := eval.NewRandom(0, 7)

	assert.Zero(t, n.Evaluate(context.Background(), b))
}

func TestWeightsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/weights.yaml"

	w := eval.NewWeights()
	w.Mobility = 17

	require.NoError(t, eval.SaveWeights(path, w))

	loaded, err := eval.LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, w.Mobility, loaded.Mobility)
	assert.Equal(t, w.Material, loaded.Material)
}
