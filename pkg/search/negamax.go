package search

import (
	"context"
	"time"

	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search/tt"
)

// mateBound is the score assigned to "checkmated right now", at the node where the side to
// move has no legal moves and is in check. It sits above MinimumMateScore by MaxDepth so
// that negate can deflate it once per ply of recursion without ever crossing back below
// MinimumMateScore within the table's supported depth.
const mateBound = tt.MinimumMateScore + tt.MaxDepth

// AlphaBeta is a negamax alpha-beta search with transposition table cutoffs, MVV-LVA-ordered
// move generation, and a capture-only quiescence search at the horizon. It has no
// null-move pruning or late-move reductions: LazySMP gets its diversity from searching
// different helper depths and move orderings, not from a single deeply-pruned tree.
type AlphaBeta struct {
	Eval eval.Evaluator
}

func (a AlphaBeta) Search(ctx context.Context, wctx *Context, b *board.Board, depth int) PV {
	start := time.Now()
	score, moves := a.search(ctx, wctx, b, 0, depth, -tt.Infinity, tt.Infinity)
	return PV{
		Depth: depth,
		Moves: moves,
		Score: board.Score(score),
		Nodes: wctx.Nodes,
		Time:  time.Since(start),
	}
}

func (a AlphaBeta) search(ctx context.Context, wctx *Context, b *board.Board, ply, depth, alpha, beta int) (int, []board.Move) {
	wctx.Nodes++

	if err := ctx.Err(); err != nil {
		return int(a.evaluate(ctx, wctx, b)), nil
	}

	if depth <= 0 || ply >= tt.MaxDepth {
		return a.quiescence(ctx, wctx, b, ply, alpha, beta), nil
	}

	root := ply == 0
	key := uint64(b.Hash())

	hint := tt.NullMove
	if probe := wctx.TT.Probe(root, key, ply, alpha, beta, depth); probe.Outcome == tt.Cut {
		return probe.Value, nil
	} else if probe.Outcome == tt.Info {
		hint = probe.Hit.Move
	}

	moves := b.Position().PseudoLegalMoves(b.Turn())
	orderMoves(moves, hint)

	bestScore := -tt.Infinity
	bestMove := tt.NullMove
	var bestLine []board.Move
	flag := tt.BoundUpperBound
	legal := 0

	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}
		legal++

		var (
			score int
			line  []board.Move
		)
		if result := b.Result(); result.Outcome != board.Undecided {
			score = negate(terminalScore(result))
		} else {
			score, line = a.search(ctx, wctx, b, ply+1, depth-1, -beta, -alpha)
			score = negate(score)
		}
		b.PopMove()

		if score > bestScore {
			bestScore = score
			bestMove = tt.Move(board.PackMove(m))
			bestLine = append([]board.Move{m}, line...)
		}
		if score > alpha {
			alpha = score
			flag = tt.BoundExact
		}
		if alpha >= beta {
			flag = tt.BoundLowerBound
			break
		}
	}

	if legal == 0 {
		return terminalScore(b.AdjudicateNoLegalMoves()), nil
	}

	wctx.TT.Store(root, key, ply, bestMove, bestScore, flag, depth)
	return bestScore, bestLine
}

func (a AlphaBeta) quiescence(ctx context.Context, wctx *Context, b *board.Board, ply, alpha, beta int) int {
	wctx.Nodes++

	standPat := int(a.evaluate(ctx, wctx, b))
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	if ply >= tt.MaxDepth {
		return alpha
	}

	moves := captures(b.Position().PseudoLegalMoves(b.Turn()))
	orderMoves(moves, tt.NullMove)

	for _, m := range moves {
		if !b.PushMove(m) {
			continue
		}

		var score int
		if result := b.Result(); result.Outcome != board.Undecided {
			score = negate(terminalScore(result))
		} else {
			score = negate(a.quiescence(ctx, wctx, b, ply+1, -beta, -alpha))
		}
		b.PopMove()

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

func (a AlphaBeta) evaluate(ctx context.Context, wctx *Context, b *board.Board) board.Score {
	return a.Eval.Evaluate(ctx, b) + wctx.Noise.Evaluate(ctx, b)
}

// terminalScore scores a finished game from the side to move's perspective: checkmate is the
// worst score the side to move can receive, everything else (stalemate, repetition, the
// fifty-move rule, insufficient material) is a draw.
func terminalScore(result board.Result) int {
	if result.Reason == board.Checkmate {
		return -mateBound
	}
	return 0
}

// negate flips a child's score to the parent's perspective and, if it is a mate score,
// deflates its magnitude by one so that shorter mates are preferred over longer ones and
// mate scores found deeper in the tree never collide with MinimumMateScore.
func negate(score int) int {
	score = -score
	switch {
	case score > tt.MinimumMateScore:
		return score - 1
	case score < -tt.MinimumMateScore:
		return score + 1
	default:
		return score
	}
}
