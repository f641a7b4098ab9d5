package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search"
	"github.com/vthas/viridithas/pkg/search/tt"
)

// Iterative is a single-goroutine iterative deepening search harness: it searches depth 1,
// 2, 3, ... reporting a PV after each, until a stopping condition fires.
type Iterative struct {
	Root search.Search
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, table search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, b, table, noise, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, b *board.Board, table search.TranspositionTable, noise eval.Random, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		pv := root.Search(wctx, &search.Context{TT: table, Noise: noise}, b, depth)
		pv.Time = time.Since(start)

		if h.quit.IsClosed() {
			return // Halt was called mid-search; discard the partial result.
		}

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if d, ok := mateDistance(pv.Score); ok && d <= depth {
			return // halt: forced mate found within full width search. Exact result.
		}
		if useSoft && soft < time.Since(start) {
			return // halt: exceeded soft time limit. Do not start new search.
		}
		depth++
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}

// mateDistance returns the number of plies to the forced mate a score represents, if any.
func mateDistance(score board.Score) (int, bool) {
	s := int(score)
	switch {
	case s > tt.MinimumMateScore:
		return tt.MinimumMateScore + tt.MaxDepth - s, true
	case s < -tt.MinimumMateScore:
		return tt.MinimumMateScore + tt.MaxDepth + s, true
	default:
		return 0, false
	}
}
