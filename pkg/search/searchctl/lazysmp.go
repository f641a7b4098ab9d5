package searchctl

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"github.com/vthas/viridithas/pkg/board"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search"
)

// LazySMP is a multi-goroutine iterative deepening harness. Every worker runs its own
// alpha-beta search against the same shared transposition table, starting at a staggered
// depth for diversity, and the deepest completed result wins. Workers never communicate
// directly; all coordination happens through the table's Store/Probe, the way a real lazy
// SMP engine shares state. Unlike Iterative, its PV channel carries a single PV, the
// aggregate sent once all workers have finished, and is then closed.
type LazySMP struct {
	Root search.Search
}

func (l *LazySMP) Launch(ctx context.Context, b *board.Board, table search.TranspositionTable, noise eval.Random, opt Options) (Handle, <-chan search.PV) {
	workers := opt.Workers
	if workers == 0 {
		workers = 1
	}

	out := make(chan search.PV, 1)
	h := &smpHandle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, l.Root, b, table, noise, opt, workers, out)

	return h, out
}

type smpHandle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *smpHandle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

func (h *smpHandle) process(ctx context.Context, root search.Search, b *board.Board, table search.TranspositionTable, noise eval.Random, opt Options, workers uint, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var totalNodes atomic.Uint64
	var wg sync.WaitGroup
	results := make(chan search.PV, workers)

	for id := uint(0); id < workers; id++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()

			fork := b.Fork()
			sctx := &search.Context{TT: table, Noise: noise}

			start := 1
			if id%2 == 1 {
				start = 2 // odd workers start one ply deeper for search diversity
			}
			if limit, ok := opt.DepthLimit.V(); ok && limit > 0 && uint(start) > limit {
				start = int(limit)
			}

			var best search.PV
			for depth := start; !h.quit.IsClosed(); depth++ {
				began := time.Now()
				pv := root.Search(wctx, sctx, fork, depth)
				pv.Time = time.Since(began)

				if h.quit.IsClosed() {
					break
				}
				best = pv

				if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
					break
				}
				if d, ok := mateDistance(pv.Score); ok && d <= depth {
					break
				}
				if useSoft && soft < time.Since(began) {
					break
				}
			}

			totalNodes.Add(sctx.Nodes)
			results <- best
		}(id)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var aggregate search.PV
	for pv := range results {
		if len(pv.Moves) == 0 {
			continue
		}
		if pv.Depth > aggregate.Depth || (pv.Depth == aggregate.Depth && pv.Score > aggregate.Score) {
			aggregate = pv
		}
	}
	aggregate.Nodes = totalNodes.Load()

	logw.Debugf(ctx, "LazySMP searched %v with %v workers: %v", b.Position(), workers, aggregate)

	h.mu.Lock()
	h.pv = aggregate
	h.mu.Unlock()

	out <- aggregate
	h.init.Close()
}
