package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/seekerror/logw"

	"github.com/vthas/viridithas/pkg/engine"
	"github.com/vthas/viridithas/pkg/engine/console"
	"github.com/vthas/viridithas/pkg/engine/uci"
	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/search"
)

var (
	hash    = flag.Uint("hash", 64, "Transposition table size in MB (zero disables it)")
	workers = flag.Uint("workers", 1, "Number of search goroutines sharing the transposition table")
	noise   = flag.Uint("noise", 10, "Evaluation noise in millipawns (zero if deterministic)")
	weights = flag.String("weights", "", "Path to a YAML evaluation weights file (default built-in values)")
	book    = flag.String("book", "", "Path to a YAML opening book")
	seed    = flag.Int64("seed", time.Now().UnixNano(), "Random seed for noise and book move selection")

	interactive = flag.Bool("interactive", false, "Start directly in console mode with line editing, skipping protocol autodetection")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: viridithas [options]

VIRIDITHAS is a UCI chess engine with a lock-free shared transposition table.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	w := eval.NewWeights()
	if *weights != "" {
		loaded, err := eval.LoadWeights(*weights)
		if err != nil {
			logw.Exitf(ctx, "Failed to load weights: %v", err)
		}
		w = loaded
	}

	s := search.AlphaBeta{
		Eval: eval.Sum{
			eval.Material{Weights: w},
			eval.PST{Weights: w},
			eval.Mobility{Weights: w},
		},
	}

	e := engine.New(ctx, "viridithas", "vthas", s, engine.WithOptions(engine.Options{
		Hash:    *hash,
		Noise:   *noise,
		Workers: *workers,
	}), engine.WithZobrist(*seed))

	var uciOpts []uci.Option
	if *book != "" {
		b, err := engine.LoadBook(*book)
		if err != nil {
			logw.Exitf(ctx, "Failed to load book: %v", err)
		}
		uciOpts = append(uciOpts, uci.UseBook(b, *seed))
	}

	if *interactive {
		in := engine.ReadLinerLines(ctx)
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()
		return
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in, uciOpts...)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, s, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
