// tune runs Texel-style coordinate-descent tuning of the evaluation weights against a
// labelled position corpus.
package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/seekerror/logw"

	"github.com/vthas/viridithas/pkg/eval"
	"github.com/vthas/viridithas/pkg/tune"
)

var (
	corpusPath  = flag.StringP("corpus", "c", "", "Path to a labelled position corpus (plain text, or .lzo compressed)")
	weightsPath = flag.StringP("weights", "w", "", "Path to initial weights (default built-in values)")
	outPath     = flag.StringP("out", "o", "weights.yaml", "Path to write tuned weights")
	iterations  = flag.IntP("iterations", "i", 25, "Coordinate-descent passes over the corpus")
	step        = flag.IntP("step", "s", 4, "Centipawn step size per tuning pass")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	if *corpusPath == "" {
		logw.Exitf(ctx, "missing required -corpus flag")
	}

	corpus, err := tune.LoadCorpus(*corpusPath)
	if err != nil {
		logw.Exitf(ctx, "failed to load corpus: %v", err)
	}
	logw.Infof(ctx, "Loaded %v positions from %v", len(corpus), *corpusPath)

	w := eval.NewWeights()
	if *weightsPath != "" {
		if w, err = eval.LoadWeights(*weightsPath); err != nil {
			logw.Exitf(ctx, "failed to load weights: %v", err)
		}
	}

	tuned, err := tune.Tune(ctx, w, corpus, tune.Options{Iterations: *iterations, Step: *step})
	if err != nil {
		logw.Exitf(ctx, "tuning failed: %v", err)
	}

	data, err := yaml.Marshal(tuned)
	if err != nil {
		logw.Exitf(ctx, "failed to marshal tuned weights: %v", err)
	}

	if err := atomic.WriteFile(*outPath, bytes.NewReader(data)); err != nil {
		logw.Exitf(ctx, "failed to write %v: %v", *outPath, err)
	}

	fmt.Printf("wrote tuned weights to %v\n", *outPath)
}
