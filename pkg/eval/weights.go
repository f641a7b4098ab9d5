package eval

import (
	"fmt"
	"os"

	"github.com/vthas/viridithas/pkg/board"
	"gopkg.in/yaml.v3"
)

// Weights holds the tunable evaluation parameters. They are loaded from a YAML file so
// cmd/tune can rewrite them without a recompile, and so an operator can hand-edit a
// known-good set.
type Weights struct {
	Material [board.NumPieces]board.Score                   `yaml:"material"`
	PST      [board.NumPieces][board.NumSquares]board.Score `yaml:"pst"`
	Mobility board.Score                                    `yaml:"mobility"`
}

// NewWeights returns the default, hand-tuned starting weights: standard nominal material
// values in centipawns and a flat (all-zero) piece-square table. cmd/tune refines the
// material and mobility weights against a labelled position corpus; it leaves the
// piece-square table unchanged.
func NewWeights() *Weights {
	w := &Weights{}
	w.Material[board.Pawn] = 100
	w.Material[board.Knight] = 320
	w.Material[board.Bishop] = 330
	w.Material[board.Rook] = 500
	w.Material[board.Queen] = 900
	w.Mobility = 2
	return w
}

// LoadWeights reads a weight file written by SaveWeights or cmd/tune.
func LoadWeights(path string) (*Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}

	w := &Weights{}
	if err := yaml.Unmarshal(data, w); err != nil {
		return nil, fmt.Errorf("parse weights: %w", err)
	}
	return w, nil
}

// SaveWeights marshals w to path. cmd/tune prefers natefinch/atomic for the actual write so
// a killed tuning run cannot leave a torn file; this helper is for one-shot callers (tests,
// ad hoc dumps) that do not need that guarantee.
func SaveWeights(path string, w *Weights) error {
	data, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
