// Package tune implements Texel-style coordinate-descent tuning of pkg/eval's weights
// against a labelled position corpus.
package tune

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/lzo"
)

// Position is one labelled training example: a FEN string and the game's outcome from
// White's perspective (1 = White won, 0.5 = draw, 0 = White lost).
type Position struct {
	FEN    string
	Result float64
}

// corpusMagic identifies an LZO-compressed corpus file. Plain corpora have no header: they
// are just "<fen>;<result>" lines, one per position.
var corpusMagic = [4]byte{'V', 'T', 'L', 'Z'}

// LoadCorpus reads a labelled position corpus from path. Files ending in ".lzo" are expected
// to carry the corpusMagic header written by SaveCorpusCompressed; anything else is read as
// plain "<fen>;<result>" lines.
func LoadCorpus(path string) ([]Position, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	if strings.HasSuffix(path, ".lzo") {
		data, err = decompressCorpus(data)
		if err != nil {
			return nil, fmt.Errorf("decompress corpus: %w", err)
		}
	}

	return parseCorpus(data)
}

// SaveCorpusCompressed LZO-compresses positions and writes them to path, for large corpora
// that would otherwise be unwieldy to keep as plain text.
func SaveCorpusCompressed(path string, positions []Position) error {
	var sb strings.Builder
	writeCorpus(&sb, positions)
	raw := []byte(sb.String())

	compressed, err := lzo.Compress(raw, lzo.DefaultCompressOptions())
	if err != nil {
		return fmt.Errorf("compress corpus: %w", err)
	}

	out := make([]byte, 0, len(corpusMagic)+4+len(compressed))
	out = append(out, corpusMagic[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(raw)))
	out = append(out, compressed...)

	return os.WriteFile(path, out, 0644)
}

func decompressCorpus(data []byte) ([]byte, error) {
	if len(data) < len(corpusMagic)+4 || [4]byte(data[:4]) != corpusMagic {
		return nil, fmt.Errorf("missing corpus header")
	}

	outLen := binary.LittleEndian.Uint32(data[4:8])
	opts := lzo.DefaultDecompressOptions(int(outLen))
	return lzo.Decompress(data[8:], opts)
}

func parseCorpus(data []byte) ([]Position, error) {
	var positions []Position

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.LastIndex(line, ";")
		if idx < 0 {
			return nil, fmt.Errorf("invalid corpus line: %q", line)
		}

		result, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid result in line %q: %w", line, err)
		}

		positions = append(positions, Position{FEN: strings.TrimSpace(line[:idx]), Result: result})
	}
	return positions, scanner.Err()
}

func writeCorpus(sb *strings.Builder, positions []Position) {
	for _, p := range positions {
		fmt.Fprintf(sb, "%v;%v\n", p.FEN, p.Result)
	}
}
