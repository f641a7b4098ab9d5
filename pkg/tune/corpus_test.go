package tune_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vthas/viridithas/pkg/board/fen"
	"github.com/vthas/viridithas/pkg/tune"
)

func TestLoadCorpusPlainText(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/corpus.txt"

	body := fen.Initial + ";0.5\n# a comment\n\n" + fen.Initial + ";1\n"
	require.NoError(t, writeFile(path, body))

	got, err := tune.LoadCorpus(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, fen.Initial, got[0].FEN)
	assert.Equal(t, 0.5, got[0].Result)
	assert.Equal(t, 1.0, got[1].Result)
}

func TestLoadCorpusRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/corpus.txt"
	require.NoError(t, writeFile(path, "not a valid line\n"))

	_, err := tune.LoadCorpus(path)
	assert.Error(t, err)
}

func TestSaveAndLoadCompressedCorpusRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/corpus.lzo"

	want := []tune.Position{
		{FEN: fen.Initial, Result: 1},
		{FEN: fen.Initial, Result: 0},
	}
	require.NoError(t, tune.SaveCorpusCompressed(path, want))

	got, err := tune.LoadCorpus(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func writeFile(path, body string) error {
	return os.WriteFile(path, []byte(body), 0644)
}
