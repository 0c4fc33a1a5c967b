package textbook_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/hip/pkg/textbook"
)

// fakeEmbedder returns a deterministic vector per text and counts corpus
// embedding runs, so cache hits and regenerations are observable.
type fakeEmbedder struct {
	name string
	runs int
	fail bool
}

func (f *fakeEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.runs++
	if f.fail {
		return nil, errors.New("embedding backend down")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeEmbedder) Model() string {
	if f.name == "" {
		return "fake-embed-v1"
	}
	return f.name
}

func writeTextbook(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "textbook.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newProcessor(path, cacheDir string, emb *fakeEmbedder) *textbook.Processor {
	return textbook.NewProcessor(textbook.ProcessorConfig{
		Path:         path,
		CacheDir:     cacheDir,
		ChunkSize:    25,
		ChunkOverlap: 5,
	}, emb)
}

const sampleText = "Cells are the basic structural unit of all living organisms on earth.\n\n" +
	"Plant cells contain chloroplasts that perform all their photosynthesis.\n\n" +
	"Animal cells lack cell walls but contain many other shared organelles.\n"

func TestProcessGeneratesAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := writeTextbook(t, dir, sampleText)
	cacheDir := filepath.Join(dir, ".cache")
	emb := &fakeEmbedder{}

	chunks, embeddings, err := newProcessor(path, cacheDir, emb).Process(context.Background(), false)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	require.Len(t, embeddings, len(chunks))
	assert.Equal(t, 1, emb.runs)
	assert.FileExists(t, filepath.Join(cacheDir, "textbook_embeddings.json"))

	// A fresh processor over the same file and model reuses the cache.
	chunks2, embeddings2, err := newProcessor(path, cacheDir, emb).Process(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, emb.runs)
	assert.Equal(t, chunks, chunks2)
	assert.Equal(t, len(embeddings), len(embeddings2))
}

func TestProcessRegeneratesOnTextChange(t *testing.T) {
	dir := t.TempDir()
	path := writeTextbook(t, dir, sampleText)
	cacheDir := filepath.Join(dir, ".cache")
	emb := &fakeEmbedder{}

	_, _, err := newProcessor(path, cacheDir, emb).Process(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, emb.runs)

	writeTextbook(t, dir, sampleText+"\n\nRibosomes translate messenger RNA into proteins.\n")

	_, _, err = newProcessor(path, cacheDir, emb).Process(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, emb.runs, "changed textbook hash must force regeneration")
}

func TestProcessRegeneratesOnModelChange(t *testing.T) {
	dir := t.TempDir()
	path := writeTextbook(t, dir, sampleText)
	cacheDir := filepath.Join(dir, ".cache")

	first := &fakeEmbedder{name: "fake-embed-v1"}
	_, _, err := newProcessor(path, cacheDir, first).Process(context.Background(), false)
	require.NoError(t, err)

	second := &fakeEmbedder{name: "fake-embed-v2"}
	_, _, err = newProcessor(path, cacheDir, second).Process(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, second.runs, "model change must force regeneration")
}

func TestProcessForceRegenerate(t *testing.T) {
	dir := t.TempDir()
	path := writeTextbook(t, dir, sampleText)
	cacheDir := filepath.Join(dir, ".cache")
	emb := &fakeEmbedder{}

	_, _, err := newProcessor(path, cacheDir, emb).Process(context.Background(), false)
	require.NoError(t, err)

	_, _, err = newProcessor(path, cacheDir, emb).Process(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, emb.runs)
}

func TestProcessMissingTextbook(t *testing.T) {
	dir := t.TempDir()
	emb := &fakeEmbedder{}

	_, _, err := newProcessor(filepath.Join(dir, "missing.txt"), dir, emb).Process(context.Background(), false)
	assert.ErrorIs(t, err, textbook.ErrNotFound)
	assert.Zero(t, emb.runs)
}

func TestProcessEmbeddingFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeTextbook(t, dir, sampleText)
	emb := &fakeEmbedder{fail: true}

	_, _, err := newProcessor(path, filepath.Join(dir, ".cache"), emb).Process(context.Background(), false)
	require.Error(t, err)
	// No partial cache is left behind.
	assert.NoFileExists(t, filepath.Join(dir, ".cache", "textbook_embeddings.json"))
}
