package retriever_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/hip/internal/models"
	"github.com/xhad/hip/pkg/retriever"
)

type stubEmbedder struct {
	queryVec []float32
	err      error
}

func (s *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return s.queryVec, s.err
}

func (s *stubEmbedder) Model() string { return "stub-model" }

func testChunks() ([]models.Chunk, [][]float32) {
	chunks := []models.Chunk{
		{Text: "about osmosis", ChunkIndex: 0},
		{Text: "about enzymes", ChunkIndex: 1},
		{Text: "about mitosis", ChunkIndex: 2},
	}
	embeddings := [][]float32{
		{1, 0},
		{0.9, 0.1},
		{0, 1},
	}
	return chunks, embeddings
}

func TestNewLengthMismatch(t *testing.T) {
	chunks, embeddings := testChunks()
	_, err := retriever.New(chunks, embeddings[:2], &stubEmbedder{})
	assert.Error(t, err)
}

func TestRetrieveRanksByScore(t *testing.T) {
	chunks, embeddings := testChunks()
	r, err := retriever.New(chunks, embeddings, &stubEmbedder{queryVec: []float32{1, 0}})
	require.NoError(t, err)

	results := r.Retrieve(context.Background(), "how does osmosis work", 2)
	require.Len(t, results, 2)

	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.Equal(t, 1, results[1].ChunkIndex)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestRetrieveClampsTopK(t *testing.T) {
	chunks, embeddings := testChunks()
	r, err := retriever.New(chunks, embeddings, &stubEmbedder{queryVec: []float32{1, 0}})
	require.NoError(t, err)

	results := r.Retrieve(context.Background(), "osmosis", 50)
	assert.Len(t, results, len(chunks))
}

func TestRetrieveEmptyQuery(t *testing.T) {
	chunks, embeddings := testChunks()
	r, err := retriever.New(chunks, embeddings, &stubEmbedder{queryVec: []float32{1, 0}})
	require.NoError(t, err)

	assert.Empty(t, r.Retrieve(context.Background(), "", 3))
	assert.Empty(t, r.Retrieve(context.Background(), "   \t", 3))
}

func TestRetrieveNonPositiveTopK(t *testing.T) {
	chunks, embeddings := testChunks()
	r, err := retriever.New(chunks, embeddings, &stubEmbedder{queryVec: []float32{1, 0}})
	require.NoError(t, err)

	assert.Empty(t, r.Retrieve(context.Background(), "osmosis", 0))
}

func TestRetrieveEmbeddingFailureDegradesToZeroScores(t *testing.T) {
	chunks, embeddings := testChunks()
	r, err := retriever.New(chunks, embeddings, &stubEmbedder{err: errors.New("model offline")})
	require.NoError(t, err)

	// The zero-vector fallback scores 0 against every chunk instead of
	// failing the query.
	results := r.Retrieve(context.Background(), "osmosis", 2)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, 0.0, res.Similarity)
	}
}

func TestRetrieveMemoizedQueriesStayConsistent(t *testing.T) {
	chunks, embeddings := testChunks()
	r, err := retriever.New(chunks, embeddings, &stubEmbedder{queryVec: []float32{0, 1}})
	require.NoError(t, err)

	first := r.Retrieve(context.Background(), "mitosis", 1)
	second := r.Retrieve(context.Background(), "mitosis", 1)
	assert.Equal(t, first, second)
}
