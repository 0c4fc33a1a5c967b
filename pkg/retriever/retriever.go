package retriever

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/xhad/hip/internal/models"
	"github.com/xhad/hip/internal/types"
)

// fallbackDim sizes the zero-vector substitute when the corpus dimensionality
// is not yet known.
const fallbackDim = 384

// Retriever finds the textbook chunks most similar to a query. Chunks and
// embeddings are index-aligned and read-only after construction.
type Retriever struct {
	chunks     []models.Chunk
	embeddings [][]float32
	embedder   types.Embedder
}

// New builds a retriever over an index-aligned corpus. Chunk i must
// correspond to embedding i, so the sequences must have equal length.
func New(chunks []models.Chunk, embeddings [][]float32, embedder types.Embedder) (*Retriever, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("retriever: chunks (%d) and embeddings (%d) must have same length",
			len(chunks), len(embeddings))
	}

	return &Retriever{
		chunks:     chunks,
		embeddings: embeddings,
		embedder:   embedder,
	}, nil
}

// Retrieve returns the topK chunks most similar to query, best first, each
// carrying its similarity score. Retrieval is best-effort augmentation: an
// empty query or an embedding failure degrades to an empty or zero-scored
// result set rather than failing the caller. Callers typically over-fetch
// here and then threshold-filter and truncate.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) []models.RetrievalResult {
	if strings.TrimSpace(query) == "" {
		log.Printf("warning: empty query, returning no context")
		return nil
	}
	if topK <= 0 {
		return nil
	}
	if topK > len(r.chunks) {
		topK = len(r.chunks)
	}

	queryVec := r.queryEmbedding(ctx, query)
	matches := TopK(queryVec, r.embeddings, topK)

	results := make([]models.RetrievalResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.RetrievalResult{
			Chunk:      r.chunks[m.Index],
			Similarity: m.Score,
		})
	}
	return results
}

// queryEmbedding degrades to a zero vector when the model fails: cosine
// similarity scores it 0 against every chunk, which disables retrieval for
// this query without crashing it.
func (r *Retriever) queryEmbedding(ctx context.Context, query string) []float32 {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err == nil {
		return vec
	}

	log.Printf("warning: query embedding failed: %v", err)
	dim := fallbackDim
	if len(r.embeddings) > 0 {
		dim = len(r.embeddings[0])
	}
	return make([]float32, dim)
}
