package types

import (
	"context"

	"github.com/xhad/hip/internal/models"
)

// Core interfaces

// Embedder produces fixed-dimension vectors for text. All vectors produced
// for one corpus share one dimensionality, determined by the model.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Retriever returns the chunks most similar to a query, best first.
// Retrieval is best-effort augmentation and never fails the caller.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) []models.RetrievalResult
}

// ChatModel turns a fully assembled prompt into a single free-text
// completion.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
