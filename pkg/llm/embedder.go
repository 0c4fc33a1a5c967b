package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"
)

// EmbedderConfig represents the configuration for the embedding model.
type EmbedderConfig struct {
	Model     string
	BaseURL   string // Ollama server URL
	BatchSize int
	// OnBatch is called after each document batch completes, with the number
	// of texts embedded so far and the total.
	OnBatch func(done, total int)
}

// Embedder produces fixed-dimension vectors for chunks and queries. The
// underlying model connection is created lazily on first use and held for
// the process lifetime. Query embeddings are memoized on exact text.
type Embedder struct {
	config EmbedderConfig
	client *ollama.LLM
	memo   map[string][]float32
}

func NewEmbedderWithConfig(config EmbedderConfig) *Embedder {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest" // Default Ollama model
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434" // Default Ollama URL
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}

	return &Embedder{
		config: config,
		memo:   make(map[string][]float32),
	}
}

// Model returns the embedding model name, recorded in the cache as half of
// the validity key.
func (e *Embedder) Model() string {
	return e.config.Model
}

func (e *Embedder) model() (*ollama.LLM, error) {
	if e.client == nil {
		client, err := ollama.New(
			ollama.WithModel(e.config.Model),
			ollama.WithServerURL(e.config.BaseURL))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedding model: %w", err)
		}
		e.client = client
	}
	return e.client, nil
}

// EmbedDocuments embeds texts in fixed-size batches to bound memory on large
// corpora. A failure on any batch aborts the whole run with the underlying
// error; a half-embedded corpus is never returned.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	client, err := e.model()
	if err != nil {
		return nil, err
	}

	embeddings := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.config.BatchSize {
		end := i + e.config.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := client.CreateEmbedding(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("failed to embed batch %d: %w", i/e.config.BatchSize+1, err)
		}
		embeddings = append(embeddings, batch...)

		if e.config.OnBatch != nil {
			e.config.OnBatch(end, len(texts))
		}
	}

	return embeddings, nil
}

// EmbedQuery embeds a single query. Repeated queries hit the in-process memo
// and skip the model round trip.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.memo[text]; ok {
		return cached, nil
	}

	client, err := e.model()
	if err != nil {
		return nil, err
	}

	vecs, err := client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("embedding model returned no vector for query")
	}

	e.memo[text] = vecs[0]
	return vecs[0], nil
}
