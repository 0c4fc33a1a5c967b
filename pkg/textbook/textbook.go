package textbook

import (
	"context"
	"fmt"
	"log"

	"github.com/xhad/hip/internal/models"
	"github.com/xhad/hip/internal/types"
	"github.com/xhad/hip/pkg/cache"
	"github.com/xhad/hip/pkg/processor"
)

type ProcessorConfig struct {
	Path         string
	CacheDir     string
	ChunkSize    int // tokens
	ChunkOverlap int // tokens
}

// Processor turns a textbook file into an index-aligned corpus of chunks and
// embeddings, going through the on-disk cache when it is still valid.
type Processor struct {
	config   ProcessorConfig
	chunker  processor.Processor
	cache    cache.Cache
	embedder types.Embedder
}

func NewProcessor(config ProcessorConfig, embedder types.Embedder) *Processor {
	if config.ChunkSize == 0 {
		config.ChunkSize = 800
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 50
	}

	return &Processor{
		config: config,
		chunker: processor.NewWithConfig(processor.Config{
			ChunkSize:    config.ChunkSize,
			ChunkOverlap: config.ChunkOverlap,
		}),
		cache:    cache.New(config.CacheDir),
		embedder: embedder,
	}
}

// Process loads and normalizes the textbook, then returns its chunks and
// embeddings. The cache is reused only when it is structurally valid, was
// built with the current embedding model, and records the current textbook
// hash; otherwise the corpus is rebuilt and the cache overwritten. A failed
// cache write is warned about but does not fail the in-memory result.
func (p *Processor) Process(ctx context.Context, forceRegenerate bool) ([]models.Chunk, [][]float32, error) {
	text, err := Load(p.config.Path)
	if err != nil {
		return nil, nil, err
	}
	hash := Hash(text)

	if !forceRegenerate {
		if rec := p.cache.Load(p.embedder.Model()); rec != nil {
			if rec.Metadata.TextbookHash == hash {
				return rec.Chunks, rec.Embeddings, nil
			}
			log.Printf("warning: textbook content changed, regenerating embeddings")
		}
	}

	chunks, err := p.chunker.Chunk(text)
	if err != nil {
		return nil, nil, err
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if err := p.cache.Save(chunks, embeddings, hash, p.embedder.Model(),
		p.config.ChunkSize, p.config.ChunkOverlap); err != nil {
		log.Printf("warning: could not save embedding cache: %v", err)
	}

	return chunks, embeddings, nil
}
