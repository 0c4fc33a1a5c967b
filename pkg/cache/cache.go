package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/xhad/hip/internal/models"
)

const fileName = "textbook_embeddings.json"

// Metadata records how the cached embeddings were produced. Unknown keys in
// the file are tolerated on read.
type Metadata struct {
	TextbookHash string `json:"textbook_hash"`
	Model        string `json:"model"`
	ChunkSize    int    `json:"chunk_size"`
	Overlap      int    `json:"overlap"`
	NumChunks    int    `json:"num_chunks"`
	CreatedAt    string `json:"created_at"`
}

// Record is the on-disk cache layout: chunks and embeddings are index-aligned
// and embeddings are stored as plain nested float arrays so the file stays
// human-inspectable and model-portable.
type Record struct {
	Chunks     []models.Chunk `json:"chunks"`
	Embeddings [][]float32    `json:"embeddings"`
	Metadata   Metadata       `json:"metadata"`
}

// Cache persists one corpus worth of chunk embeddings in a single flat JSON
// file under the cache directory.
type Cache struct {
	dir string
}

func New(dir string) Cache {
	if dir == "" {
		dir = ".cache"
	}
	return Cache{dir: dir}
}

func (c Cache) Path() string {
	return filepath.Join(c.dir, fileName)
}

// Load returns the cached record, or nil on any miss: absent file, malformed
// JSON, missing top-level keys, a model name other than expectedModel, or a
// zero-length embedding vector. Misses are warned about, never returned as
// errors; the caller regenerates. Load does not compare the textbook hash --
// that is the orchestrator's job, since only it holds the live text.
func (c Cache) Load(expectedModel string) *Record {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		return nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		log.Printf("warning: invalid embedding cache: %v, regenerating", err)
		return nil
	}
	for _, key := range []string{"chunks", "embeddings", "metadata"} {
		if _, ok := keys[key]; !ok {
			log.Printf("warning: embedding cache missing %q, regenerating", key)
			return nil
		}
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("warning: invalid embedding cache: %v, regenerating", err)
		return nil
	}
	if rec.Metadata.Model != expectedModel {
		log.Printf("warning: embedding cache was built with model %q, want %q, regenerating",
			rec.Metadata.Model, expectedModel)
		return nil
	}
	for _, emb := range rec.Embeddings {
		if len(emb) == 0 {
			log.Printf("warning: embedding cache has a zero-length vector, regenerating")
			return nil
		}
	}

	return &rec
}

// Save overwrites the cache file unconditionally. Chunks and embeddings must
// be index-aligned.
func (c Cache) Save(chunks []models.Chunk, embeddings [][]float32, textbookHash, model string, chunkSize, overlap int) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("cache: creating %s: %w", c.dir, err)
	}

	rec := Record{
		Chunks:     chunks,
		Embeddings: embeddings,
		Metadata: Metadata{
			TextbookHash: textbookHash,
			Model:        model,
			ChunkSize:    chunkSize,
			Overlap:      overlap,
			NumChunks:    len(chunks),
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		},
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encoding record: %w", err)
	}
	if err := os.WriteFile(c.Path(), data, 0644); err != nil {
		return fmt.Errorf("cache: writing %s: %w", c.Path(), err)
	}
	return nil
}
