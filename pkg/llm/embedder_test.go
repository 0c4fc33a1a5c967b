package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xhad/hip/pkg/llm"
)

func TestNewEmbedderWithConfigDefaults(t *testing.T) {
	emb := llm.NewEmbedderWithConfig(llm.EmbedderConfig{})
	assert.NotNil(t, emb)
	assert.Equal(t, "nomic-embed-text:latest", emb.Model())
}

func TestNewEmbedderWithConfigCustomModel(t *testing.T) {
	emb := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     "all-minilm:latest",
		BaseURL:   "http://localhost:11434",
		BatchSize: 8,
	})
	assert.Equal(t, "all-minilm:latest", emb.Model())
}
