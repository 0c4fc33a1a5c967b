package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.APIKey == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.api_key",
			Message: "OpenAI API key is required (set OPENAI_API_KEY)",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.MaxRetries < 1 || c.LLM.MaxRetries > 10 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_retries",
			Message: "max_retries must be between 1 and 10",
		})
	}

	if c.LLM.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.rate_limit",
			Message: "rate_limit must be non-negative",
		})
	}

	// Validate Embedding config
	if c.Embedding.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "embedding.base_url",
			Message: "Ollama base URL is required",
		})
	} else if _, err := url.Parse(c.Embedding.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "embedding.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.Embedding.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "embedding.batch_size",
			Message: "batch_size must be positive",
		})
	}

	// Validate Textbook config
	if c.Textbook.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "textbook.path",
			Message: "textbook path is required",
		})
	}

	if c.Textbook.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "textbook.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Textbook.ChunkOverlap < 0 || c.Textbook.ChunkOverlap >= c.Textbook.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "textbook.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	// Validate Retrieval config
	if c.Retrieval.SimilarityThreshold < -1 || c.Retrieval.SimilarityThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.similarity_threshold",
			Message: "similarity_threshold must be between -1 and 1",
		})
	}

	if c.Retrieval.TopKRetrieve < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.top_k_retrieve",
			Message: "top_k_retrieve must be positive",
		})
	}

	if c.Retrieval.TopKUse < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.top_k_use",
			Message: "top_k_use must be positive",
		})
	}

	return errors
}
