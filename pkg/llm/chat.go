package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ChatConfig represents the configuration for the answer-generating model.
type ChatConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxRetries  int
	RateLimit   float64 // requests per second, 0 disables limiting
	BaseURL     string  // override for tests
}

// ChatEngine wraps the OpenAI chat completion API with capped exponential
// backoff on transient failures and a request rate limiter.
type ChatEngine struct {
	config  ChatConfig
	client  *openai.Client
	limiter *rate.Limiter
}

func NewChatWithConfig(config ChatConfig) (*ChatEngine, error) {
	if config.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	if config.Model == "" {
		config.Model = openai.GPT3Dot5Turbo
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if config.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &ChatEngine{
		config:  config,
		client:  openai.NewClientWithConfig(clientConfig),
		limiter: limiter,
	}, nil
}

// Complete sends the prompt as a single user message and returns the model's
// free-text completion. Transient failures retry up to MaxRetries attempts;
// the last error is returned on exhaustion.
func (ce *ChatEngine) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < ce.config.MaxRetries; attempt++ {
		if err := ce.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := ce.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       ce.config.Model,
			Temperature: float32(ce.config.Temperature),
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", errors.New("chat: empty response")
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}

		lastErr = err
		if !retryable(err) || attempt == ce.config.MaxRetries-1 {
			break
		}

		wait := backoff(err, attempt)
		log.Printf("warning: chat request failed (%v), retrying in %s (%d/%d)",
			err, wait, attempt+1, ce.config.MaxRetries)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("chat completion failed: %w", lastErr)
}

// IsAuthError reports whether err is an authentication failure, which
// callers treat as unrecoverable rather than retrying or falling back.
func IsAuthError(err error) bool {
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized
}

func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusBadRequest, http.StatusNotFound:
			return false
		}
		return true
	}
	// Connection-level errors never carry an API status.
	return true
}

// backoff picks the wait before the next attempt: rate limits wait
// 2^attempt seconds plus jitter, other API errors wait 2^attempt seconds,
// connection errors wait a growing flat delay.
func backoff(err error, attempt int) time.Duration {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		base := float64(uint(1) << attempt)
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			base += rand.Float64()
		}
		return time.Duration(base * float64(time.Second))
	}
	return time.Duration(5*(attempt+1)) * time.Second
}
