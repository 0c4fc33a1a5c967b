package agent

import (
	"context"
	"log"

	"github.com/xhad/hip/internal/models"
	"github.com/xhad/hip/internal/types"
	"github.com/xhad/hip/pkg/llm"
	"github.com/xhad/hip/pkg/parser"
	"github.com/xhad/hip/pkg/prompt"
)

// NoAnswer is returned when a question cannot be resolved to a choice.
const NoAnswer = parser.NoMatch

type Config struct {
	// SimilarityThreshold is the minimum score a retrieved chunk must exceed
	// to be used as context.
	SimilarityThreshold float64
	// TopKRetrieve is the superset fetch size; over-fetching leaves slack for
	// threshold rejection.
	TopKRetrieve int
	// TopKUse caps how many surviving chunks enter the prompt.
	TopKUse int
}

// Agent answers multiple-choice questions, augmenting the prompt with
// retrieved textbook context when a retriever is available.
type Agent struct {
	config    Config
	chat      types.ChatModel
	retriever types.Retriever
}

// New builds an agent. retriever may be nil, in which case every question is
// answered context-free.
func New(config Config, chat types.ChatModel, retriever types.Retriever) *Agent {
	if config.SimilarityThreshold == 0 {
		config.SimilarityThreshold = 0.3
	}
	if config.TopKRetrieve == 0 {
		config.TopKRetrieve = 5
	}
	if config.TopKUse == 0 {
		config.TopKUse = 3
	}

	return &Agent{
		config:    config,
		chat:      chat,
		retriever: retriever,
	}
}

// GetResponse answers one multiple-choice question and returns the chosen
// index, or NoAnswer when the question cannot be resolved. Questions are
// processed one at a time; a failure here never aborts the caller's batch.
func (a *Agent) GetResponse(ctx context.Context, question string, choices []string) int {
	if err := validateQuestion(question); err != nil {
		log.Printf("error: %v", err)
		return NoAnswer
	}
	if err := validateChoices(choices); err != nil {
		log.Printf("error: %v", err)
		return NoAnswer
	}

	retrieved := a.retrieveContext(ctx, question)
	mainPrompt := prompt.BuildMain(question, choices,
		prompt.FormatContextSection(retrieved, a.config.TopKUse),
		prompt.FormatFewShotSection())

	response, err := a.chat.Complete(ctx, mainPrompt)
	if err != nil {
		if llm.IsAuthError(err) {
			log.Printf("error: invalid API key: %v", err)
			return NoAnswer
		}
		log.Printf("warning: chat request failed: %v, falling back to basic prompt", err)
		return a.basicResponse(ctx, question, choices)
	}

	idx := parser.Extract(response, choices)
	if idx == parser.NoMatch {
		log.Printf("warning: could not parse answer, falling back to basic prompt")
		return a.basicResponse(ctx, question, choices)
	}
	return idx
}

// retrieveContext over-fetches TopKRetrieve ranked chunks and keeps those
// above the similarity threshold. The prompt layer truncates to TopKUse.
func (a *Agent) retrieveContext(ctx context.Context, question string) []models.RetrievalResult {
	if a.retriever == nil {
		return nil
	}

	var kept []models.RetrievalResult
	for _, r := range a.retriever.Retrieve(ctx, question, a.config.TopKRetrieve) {
		if r.Similarity > a.config.SimilarityThreshold {
			kept = append(kept, r)
		}
	}
	return kept
}

// basicResponse retries once with the simplified context-free prompt.
func (a *Agent) basicResponse(ctx context.Context, question string, choices []string) int {
	response, err := a.chat.Complete(ctx, prompt.BuildBasic(question, choices))
	if err != nil {
		log.Printf("error: basic prompt failed: %v", err)
		return NoAnswer
	}
	return parser.Extract(response, choices)
}
