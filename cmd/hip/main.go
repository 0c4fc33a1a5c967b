package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/xhad/hip/internal/models"
	"github.com/xhad/hip/internal/types"
	"github.com/xhad/hip/pkg/agent"
	cfgPkg "github.com/xhad/hip/pkg/config"
	"github.com/xhad/hip/pkg/llm"
	"github.com/xhad/hip/pkg/retriever"
	"github.com/xhad/hip/pkg/textbook"
)

type Flags struct {
	ConfigPath    string
	QuestionsPath string
	TextbookPath  string
	CacheDir      string
	Model         string
	EmbedModel    string
	OllamaURL     string
	Regenerate    bool
	Verbose       bool
}

func main() {
	// Pick up OPENAI_API_KEY and OLLAMA_BASE_URL from .env if present
	_ = godotenv.Load()

	flags := parseFlags()

	if err := run(flags); err != nil {
		log.Fatal(err)
	}
}

func parseFlags() Flags {
	var flags Flags

	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file")
	flag.StringVar(&flags.QuestionsPath, "questions", "questions.json", "Path to question batch JSON file")
	flag.StringVar(&flags.TextbookPath, "textbook", "", "Path to textbook text file")
	flag.StringVar(&flags.CacheDir, "cache-dir", "", "Directory for the embedding cache")
	flag.StringVar(&flags.Model, "model", "", "Chat model to use")
	flag.StringVar(&flags.EmbedModel, "embed-model", "", "Embedding model to use")
	flag.StringVar(&flags.OllamaURL, "ollama-url", "", "Ollama server URL")
	flag.BoolVar(&flags.Regenerate, "regenerate", false, "Force embedding regeneration even when the cache is valid")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Print per-question results")
	flag.Parse()

	return flags
}

func loadConfig(flags Flags) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	// Command line flags override file and environment values
	if flags.TextbookPath != "" {
		cfg.Textbook.Path = flags.TextbookPath
	}
	if flags.CacheDir != "" {
		cfg.Textbook.CacheDir = flags.CacheDir
	}
	if flags.Model != "" {
		cfg.LLM.Model = flags.Model
	}
	if flags.EmbedModel != "" {
		cfg.Embedding.Model = flags.EmbedModel
	}
	if flags.OllamaURL != "" {
		cfg.Embedding.BaseURL = flags.OllamaURL
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config error: %s", e)
		}
		return nil, fmt.Errorf("invalid configuration (%d errors)", len(errs))
	}

	return cfg, nil
}

// loadQuestions reads the batch file and checks that every record's correct
// answer is one of its choices.
func loadQuestions(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question batch: %v", err)
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question batch: %v", err)
	}
	if len(questions) == 0 {
		return nil, errors.New("question batch is empty")
	}

	for _, q := range questions {
		if correctIndex(q) < 0 {
			return nil, fmt.Errorf("question %d: correct answer %q is not among its choices", q.ID, q.Correct)
		}
	}

	return questions, nil
}

func correctIndex(q models.Question) int {
	for i, choice := range q.Choices {
		if choice == q.Correct {
			return i
		}
	}
	return -1
}

func getProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(color.BlueString(description)),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// buildRetriever processes the textbook into a corpus and wraps it in a
// retriever. A missing or unreadable textbook disables retrieval rather than
// failing the run; corpus embedding failure is fatal since no usable corpus
// exists.
func buildRetriever(ctx context.Context, cfg *cfgPkg.Config, embedder *llm.Embedder, regenerate bool) types.Retriever {
	processor := textbook.NewProcessor(textbook.ProcessorConfig{
		Path:         cfg.Textbook.Path,
		CacheDir:     cfg.Textbook.CacheDir,
		ChunkSize:    cfg.Textbook.ChunkSize,
		ChunkOverlap: cfg.Textbook.ChunkOverlap,
	}, embedder)

	chunks, embeddings, err := processor.Process(ctx, regenerate)
	if err != nil {
		color.Yellow("Warning: could not build textbook corpus: %v", err)
		color.Yellow("Continuing without retrieval augmentation")
		return nil
	}
	color.Green("✓ Corpus ready: %d chunks", len(chunks))

	r, err := retriever.New(chunks, embeddings, embedder)
	if err != nil {
		color.Yellow("Warning: could not initialize retriever: %v", err)
		return nil
	}
	return r
}

func run(flags Flags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	questions, err := loadQuestions(flags.QuestionsPath)
	if err != nil {
		return err
	}

	chatEngine, err := llm.NewChatWithConfig(llm.ChatConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxRetries:  cfg.LLM.MaxRetries,
		RateLimit:   cfg.LLM.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize chat engine: %v", err)
	}

	ctx := context.Background()

	var embedBar *progressbar.ProgressBar
	embedder := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.Embedding.BaseURL,
		BatchSize: cfg.Embedding.BatchSize,
		OnBatch: func(done, total int) {
			if embedBar == nil {
				embedBar = getProgressBar(total, " Embedding textbook chunks")
			}
			embedBar.Set(done)
		},
	})

	qa := agent.New(agent.Config{
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		TopKRetrieve:        cfg.Retrieval.TopKRetrieve,
		TopKUse:             cfg.Retrieval.TopKUse,
	}, chatEngine, buildRetriever(ctx, cfg, embedder, flags.Regenerate))

	if embedBar != nil {
		embedBar.Finish()
		fmt.Println()
	}

	// Questions run strictly one at a time
	color.Cyan("\nAnswering %d questions with %s\n", len(questions), cfg.LLM.Model)
	bar := getProgressBar(len(questions), " Answering questions")

	correct := 0
	unresolved := 0
	for _, q := range questions {
		chosen := qa.GetResponse(ctx, q.Question, q.Choices)
		want := correctIndex(q)

		switch {
		case chosen == agent.NoAnswer:
			unresolved++
			if flags.Verbose {
				color.Yellow("? question %d: no answer extracted", q.ID)
			}
		case chosen == want:
			correct++
			if flags.Verbose {
				color.Green("✓ question %d: %s", q.ID, q.Choices[chosen])
			}
		default:
			if flags.Verbose && chosen < len(q.Choices) {
				color.Red("✗ question %d: chose %q, want %q", q.ID, q.Choices[chosen], q.Correct)
			}
		}
		bar.Add(1)
	}
	bar.Finish()

	fmt.Println()
	color.Cyan("Results")
	fmt.Printf("  questions:  %d\n", len(questions))
	fmt.Printf("  correct:    %d\n", correct)
	fmt.Printf("  wrong:      %d\n", len(questions)-correct-unresolved)
	fmt.Printf("  unresolved: %d\n", unresolved)
	color.Green("  accuracy:   %.1f%%", float64(correct)/float64(len(questions))*100)

	return nil
}
