package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM struct {
		APIKey      string  `yaml:"api_key"`
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		MaxRetries  int     `yaml:"max_retries"`
		RateLimit   float64 `yaml:"rate_limit"`
	} `yaml:"llm"`

	Embedding struct {
		BaseURL   string `yaml:"base_url"`
		Model     string `yaml:"model"`
		BatchSize int    `yaml:"batch_size"`
	} `yaml:"embedding"`

	Textbook struct {
		Path         string `yaml:"path"`
		CacheDir     string `yaml:"cache_dir"`
		ChunkSize    int    `yaml:"chunk_size"`
		ChunkOverlap int    `yaml:"chunk_overlap"`
	} `yaml:"textbook"`

	Retrieval struct {
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		TopKRetrieve        int     `yaml:"top_k_retrieve"`
		TopKUse             int     `yaml:"top_k_use"`
	} `yaml:"retrieval"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/hip/config.yaml"),
			"/etc/hip/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "gpt-3.5-turbo"
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.MaxRetries == 0 {
		config.LLM.MaxRetries = 3
	}

	if config.Embedding.BaseURL == "" {
		config.Embedding.BaseURL = "http://localhost:11434"
	}
	if config.Embedding.Model == "" {
		config.Embedding.Model = "nomic-embed-text:latest"
	}
	if config.Embedding.BatchSize == 0 {
		config.Embedding.BatchSize = 32
	}

	if config.Textbook.Path == "" {
		config.Textbook.Path = filepath.Join("data", "textbook.txt")
	}
	if config.Textbook.CacheDir == "" {
		config.Textbook.CacheDir = ".cache"
	}
	if config.Textbook.ChunkSize == 0 {
		config.Textbook.ChunkSize = 800
	}
	if config.Textbook.ChunkOverlap == 0 {
		config.Textbook.ChunkOverlap = 50
	}

	if config.Retrieval.SimilarityThreshold == 0 {
		config.Retrieval.SimilarityThreshold = 0.3
	}
	if config.Retrieval.TopKRetrieve == 0 {
		config.Retrieval.TopKRetrieve = 5
	}
	if config.Retrieval.TopKUse == 0 {
		config.Retrieval.TopKUse = 3
	}
}

func mergeWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.Embedding.BaseURL = baseURL
	}
}
