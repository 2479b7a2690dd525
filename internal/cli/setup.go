package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/factgate/factgate/internal/cache"
	"github.com/factgate/factgate/internal/extract"
	"github.com/factgate/factgate/internal/generate"
	"github.com/factgate/factgate/internal/llm"
	"github.com/factgate/factgate/internal/model"
	"github.com/factgate/factgate/internal/ontology"
	"github.com/factgate/factgate/internal/pipeline"
	"github.com/factgate/factgate/internal/validate"
)

// loadConstraintModel loads the configured vocabulary, falling back to the
// built-in loan vocabulary when no path is set. A load failure is fatal:
// no query may run without a constraint model.
func loadConstraintModel(cfg *model.Config) (*ontology.ConstraintModel, error) {
	if cfg.Vocabulary.Path == "" {
		return ontology.Builtin(), nil
	}
	return ontology.Load(cfg.Vocabulary.Path)
}

// resolveAPIKey fills the API key from the provider's conventional
// environment variable when not set in config.
func resolveAPIKey(cfg *model.Config) error {
	if cfg.LLM.APIKey != "" {
		return nil
	}
	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// buildOrchestrator assembles the full pipeline from configuration and the
// given document corpus.
func buildOrchestrator(cfg *model.Config, docPaths []string) (*pipeline.Orchestrator, error) {
	constraints, err := loadConstraintModel(cfg)
	if err != nil {
		return nil, err
	}

	if err := resolveAPIKey(cfg); err != nil {
		return nil, err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("initialize LLM provider: %w", err)
	}

	var limited llm.Provider = provider
	if cfg.Concurrency.RequestsPerSecond > 0 {
		limited = llm.NewRateLimitedProvider(provider, cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)
	}

	chunks, err := generate.LoadDocuments(docPaths, cfg.Generator.ChunkSize, cfg.Generator.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d chunk(s) from %d document(s)\n", len(chunks), len(docPaths))
	}

	gen := generate.NewLLMGenerator(limited, chunks, cfg.Generator)

	var extractor extract.Extractor = extract.NewLLMExtractor(limited, constraints, cfg.Extractor)
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(home, ".factgate", "cache")
			}
		}
		if dir != "" {
			store := cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)
			extractor = extract.NewCachedExtractor(extractor, store)
		}
	}

	checker := validate.NewChecker(constraints, cfg.Checker.RulesOnly)

	return pipeline.NewOrchestrator(gen, extractor, checker, cfg.Checker, cfg.Output.Verbose), nil
}
