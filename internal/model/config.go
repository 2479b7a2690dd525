package model

import "time"

// Config is the full runtime configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Generator   GeneratorConfig   `yaml:"generator"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Checker     CheckerConfig     `yaml:"checker"`
	Vocabulary  VocabularyConfig  `yaml:"vocabulary"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the shared LLM provider
type LLMConfig struct {
	Provider   string `yaml:"provider"` // openai, anthropic, ollama
	APIKey     string `yaml:"api_key,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	Timeout    int    `yaml:"timeout"` // seconds, per call
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// GeneratorConfig configures answer generation and retrieval
type GeneratorConfig struct {
	Model        string  `yaml:"model"`
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
	ChunkSize    int     `yaml:"chunk_size"`
	ChunkOverlap int     `yaml:"chunk_overlap"`
	TopK         int     `yaml:"top_k"`
}

// ExtractorConfig configures triple extraction
type ExtractorConfig struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// CheckerConfig configures the consistency checker and correction loop
type CheckerConfig struct {
	MaxCorrections int  `yaml:"max_corrections"` // Correction rounds after the initial attempt
	RulesOnly      bool `yaml:"rules_only"`      // Skip the axiom pass, run only the role-rule engine
}

// VocabularyConfig locates the constraint vocabulary
type VocabularyConfig struct {
	Path string `yaml:"path"` // YAML vocabulary file; empty = built-in loan vocabulary
}

// CacheConfig configures extraction result caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing and rate limiting
type ConcurrencyConfig struct {
	BatchWorkers      int     `yaml:"batch_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// OutputConfig configures reporting behavior
type OutputConfig struct {
	Verbose bool   `yaml:"verbose"`
	JSON    string `yaml:"json,omitempty"` // Path for JSON outcome dump
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Timeout:  60,
		},
		Generator: GeneratorConfig{
			Model:        "gpt-4o",
			Temperature:  0.7,
			MaxTokens:    1000,
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         3,
		},
		Extractor: ExtractorConfig{
			Model:     "gpt-4o",
			MaxTokens: 1500,
		},
		Checker: CheckerConfig{
			MaxCorrections: 3,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:      4,
			RequestsPerSecond: 2,
			Burst:             4,
		},
	}
}
