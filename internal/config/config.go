package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`

	// Secrets are read from the environment, never from the YAML file.
	Secrets Secrets `yaml:"-"`
}

type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	Model             string        `yaml:"model"`
	Temperature       float64       `yaml:"temperature"`
	MaxTokens         int64         `yaml:"max_tokens"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	BackoffBase       time.Duration `yaml:"backoff_base"`
	MaxBackoff        time.Duration `yaml:"max_backoff"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

type PipelineConfig struct {
	MaxChunkChars           int     `yaml:"max_chunk_chars"`
	ChunkOverlapChars       int     `yaml:"chunk_overlap_chars"`
	MaxConcurrentChunkCalls int     `yaml:"max_concurrent_chunk_calls"`
	ThemeSimilarity         float64 `yaml:"theme_similarity"`
	// ReducePass disables the merge LLM call when set to false.
	ReducePass *bool `yaml:"reduce_pass"`
}

type TranscriptConfig struct {
	Languages  []string      `yaml:"languages"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	YTDLPPath  string        `yaml:"ytdlp_path"`
}

type PathsConfig struct {
	Input      string `yaml:"input"`
	Processing string `yaml:"processing"`
	Output     string `yaml:"output"`
	Archived   string `yaml:"archived"`
	Failed     string `yaml:"failed"`
}

type OutputConfig struct {
	Formats []string `yaml:"formats"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Secrets holds API keys taken from the environment.
type Secrets struct {
	GeminiAPIKeys   []string
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// Load reads a YAML config file, fills secrets from the environment and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Secrets = SecretsFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// SecretsFromEnv reads GEMINI_API_KEYS (comma-separated, GEMINI_API_KEY is
// accepted too), OPENAI_API_KEY and ANTHROPIC_API_KEY.
func SecretsFromEnv() Secrets {
	raw := os.Getenv("GEMINI_API_KEYS")
	if raw == "" {
		raw = os.Getenv("GEMINI_API_KEY")
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return Secrets{
		GeminiAPIKeys:   keys,
		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		AnthropicAPIKey: strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
	}
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = "gemini"
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("llm.provider %q is not one of gemini, openai, anthropic", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel(c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be in [0, 2]")
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 4096
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 2 * time.Minute
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative")
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}
	if c.LLM.BackoffBase == 0 {
		c.LLM.BackoffBase = time.Second
	}
	if c.LLM.MaxBackoff == 0 {
		c.LLM.MaxBackoff = 30 * time.Second
	}

	if c.Pipeline.MaxChunkChars < 0 || c.Pipeline.ChunkOverlapChars < 0 {
		return fmt.Errorf("pipeline chunk sizes must not be negative")
	}
	if c.Pipeline.MaxChunkChars == 0 {
		c.Pipeline.MaxChunkChars = 20000
	}
	if c.Pipeline.ChunkOverlapChars == 0 {
		c.Pipeline.ChunkOverlapChars = 500
	}
	if c.Pipeline.ChunkOverlapChars*2 > c.Pipeline.MaxChunkChars {
		return fmt.Errorf("pipeline.chunk_overlap_chars must be at most half of max_chunk_chars")
	}
	if c.Pipeline.MaxConcurrentChunkCalls == 0 {
		c.Pipeline.MaxConcurrentChunkCalls = 3
	}
	if c.Pipeline.ThemeSimilarity < 0 || c.Pipeline.ThemeSimilarity > 1 {
		return fmt.Errorf("pipeline.theme_similarity must be in [0, 1]")
	}
	if c.Pipeline.ThemeSimilarity == 0 {
		c.Pipeline.ThemeSimilarity = 0.5
	}
	if c.Pipeline.ReducePass == nil {
		enabled := true
		c.Pipeline.ReducePass = &enabled
	}

	if len(c.Transcript.Languages) == 0 {
		c.Transcript.Languages = []string{"en", "en-US", "en-GB"}
	}
	if c.Transcript.Timeout == 0 {
		c.Transcript.Timeout = 30 * time.Second
	}
	if c.Transcript.MaxRetries == 0 {
		c.Transcript.MaxRetries = 3
	}

	if c.Paths.Processing == "" {
		c.Paths.Processing = "data/processing"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Failed == "" {
		c.Paths.Failed = "data/failed"
	}

	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"markdown"}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-latest"
	default:
		return "gemini-2.5-flash"
	}
}
