package llm

import (
	"context"
	"fmt"
	"strings"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider          string
	Model             string
	GeminiAPIKeys     []string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	Temperature       float64
	MaxTokens         int64
	RequestsPerMinute int
}

// New creates the configured provider client, wrapped with the request rate
// limit.
func New(ctx context.Context, s Settings) (Client, error) {
	var (
		client Client
		err    error
	)

	switch strings.ToLower(s.Provider) {
	case "gemini":
		client, err = NewGemini(ctx, s.GeminiAPIKeys, float32(s.Temperature))
	case "openai":
		if s.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai: OPENAI_API_KEY is not set")
		}
		client = NewOpenAI(s.OpenAIAPIKey, s.Temperature)
	case "anthropic":
		if s.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic: ANTHROPIC_API_KEY is not set")
		}
		client = NewAnthropic(s.AnthropicAPIKey, s.MaxTokens, s.Temperature)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", s.Provider)
	}
	if err != nil {
		return nil, err
	}

	return RateLimited(client, s.RequestsPerMinute), nil
}

// CheckConfiguration reports whether credentials for the selected provider are
// present, with a short human-readable status.
func CheckConfiguration(s Settings) (bool, string) {
	switch strings.ToLower(s.Provider) {
	case "gemini":
		if len(s.GeminiAPIKeys) == 0 {
			return false, "Gemini API key not found. Set GEMINI_API_KEYS in the environment or .env file."
		}
		return true, fmt.Sprintf("Gemini configured with %d key(s) (model: %s)", len(s.GeminiAPIKeys), s.Model)
	case "openai":
		if s.OpenAIAPIKey == "" {
			return false, "OpenAI API key not found. Set OPENAI_API_KEY in the environment or .env file."
		}
		if strings.HasPrefix(s.OpenAIAPIKey, "sk-") {
			return true, fmt.Sprintf("OpenAI configured (model: %s)", s.Model)
		}
		return true, fmt.Sprintf("API key configured (model: %s)", s.Model)
	case "anthropic":
		if s.AnthropicAPIKey == "" {
			return false, "Anthropic API key not found. Set ANTHROPIC_API_KEY in the environment or .env file."
		}
		return true, fmt.Sprintf("Anthropic configured (model: %s)", s.Model)
	}
	return false, fmt.Sprintf("Unknown LLM provider %q", s.Provider)
}
