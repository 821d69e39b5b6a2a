package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const providerGemini = "gemini"

type geminiClient struct {
	mu          sync.Mutex
	clients     []*genai.Client
	currentKey  int
	temperature float32
}

// NewGemini builds one genai client per API key. Calls rotate to the next key
// when the current one is rate limited. opts adjust each client config before
// it is built.
func NewGemini(ctx context.Context, apiKeys []string, temperature float32, opts ...func(*genai.ClientConfig)) (Client, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("gemini: no API keys configured")
	}

	g := &geminiClient{temperature: temperature}
	for i, key := range apiKeys {
		cc := &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		}
		for _, opt := range opts {
			opt(cc)
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("gemini: create client for key %d: %w", i+1, err)
		}
		g.clients = append(g.clients, client)
	}
	return g, nil
}

func (g *geminiClient) Complete(ctx context.Context, prompt, model string) (string, error) {
	var lastErr error

	for range g.clients {
		client, idx := g.current()

		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(g.temperature),
			ResponseMIMEType: "application/json",
		})
		if err != nil {
			classified := classifyGemini(err)
			var rl *RateLimitError
			if errors.As(classified, &rl) {
				g.rotate(idx)
				lastErr = classified
				continue
			}
			return "", classified
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var sb strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if sb.Len() > 0 {
				return sb.String(), nil
			}
		}
		return "", &ModelError{Provider: providerGemini, Err: errors.New("empty response")}
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiClient) current() (*genai.Client, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clients[g.currentKey], g.currentKey
}

// rotate advances past idx unless another caller already did.
func (g *geminiClient) rotate(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.clients)
	}
}

// classifyGemini prefers the HTTP status carried by genai.APIError and falls
// back to the status name when the body had no code.
func classifyGemini(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		var ptr *genai.APIError
		if !errors.As(err, &ptr) || ptr == nil {
			return classifyTransport(providerGemini, err)
		}
		apiErr = *ptr
	}
	code := apiErr.Code
	if code == 0 {
		switch strings.ToUpper(apiErr.Status) {
		case "RESOURCE_EXHAUSTED":
			code = 429
		case "INTERNAL", "UNAVAILABLE", "DEADLINE_EXCEEDED":
			code = 503
		}
	}
	return classifyStatus(providerGemini, code, err)
}
