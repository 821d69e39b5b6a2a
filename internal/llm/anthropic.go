package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const providerAnthropic = "anthropic"

type anthropicClient struct {
	client      *anthropic.Client
	maxTokens   int64
	temperature float64
}

// NewAnthropic returns a Client backed by the Messages API.
func NewAnthropic(apiKey string, maxTokens int64, temperature float64, opts ...option.RequestOption) Client {
	client := anthropic.NewClient(append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)...)
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &anthropicClient{client: &client, maxTokens: maxTokens, temperature: temperature}
}

func (c *anthropicClient) Complete(ctx context.Context, prompt, model string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(providerAnthropic, apiErr.StatusCode, err)
		}
		return "", classifyTransport(providerAnthropic, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return "", &ModelError{Provider: providerAnthropic, Err: errors.New("no response from anthropic")}
	}
	return sb.String(), nil
}
