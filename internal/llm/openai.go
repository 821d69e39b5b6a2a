package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const providerOpenAI = "openai"

type openAIClient struct {
	client      *openai.Client
	temperature float64
}

// NewOpenAI returns a Client backed by the chat completions API.
func NewOpenAI(apiKey string, temperature float64, opts ...option.RequestOption) Client {
	client := openai.NewClient(append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)...)
	return &openAIClient{client: &client, temperature: temperature}
}

func (c *openAIClient) Complete(ctx context.Context, prompt, model string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(providerOpenAI, apiErr.StatusCode, err)
		}
		return "", classifyTransport(providerOpenAI, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &ModelError{Provider: providerOpenAI, Err: errors.New("no response from openai")}
	}
	return resp.Choices[0].Message.Content, nil
}
