package llm

import "context"

// Client sends one prompt to a model and returns the raw reply text.
// Implementations must honor ctx cancellation and release their network
// resources on every return path.
type Client interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}

// ClientFunc adapts a plain function to Client.
type ClientFunc func(ctx context.Context, prompt, model string) (string, error)

func (f ClientFunc) Complete(ctx context.Context, prompt, model string) (string, error) {
	return f(ctx, prompt, model)
}
