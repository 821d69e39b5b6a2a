// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Fake answers prompts with Handler and records every call. It is safe for
// concurrent use.
type Fake struct {
	Handler func(prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
	models  []string
}

func (f *Fake) Complete(ctx context.Context, prompt, model string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.models = append(f.models, model)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Handler == nil {
		return "", fmt.Errorf("llmtest: no handler")
	}
	return f.Handler(prompt)
}

// Calls returns the number of Complete calls so far.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// Prompts returns a copy of every prompt received, in call order.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Models returns the model name passed with every call.
func (f *Fake) Models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.models...)
}

// Sequence returns a handler that replays replies in order and then keeps
// returning the last one.
func Sequence(replies ...Reply) func(string) (string, error) {
	var mu sync.Mutex
	i := 0
	return func(string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		r := replies[i]
		if i < len(replies)-1 {
			i++
		}
		return r.Text, r.Err
	}
}

// Reply is one scripted answer.
type Reply struct {
	Text string
	Err  error
}

// Theme mirrors the key point wire shape.
type Theme struct {
	Label  string   `json:"theme"`
	Points []string `json:"points"`
}

// SummaryJSON renders a schema-valid partial summary reply.
func SummaryJSON(exec []string, themes []Theme, quotes []string) string {
	if themes == nil {
		themes = []Theme{}
	}
	if quotes == nil {
		quotes = []string{}
	}
	b, _ := json.Marshal(map[string]any{
		"executive_summary": exec,
		"key_points":        themes,
		"notable_quotes":    quotes,
	})
	return string(b)
}

// ExecutiveJSON renders a reduce-pass reply.
func ExecutiveJSON(exec ...string) string {
	b, _ := json.Marshal(map[string]any{"executive_summary": exec})
	return string(b)
}
