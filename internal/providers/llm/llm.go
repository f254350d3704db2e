package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrUpstream marks every transport, API or response-shape failure of a provider.
var ErrUpstream = errors.New("llm upstream failure")

type Message struct {
	Role     string
	Content  string
	ImageURL string // optional, user turns only
}

type Provider interface {
	// Complete sends one non-streaming request and returns the generated text verbatim.
	Complete(ctx context.Context, model string, messages []Message) (string, error)
	Close() error
}
