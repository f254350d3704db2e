package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

type OpenRouterConfig struct {
	APIKey   string
	BaseURL  string
	Referrer string // HTTP-Referer header
	Title    string // X-Title header
	Timeout  time.Duration
}

// OpenRouter talks to any OpenAI-compatible chat completions endpoint.
type OpenRouter struct {
	client *openai.Client
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func NewOpenRouter(cfg OpenRouterConfig) *OpenRouter {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	h := http.Header{}
	if cfg.Referrer != "" {
		h.Set("HTTP-Referer", cfg.Referrer)
	}
	if cfg.Title != "" {
		h.Set("X-Title", cfg.Title)
	}
	oc.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: headerTransport{rt: http.DefaultTransport, headers: h},
	}

	return &OpenRouter{client: openai.NewClientWithConfig(oc)}
}

func (o *OpenRouter) Close() error { return nil }

func (o *OpenRouter) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAI(messages),
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: create chat completion: %w", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAI(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		if m.ImageURL == "" {
			out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
			continue
		}
		// Content and MultiContent are mutually exclusive
		parts := []openai.ChatMessagePart{}
		if m.Content != "" {
			parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: m.Content})
		}
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: m.ImageURL, Detail: openai.ImageURLDetailAuto},
		})
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, MultiContent: parts})
	}
	return out
}
