package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderVertex     = "vertex"
)

type FactoryConfig struct {
	Provider string

	OpenRouterAPIKey   string
	OpenRouterBaseURL  string
	OpenRouterReferrer string
	OpenRouterTitle    string
	Timeout            time.Duration

	VertexProjectID string
	VertexLocation  string
	VertexModel     string
}

// New builds the configured provider once at process start.
func New(ctx context.Context, cfg FactoryConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenRouter, "openai":
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for provider %q", ProviderOpenRouter)
		}
		return NewOpenRouter(OpenRouterConfig{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Referrer: cfg.OpenRouterReferrer,
			Title:    cfg.OpenRouterTitle,
			Timeout:  cfg.Timeout,
		}), nil
	case ProviderVertex:
		if cfg.VertexProjectID == "" {
			return nil, fmt.Errorf("VERTEX_PROJECT_ID is required for provider %q", ProviderVertex)
		}
		return NewVertexGemini(ctx, cfg.VertexProjectID, cfg.VertexLocation, cfg.VertexModel)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
