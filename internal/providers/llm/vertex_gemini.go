package llm

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

const DefaultVertexModel = "gemini-1.5-flash"

type VertexGemini struct {
	client       *vertexgenai.Client
	defaultModel string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = DefaultVertexModel
	}
	return &VertexGemini{client: c, defaultModel: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

// Complete maps system turns to the system instruction and replays the rest as chat history.
// OpenRouter presets ("@preset/...", "vendor/model") are not Vertex model names and fall back to the default.
func (v *VertexGemini) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	if model == "" || strings.HasPrefix(model, "@") || strings.Contains(model, "/") {
		model = v.defaultModel
	}
	m := v.client.GenerativeModel(model)

	var system []string
	var history []*vertexgenai.Content
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		history = append(history, toVertex(msg))
	}
	if len(history) == 0 {
		return "", fmt.Errorf("%w: no user message", ErrUpstream)
	}
	if len(system) > 0 {
		m.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(strings.Join(system, "\n\n"))}}
	}

	cs := m.StartChat()
	cs.History = history[:len(history)-1]
	last := history[len(history)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", ErrUpstream, err)
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				out.WriteString(string(t))
			}
		}
		break
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("%w: empty candidates", ErrUpstream)
	}
	return out.String(), nil
}

func toVertex(msg Message) *vertexgenai.Content {
	role := "user"
	if msg.Role == RoleAssistant {
		role = "model"
	}
	parts := []vertexgenai.Part{}
	if msg.Content != "" {
		parts = append(parts, vertexgenai.Text(msg.Content))
	}
	if msg.ImageURL != "" {
		mt := mime.TypeByExtension(path.Ext(msg.ImageURL))
		if mt == "" {
			mt = "image/jpeg"
		}
		parts = append(parts, vertexgenai.FileData{MIMEType: mt, FileURI: msg.ImageURL})
	}
	return &vertexgenai.Content{Role: role, Parts: parts}
}
