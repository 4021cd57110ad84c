package llm

import (
	"context"
	"fmt"
	"log/slog"

	"ooad-assistant/internal/config"
)

// Gateway is the single choke point for all calls to the remote model.
// It never returns a Go error: transport and provider failures are
// normalized into Result{Status: error}.
type Gateway interface {
	Generate(ctx context.Context, prompt string, att *Attachment) Result
}

type gateway struct {
	provider    Provider
	textModel   string
	visionModel string
	maxTokens   int
}

// NewGateway selects the configured provider. Exactly one attempt is
// made per call; there is no retry or fallback policy.
func NewGateway(cfg config.LLMConfig) (Gateway, error) {
	var p Provider
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		p = NewOpenAIProvider(cfg.OpenAIKey)
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		p = NewAnthropicProvider(cfg.AnthropicKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}

	return &gateway{
		provider:    p,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// NewGatewayWithProvider wires an explicit provider. Used by tests and
// by callers that already hold a configured provider.
func NewGatewayWithProvider(p Provider, textModel, visionModel string, maxTokens int) Gateway {
	return &gateway{
		provider:    p,
		textModel:   textModel,
		visionModel: visionModel,
		maxTokens:   maxTokens,
	}
}

func (g *gateway) Generate(ctx context.Context, prompt string, att *Attachment) Result {
	req := Request{
		Model:     g.textModel,
		Prompt:    prompt,
		MaxTokens: g.maxTokens,
	}

	switch {
	case att.IsImage():
		req.Model = g.visionModel
		mimeType := att.MimeType
		if mimeType == "" {
			mimeType = "image/png"
		}
		req.Image = &ImageData{Data: att.Image, MimeType: mimeType}
	case att != nil && att.Text != "":
		req.Prompt = fmt.Sprintf("Context from uploaded file:\n%s\n\nQuery:\n%s", att.Text, prompt)
	}

	content, err := g.provider.Generate(ctx, req)
	if err != nil {
		slog.Error("model call failed", "provider", g.provider.Name(), "model", req.Model, "error", err)
		return Result{
			Status:  StatusError,
			Content: fmt.Sprintf("Error communicating with AI model: %v", err),
		}
	}

	return Result{Status: StatusSuccess, Content: content}
}
