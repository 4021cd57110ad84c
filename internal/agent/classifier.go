// Package agent routes user queries to one of the specialized agent
// categories by asking the model itself.
package agent

import (
	"context"
	"log/slog"

	"ooad-assistant/internal/llm"
	"ooad-assistant/internal/models"
	"ooad-assistant/internal/prompt"
)

// Classifier maps a raw query, plus optional document context, to an
// agent category. It never surfaces an error: any failure degrades to
// the concept category.
type Classifier struct {
	gateway llm.Gateway
}

func NewClassifier(gw llm.Gateway) *Classifier {
	return &Classifier{gateway: gw}
}

// Classify runs the classification prompt against the text model. The
// document excerpt (or image note) is folded into the prompt itself, so
// the gateway call carries no separate attachment.
func (c *Classifier) Classify(ctx context.Context, query string, content *models.Content) models.AgentCategory {
	res := c.gateway.Generate(ctx, prompt.BuildClassificationPrompt(query, content), nil)
	if !res.OK() {
		slog.Warn("classification failed, defaulting to concept", "detail", res.Content)
		return models.AgentConcept
	}

	category, ok := models.ParseAgentCategory(res.Content)
	if !ok || category == models.AgentDocumentAnalysis {
		// The model was asked for one of three labels; anything else is
		// logged rather than silently accepted.
		slog.Warn("unrecognized agent label, defaulting to concept", "label", res.Content)
		return models.AgentConcept
	}
	return category
}
