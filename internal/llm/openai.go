package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	var msg openai.ChatCompletionMessage
	if req.Image != nil {
		dataURL := fmt.Sprintf("data:%s;base64,%s",
			req.Image.MimeType, base64.StdEncoding.EncodeToString(req.Image.Data))
		msg = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
				},
			},
		}
	} else {
		msg = openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.Prompt,
		}
	}

	oReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: []openai.ChatCompletionMessage{msg},
	}
	if req.MaxTokens > 0 {
		oReq.MaxTokens = req.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, oReq)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
