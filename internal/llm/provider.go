package llm

import "context"

// Provider abstracts a hosted generative model API (OpenAI, Anthropic).
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// Request is a single generation call. Image, when set, makes this a
// multi-part request against a vision-capable model.
type Request struct {
	Model     string
	Prompt    string
	Image     *ImageData
	MaxTokens int
}

// ImageData wraps image bytes with their declared MIME type.
type ImageData struct {
	Data     []byte
	MimeType string
}

// Status is the outcome of a gateway call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the uniform shape every gateway call resolves to. Callers
// must check Status before trusting Content; on error Content holds a
// human-readable message.
type Result struct {
	Status  Status `json:"status"`
	Content string `json:"content"`
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

// Attachment is optional context for a prompt: decoded document text or
// a normalized image byte buffer, never both.
type Attachment struct {
	Text     string
	Image    []byte
	MimeType string
}

func TextAttachment(text string) *Attachment {
	return &Attachment{Text: text}
}

func ImageAttachment(data []byte, mimeType string) *Attachment {
	return &Attachment{Image: data, MimeType: mimeType}
}

func (a *Attachment) IsImage() bool { return a != nil && len(a.Image) > 0 }
