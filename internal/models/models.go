package models

import (
	"strings"
	"time"
)

// AgentCategory selects which prompt template and persisted label apply
// to a query.
type AgentCategory string

const (
	AgentConcept          AgentCategory = "concept"
	AgentCode             AgentCategory = "code"
	AgentDesign           AgentCategory = "design"
	AgentDocumentAnalysis AgentCategory = "document_analysis"
)

// ParseAgentCategory maps a raw model label to a category. The second
// return value is false for anything outside the fixed enum.
func ParseAgentCategory(s string) (AgentCategory, bool) {
	switch AgentCategory(strings.ToLower(strings.TrimSpace(s))) {
	case AgentConcept:
		return AgentConcept, true
	case AgentCode:
		return AgentCode, true
	case AgentDesign:
		return AgentDesign, true
	case AgentDocumentAnalysis:
		return AgentDocumentAnalysis, true
	default:
		return AgentConcept, false
	}
}

// FileKind is the decoded representation class of an uploaded document.
type FileKind string

const (
	FileText  FileKind = "text"
	FilePDF   FileKind = "pdf"
	FileWord  FileKind = "word"
	FileImage FileKind = "image"
)

// KindForExtension resolves a filename extension (without the dot) to a
// file kind. Unrecognized extensions return false.
func KindForExtension(ext string) (FileKind, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "txt":
		return FileText, true
	case "pdf":
		return FilePDF, true
	case "docx":
		return FileWord, true
	case "jpg", "jpeg", "png":
		return FileImage, true
	default:
		return "", false
	}
}

// IsImage reports whether the kind holds an image byte buffer rather
// than decoded text.
func (k FileKind) IsImage() bool { return k == FileImage }

// Content is the decoded payload of a document. Text kinds carry
// decoded UTF-8 text; image kinds carry a canonical PNG byte buffer.
// Exactly one of Text/Image is populated, determined by Kind.
type Content struct {
	Kind  FileKind `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Image []byte   `json:"-"`
}

func TextContent(kind FileKind, text string) Content {
	return Content{Kind: kind, Text: text}
}

func ImageContent(png []byte) Content {
	return Content{Kind: FileImage, Image: png}
}

func (c Content) IsImage() bool { return c.Kind.IsImage() }

// Excerpt returns up to n characters of text content, or the empty
// string for image content.
func (c Content) Excerpt(n int) string {
	if c.IsImage() {
		return ""
	}
	if len(c.Text) <= n {
		return c.Text
	}
	return c.Text[:n]
}

// Document is one uploaded artifact.
type Document struct {
	ID           int64     `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	FileKind     FileKind  `json:"file_kind" db:"file_kind"`
	Content      Content   `json:"content,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
	LastAccessed time.Time `json:"last_accessed" db:"last_accessed"`
}

// AnalysisKindInitial is the analysis computed on first view of a
// document.
const AnalysisKindInitial = "initial"

// Analysis is a cached, named interpretation of one document. Rows are
// never updated in place; the newest row per (document, kind) is the
// current one.
type Analysis struct {
	ID         int64     `json:"id" db:"id"`
	DocumentID int64     `json:"document_id" db:"document_id"`
	Kind       string    `json:"kind" db:"analysis_kind"`
	Content    string    `json:"content" db:"analysis_content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Query is one question/answer exchange. DocumentID is nil for
// standalone queries not tied to a document.
type Query struct {
	ID           int64         `json:"id" db:"id"`
	DocumentID   *int64        `json:"document_id,omitempty" db:"document_id"`
	QueryText    string        `json:"query_text" db:"query_text"`
	ResponseText string        `json:"response_text" db:"response_text"`
	Category     AgentCategory `json:"agent_category" db:"agent_category"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}
