package store

import (
	"context"
	"errors"

	"ooad-assistant/internal/models"
)

// ErrNotFound is returned when a requested row does not exist. Storage
// transport failures are returned as-is so callers can tell "missing"
// apart from "unreachable".
var ErrNotFound = errors.New("record not found")

// Store is the durable record of documents, analyses, and queries. It
// owns referential integrity between them; cascade on document deletion
// is performed here, not by the schema.
type Store interface {
	SaveDocument(ctx context.Context, filename string, content models.Content) (int64, error)
	// GetDocument returns the document and bumps its last_accessed
	// timestamp.
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	// RecentDocuments returns documents without content, ordered by
	// last_accessed descending. limit <= 0 means the default of 5.
	RecentDocuments(ctx context.Context, limit int) ([]models.Document, error)
	// DeleteDocument removes the document's analyses, then its queries,
	// then the document row. It reports true iff the document row
	// existed.
	DeleteDocument(ctx context.Context, id int64) (bool, error)

	SaveAnalysis(ctx context.Context, documentID int64, kind, content string) (int64, error)
	// GetAnalysis returns the newest analysis of the given kind, or
	// ErrNotFound.
	GetAnalysis(ctx context.Context, documentID int64, kind string) (*models.Analysis, error)

	SaveQuery(ctx context.Context, documentID *int64, queryText, responseText string, category models.AgentCategory) (int64, error)
	DeleteQuery(ctx context.Context, id int64) (bool, error)
	// RecentQueries returns queries ordered by creation time descending,
	// optionally filtered to one document. limit <= 0 means the default
	// of 5.
	RecentQueries(ctx context.Context, documentID *int64, limit int) ([]models.Query, error)
}
