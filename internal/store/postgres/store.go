package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ooad-assistant/internal/models"
	"ooad-assistant/internal/store"
)

const defaultLimit = 5

// Store is the PostgreSQL implementation of store.Store. All writes are
// single-statement and auto-committed.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

func (s *Store) SaveDocument(ctx context.Context, filename string, content models.Content) (int64, error) {
	var text sql.NullString
	var image []byte
	if content.IsImage() {
		image = content.Image
	} else {
		text = sql.NullString{String: content.Text, Valid: true}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (filename, file_kind, content_text, content_image, uploaded_at, last_accessed)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id`,
		filename, content.Kind, text, image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save document: %w", err)
	}
	return id, nil
}

func (s *Store) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	var doc models.Document
	var text sql.NullString
	var image []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, file_kind, content_text, content_image, uploaded_at, last_accessed
		FROM documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Filename, &doc.FileKind, &text, &image, &doc.UploadedAt, &doc.LastAccessed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	if doc.FileKind.IsImage() {
		doc.Content = models.ImageContent(image)
	} else {
		doc.Content = models.TextContent(doc.FileKind, text.String)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE documents SET last_accessed = now() WHERE id = $1", id,
	); err != nil {
		return nil, fmt.Errorf("touch document: %w", err)
	}

	return &doc, nil
}

func (s *Store) RecentDocuments(ctx context.Context, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, file_kind, uploaded_at, last_accessed
		FROM documents ORDER BY last_accessed DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.Filename, &d.FileKind, &d.UploadedAt, &d.LastAccessed); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument deletes dependents first, in a fixed order. Missing
// analyses or queries are not an error; success is decided solely by
// whether the document row itself was removed.
func (s *Store) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM document_analysis WHERE document_id = $1", id); err != nil {
		return false, fmt.Errorf("delete analyses: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM queries WHERE document_id = $1", id); err != nil {
		return false, fmt.Errorf("delete queries: %w", err)
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) SaveAnalysis(ctx context.Context, documentID int64, kind, content string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO document_analysis (document_id, analysis_kind, analysis_content)
		VALUES ($1, $2, $3)
		RETURNING id`,
		documentID, kind, content,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save analysis: %w", err)
	}
	return id, nil
}

// GetAnalysis reads newest-first: older rows are superseded, never
// overwritten.
func (s *Store) GetAnalysis(ctx context.Context, documentID int64, kind string) (*models.Analysis, error) {
	var a models.Analysis
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, analysis_kind, analysis_content, created_at
		FROM document_analysis
		WHERE document_id = $1 AND analysis_kind = $2
		ORDER BY created_at DESC LIMIT 1`,
		documentID, kind,
	).Scan(&a.ID, &a.DocumentID, &a.Kind, &a.Content, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return &a, nil
}

func (s *Store) SaveQuery(ctx context.Context, documentID *int64, queryText, responseText string, category models.AgentCategory) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO queries (document_id, query_text, response_text, agent_category)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		documentID, queryText, responseText, category,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save query: %w", err)
	}
	return id, nil
}

func (s *Store) DeleteQuery(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM queries WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete query: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete query: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) RecentQueries(ctx context.Context, documentID *int64, limit int) ([]models.Query, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var rows *sql.Rows
	var err error
	if documentID != nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, document_id, query_text, response_text, agent_category, created_at
			FROM queries WHERE document_id = $1
			ORDER BY created_at DESC LIMIT $2`,
			*documentID, limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, document_id, query_text, response_text, agent_category, created_at
			FROM queries ORDER BY created_at DESC LIMIT $1`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	defer rows.Close()

	var queries []models.Query
	for rows.Next() {
		var q models.Query
		var docID sql.NullInt64
		if err := rows.Scan(&q.ID, &docID, &q.QueryText, &q.ResponseText, &q.Category, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		if docID.Valid {
			q.DocumentID = &docID.Int64
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	return queries, nil
}
