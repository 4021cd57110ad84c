// Package session coordinates the query-routing core: classifier,
// prompt builder, model gateway, and store, plus the single user
// session's mode state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ooad-assistant/internal/llm"
	"ooad-assistant/internal/models"
	"ooad-assistant/internal/prompt"
	"ooad-assistant/internal/store"
)

var (
	// ErrNoDocument is returned for document-mode operations issued in
	// query mode.
	ErrNoDocument = errors.New("no current document")
	// ErrModelUnavailable wraps a gateway error result for operations
	// that cannot proceed without a model response.
	ErrModelUnavailable = errors.New("model unavailable")
)

// Classifier routes a query to an agent category. Classification never
// fails; it degrades to a default category instead.
type Classifier interface {
	Classify(ctx context.Context, query string, content *models.Content) models.AgentCategory
}

// Answer is the outcome of one ask. QueryID is zero when the exchange
// was not persisted (error results are displayed but never stored).
type Answer struct {
	QueryID  int64                `json:"query_id,omitempty"`
	Category models.AgentCategory `json:"agent_category"`
	Result   llm.Result           `json:"result"`
}

// Session owns the transient mode state for one user: Document mode
// when a document is current, Query mode otherwise. The store remains
// the authoritative owner of all persisted entities.
type Session struct {
	store      store.Store
	gateway    llm.Gateway
	classifier Classifier

	mu      sync.Mutex
	current *models.Document
}

func New(st store.Store, gw llm.Gateway, cls Classifier) *Session {
	return &Session{store: st, gateway: gw, classifier: cls}
}

// Current returns the current document, or nil in query mode.
func (s *Session) Current() *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Back leaves Document mode.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Upload persists a decoded document and makes it current.
func (s *Session) Upload(ctx context.Context, filename string, content models.Content) (*models.Document, error) {
	id, err := s.store.SaveDocument(ctx, filename, content)
	if err != nil {
		return nil, err
	}

	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	return doc, nil
}

// Select makes a previously uploaded document current.
func (s *Session) Select(ctx context.Context, id int64) (*models.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = doc
	s.mu.Unlock()
	return doc, nil
}

// Ask answers a question. In query mode the query is classified and
// routed through the matching agent template; in Document mode it is
// answered strictly from the current document's content. Successful
// exchanges are persisted; error results are returned for display but
// never stored.
func (s *Session) Ask(ctx context.Context, query string) (*Answer, error) {
	doc := s.Current()
	if doc == nil {
		return s.askStandalone(ctx, query)
	}
	return s.askDocument(ctx, doc, query)
}

func (s *Session) askStandalone(ctx context.Context, query string) (*Answer, error) {
	category := s.classifier.Classify(ctx, query, nil)
	res := s.gateway.Generate(ctx, prompt.BuildAgentPrompt(query, category), nil)

	ans := &Answer{Category: category, Result: res}
	if res.OK() {
		id, err := s.store.SaveQuery(ctx, nil, query, res.Content, category)
		if err != nil {
			return nil, err
		}
		ans.QueryID = id
	}
	return ans, nil
}

func (s *Session) askDocument(ctx context.Context, doc *models.Document, query string) (*Answer, error) {
	res := s.gateway.Generate(ctx, prompt.BuildDocumentPrompt(query), attachmentFor(doc.Content))

	ans := &Answer{Category: models.AgentDocumentAnalysis, Result: res}
	if res.OK() {
		id, err := s.store.SaveQuery(ctx, &doc.ID, query, res.Content, models.AgentDocumentAnalysis)
		if err != nil {
			return nil, err
		}
		ans.QueryID = id
	}
	return ans, nil
}

// InitialAnalysis fetches the current document's "initial" analysis,
// computing and persisting it on first view. The stored row makes the
// compute step at-most-once; later visits reuse it.
func (s *Session) InitialAnalysis(ctx context.Context) (string, error) {
	doc := s.Current()
	if doc == nil {
		return "", ErrNoDocument
	}

	a, err := s.store.GetAnalysis(ctx, doc.ID, models.AnalysisKindInitial)
	if err == nil {
		return a.Content, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}

	res := s.gateway.Generate(ctx, prompt.InitialAnalysis, attachmentFor(doc.Content))
	if !res.OK() {
		return "", fmt.Errorf("%w: %s", ErrModelUnavailable, res.Content)
	}

	if _, err := s.store.SaveAnalysis(ctx, doc.ID, models.AnalysisKindInitial, res.Content); err != nil {
		return "", err
	}
	return res.Content, nil
}

// DeleteDocument cascades the delete and drops back to query mode when
// the current document is the one removed.
func (s *Session) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.store.DeleteDocument(ctx, id)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	if deleted && s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
	return deleted, nil
}

func (s *Session) DeleteQuery(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteQuery(ctx, id)
}

func (s *Session) RecentDocuments(ctx context.Context, limit int) ([]models.Document, error) {
	return s.store.RecentDocuments(ctx, limit)
}

func (s *Session) RecentQueries(ctx context.Context, documentID *int64, limit int) ([]models.Query, error) {
	return s.store.RecentQueries(ctx, documentID, limit)
}

func attachmentFor(content models.Content) *llm.Attachment {
	if content.IsImage() {
		return llm.ImageAttachment(content.Image, "image/png")
	}
	if content.Text == "" {
		return nil
	}
	return llm.TextAttachment(content.Text)
}
