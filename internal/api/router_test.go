package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ooad-assistant/internal/llm"
	"ooad-assistant/internal/models"
	"ooad-assistant/internal/session"
	"ooad-assistant/internal/store"
)

type memStore struct {
	nextID    int64
	documents map[int64]*models.Document
	analyses  []models.Analysis
	queries   []models.Query
}

func newMemStore() *memStore {
	return &memStore{documents: map[int64]*models.Document{}}
}

func (m *memStore) SaveDocument(_ context.Context, filename string, content models.Content) (int64, error) {
	m.nextID++
	m.documents[m.nextID] = &models.Document{
		ID:           m.nextID,
		Filename:     filename,
		FileKind:     content.Kind,
		Content:      content,
		UploadedAt:   time.Now(),
		LastAccessed: time.Now(),
	}
	return m.nextID, nil
}

func (m *memStore) GetDocument(_ context.Context, id int64) (*models.Document, error) {
	doc, ok := m.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *memStore) RecentDocuments(_ context.Context, _ int) ([]models.Document, error) {
	var docs []models.Document
	for _, d := range m.documents {
		docs = append(docs, *d)
	}
	return docs, nil
}

func (m *memStore) DeleteDocument(_ context.Context, id int64) (bool, error) {
	if _, ok := m.documents[id]; !ok {
		return false, nil
	}
	delete(m.documents, id)
	return true, nil
}

func (m *memStore) SaveAnalysis(_ context.Context, documentID int64, kind, content string) (int64, error) {
	m.nextID++
	m.analyses = append(m.analyses, models.Analysis{ID: m.nextID, DocumentID: documentID, Kind: kind, Content: content})
	return m.nextID, nil
}

func (m *memStore) GetAnalysis(_ context.Context, documentID int64, kind string) (*models.Analysis, error) {
	for i := len(m.analyses) - 1; i >= 0; i-- {
		if m.analyses[i].DocumentID == documentID && m.analyses[i].Kind == kind {
			a := m.analyses[i]
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) SaveQuery(_ context.Context, documentID *int64, queryText, responseText string, category models.AgentCategory) (int64, error) {
	m.nextID++
	m.queries = append(m.queries, models.Query{ID: m.nextID, DocumentID: documentID, QueryText: queryText, ResponseText: responseText, Category: category})
	return m.nextID, nil
}

func (m *memStore) DeleteQuery(_ context.Context, id int64) (bool, error) {
	for i, q := range m.queries {
		if q.ID == id {
			m.queries = append(m.queries[:i], m.queries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) RecentQueries(_ context.Context, documentID *int64, _ int) ([]models.Query, error) {
	var out []models.Query
	for _, q := range m.queries {
		if documentID != nil && (q.DocumentID == nil || *q.DocumentID != *documentID) {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

var _ store.Store = (*memStore)(nil)

type countingGateway struct {
	calls int
}

func (g *countingGateway) Generate(_ context.Context, _ string, _ *llm.Attachment) llm.Result {
	g.calls++
	return llm.Result{Status: llm.StatusSuccess, Content: fmt.Sprintf("model response %d", g.calls)}
}

type fixedClassifier struct {
	category models.AgentCategory
}

func (c fixedClassifier) Classify(_ context.Context, _ string, _ *models.Content) models.AgentCategory {
	return c.category
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore, *countingGateway) {
	t.Helper()
	st := newMemStore()
	gw := &countingGateway{}
	sess := session.New(st, gw, fixedClassifier{category: models.AgentConcept})

	srv := httptest.NewServer(NewRouter(nil, sess).Setup())
	t.Cleanup(srv.Close)
	return srv, st, gw
}

func uploadFile(t *testing.T, srv *httptest.Server, filename, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/documents", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestUploadTextDocument(t *testing.T) {
	srv, st, _ := newTestServer(t)

	resp := uploadFile(t, srv, "notes.txt", "composition over inheritance")

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "document", body["mode"])
	require.Len(t, st.documents, 1)
	assert.Equal(t, "composition over inheritance", st.documents[1].Content.Text)
}

func TestUploadUnsupportedType(t *testing.T) {
	srv, st, _ := newTestServer(t)

	resp := uploadFile(t, srv, "archive.zip", "zzzz")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Error: Unsupported file type", body["error"])
	assert.Empty(t, st.documents)
}

func TestGetDocument_AnalysisComputedOnce(t *testing.T) {
	srv, st, gw := newTestServer(t)
	uploadFile(t, srv, "notes.txt", "content").Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/documents/1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "success", analysis["status"])
	assert.NotEmpty(t, analysis["content"])
	require.Len(t, st.analyses, 1)

	// Second visit reuses the stored analysis.
	resp, err = http.Get(srv.URL + "/api/v1/documents/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 1, gw.calls)
}

func TestGetDocument_NotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/documents/99")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAskStandalone(t *testing.T) {
	srv, st, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/queries", "application/json",
		strings.NewReader(`{"query": "What is polymorphism?"}`))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "concept", body["agent_category"])
	assert.Equal(t, "query", body["mode"])
	assert.NotEmpty(t, body["segments"])

	require.Len(t, st.queries, 1)
	assert.Nil(t, st.queries[0].DocumentID)
}

func TestAskEmptyQuery(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/queries", "application/json",
		strings.NewReader(`{"query": "  "}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Error: query text required", body["error"])
}

func TestAskAboutDocument_SelectsAndBinds(t *testing.T) {
	srv, st, _ := newTestServer(t)
	uploadFile(t, srv, "design.txt", "layered architecture").Body.Close()

	// Leave document mode so the endpoint must select the document itself.
	resp, err := http.Post(srv.URL+"/api/v1/session/back", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Post(srv.URL+"/api/v1/documents/1/questions", "application/json",
		strings.NewReader(`{"query": "Which layers?"}`))
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "document_analysis", body["agent_category"])
	assert.Equal(t, "document", body["mode"])

	require.Len(t, st.queries, 1)
	require.NotNil(t, st.queries[0].DocumentID)
	assert.Equal(t, int64(1), *st.queries[0].DocumentID)
}

func TestDeleteDocumentThenGet(t *testing.T) {
	srv, _, _ := newTestServer(t)
	uploadFile(t, srv, "notes.txt", "content").Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/documents/1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/documents/1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteQuery_Missing(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/queries/7", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionBack(t *testing.T) {
	srv, _, _ := newTestServer(t)
	uploadFile(t, srv, "notes.txt", "content").Body.Close()

	resp, err := http.Post(srv.URL+"/api/v1/session/back", "application/json", nil)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "query", body["mode"])
}
