package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ooad-assistant/internal/ingest"
	"ooad-assistant/internal/llm"
	"ooad-assistant/internal/session"
	"ooad-assistant/internal/store"
)

type DocumentHandler struct {
	sess *session.Session
}

func NewDocumentHandler(sess *session.Session) *DocumentHandler {
	return &DocumentHandler{sess: sess}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error: invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error: file required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error reading file: " + err.Error()})
		return
	}

	content, err := ingest.Process(header.Filename, data)
	switch {
	case errors.Is(err, ingest.ErrUnsupportedType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error: Unsupported file type"})
		return
	case errors.Is(err, ingest.ErrUnreadableFile):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Error reading file: " + err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	doc, err := h.sess.Upload(r.Context(), header.Filename, content)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"document": doc, "mode": "document"})
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	docs, err := h.sess.RecentDocuments(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
}

// Get selects the document, making it current, and returns it together
// with its initial analysis. A failed model call is reported inline in
// the analysis field, not as an HTTP error.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	doc, err := h.sess.Select(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var analysis llm.Result
	switch text, err := h.sess.InitialAnalysis(r.Context()); {
	case err == nil:
		analysis = llm.Result{Status: llm.StatusSuccess, Content: text}
	case errors.Is(err, session.ErrModelUnavailable):
		analysis = llm.Result{Status: llm.StatusError, Content: err.Error()}
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"document": doc,
		"analysis": analysis,
		"mode":     "document",
	})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	deleted, err := h.sess.DeleteDocument(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Ask answers a question about one document. The document becomes
// current if it is not already.
func (h *DocumentHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id, ok := documentID(w, r)
	if !ok {
		return
	}

	if cur := h.sess.Current(); cur == nil || cur.ID != id {
		if _, err := h.sess.Select(r.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	askQuery(w, r, h.sess)
}

func documentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document ID"})
		return 0, false
	}
	return id, true
}
