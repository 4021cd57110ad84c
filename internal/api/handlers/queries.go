package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"ooad-assistant/internal/render"
	"ooad-assistant/internal/session"
)

type QueryHandler struct {
	sess *session.Session
}

func NewQueryHandler(sess *session.Session) *QueryHandler {
	return &QueryHandler{sess: sess}
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	*session.Answer
	Segments []render.Segment `json:"segments"`
	Mode     string           `json:"mode"`
}

// Ask is the unified question endpoint: questions route through the
// classifier in query mode and to the current document in document
// mode.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	askQuery(w, r, h.sess)
}

func (h *QueryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	var documentID *int64
	if raw := r.URL.Query().Get("document_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document ID"})
			return
		}
		documentID = &id
	}

	queries, err := h.sess.RecentQueries(r.Context(), documentID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"queries": queries, "count": len(queries)})
}

func (h *QueryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid query ID"})
		return
	}

	deleted, err := h.sess.DeleteQuery(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "query not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// askQuery decodes the question, runs it through the session, and
// returns the answer with display segments. Shared by the standalone
// and per-document ask endpoints.
func askQuery(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error: query text required"})
		return
	}

	ans, err := sess.Ask(r.Context(), req.Query)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, askResponse{
		Answer:   ans,
		Segments: render.Split(ans.Result.Content, ans.Category),
		Mode:     modeOf(sess),
	})
}

func modeOf(sess *session.Session) string {
	if sess.Current() != nil {
		return "document"
	}
	return "query"
}
