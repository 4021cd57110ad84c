package handlers

import (
	"net/http"

	"ooad-assistant/internal/session"
)

type SessionHandler struct {
	sess *session.Session
}

func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{sess: sess}
}

// Back leaves document mode.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.sess.Back()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": "query"})
}
