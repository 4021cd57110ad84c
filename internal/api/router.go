package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ooad-assistant/internal/api/handlers"
	"ooad-assistant/internal/api/middleware"
	"ooad-assistant/internal/session"
)

type Router struct {
	mux  *chi.Mux
	db   *sql.DB
	sess *session.Session
}

func NewRouter(db *sql.DB, sess *session.Session) *Router {
	return &Router{
		mux:  chi.NewRouter(),
		db:   db,
		sess: sess,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	// Health and metrics endpoints
	health := handlers.NewHealthHandler(rt.db)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// One bucket for the whole API; every ask fans out to the model.
		rl := middleware.NewRateLimiter(5, 10)
		r.Use(rl.Limit)

		docH := handlers.NewDocumentHandler(rt.sess)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", docH.Upload)
			r.Get("/", docH.List)
			r.Get("/{id}", docH.Get)
			r.Delete("/{id}", docH.Delete)
			r.Post("/{id}/questions", docH.Ask)
		})

		queryH := handlers.NewQueryHandler(rt.sess)
		r.Route("/queries", func(r chi.Router) {
			r.Post("/", queryH.Ask)
			r.Get("/", queryH.List)
			r.Delete("/{id}", queryH.Delete)
		})

		sessH := handlers.NewSessionHandler(rt.sess)
		r.Post("/session/back", sessH.Back)
	})

	return r
}
