package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/meur/bistracker/internal/models"
	"github.com/meur/bistracker/internal/storage"
	"github.com/meur/bistracker/internal/tracker"
)

// Server holds the HTTP server dependencies
type Server struct {
	store   *storage.Store
	tracker *tracker.Tracker
	router  chi.Router
}

// New creates a new API server
func New(store *storage.Store, t *tracker.Tracker) *Server {
	s := &Server{
		store:   store,
		tracker: t,
		router:  chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Catalog
		r.Get("/tiers", s.handleGetTiers)
		r.Get("/slots", s.handleGetSlots)

		// Gear state
		r.Get("/gear", s.handleGetGear)
		r.Get("/gear/{slot}", s.handleGetSlot)
		r.Put("/gear/{slot}", s.handleUpdateSlot)

		// BIS reference table
		r.Get("/bis", s.handleGetBis)
		r.Put("/bis", s.handleReplaceBis)
		r.Put("/bis/{slot}", s.handleSetBisEntry)

		r.Get("/priority", s.handleGetPriority)
		r.Post("/save", s.handleSave)

		// Snapshots
		r.Post("/snapshots", s.handleCreateSnapshot)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
		r.Put("/snapshots/{id}", s.handleUpdateSnapshot)
		r.Delete("/snapshots/{id}", s.handleDeleteSnapshot)
		r.Get("/snapshots/{id}/priority", s.handleGetSnapshotPriority)
		r.Post("/snapshots/{id}/restore", s.handleRestoreSnapshot)

		// Share links
		r.Get("/s/{code}", s.handleGetSnapshotByCode)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// slotParam resolves the {slot} URL parameter. Display names, slugs and
// Spanish names are all accepted.
func slotParam(r *http.Request) (models.Slot, error) {
	raw := chi.URLParam(r, "slot")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return models.ParseSlot(raw)
}

func isUnknownInput(err error) bool {
	return errors.Is(err, models.ErrUnknownSlot) || errors.Is(err, models.ErrUnknownTier)
}
