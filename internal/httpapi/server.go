// Package httpapi exposes the catalog services over HTTP under /api/v1.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/retrieval"
)

// HealthTimeout bounds the dependency checks of /healthz.
const HealthTimeout = 2 * time.Second

// Pinger checks the reachability of backing services.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Observer records served requests.
type Observer interface {
	ObserveHTTP(method, route, status string, elapsed time.Duration)
}

// Deps are the collaborators of the HTTP boundary. Health, Observer and
// Gatherer are optional.
type Deps struct {
	Films   *retrieval.FilmService
	Genres  *retrieval.GenreService
	Persons *retrieval.PersonService

	Health   Pinger
	Observer Observer
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Handler serves the catalog API.
type Handler struct {
	films   *retrieval.FilmService
	genres  *retrieval.GenreService
	persons *retrieval.PersonService

	health   Pinger
	observer Observer
	gatherer prometheus.Gatherer
	logger   *zap.Logger
}

// NewHandler creates a Handler from d.
func NewHandler(d Deps) *Handler {
	h := &Handler{
		films:    d.Films,
		genres:   d.Genres,
		persons:  d.Persons,
		health:   d.Health,
		observer: d.Observer,
		gatherer: d.Gatherer,
		logger:   d.Logger,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	return h
}

// APIPrefix is the path prefix of the catalog routes.
const APIPrefix = "/api/v1"

// Router returns the routes of h with logging, metrics and panic recovery.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	if h.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	SetupRoutes(router, h)

	router.Use(requestID, h.accessLog, h.recovery)
	return router
}

// SetupRoutes configures the catalog routes on router under APIPrefix.
// Routes are registered with full paths so a method mismatch answers 405.
func SetupRoutes(router *mux.Router, h *Handler) {
	get := func(path string, fn http.HandlerFunc) {
		router.HandleFunc(APIPrefix+path, fn).Methods(http.MethodGet)
	}

	// Films
	get("/films/search", h.SearchFilms)
	get("/films", h.ListFilms)
	get("/films/{id}", h.GetFilm)
	get("/films/{id}/similar", h.SimilarFilms)

	// Genres
	get("/genres", h.ListGenres)
	get("/genres/{id}", h.GetGenre)
	get("/genres/{id}/popular", h.PopularFilms)

	// Persons
	get("/persons/search", h.SearchPersons)
	get("/persons/{id}", h.GetPerson)
	get("/persons/{id}/film", h.PersonFilms)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), HealthTimeout)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"detail": err.Error(),
			})
			return
		}
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
