// Package rest wires the HTTP surface: routing, middleware and handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"graphmem-backend/application/ingestion"
	"graphmem-backend/application/ports"
	"graphmem-backend/infrastructure/config"
	"graphmem-backend/interfaces/http/rest/handlers"
	"graphmem-backend/interfaces/http/rest/middleware"
	pkgerrors "graphmem-backend/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg       *config.Config
	store     ports.GraphStore
	ingestion *ingestion.Service
	logger    *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	store ports.GraphStore,
	ingestionService *ingestion.Service,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:       cfg,
		store:     store,
		ingestion: ingestionService,
		logger:    logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Ingestion endpoints
		r.Route("/ingest", func(r chi.Router) {
			ingestHandler := handlers.NewIngestHandler(rt.ingestion, rt.logger)
			r.Post("/message", ingestHandler.IngestMessage)
			r.Post("/conversation", ingestHandler.IngestConversation)
		})

		// Node endpoints
		r.Route("/nodes", func(r chi.Router) {
			nodeHandler := handlers.NewNodeHandler(rt.store, rt.logger)
			r.Get("/{nodeID}", nodeHandler.GetNode)
			r.Get("/{nodeID}/children", nodeHandler.GetChildren)
			r.Get("/{nodeID}/related", nodeHandler.GetRelated)
		})

		// Module declaration
		r.Route("/modules", func(r chi.Router) {
			moduleHandler := handlers.NewModuleHandler(rt.store, rt.logger)
			r.Post("/", moduleHandler.CreateModule)
		})

		// Edge endpoints
		r.Route("/edges", func(r chi.Router) {
			edgeHandler := handlers.NewEdgeHandler(rt.store, rt.logger)
			r.Post("/", edgeHandler.CreateEdge)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	if _, err := rt.store.GetNode(req.Context(), "00000000-0000-0000-0000-000000000000"); err != nil {
		// NOT_FOUND means the database answered; anything else means it did not.
		if !pkgerrors.IsNotFound(err) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
