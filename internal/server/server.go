/**
 * HTTP API for the redaction service
 *
 * Two processing paths share one pipeline: POST /api/v1/redact runs the job
 * inline and returns the masked image; POST /api/v1/jobs enqueues it for the
 * worker and returns immediately.
 */

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Ankiitsingh21/pii-detection-backend/internal/config"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/logging"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/processor"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/queue"
	"github.com/Ankiitsingh21/pii-detection-backend/internal/storage"
)

// Server is the redaction API server
type Server struct {
	config    *config.Config
	processor processor.RedactionProcessorInterface
	producer  *queue.Producer
	store     *storage.PostgresClient
	events    *queue.EventPublisher
	logger    *logging.Logger
	http      *http.Server
}

// ServerConfig wires the server dependencies
type ServerConfig struct {
	Config    *config.Config
	Processor processor.RedactionProcessorInterface
	Producer  *queue.Producer
	Store     *storage.PostgresClient
	Events    *queue.EventPublisher
}

// NewServer creates the API server with its routes
func NewServer(cfg *ServerConfig) *Server {
	s := &Server{
		config:    cfg.Config,
		processor: cfg.Processor,
		producer:  cfg.Producer,
		store:     cfg.Store,
		events:    cfg.Events,
		logger:    logging.NewLogger("server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/redact", s.handleRedact)
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs/{jobID}", s.handleGetJob)
		r.Get("/stats", s.handleStats)
	})

	s.http = &http.Server{
		Addr:              cfg.Config.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start runs the HTTP server until the listener fails or Stop is called
func (s *Server) Start() error {
	s.logger.Info("Starting API server", "addr", s.config.ServerAddr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the HTTP server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.http.Shutdown(ctx)
}
