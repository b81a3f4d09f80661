package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/catalog"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/matching"
)

// MatchService computes ranked matches for a candidate.
// Implemented by matching.Orchestrator.
type MatchService interface {
	ComputeMatches(ctx context.Context, candidateID uuid.UUID) ([]db.MatchRecord, error)
}

// ViewedService handles the viewed-state transition of match records.
// Implemented by matching.Tracker.
type ViewedService interface {
	MarkViewed(ctx context.Context, matchID, candidateID uuid.UUID) (*db.MatchRecord, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	llmClient  llm.Client
	matcher    MatchService
	tracker    ViewedService
	matches    matching.MatchStore
	logger     *zap.Logger
}

// New creates a new server instance from application configuration,
// wiring the database, the LLM client, and the matching services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	fallback := catalog.NewClient(nil, cfg.JobsFallbackURL)
	scorer := matching.NewSemanticScorer(llmClient, logger)
	explainer := matching.NewExplanationGenerator(llmClient, logger)
	orchestrator := matching.NewOrchestrator(database, database, fallback, database,
		scorer, explainer, logger, matching.OrchestratorConfig{
			AcceptanceThreshold: cfg.AcceptanceThreshold,
			MaxConcurrentScores: cfg.MaxConcurrentScores,
		})

	s := &Server{
		db:        database,
		llmClient: llmClient,
		matcher:   orchestrator,
		tracker:   matching.NewTracker(database, logger),
		matches:   database,
		logger:    logger,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // match computation issues LLM calls per job
	}

	return s, nil
}

// routes builds the HTTP routing table
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /candidates/{id}/matches", s.handleComputeMatches)
	mux.HandleFunc("GET /candidates/{id}/matches", s.handleListMatches)
	mux.HandleFunc("GET /matches/{id}", s.handleGetMatch)
	mux.HandleFunc("POST /matches/{id}/viewed", s.handleMarkViewed)
	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start runs the server until an interrupt or termination signal arrives
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	s.logger.Info("server stopped")
	return nil
}

// handleHealth reports liveness and database connectivity
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  "database unreachable",
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
