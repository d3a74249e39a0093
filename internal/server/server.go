// Package server exposes the analysis API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
	"github.com/gitgauge/gitgauge-go/internal/stats"
	"github.com/gitgauge/gitgauge-go/internal/storage"
)

const defaultListLimit = 10

// Analyzer runs one analysis end to end.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRecord, error)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	analyzer Analyzer
	store    storage.Store
	tracker  *stats.Tracker
	logger   *logrus.Logger
}

// New creates a server. The tracker is optional.
func New(analyzer Analyzer, store storage.Store, tracker *stats.Tracker, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{
		analyzer: analyzer,
		store:    store,
		tracker:  tracker,
		logger:   logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/analysis/{id}", s.handleGetAnalysis)
	mux.HandleFunc("GET /api/analyses", s.handleListAnalyses)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s.logRequests(mux)
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // analyses can take a while
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(err, errors.KindValidation, "invalid request body"))
		return
	}

	record, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.GetAnalysis(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	summaries, err := s.store.ListRecent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []models.AnalysisSummary{}
	}

	s.writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		s.writeJSON(w, http.StatusOK, stats.Snapshot{})
		return
	}
	s.writeJSON(w, http.StatusOK, s.tracker.Stats())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("encode response")
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
	}

	s.writeJSON(w, status, errorResponse{
		Error:   errorLabel(status),
		Message: err.Error(),
	})
}

func statusForError(err error) int {
	switch errors.KindOf(err) {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindAuthRequired:
		return http.StatusUnauthorized
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindEmptyResult:
		return http.StatusUnprocessableEntity
	case errors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func errorLabel(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusUnprocessableEntity:
		return "No analyzable data"
	case http.StatusTooManyRequests:
		return "Rate limit exceeded"
	default:
		return "Internal error"
	}
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}
