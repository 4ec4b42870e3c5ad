// Package server exposes the analyzer over HTTP: a multipart upload in, the
// message-only report out.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/models"
)

// UploadField is the multipart field carrying the source file
const UploadField = "codeFile"

// RequestIDHeader carries the per-request ID
const RequestIDHeader = "X-Request-ID"

// Analyzer is the part of analyzer.Analyzer the server needs
type Analyzer interface {
	Analyze(source string) (*models.Report, error)
}

// Config tunes the HTTP transport
type Config struct {
	MaxUploadBytes    int64
	RequestsPerSecond float64 // 0 disables rate limiting
	Burst             int
	AnalysisTimeout   time.Duration // 0 disables the timeout
}

// Server serves POST /analyze/ and GET /healthz
type Server struct {
	analyzer Analyzer
	config   Config
	log      logrus.FieldLogger
	limiter  *rate.Limiter
	handler  http.Handler
}

// New creates a server around a ready analyzer
func New(a Analyzer, cfg Config, log logrus.FieldLogger) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 * 1024 * 1024 // 10MB
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Server{analyzer: a, config: cfg, log: log}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/analyze/", s.handleAnalyze)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.handler = s.withRequestID(s.withAccessLog(s.withRateLimit(mux)))
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.NetworkErrorf(err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.NetworkError(err, "shutdown http server")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, s.log)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	text, ok := s.readUpload(w, r, log)
	if !ok {
		return
	}

	report, err := s.analyze(r.Context(), text)
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		log.WithField("timeout", s.config.AnalysisTimeout).Warn("analysis timed out")
		writeError(w, http.StatusGatewayTimeout, "analysis timed out")
	case err != nil:
		entry := log.WithError(err).WithFields(logrus.Fields{
			"type":     errors.GetType(err).String(),
			"severity": errors.GetSeverity(err).String(),
		})
		if errors.IsInput(err) {
			entry.Info("analysis failed")
		} else {
			entry.Error("analysis failed")
		}
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.WithField("findings", report.Total()).Debug("analysis complete")
		writeJSON(w, http.StatusOK, report.Wire())
	}
}

// readUpload reads the uploaded file into memory; it is never written to disk
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger) (string, bool) {
	// the multipart envelope adds a little over the file itself
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes+64*1024)
	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return "", false
	}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			writeError(w, http.StatusBadRequest, "Invalid request")
			return "", false
		}
		if err != nil {
			s.uploadError(w, err, log)
			return "", false
		}
		if part.FormName() != UploadField || part.FileName() == "" {
			part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, s.config.MaxUploadBytes+1))
		part.Close()
		if err != nil {
			s.uploadError(w, err, log)
			return "", false
		}
		if int64(len(data)) > s.config.MaxUploadBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return "", false
		}
		if !utf8.Valid(data) {
			writeError(w, http.StatusBadRequest, "uploaded file is not valid UTF-8")
			return "", false
		}
		return string(data), true
	}
}

func (s *Server) uploadError(w http.ResponseWriter, err error, log logrus.FieldLogger) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
		return
	}
	log.WithError(err).Debug("malformed upload")
	writeError(w, http.StatusBadRequest, "Invalid request")
}

type analysisResult struct {
	report *models.Report
	err    error
}

// analyze runs the analyzer under the configured timeout. Analysis itself
// cannot be interrupted; on timeout its result is discarded.
func (s *Server) analyze(ctx context.Context, text string) (*models.Report, error) {
	if s.config.AnalysisTimeout <= 0 {
		return s.analyzer.Analyze(text)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.AnalysisTimeout)
	defer cancel()

	done := make(chan analysisResult, 1)
	go func() {
		report, err := s.analyzer.Analyze(text)
		done <- analysisResult{report: report, err: err}
	}()

	select {
	case res := <-done:
		return res.report, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type ctxKey struct{}

func requestLogger(r *http.Request, fallback logrus.FieldLogger) logrus.FieldLogger {
	if log, ok := r.Context().Value(ctxKey{}).(logrus.FieldLogger); ok {
		return log
	}
	return fallback
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		log := s.log.WithField("request_id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, log)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		requestLogger(r, s.log).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
			"remote":   r.RemoteAddr,
		}).Info("request")
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && r.URL.Path != "/healthz" && !s.limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
