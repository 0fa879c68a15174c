// Package server exposes the notification bridge over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aledsz/pluginfield4/pkg/procon"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodySize = 4 << 20

// Handler receives each decoded notification.
type Handler func(procon.Notification) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Server routes host notifications to a Handler.
type Server struct {
	handle  Handler
	logger  Logger
	enabled func() bool
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithStatus reports plugin state on the health endpoint.
func WithStatus(enabled func() bool) Option {
	return func(s *Server) {
		s.enabled = enabled
	}
}

func New(handle Handler, logger Logger, opts ...Option) *Server {
	s := &Server{
		handle:  handle,
		logger:  logger,
		enabled: func() bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/notify/{event}", s.notify)
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("bridge listening", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("bridge server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge server: %w", err)
	}
	return nil
}

func (s *Server) notify(w http.ResponseWriter, r *http.Request) {
	event := chi.URLParam(r, "event")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeReply(w, http.StatusRequestEntityTooLarge, event, err)
		return
	}

	args, err := procon.DecodeArgs(body)
	if err != nil {
		writeReply(w, http.StatusBadRequest, event, err)
		return
	}

	err = s.handle(procon.Notification{Event: event, Args: args})
	switch {
	case err == nil:
		writeReply(w, http.StatusAccepted, event, nil)
	case errors.Is(err, procon.ErrUnknownEvent), errors.Is(err, procon.ErrNotRegistered):
		writeReply(w, http.StatusNotFound, event, err)
	default:
		writeReply(w, http.StatusBadRequest, event, err)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"enabled": s.enabled(),
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()),
		)
	})
}

func writeReply(w http.ResponseWriter, status int, event string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, procon.FormatResponse(event, err))
}
