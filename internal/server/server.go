// Package server exposes gradient editing sessions over HTTP.
//
// Every session owns an independent gradient store and interaction
// controller. Requests for the same session are serialized; requests for
// different sessions run in parallel. Errors are reported as
//
//	{"error": {"code": "INVALID_COLOR", "message": "..."}}
//
// with the status derived from the error code.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/observability"
	"github.com/matzehuels/meshgrad/pkg/pipeline"
	"github.com/matzehuels/meshgrad/pkg/raster"
	"github.com/matzehuels/meshgrad/pkg/session"
)

// Config configures a Server.
type Config struct {
	// Sessions holds editor sessions. Required.
	Sessions session.Store

	// Logger receives request logs. Defaults to a discarding logger.
	Logger *log.Logger

	// Filename is sent in the Content-Disposition of PNG downloads.
	// Defaults to raster.Filename.
	Filename string

	// Seed, when non-zero, seeds the randomizer of every new session.
	Seed uint64
}

// Server is the HTTP API. It implements http.Handler.
type Server struct {
	sessions session.Store
	logger   *log.Logger
	runner   *pipeline.Runner
	filename string
	seed     uint64
	router   chi.Router
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Filename == "" {
		cfg.Filename = raster.Filename
	}
	s := &Server{
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
		runner:   pipeline.NewRunner(cfg.Logger),
		filename: cfg.Filename,
		seed:     cfg.Seed,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/presets", s.handlePresets)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/blobs", s.handleAddBlob)
			r.Patch("/blobs/{blobID}", s.handleUpdateBlob)
			r.Delete("/blobs/{blobID}", s.handleRemoveBlob)
			r.Put("/background", s.handleSetBackground)

			r.Post("/randomize", s.handleRandomize)
			r.Post("/reset", s.handleReset)
			r.Post("/presets/{name}", s.handleApplyPreset)
			r.Post("/pointer", s.handlePointer)

			r.Get("/composite", s.handleComposite)
			r.Get("/wireframe", s.handleWireframe)
			r.Get("/export/{format}", s.handleExport)
			r.Get("/gradient.png", s.handlePNG)
			r.Get("/preview.png", s.handlePreview)
		})
	})
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// logRequests logs each request and reports it to the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		d := time.Since(start)
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeCapacity):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" || status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && err == io.EOF {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}
