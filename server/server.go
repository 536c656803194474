// Package server exposes single-document outline extraction over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/outliner"
	"github.com/tsawler/outliner/cache"
	"github.com/tsawler/outliner/export"
	"github.com/tsawler/outliner/layout"
	"github.com/tsawler/outliner/model"
)

const (
	// StatusHeader carries the extraction status of a response
	StatusHeader = "X-Outline-Status"
	// CacheHeader tells whether the result came from the cache
	CacheHeader = "X-Outline-Cache"

	defaultDocumentName = "document"
	multipartMemory     = 8 << 20
)

// Config configures the HTTP API.
type Config struct {
	// MaxUploadBytes bounds request bodies (default: 50 MB)
	MaxUploadBytes int64

	// MaxItems and MaxPages are the default extraction limits
	MaxItems int
	MaxPages int

	// Heading holds the detection thresholds; zero means the defaults
	Heading layout.HeadingConfig

	Cache   *cache.Cache
	Version string
	Logger  *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 50 << 20
	}
	if c.MaxItems == 0 {
		c.MaxItems = layout.DefaultMaxItems
	}
	if c.MaxPages == 0 {
		c.MaxPages = outliner.DefaultMaxPages
	}
	if c.Heading == (layout.HeadingConfig{}) {
		c.Heading = layout.DefaultHeadingConfig()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Server is the HTTP API
type Server struct {
	cfg    Config
	router *chi.Mux
}

// New creates a Server and registers its routes
func New(cfg Config) *Server {
	cfg.defaults()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s := &Server{cfg: cfg, router: r}
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/outline", s.handleOutline)
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.cfg.Version,
	})
}

// handleOutline accepts a PDF as the raw request body or as the multipart
// field "file" and responds with its outline. A document that cannot be read
// still yields 200 with the degraded record.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	logger := s.cfg.Logger.With("request_id", middleware.GetReqID(r.Context()))
	query := r.URL.Query()

	f := export.FormatJSON
	if v := query.Get("format"); v != "" {
		parsed, err := export.ParseFormat(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		f = parsed
	}

	maxItems, err := intParam(query.Get("max_items"), s.cfg.MaxItems)
	if err != nil {
		writeError(w, http.StatusBadRequest, "max_items: "+err.Error())
		return
	}
	maxPages, err := intParam(query.Get("max_pages"), s.cfg.MaxPages)
	if err != nil {
		writeError(w, http.StatusBadRequest, "max_pages: "+err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	name, data, err := readUpload(r)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("document exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q := query.Get("name"); q != "" {
		name = q
	}

	run := func() model.Result {
		return outliner.FromBytes(name, data).
			HeadingConfig(s.cfg.Heading).
			MaxItems(maxItems).
			MaxPages(maxPages).
			WithLogger(logger).
			Extract(r.Context())
	}

	var result model.Result
	cached := false
	if s.cfg.Cache != nil {
		result, cached, err = s.cfg.Cache.Resolve(r.Context(), cache.Key(data, maxItems, maxPages, s.cfg.Heading), run)
		if err != nil {
			logger.Warn("cache unavailable", "error", err)
		}
		result.Name = name
		if cached {
			w.Header().Set(CacheHeader, "hit")
		} else {
			w.Header().Set(CacheHeader, "miss")
		}
	} else {
		result = run()
	}

	w.Header().Set(StatusHeader, result.Status.String())
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, f, result); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}

// readUpload returns the document name and content of a request
func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, err
		}
		if len(data) == 0 {
			return "", nil, errors.New("empty request body")
		}
		return defaultDocumentName, data, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("multipart field %q: %w", "file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, errors.New("empty upload")
	}

	name := model.DocumentName(header.Filename)
	if name == "" {
		name = defaultDocumentName
	}
	return name, data, nil
}

// isTooLarge reports whether err comes from the upload limit. Multipart
// parsing does not always wrap the underlying error.
func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func intParam(v string, fallback int) (int, error) {
	if strings.TrimSpace(v) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
