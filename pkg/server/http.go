package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/productstore/pkg/web"
	"github.com/go-chi/chi/v5"
)

// DefaultMaxBodyBytes is plenty for a single product document.
const DefaultMaxBodyBytes int64 = 64 << 10

// HTTPConfig has the configuration for the HTTP server.
// Zero values fall back to the net/http defaults, except MaxBodyBytes which falls back to DefaultMaxBodyBytes.
type HTTPConfig struct {
	Port           int
	MaxHeaderBytes int
	MaxBodyBytes   int64
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	ReadHeader     time.Duration
}

// NewHTTPServer creates the API server. Request bodies larger than cfg.MaxBodyBytes fail to read
// with *http.MaxBytesError, so handlers never buffer an oversized product payload.
func NewHTTPServer(cfg HTTPConfig, handler http.Handler) *http.Server {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	maxHeader := cfg.MaxHeaderBytes
	if maxHeader <= 0 {
		maxHeader = http.DefaultMaxHeaderBytes
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           http.MaxBytesHandler(handler, maxBody),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: cfg.ReadHeader,
		MaxHeaderBytes:    maxHeader,
	}
}

// NewChiRouter returns a router whose requests carry a request id, get an access log line
// and are recovered from panics with a 500.
func NewChiRouter(logger *slog.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(logger))
	mux.Use(web.Recoverer(logger))
	return mux
}
