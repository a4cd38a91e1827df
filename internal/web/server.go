// Package web serves the headless window host over HTTP: window listing and
// control, pointer input from touch clients, health and metrics.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Gaurav-Gosain/winshell/internal/config"
	"github.com/Gaurav-Gosain/winshell/internal/input"
	"github.com/Gaurav-Gosain/winshell/internal/metrics"
	"github.com/Gaurav-Gosain/winshell/internal/wm"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "web",
	})
}

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// SetLogLevel sets the logging level for the web package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}

// Config holds the web server configuration.
type Config struct {
	Host         string   // Host to bind to (default: "localhost")
	Port         string   // Port to listen on (default: "7690")
	AllowOrigins []string // Allowed origins for CORS (empty = same origin only)
	TLS          bool     // Serve HTTPS with a self-signed certificate
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Host: "localhost",
		Port: "7690",
	}
}

// FromServerConfig picks the web settings out of the server section.
func FromServerConfig(sc config.ServerConfig) Config {
	return Config{
		Host:         sc.Host,
		Port:         sc.Port,
		AllowOrigins: sc.AllowOrigins,
		TLS:          sc.TLS,
	}
}

// Server exposes one manager over HTTP. Every manager call runs on loop.
type Server struct {
	config     Config
	m          *wm.Manager
	loop       *wm.Loop
	adapter    *input.Adapter
	metrics    *metrics.Collector
	httpServer *http.Server
}

// NewServer creates a server for m. collector may be nil, which disables the
// /metrics endpoint.
func NewServer(cfg Config, m *wm.Manager, loop *wm.Loop, collector *metrics.Collector) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == "" {
		cfg.Port = "7690"
	}

	logger.Info("creating web server",
		"host", cfg.Host,
		"port", cfg.Port,
		"metrics", collector != nil,
	)

	return &Server{
		config:  cfg,
		m:       m,
		loop:    loop,
		adapter: input.NewAdapter(m),
		metrics: collector,
	}
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware)
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/windows", func(r chi.Router) {
		r.Get("/", s.handleListWindows)
		r.Post("/", s.handleAddWindow)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetWindow)
			r.Delete("/", s.handleRemoveWindow)
			r.Post("/{action}", s.handleWindowAction)
		})
	})
	r.Post("/input", s.handleInput)
	return r
}

// Start serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	scheme := "http"
	if s.config.TLS {
		cert, err := NewSelfSignedCert(s.config.Host)
		if err != nil {
			return err
		}
		s.httpServer.TLSConfig = cert.TLSConfig
		scheme = "https"
		logger.Info("generated certificate", "sha256", cert.Fingerprint)
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", addr, "url", fmt.Sprintf("%s://%s", scheme, addr))
		var err error
		if s.config.TLS {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down web server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

// do runs fn on the manager loop, bounded by the request.
func (s *Server) do(r *http.Request, fn func()) error {
	return s.loop.Do(r.Context(), fn)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, o := range s.config.AllowOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "took", time.Since(start))
	})
}
