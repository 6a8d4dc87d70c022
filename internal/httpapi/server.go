// Package httpapi implements the simulator's control surface: start a
// run, poll its progress, fetch its result, or schedule a day's worth of
// runs at once.
package httpapi

import (
	"context"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/baseball-sim/sim-engine/internal/repository"
	"github.com/baseball-sim/sim-engine/internal/simulation"
)

// Server is the HTTP control surface (spec §4.7).
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	repo       repository.Repository
	coord      *simulation.Coordinator
	limiter    *RateLimiter
	metrics    *Metrics
	validate   *validator.Validate
	log        *charmlog.Logger
	workers    int
}

// NewServer wires the router, middleware stack, and handlers. limiter may
// be nil, in which case rate limiting degrades to allow-all.
func NewServer(repo repository.Repository, coord *simulation.Coordinator, limiter *RateLimiter, workers int, logger *charmlog.Logger) *Server {
	if logger == nil {
		logger = charmlog.Default()
	}
	s := &Server{
		router:   mux.NewRouter(),
		repo:     repo,
		coord:    coord,
		limiter:  limiter,
		metrics:  NewMetrics(),
		validate: validator.New(),
		log:      logger.With("component", "httpapi"),
		workers:  workers,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api.Handle("/simulate", s.rateLimited(http.HandlerFunc(s.handleSimulate))).Methods(http.MethodPost)
	api.Handle("/simulate/daily", s.rateLimited(http.HandlerFunc(s.handleSimulateDaily))).Methods(http.MethodPost)
	api.HandleFunc("/simulation/{id}/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/simulation/{id}/result", s.handleResult).Methods(http.MethodGet)

	s.router.Use(s.metrics.Middleware)
	s.router.Use(s.recoveryMiddleware)
}

// Handler returns the fully wrapped handler (CORS + gzip + access log),
// ready to hand to an *http.Server.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
		MaxAge:         600,
	})
	h := c.Handler(s.router)
	h = handlers.CompressHandler(h)
	h = handlers.CombinedLoggingHandler(charmLogWriter{s.log}, h)
	return h
}

// ListenAndServe starts the HTTP server on addr and blocks until ctx is
// canceled, then gracefully shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("control surface listening", "addr", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic recovered in handler", "path", r.URL.Path, "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimited(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		allowed, err := s.limiter.Allow(r.Context(), ip)
		if err != nil {
			s.log.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

// charmLogWriter adapts *charmlog.Logger to io.Writer for
// handlers.CombinedLoggingHandler's access-log output.
type charmLogWriter struct {
	log *charmlog.Logger
}

func (w charmLogWriter) Write(p []byte) (int, error) {
	w.log.Info(string(p))
	return len(p), nil
}
