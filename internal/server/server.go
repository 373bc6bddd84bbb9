package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/littleRiceZhou/auto-aspen/internal/config"
	"github.com/littleRiceZhou/auto-aspen/internal/log"
	"github.com/littleRiceZhou/auto-aspen/internal/metrics"
	"github.com/littleRiceZhou/auto-aspen/internal/requestid"
	"github.com/littleRiceZhou/auto-aspen/internal/service"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	svc      *service.SimulationService
	listener net.Listener
	// staticDir is served under the artifact URL prefix; empty disables it.
	staticDir string
}

// New returns a new instance of the auto-aspen API server.
func New(cfg *config.Config, svc *service.SimulationService, listener net.Listener, staticDir string) *Server {
	return &Server{
		cfg:       cfg,
		svc:       svc,
		listener:  listener,
		staticDir: staticDir,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Service.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{requestid.Header},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		chiMiddleware.RequestID,
		requestid.Middleware,
		log.Logger(zap.L(), "api_server"),
		chiMiddleware.Recoverer,
	)

	h := &handler{svc: s.svc}

	router.Get("/health", h.health)
	router.Handle("/metrics", metrics.Handler())

	router.Group(func(r chi.Router) {
		if s.cfg.Service.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(s.cfg.Service.RequestTimeout))
		}
		r.Post("/api/simulation", h.simulate)
		r.Post("/api/power", h.calculate)
	})

	if s.staticDir != "" {
		prefix := "/" + strings.Trim(s.cfg.Artifacts.URLPrefix, "/")
		router.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(s.staticDir))))
	}

	return router
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
