package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ZertGraf/roster-bot/internal/api/handler"
	"github.com/ZertGraf/roster-bot/internal/api/middleware"
	"github.com/ZertGraf/roster-bot/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// HealthFunc reports whether the bot's dependencies are usable.
type HealthFunc func(ctx context.Context) error

type HTTPServer struct {
	server *http.Server
	config *ServerConfig
	logger *logger.Logger
}

// NewHTTPServer builds the server. webhook is nil when the bot does not
// receive messages over HTTP.
func NewHTTPServer(config *ServerConfig,
	webhook *handler.WebhookHandler,
	metrics http.Handler,
	health HealthFunc,
	logger *logger.Logger) *HTTPServer {

	router := setupRouter(webhook, metrics, health, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &HTTPServer{
		server: server,
		config: config,
		logger: logger.Component("http"),
	}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start(_ context.Context) error {
	go func() {
		s.logger.Info("http server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping http server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("http server shutdown failed", "error", err)
		return err
	}

	s.logger.Info("http server stopped")
	return nil
}

func setupRouter(
	webhook *handler.WebhookHandler,
	metrics http.Handler,
	health HealthFunc,
	logger *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Security())
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := health(r.Context()); err != nil {
			logger.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte(`{"status":"unhealthy"}`)); err != nil {
				logger.Warn("failed to write health response", "error", err)
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})

	r.Handle("/metrics", metrics)

	if webhook != nil {
		r.Mount("/hooks/rocketchat", webhook.Routes())
	}

	return r
}
