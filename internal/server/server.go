// Package server wires the application together and runs the HTTP server.
//
// New is the composition root: it opens the persistence gateway named by
// the config, loads the App on top of it, builds the handlers and mounts
// them on a chi router. Start serves until SIGINT or SIGTERM and then shuts
// down in order: HTTP first, then notification timers, then the gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/socialhub/internal/auth"
	"github.com/sakif/socialhub/internal/config"
	"github.com/sakif/socialhub/internal/handler"
	"github.com/sakif/socialhub/internal/middleware"
	"github.com/sakif/socialhub/internal/repository"
	"github.com/sakif/socialhub/internal/repository/postgres"
	sqliteRepo "github.com/sakif/socialhub/internal/repository/sqlite"
	"github.com/sakif/socialhub/internal/service"
)

// startupTimeout bounds connecting to the store and loading the snapshot.
const startupTimeout = 15 * time.Second

// Server owns the router and everything that must be released on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger

	app           *service.App
	closer        io.Closer // gateway connection; nil for the memory driver
	notifications *handler.NotificationHandler
}

// New opens the store, loads the application state and sets up routes.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	gateway, closer, err := openGateway(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}

	app, err := service.Open(ctx, gateway, logger, service.Options{
		SeedSampleData: cfg.SeedSampleData,
		NotifyOnFollow: cfg.NotifyOnFollow,
	})
	if err != nil {
		closeQuietly(closer, logger)
		return nil, fmt.Errorf("loading state: %w", err)
	}

	tokens, err := newTokenService(cfg.JWTSecret, logger)
	if err != nil {
		closeQuietly(closer, logger)
		return nil, err
	}

	s := &Server{
		router:        chi.NewRouter(),
		config:        cfg,
		logger:        logger,
		app:           app,
		closer:        closer,
		notifications: handler.NewNotificationHandler(app, cfg.NotificationDwell, logger),
	}
	s.setupRoutes(tokens)
	return s, nil
}

// openGateway returns the gateway for cfg.StoreDriver and the connection to
// close on shutdown. The memory driver returns (nil, nil, nil); the App then
// keeps state in memory only.
func openGateway(ctx context.Context, cfg config.Config) (repository.StateGateway, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	case config.DriverMemory:
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newTokenService(secret string, logger *slog.Logger) (*auth.TokenService, error) {
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using a random secret; sessions end on restart")
		var err error
		if secret, err = auth.RandomSecret(); err != nil {
			return nil, err
		}
	}
	tokens, err := auth.NewTokenService(secret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	return tokens, nil
}

// setupRoutes mounts every endpoint.
//
// Middleware runs in the order added: RequestID must come before Logger so
// the log line carries the ID.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	sessions := handler.NewSessionHandler(s.app, tokens, s.logger)
	users := handler.NewUserHandler(s.app, s.logger)
	posts := handler.NewPostHandler(s.app, s.logger)
	clientConfig := handler.NewConfigHandler(s.config.FeedRefresh, s.config.NotificationDwell)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", sessions.HandleRegister)
		r.Post("/login", sessions.HandleLogin)
		r.Post("/logout", sessions.HandleLogout)
		r.Get("/config", clientConfig.HandleConfig)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", sessions.HandleMe)
			r.Put("/me", sessions.HandleUpdateMe)

			r.Get("/feed", posts.HandleFeed)
			r.Get("/activity", posts.HandleActivity)
			r.Post("/posts", posts.HandleCreate)
			r.Post("/posts/{id}/like", posts.HandleToggleLike)
			r.Post("/posts/{id}/share", posts.HandleShare)
			r.Get("/posts/{id}/comments", posts.HandleListComments)
			r.Post("/posts/{id}/comments", posts.HandleAddComment)

			r.Get("/search", users.HandleSearch)
			r.Get("/suggestions", users.HandleSuggestions)
			r.Get("/online", users.HandleOnline)
			r.Get("/users/{id}", users.HandleGetUser)
			r.Get("/users/{id}/posts", users.HandleUserPosts)
			r.Post("/users/{id}/follow", users.HandleToggleFollow)

			r.Get("/notifications", s.notifications.HandleList)
			r.Get("/notifications/unread", s.notifications.HandleUnread)
			r.Post("/notifications/{id}/read", s.notifications.HandleMarkRead)
		})
	})
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops pending notification timers and closes the store. The last
// mutation was already saved when it returned, so nothing is flushed here.
func (s *Server) Close() error {
	s.notifications.Stop()
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Start serves until a shutdown signal arrives, then drains in-flight
// requests for up to 30 seconds and closes the server.
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing store failed", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("store", s.config.StoreDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

func closeQuietly(c io.Closer, logger *slog.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("closing store failed", slog.String("error", err.Error()))
	}
}
