// Package server wires the HTTP router: it assembles the repository, service,
// and handler layers, mounts the routes, and owns startup and graceful
// shutdown. main.go stays minimal; everything about how the pieces connect
// lives here, in one composition root.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Manav-Sonawane/CodeCloud/internal/auth"
	"github.com/Manav-Sonawane/CodeCloud/internal/config"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
	"github.com/Manav-Sonawane/CodeCloud/internal/handler"
	"github.com/Manav-Sonawane/CodeCloud/internal/language"
	"github.com/Manav-Sonawane/CodeCloud/internal/middleware"
	sqliteRepo "github.com/Manav-Sonawane/CodeCloud/internal/repository/sqlite"
	"github.com/Manav-Sonawane/CodeCloud/internal/service"
	"github.com/Manav-Sonawane/CodeCloud/internal/session"
)

// Server holds the router and the resources it owns. The database connection
// belongs to the server and is closed during shutdown — skipping that would
// leave the WAL unflushed.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token and password
// services, domain services, handlers, routes. Each layer only receives the
// interfaces it needs; handlers never touch the database directly.
//
// exec may be nil when no provider credentials are configured — execution
// endpoints then answer 503 instead of the server refusing to start.
func New(cfg *config.Config, logger *slog.Logger, exec executor.Executor) (*Server, error) {
	if err := language.Validate(); err != nil {
		return nil, fmt.Errorf("language table: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(exec); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and mounts every route.
//
// Middleware order matters: RequestID first so the logger can include it,
// Recoverer last among the built-ins so panics inside handlers still produce
// a logged 500.
func (s *Server) setupRoutes(exec executor.Executor) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	codeService := service.NewCodeService(s.db, s.logger)
	sessions := session.NewManager()

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	codeHandler := handler.NewCodeHandler(codeService, s.logger)
	compilerHandler := handler.NewCompilerHandler(exec, s.logger)
	sessionHandler := handler.NewSessionHandler(sessions, exec, codeService, s.logger)
	pingHandler := handler.NewPingHandler(s.db, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	if s.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(s.config.StaticDir))
		s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	s.router.Get("/ping", pingHandler.HandlePing)

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})

		r.With(requireAuth).Get("/protected", authHandler.HandleProtected)

		r.Post("/compiler/run", compilerHandler.HandleExecute)

		r.Route("/code", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/save", codeHandler.HandleSave)
			r.Get("/", codeHandler.HandleList)
			r.Get("/{id}", codeHandler.HandleGet)
		})

		// Session endpoints are anonymous except save, which needs an owner.
		// OptionalAuth resolves an identity when a token is present and the
		// save handler rejects the request when it isn't.
		r.Route("/session", func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Post("/", sessionHandler.HandleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.HandleGet)
				r.Post("/files", sessionHandler.HandleNewFile)
				r.Post("/files/{name}/activate", sessionHandler.HandleActivateFile)
				r.Delete("/files/{name}", sessionHandler.HandleCloseFile)
				r.Put("/active", sessionHandler.HandleEdit)
				r.Put("/language", sessionHandler.HandleSetLanguage)
				r.Put("/stdin", sessionHandler.HandleSetStdin)
				r.Post("/run", sessionHandler.HandleRun)
				r.Post("/save", sessionHandler.HandleSave)
				r.Get("/download", sessionHandler.HandleDownload)
			})
		})
	})

	return nil
}

// Router exposes the configured mux, mainly so tests can drive the full
// stack through httptest without binding a port.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests for up to
// 30 seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // execution runs can take a while
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
