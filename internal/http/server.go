package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storeratings/internal/auth"
	"storeratings/internal/config"
	"storeratings/internal/db"
	"storeratings/internal/domain"
	"storeratings/internal/repository"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	db      *db.DB
	repo    *repository.Repository
	tokens  *auth.TokenService
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, database *db.DB, repo *repository.Repository, tokens *auth.TokenService, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		db:     database,
		repo:   repo,
		tokens: tokens,
		logger: logger,
		router: r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/update-password", s.handleUpdatePassword)
		})
	})

	s.router.Route("/stores", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.requireRole(domain.RoleUser, domain.RoleAdmin))
		r.Get("/", s.handleListStores)
		r.Post("/{storeID}/rate", s.handleRateStore)
	})

	s.router.Route("/owner", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.requireRole(domain.RoleOwner, domain.RoleAdmin))
		r.Get("/my-store", s.handleMyStore)
	})

	s.router.Route("/admin", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.requireRole(domain.RoleAdmin))
		r.Get("/dashboard", s.handleAdminDashboard)
		r.Get("/users", s.handleAdminListUsers)
		r.Post("/users", s.handleAdminCreateUser)
		r.Get("/stores", s.handleAdminListStores)
		r.Post("/stores", s.handleAdminCreateStore)
	})
}

// Start boots the HTTP server asynchronously.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
