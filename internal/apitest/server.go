// Package apitest is an in-memory stand-in for the FloraBase REST API.
//
// It serves the same routes, status codes and JSON shapes the front-end
// relies on, so the client core can be exercised end to end with
// httptest.NewServer and developers can run the CLI without the real
// backend (see cmd/devapi). It is test tooling: nothing is persisted and the
// access rules are the minimum the front-end needs.
//
// ROUTES (all under /api unless noted):
//
//	POST   /users/register       public, JSON or multipart
//	POST   /users/login          public
//	GET    /users/me             bearer
//	PUT    /users/me             bearer, multipart
//	GET    /admin/users          bearer + admin
//	DELETE /admin/users/{id}     bearer + admin
//	POST   /flowers/upload       bearer, multipart field "image"
//	POST   /flowers              bearer
//	GET    /flowers              public
//	GET    /flowers/user         bearer
//	GET    /flowers/trefle       public, ?page&q&distribution&category
//	GET    /flowers/trefle/{id}  public
//	GET    /flowers/{id}         public
//	PUT    /flowers/{id}         bearer, owner or admin
//	DELETE /flowers/{id}         bearer, owner or admin
//	GET    /uploads/{name}       (root) uploaded images
//
// TEST HOOKS:
//   - FailWith makes one route answer a fixed error
//   - Calls and LastRequest report what the client actually sent
package apitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/AshimStha/FloraBase-Frontend/internal/auth"
	"github.com/AshimStha/FloraBase-Frontend/internal/middleware"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

type Config struct {
	JWTSecret    string                 // at least 16 characters
	PasswordCost int                    // bcrypt cost, 0 means bcrypt.DefaultCost
	PageSize     int                    // catalog page size, default 20
	Catalog      []model.ExternalFlower // default DefaultCatalog()
}

// Recorded is one request as the server received it.
type Recorded struct {
	Header http.Header
	Body   []byte
}

type fault struct {
	status  int
	message string
}

type Server struct {
	router    *chi.Mux
	cfg       Config
	logger    *slog.Logger
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	store     *store

	mu     sync.Mutex
	calls  map[string]int
	last   map[string]Recorded
	faults map[string]fault
}

func New(cfg Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("apitest: %w", err)
	}
	passwords := auth.NewPasswordService()
	if cfg.PasswordCost > 0 {
		passwords = auth.NewPasswordServiceWithCost(cfg.PasswordCost)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}

	s := &Server{
		router:    chi.NewRouter(),
		cfg:       cfg,
		logger:    logger,
		tokens:    tokens,
		passwords: passwords,
		store:     newStore(cfg.Catalog),
		calls:     make(map[string]int),
		last:      make(map[string]Recorded),
		faults:    make(map[string]fault),
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes wires middleware and handlers.
//
// MIDDLEWARE ORDER:
//  1. RequestID  adopts the client's X-Request-ID
//  2. RealIP
//  3. Logger     logs with that ID
//  4. Recoverer  turns a handler panic into a 500
//  5. record     counts the call and applies FailWith faults
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(s.record)

	requireAuth := auth.RequireAuth(s.tokens)

	s.router.Get("/uploads/{name}", s.handleImage)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users/register", s.handleRegister)
		r.Post("/users/login", s.handleLogin)
		r.Get("/flowers", s.handleListPosts)
		r.Get("/flowers/trefle", s.handleCatalog)
		r.Get("/flowers/trefle/{id}", s.handleCatalogFlower)
		r.Get("/flowers/{id}", s.handleGetPost)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/users/me", s.handleMe)
			r.Put("/users/me", s.handleUpdateMe)
			r.Post("/flowers/upload", s.handleUpload)
			r.Post("/flowers", s.handleCreatePost)
			r.Get("/flowers/user", s.handleMyPosts)
			r.Put("/flowers/{id}", s.handleUpdatePost)
			r.Delete("/flowers/{id}", s.handleDeletePost)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/admin/users", s.handleListUsers)
				r.Delete("/admin/users/{id}", s.handleDeleteUser)
			})
		})
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func routeKey(method, path string) string { return method + " " + path }

// record keeps the request for Calls/LastRequest and answers with a fault
// when one is registered for the route.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Unreadable body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := routeKey(r.Method, r.URL.Path)
		s.mu.Lock()
		s.calls[key]++
		s.last[key] = Recorded{Header: r.Header.Clone(), Body: body}
		f, failing := s.faults[key]
		s.mu.Unlock()

		if failing {
			writeMessage(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FailWith makes every request to method+path answer status with message.
// path is the full request path, e.g. "/api/flowers/upload".
func (s *Server) FailWith(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[routeKey(method, path)] = fault{status: status, message: message}
}

// Calls reports how many requests method+path received.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, path)]
}

// LastRequest returns the most recent request to method+path.
func (s *Server) LastRequest(method, path string) (Recorded, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.last[routeKey(method, path)]
	return rec, ok
}

// CreateUser seeds an account.
func (s *Server) CreateUser(u model.User, password string) (model.User, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return model.User{}, err
	}
	return s.store.addAccount(u, hash)
}

// Token issues a valid token for userID.
func (s *Server) Token(userID string) (string, error) {
	return s.tokens.Generate(userID)
}

// ExpiredToken issues a token that every protected route rejects.
func (s *Server) ExpiredToken(userID string) (string, error) {
	return s.tokens.GenerateWithDuration(userID, -time.Minute)
}

// AddPost seeds a flower post owned by ownerID.
func (s *Server) AddPost(ownerID string, p model.FlowerPost) model.FlowerPost {
	return s.store.addPost(ownerID, p)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, giving in-flight requests up to 10 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("devapi starting",
			slog.String("addr", addr),
			slog.String("api", "http://localhost"+addr+"/api"),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("devapi: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("devapi shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("devapi: graceful shutdown failed: %w", err)
	}
	s.logger.Info("devapi stopped gracefully")
	return nil
}
