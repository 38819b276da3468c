// Package session holds the authentication state shared by every screen.
//
// SESSION INVARIANTS:
//   - the token lives in durable storage under the fixed key "token"
//   - the current user is cached in memory only, and only after a successful
//     token-authenticated GET /users/me
//   - no token ⇒ no current user
//   - SetToken and Clear invalidate the cached user
//
// The Store is the single writer of the token. It is passed explicitly to the
// HTTP adapter (as client.Credentials) and to every service that needs it;
// nothing reads the token from a global.
//
// CONCURRENCY:
// One mutex guards the cached user and a generation counter. The counter is
// bumped on every SetToken/Clear, so a /users/me response that arrives after
// the token changed is recognised as stale and not cached.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/storage"
)

// TokenKey is the storage key of the bearer token.
const TokenKey = "token"

// storageTimeout bounds every storage call; Token() has no context to inherit.
const storageTimeout = 5 * time.Second

// ErrSessionChanged is returned by FetchCurrentUser when the token was
// replaced or cleared while the request was in flight.
var ErrSessionChanged = errors.New("session: token changed during fetch")

// UserFetcher issues the authenticated GET for the current user.
type UserFetcher interface {
	Me(ctx context.Context) (*model.User, error)
}

type Store struct {
	kv     storage.KeyValue
	logger *slog.Logger

	mu         sync.Mutex
	user       *model.User
	generation uint64
}

func New(kv storage.KeyValue, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// SetToken persists token and drops the cached user. An empty token clears
// the session.
func (s *Store) SetToken(token string) error {
	if token == "" {
		s.Clear()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("session: storing token: %w", err)
	}
	s.generation++
	s.user = nil
	return nil
}

// Token returns the stored token. It never fails: a storage error is logged
// and reads as "no token".
func (s *Store) Token() (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	tok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("session: reading token failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	return tok, tok != ""
}

// Clear removes the token and the cached user.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) clearLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if err := s.kv.Remove(ctx, TokenKey); err != nil {
		s.logger.Warn("session: removing token failed", slog.String("error", err.Error()))
	}
	s.generation++
	s.user = nil
}

// AuthFailed implements client.Credentials: the backend rejected our token.
func (s *Store) AuthFailed() {
	s.logger.Info("session: token rejected by backend, clearing session")
	s.Clear()
}

// CurrentUser returns a copy of the cached user.
func (s *Store) CurrentUser() (*model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

// FetchCurrentUser resolves the logged-in user.
//
//   - no token        → (nil, nil), and users is never called
//   - fetch succeeds  → the user is cached and returned
//   - fetch fails     → the session is cleared; the error keeps its kind so
//     callers can tell apperror.ErrNetwork from apperror.ErrAuth
//
// There is no caching beyond the single in-memory user: every call makes
// exactly one request when a token is present.
func (s *Store) FetchCurrentUser(ctx context.Context, users UserFetcher) (*model.User, error) {
	if _, ok := s.Token(); !ok {
		return nil, nil
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()

	u, err := users.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && u == nil {
		err = apperror.FromStatus(0, "empty user response")
	}
	if err != nil {
		// The adapter may already have cleared us through AuthFailed; a token
		// set by someone else in the meantime must survive.
		if s.generation == gen {
			s.clearLocked()
		}
		s.logger.Debug("session: current user unavailable", slog.String("error", err.Error()))
		return nil, fmt.Errorf("session: fetching current user: %w", err)
	}
	if s.generation != gen {
		return nil, ErrSessionChanged
	}

	cached := *u
	s.user = &cached
	return u, nil
}

// TokenExpiry reads the "exp" claim of the stored token without verifying
// the signature (only the backend holds the key). ok is false when there is
// no token, it is not a JWT or it carries no expiry.
func (s *Store) TokenExpiry() (exp time.Time, ok bool) {
	tok, present := s.Token()
	if !present {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Generation identifies the current session. It changes on every SetToken
// and Clear.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// scopedError marks an error as produced under one session generation.
type scopedError struct {
	generation uint64
	err        error
}

func (e *scopedError) Error() string { return e.err.Error() }
func (e *scopedError) Unwrap() error { return e.err }

// Scope tags err with the generation the failing work started under, so
// Redirect leaves a newer login alone. A nil err stays nil.
func Scope(generation uint64, err error) error {
	if err == nil {
		return nil
	}
	return &scopedError{generation: generation, err: err}
}

// Redirect applies the uniform authentication-failure policy: any AuthError
// clears the session and sends the user to the login screen. For other
// errors it returns (nav.None, false).
//
// An error tagged with Scope whose generation is no longer current is stale
// when a token is stored again: that newer session is kept and there is no
// redirect.
func (s *Store) Redirect(err error) (nav.Route, bool) {
	if !apperror.IsAuth(err) {
		return nav.None, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var scoped *scopedError
	if errors.As(err, &scoped) && scoped.generation != s.generation && s.hasTokenLocked() {
		s.logger.Debug("session: ignoring auth failure from a replaced session",
			slog.String("error", err.Error()))
		return nav.None, false
	}
	s.clearLocked()
	return nav.Login, true
}

func (s *Store) hasTokenLocked() bool {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	tok, err := s.kv.Get(ctx, TokenKey)
	return err == nil && tok != ""
}
