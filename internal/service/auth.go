package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
)

// AuthService handles registration, login and logout.
//
// DEPENDENCIES:
//   - api: the backend
//   - session: where a returned token is kept
//   - logger
type AuthService struct {
	api      Backend
	session  *session.Store
	logger   *slog.Logger
	register *form.Controller
}

func NewAuthService(api Backend, sess *session.Store, logger *slog.Logger) *AuthService {
	s := &AuthService{api: api, session: sess, logger: logger}
	s.register = form.New(form.Definition{
		Name:     "register",
		Required: RegisterRequired,
		Send:     s.sendRegister,
		Fallback: "Registration failed. Please try again.",
	}, logger)
	return s
}

// Register creates an account. The body is multipart when a profilePicture
// file is attached and JSON otherwise. On success the returned token is
// stored and the next route is the login screen.
func (s *AuthService) Register(ctx context.Context, fields form.Fields) form.Outcome {
	return s.register.Submit(ctx, fields)
}

func (s *AuthService) sendRegister(ctx context.Context, fields form.Fields) (nav.Route, error) {
	body, opts := form.Encode(fields)
	resp, err := s.api.Register(ctx, body.(map[string]any), opts...)
	if err != nil {
		return nav.None, err
	}
	if err := s.keep(resp); err != nil {
		return nav.None, err
	}
	return nav.Login, nil
}

// Login signs in with email and password. On success the token is stored and
// the next route is from, or the home screen when from is empty.
func (s *AuthService) Login(ctx context.Context, fields form.Fields, from nav.Route) form.Outcome {
	c := form.New(form.Definition{
		Name:     "login",
		Required: LoginRequired,
		Fallback: "Login failed. Please try again.",
		Send: func(ctx context.Context, f form.Fields) (nav.Route, error) {
			resp, err := s.api.Login(ctx, f.String("email"), f.String("password"))
			if err != nil {
				return nav.None, err
			}
			if err := s.keep(resp); err != nil {
				return nav.None, err
			}
			if from == nav.None {
				return nav.Home, nil
			}
			return from, nil
		},
	}, s.logger)
	return c.Submit(ctx, fields)
}

// keep stores the token of a successful auth response.
func (s *AuthService) keep(resp *model.AuthResponse) error {
	if resp == nil || resp.Token == "" {
		return errors.New("auth response has no token")
	}
	if err := s.session.SetToken(resp.Token); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	return nil
}

// Logout clears the session and returns the login route.
func (s *AuthService) Logout() nav.Route {
	s.session.Clear()
	s.logger.Info("auth: logged out")
	return nav.Login
}

// CurrentUser returns the signed-in user, fetching it when needed. A nil
// user with a nil error means nobody is signed in.
func (s *AuthService) CurrentUser(ctx context.Context) (*model.User, error) {
	if u, ok := s.session.CurrentUser(); ok {
		return u, nil
	}
	return s.session.FetchCurrentUser(ctx, s.api)
}
