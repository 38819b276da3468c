package service

import (
	"context"
	"log/slog"

	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
)

// AdminService serves the user-management dashboard. The backend enforces
// the admin role; a non-admin token gets a 403, which is handled like any
// other auth failure.
type AdminService struct {
	api     Backend
	session *session.Store
	logger  *slog.Logger
}

func NewAdminService(api Backend, sess *session.Store, logger *slog.Logger) *AdminService {
	return &AdminService{api: api, session: sess, logger: logger}
}

func (s *AdminService) Users() *resource.Resource[[]model.User] {
	return resource.New("admin-users", func(ctx context.Context) ([]model.User, error) {
		if err := requireToken(s.session); err != nil {
			return nil, err
		}
		return s.api.Users(ctx)
	}, resource.Policy{
		Fallback:    "Could not load users.",
		OnAuthError: s.session.Redirect,
	}, s.logger)
}

func (s *AdminService) DeleteUser(ctx context.Context, id string) form.Outcome {
	if err := requireToken(s.session); err != nil {
		return action(err, "", s.session.Redirect)
	}
	out := action(s.api.DeleteUser(ctx, id), "Could not delete user.", s.session.Redirect)
	if out.OK() {
		s.logger.Info("admin: user deleted", slog.String("user", id))
	}
	return out
}
