package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
)

// ProfileService serves the profile screen and the profile update form.
type ProfileService struct {
	api     Backend
	session *session.Store
	logger  *slog.Logger
	update  *form.Controller
}

func NewProfileService(api Backend, sess *session.Store, logger *slog.Logger) *ProfileService {
	s := &ProfileService{api: api, session: sess, logger: logger}
	s.update = form.New(form.Definition{
		Name:     "update-profile",
		Required: ProfileUpdateRequired,
		Send: func(ctx context.Context, f form.Fields) (nav.Route, error) {
			// UpdateMe always sends multipart, so the encoded body is
			// always the field map and Encode's request options are unused.
			body, _ := form.Encode(f)
			fields, ok := body.(map[string]any)
			if !ok {
				return nav.None, fmt.Errorf("update-profile: unexpected body %T", body)
			}
			if err := s.api.UpdateMe(ctx, fields); err != nil {
				return nav.None, err
			}
			return nav.Profile, nil
		},
		Fallback:    "Could not update your profile.",
		OnAuthError: sess.Redirect,
	}, logger)
	return s
}

// Profile is what the profile screen shows.
type Profile struct {
	User  model.User
	Posts []model.FlowerPost
}

// Load fetches the current user and their posts concurrently. Either
// failure fails the whole screen. A login that lands while the load is in
// flight fails it without a redirect and keeps the new session.
func (s *ProfileService) Load() *resource.Resource[Profile] {
	return resource.New("profile", func(ctx context.Context) (Profile, error) {
		gen := s.session.Generation()
		p, err := s.load(ctx)
		return p, session.Scope(gen, err)
	}, resource.Policy{
		Fallback:    "Could not load your profile.",
		OnAuthError: s.session.Redirect,
	}, s.logger)
}

func (s *ProfileService) load(ctx context.Context) (Profile, error) {
	if err := requireToken(s.session); err != nil {
		return Profile{}, err
	}

	var (
		user  *model.User
		posts []model.FlowerPost
	)
	// No shared cancellation: a failed posts call must not abort the user
	// fetch, which would clear the session.
	var g errgroup.Group
	g.Go(func() error {
		u, err := s.session.FetchCurrentUser(ctx, s.api)
		user = u
		return err
	})
	g.Go(func() error {
		p, err := s.api.MyPosts(ctx)
		posts = p
		return err
	})
	if err := g.Wait(); err != nil {
		return Profile{}, err
	}
	if user == nil {
		return Profile{}, errNoToken
	}
	return Profile{User: *user, Posts: posts}, nil
}

// Edit loads the current user as prefilled update-form fields.
func (s *ProfileService) Edit() *resource.Resource[form.Fields] {
	return resource.New("edit-profile", func(ctx context.Context) (form.Fields, error) {
		if err := requireToken(s.session); err != nil {
			return nil, err
		}
		u, err := s.api.Me(ctx)
		if err != nil {
			return nil, err
		}
		return ProfileFields(*u), nil
	}, resource.Policy{
		Fallback:    "Could not load your profile.",
		OnAuthError: s.session.Redirect,
	}, s.logger)
}

// ProfileFields turns a user into update-form fields. The current picture is
// not a field: only a newly attached file replaces it.
func ProfileFields(u model.User) form.Fields {
	return form.Fields{
		"firstname":   u.Firstname,
		"lastname":    u.Lastname,
		"email":       u.Email,
		"phone":       u.Phone,
		"address":     u.Address,
		"dateOfBirth": u.DateOfBirth,
		"nationality": u.Nationality,
	}
}

// Update sends the profile form as multipart, so a new profilePicture file
// can be attached, and returns to the profile screen.
func (s *ProfileService) Update(ctx context.Context, fields form.Fields) form.Outcome {
	return s.update.Submit(ctx, fields)
}
