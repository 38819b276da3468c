// Package service holds one service per FloraBase screen group.
//
// THE LAYERS:
// The front-end core is organised like a small backend turned inside out:
//
//	CLI (view layer)      → reads input, renders snapshots and outcomes
//	Service (screen layer) → required fields, request order, messages, routes
//	API (data layer)       → one typed call per REST endpoint
//
// A service never prints anything and never touches HTTP directly. It
// returns the same building blocks every screen uses:
//
//   - *resource.Resource for "fetch when the screen opens"
//   - form.Outcome for a submitted form
//   - *listquery.Controller for the paginated catalog
//
// DEPENDENCY INJECTION:
// Services take a Backend (interface), NOT *api.API, so tests can pass a
// fake. In practice the tests run the real API against apitest, which
// exercises the wire format too.
//
// AUTH FAILURES:
// Every protected screen hands AuthErrors to session.Store.Redirect: the
// session is cleared and the next route is the login screen.
package service

import (
	"context"
	"net/url"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

// Backend is the REST surface the services use. *api.API implements it.
type Backend interface {
	Register(ctx context.Context, body map[string]any, opts ...client.RequestOption) (*model.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*model.AuthResponse, error)
	Me(ctx context.Context) (*model.User, error)
	UpdateMe(ctx context.Context, body map[string]any) error

	Users(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id string) error

	UploadImage(ctx context.Context, image *client.File) (string, error)
	CreatePost(ctx context.Context, body map[string]any) (*model.FlowerPost, error)
	Posts(ctx context.Context) ([]model.FlowerPost, error)
	MyPosts(ctx context.Context) ([]model.FlowerPost, error)
	Post(ctx context.Context, id string) (*model.FlowerPost, error)
	UpdatePost(ctx context.Context, id string, body map[string]any) error
	DeletePost(ctx context.Context, id string) error

	Catalog(ctx context.Context, params url.Values) ([]model.ExternalFlower, error)
	CatalogFlower(ctx context.Context, id string) (*model.ExternalFlower, error)
}

// Required field sets, by form.
var (
	RegisterRequired      = []string{"firstname", "lastname", "email", "password", "phone", "address", "dateOfBirth", "nationality"}
	LoginRequired         = []string{"email", "password"}
	PostCreateRequired    = []string{"common_name", "scientific_name", "family", "genus", "image", "location"}
	PostUpdateRequired    = []string{"common_name", "scientific_name", "family", "genus"}
	ProfileUpdateRequired = []string{"firstname", "lastname", "email"}
)

// errNoToken is returned by protected screens opened without a session.
var errNoToken = &apperror.AppError{
	Err:     apperror.ErrAuth,
	Message: "No token found. Please log in.",
}

type tokenSource interface {
	Token() (string, bool)
}

// requireToken fails fast when there is no session, so a protected screen
// redirects without a request.
func requireToken(s tokenSource) error {
	if _, ok := s.Token(); !ok {
		return errNoToken
	}
	return nil
}
