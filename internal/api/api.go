// Package api has one method per FloraBase backend endpoint.
//
// ENDPOINT MAP (paths are relative to the configured base URL):
//
//	POST   /users/register        Register      (JSON or multipart)
//	POST   /users/login           Login
//	GET    /users/me              Me            (protected)
//	PUT    /users/me              UpdateMe      (protected, multipart)
//	GET    /admin/users           Users         (admin)
//	DELETE /admin/users/{id}      DeleteUser    (admin)
//	POST   /flowers/upload        UploadImage   (protected, multipart "image")
//	POST   /flowers               CreatePost    (protected)
//	GET    /flowers               Posts
//	GET    /flowers/user          MyPosts       (protected)
//	GET    /flowers/{id}          Post
//	PUT    /flowers/{id}          UpdatePost    (protected)
//	DELETE /flowers/{id}          DeletePost    (protected)
//	GET    /flowers/trefle        Catalog       → {data: [...]}
//	GET    /flowers/trefle/{id}   CatalogFlower → {data: {...}}
//
// Every method turns a non-2xx Result into an apperror (see Result.Err), so
// callers only ever deal with Go errors.
package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

type API struct {
	c *client.Client
}

func New(c *client.Client) *API {
	return &API{c: c}
}

// decode returns the typed body of a successful result.
func decode[T any](res *client.Result, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if err := res.Err(); err != nil {
		return v, err
	}
	if err := res.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// check is decode for endpoints whose body the client does not use.
func check(res *client.Result, err error) error {
	if err != nil {
		return err
	}
	return res.Err()
}

func (a *API) Register(ctx context.Context, body map[string]any, opts ...client.RequestOption) (*model.AuthResponse, error) {
	out, err := decode[model.AuthResponse](a.c.Post(ctx, "/users/register", body, opts...))
	if err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &out, nil
}

func (a *API) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	out, err := decode[model.AuthResponse](a.c.Post(ctx, "/users/login", map[string]string{
		"email":    email,
		"password": password,
	}))
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &out, nil
}

// Me implements session.UserFetcher.
func (a *API) Me(ctx context.Context) (*model.User, error) {
	u, err := decode[model.User](a.c.Get(ctx, "/users/me"))
	if err != nil {
		return nil, fmt.Errorf("loading current user: %w", err)
	}
	return &u, nil
}

// UpdateMe always sends multipart so a new profile picture can ride along.
func (a *API) UpdateMe(ctx context.Context, body map[string]any) error {
	if err := check(a.c.Put(ctx, "/users/me", body, client.Multipart())); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

func (a *API) Users(ctx context.Context) ([]model.User, error) {
	users, err := decode[[]model.User](a.c.Get(ctx, "/admin/users"))
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (a *API) DeleteUser(ctx context.Context, id string) error {
	if err := check(a.c.Delete(ctx, "/admin/users/"+url.PathEscape(id))); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

// UploadImage stores an image and returns its hosted URL.
func (a *API) UploadImage(ctx context.Context, image *client.File) (string, error) {
	out, err := decode[model.UploadResponse](a.c.Post(ctx, "/flowers/upload",
		map[string]any{"image": image}, client.Multipart()))
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	if out.ImageURL == "" {
		return "", fmt.Errorf("uploading image: response has no imageUrl")
	}
	return out.ImageURL, nil
}

func (a *API) CreatePost(ctx context.Context, body map[string]any) (*model.FlowerPost, error) {
	p, err := decode[model.FlowerPost](a.c.Post(ctx, "/flowers", body))
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return &p, nil
}

func (a *API) Posts(ctx context.Context) ([]model.FlowerPost, error) {
	posts, err := decode[[]model.FlowerPost](a.c.Get(ctx, "/flowers"))
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

func (a *API) MyPosts(ctx context.Context) ([]model.FlowerPost, error) {
	posts, err := decode[[]model.FlowerPost](a.c.Get(ctx, "/flowers/user"))
	if err != nil {
		return nil, fmt.Errorf("listing own posts: %w", err)
	}
	return posts, nil
}

func (a *API) Post(ctx context.Context, id string) (*model.FlowerPost, error) {
	p, err := decode[model.FlowerPost](a.c.Get(ctx, "/flowers/"+url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("loading post %s: %w", id, err)
	}
	return &p, nil
}

func (a *API) UpdatePost(ctx context.Context, id string, body map[string]any) error {
	if err := check(a.c.Put(ctx, "/flowers/"+url.PathEscape(id), body)); err != nil {
		return fmt.Errorf("updating post %s: %w", id, err)
	}
	return nil
}

func (a *API) DeletePost(ctx context.Context, id string) error {
	if err := check(a.c.Delete(ctx, "/flowers/"+url.PathEscape(id))); err != nil {
		return fmt.Errorf("deleting post %s: %w", id, err)
	}
	return nil
}

// Catalog fetches one page of the external plant catalog. It has the shape
// of a listquery.FetchFunc.
func (a *API) Catalog(ctx context.Context, params url.Values) ([]model.ExternalFlower, error) {
	page, err := decode[model.CatalogPage](a.c.Get(ctx, "/flowers/trefle", client.Query(params)))
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	return page.Data, nil
}

func (a *API) CatalogFlower(ctx context.Context, id string) (*model.ExternalFlower, error) {
	entry, err := decode[model.CatalogEntry](a.c.Get(ctx, "/flowers/trefle/"+url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("loading catalog flower %s: %w", id, err)
	}
	return &entry.Data, nil
}
