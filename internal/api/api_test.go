package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshimStha/FloraBase-Frontend/internal/apitest"
	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }
func (staticToken) AuthFailed()             {}

func newTestAPI(t *testing.T, token string) (*API, *apitest.Server, string) {
	t.Helper()
	srv, base := apitest.StartTest(t)
	c, err := client.New(base, slog.New(slog.NewTextHandler(io.Discard, nil)), client.WithCredentials(staticToken(token)))
	require.NoError(t, err)
	return New(c), srv, base
}

func withUser(t *testing.T, srv *apitest.Server, u model.User) (model.User, string) {
	t.Helper()
	created, err := srv.CreateUser(u, "pw-123456")
	require.NoError(t, err)
	tok, err := srv.Token(created.ID)
	require.NoError(t, err)
	return created, tok
}

func TestRegisterThenLogin(t *testing.T) {
	a, _, _ := newTestAPI(t, "")

	reg, err := a.Register(context.Background(), map[string]any{
		"firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.com", "password": "pw-123456",
		"phone": "555-0100", "address": "1 Main St", "dateOfBirth": "1815-12-10", "nationality": "British",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)

	login, err := a.Login(context.Background(), "ada@example.com", "pw-123456")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	require.NotNil(t, login.User)
	assert.Equal(t, "Ada", login.User.Firstname)
}

func TestLogin_BadCredentialsIsAuthErrorWithServerMessage(t *testing.T) {
	a, _, _ := newTestAPI(t, "")

	_, err := a.Login(context.Background(), "nobody@example.com", "x")
	require.Error(t, err)
	assert.True(t, apperror.IsAuth(err))
	assert.Equal(t, "Invalid email or password", apperror.UserMessage(err, ""))
}

func TestMe(t *testing.T) {
	srv, base := apitest.StartTest(t)
	_, tok := withUser(t, srv, model.User{Firstname: "Grace", Email: "grace@example.com"})
	c, err := client.New(base, slog.New(slog.NewTextHandler(io.Discard, nil)), client.WithCredentials(staticToken(tok)))
	require.NoError(t, err)

	u, err := New(c).Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grace", u.Firstname)
}

func TestCatalog(t *testing.T) {
	a, _, _ := newTestAPI(t, "")

	flowers, err := a.Catalog(context.Background(), url.Values{"page": {"1"}, "q": {"trillium"}})
	require.NoError(t, err)
	require.Len(t, flowers, 1)
	assert.Equal(t, "Melanthiaceae", flowers[0].Family.Name)

	f, err := a.CatalogFlower(context.Background(), "263319")
	require.NoError(t, err)
	assert.Equal(t, "White trillium", f.DisplayName())

	_, err = a.CatalogFlower(context.Background(), "1")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestPostLifecycle(t *testing.T) {
	srv, base := apitest.StartTest(t)
	_, tok := withUser(t, srv, model.User{Email: "owner@example.com"})
	c, err := client.New(base, slog.New(slog.NewTextHandler(io.Discard, nil)), client.WithCredentials(staticToken(tok)))
	require.NoError(t, err)
	a := New(c)
	ctx := context.Background()

	imgURL, err := a.UploadImage(ctx, &client.File{Name: "t.png", ContentType: "image/png", Data: []byte("PNG")})
	require.NoError(t, err)
	assert.Contains(t, imgURL, "/uploads/")

	created, err := a.CreatePost(ctx, map[string]any{
		"common_name": "White trillium", "scientific_name": "Trillium grandiflorum",
		"family": "Melanthiaceae", "genus": "Trillium", "image_url": imgURL, "location": "45.42,-75.69",
		"synonyms": []string{"Trillium rhomboideum"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	mine, err := a.MyPosts(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, a.UpdatePost(ctx, created.ID, map[string]any{"observations": "Blooms in May"}))
	got, err := a.Post(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blooms in May", got.Observations)
	assert.Equal(t, []string{"Trillium rhomboideum"}, got.Synonyms)

	require.NoError(t, a.DeletePost(ctx, created.ID))
	_, err = a.Post(ctx, created.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestAdmin(t *testing.T) {
	srv, base := apitest.StartTest(t)
	_, adminTok := withUser(t, srv, model.User{Email: "admin@example.com", IsAdmin: true})
	victim, _ := withUser(t, srv, model.User{Email: "victim@example.com"})
	c, err := client.New(base, slog.New(slog.NewTextHandler(io.Discard, nil)), client.WithCredentials(staticToken(adminTok)))
	require.NoError(t, err)
	a := New(c)

	users, err := a.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, a.DeleteUser(context.Background(), victim.ID))
	users, err = a.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestServerErrorKeepsStatus(t *testing.T) {
	a, srv, _ := newTestAPI(t, "")
	srv.FailWith(http.MethodGet, "/api/flowers", http.StatusInternalServerError, "db down")

	_, err := a.Posts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrServer))
	assert.Equal(t, apperror.GenericMessage, apperror.UserMessage(err, ""))
}
