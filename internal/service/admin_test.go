package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

func TestAdmin_ListAndDelete(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, model.User{Email: "admin@example.com", IsAdmin: true})
	victim, err := e.srv.CreateUser(model.User{Email: "victim@example.com"}, "pw")
	require.NoError(t, err)
	svc := NewAdminService(e.api, e.session, e.logger)

	users := svc.Users().Load(context.Background())
	require.Equal(t, resource.Loaded, users.Status)
	assert.Len(t, users.Value, 2)

	require.True(t, svc.DeleteUser(context.Background(), victim.ID).OK())

	users = svc.Users().Load(context.Background())
	assert.Len(t, users.Value, 1)
}

func TestAdmin_RegularUserIsSentToLogin(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, model.User{Email: "user@example.com"})
	svc := NewAdminService(e.api, e.session, e.logger)

	snap := svc.Users().Load(context.Background())

	assert.Equal(t, resource.Failed, snap.Status)
	assert.Equal(t, nav.Login, snap.Redirect)
	assert.Equal(t, "Not authorized as an admin", snap.Message)
	_, ok := e.session.Token()
	assert.False(t, ok)
}

func TestAdmin_Fallbacks(t *testing.T) {
	e := newEnv(t)
	e.signIn(t, model.User{Email: "admin@example.com", IsAdmin: true})
	e.srv.FailWith(http.MethodGet, "/api/admin/users", http.StatusInternalServerError, "db down")
	e.srv.FailWith(http.MethodDelete, "/api/admin/users/u1", http.StatusInternalServerError, "db down")
	svc := NewAdminService(e.api, e.session, e.logger)

	assert.Equal(t, "Could not load users.", svc.Users().Load(context.Background()).Message)

	out := svc.DeleteUser(context.Background(), "u1")
	assert.False(t, out.OK())
	assert.Equal(t, "Could not delete user.", out.Message)
	assert.Equal(t, nav.None, out.Next)
}

func TestAdmin_DeleteWithoutTokenMakesNoRequest(t *testing.T) {
	e := newEnv(t)
	svc := NewAdminService(e.api, e.session, e.logger)

	out := svc.DeleteUser(context.Background(), "u1")

	assert.Equal(t, nav.Login, out.Next)
	assert.Equal(t, 0, e.srv.Calls(http.MethodDelete, "/api/admin/users/u1"))
}
