package service

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AshimStha/FloraBase-Frontend/internal/api"
	"github.com/AshimStha/FloraBase-Frontend/internal/apitest"
	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
	"github.com/AshimStha/FloraBase-Frontend/internal/storage"
)

// =============================================================================
// TEST ENVIRONMENT
// =============================================================================
//
// Every service test runs the real session, client and API against a fresh
// apitest server, so the requests the services build are checked on the wire.

type env struct {
	srv     *apitest.Server
	session *session.Store
	api     *api.API
	logger  *slog.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, base := apitest.StartTest(t)
	sess := session.New(storage.NewMemory(), logger)
	c, err := client.New(base, logger, client.WithCredentials(sess))
	require.NoError(t, err)
	return &env{srv: srv, session: sess, api: api.New(c), logger: logger}
}

// signIn seeds u and stores a valid token for it.
func (e *env) signIn(t *testing.T, u model.User) model.User {
	t.Helper()
	created, err := e.srv.CreateUser(u, "pw-123456")
	require.NoError(t, err)
	tok, err := e.srv.Token(created.ID)
	require.NoError(t, err)
	require.NoError(t, e.session.SetToken(tok))
	return created
}

// lastJSON decodes the body of the last request to method+path.
func (e *env) lastJSON(t *testing.T, method, path string) map[string]any {
	t.Helper()
	rec, ok := e.srv.LastRequest(method, path)
	require.True(t, ok, "no %s %s request", method, path)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body, &body))
	return body
}

func (e *env) contentType(t *testing.T, method, path string) string {
	t.Helper()
	rec, ok := e.srv.LastRequest(method, path)
	require.True(t, ok, "no %s %s request", method, path)
	return rec.Header.Get("Content-Type")
}

const (
	postsPath  = "/api/flowers"
	uploadPath = "/api/flowers/upload"
)
