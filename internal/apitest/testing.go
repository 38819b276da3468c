package apitest

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// TestSecret signs the tokens of servers started with StartTest.
const TestSecret = "apitest-secret-0123456789"

// StartTest runs a fresh Server on an httptest listener, closed when the
// test ends, and returns it with its API base URL (".../api").
func StartTest(t testing.TB) (*Server, string) {
	t.Helper()
	s, err := New(Config{
		JWTSecret:    TestSecret,
		PasswordCost: bcrypt.MinCost,
		PageSize:     5,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("apitest: %v", err)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts.URL + "/api"
}
