package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("family", "Family is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Network wraps ErrNetwork",
			err:       Network(errors.New("connection refused")),
			target:    ErrNetwork,
			wantMatch: true,
		},
		{
			name:      "401 is an auth error",
			err:       FromStatus(http.StatusUnauthorized, ""),
			target:    ErrAuth,
			wantMatch: true,
		},
		{
			name:      "403 is an auth error",
			err:       FromStatus(http.StatusForbidden, "admins only"),
			target:    ErrAuth,
			wantMatch: true,
		},
		{
			name:      "404 is not found",
			err:       FromStatus(http.StatusNotFound, ""),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "500 is a server error",
			err:       FromStatus(http.StatusInternalServerError, ""),
			target:    ErrServer,
			wantMatch: true,
		},
		{
			name:      "400 is a server error too",
			err:       FromStatus(http.StatusBadRequest, "bad input"),
			target:    ErrServer,
			wantMatch: true,
		},
		{
			name:      "404 does NOT match ErrAuth",
			err:       FromStatus(http.StatusNotFound, ""),
			target:    ErrAuth,
			wantMatch: false,
		},
		{
			name:      "wrapped auth error still matches",
			err:       fmt.Errorf("loading profile: %w", FromStatus(http.StatusUnauthorized, "")),
			target:    ErrAuth,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestNetworkKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(Network(cause), cause) = false, want true")
	}
}

func TestFromStatusDefaultsMessage(t *testing.T) {
	err := FromStatus(http.StatusNotFound, "")
	if err.Message != "Not Found" {
		t.Errorf("Message = %q, want %q", err.Message, "Not Found")
	}
	if err.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", err.Status, http.StatusNotFound)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name:     "server message preferred for client errors",
			err:      FromStatus(http.StatusUnauthorized, "Invalid credentials"),
			fallback: "Login failed. Please try again.",
			want:     "Invalid credentials",
		},
		{
			name:     "network failure uses fallback",
			err:      Network(errors.New("timeout")),
			fallback: "Login failed. Please try again.",
			want:     "Login failed. Please try again.",
		},
		{
			name: "5xx uses the generic message",
			err:  FromStatus(http.StatusBadGateway, "upstream exploded"),
			want: GenericMessage,
		},
		{
			name:     "foreign error uses fallback",
			err:      errors.New("boom"),
			fallback: "Could not load users.",
			want:     "Could not load users.",
		},
		{
			name: "validation message kept",
			err:  ValidationFailed("email", "Email is required"),
			want: "Email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, tt.fallback); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
