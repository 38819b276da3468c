package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects requests without a valid bearer token with 401 and the
// {"message": ...} body the FloraBase backend uses.
//
//	Authorization: Bearer <jwt>
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				msg := "Not authorized, token failed"
				switch {
				case errors.Is(err, errNoToken):
					msg = "Not authorized, no token"
				case errors.Is(err, ErrTokenExpired):
					msg = "Token expired"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": msg})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the ID RequireAuth stored, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

var errNoToken = errors.New("auth: no bearer token")

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	scheme, tok, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || tok == "" {
		return "", errNoToken
	}
	return tokens.Validate(tok)
}
