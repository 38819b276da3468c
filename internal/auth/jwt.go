// Package auth issues and checks the credentials of the development
// backend in internal/apitest.
//
// TOKEN FLOW:
//  1. POST /users/login (or /users/register) checks the bcrypt hash and
//     answers {"token": "<jwt>"}
//  2. the client stores the token and sends "Authorization: Bearer <jwt>"
//  3. RequireAuth verifies the signature and expiry and puts the user ID in
//     the request context
//
// The real FloraBase backend keeps its own secret; the client never verifies
// tokens, it only reads their expiry for display.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "florabase-devapi"

// DefaultLifetime matches the one-hour tokens the FloraBase backend hands out.
const DefaultLifetime = time.Hour

// ErrTokenExpired lets the middleware answer "Token expired" instead of a
// generic rejection.
var ErrTokenExpired = errors.New("auth: token expired")

// TokenService signs and verifies HS256 tokens with one shared secret.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
}

// NewTokenService rejects secrets shorter than 16 characters.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), lifetime: DefaultLifetime}, nil
}

// Generate issues a token for userID that expires after DefaultLifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, s.lifetime)
}

// GenerateWithDuration issues a token with a custom lifetime. A negative d
// yields an already expired token, which tests use to exercise 401 paths.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()
	c := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(d)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate returns the subject of a valid token.
//
// Pinning HS256 with WithValidMethods stops a token that claims "alg":"none"
// (or an asymmetric algorithm) from being accepted.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	c := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}
	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}
	return c.Subject, nil
}
