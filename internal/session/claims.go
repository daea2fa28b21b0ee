package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims this client cares about. The signing
// key lives in the backend, so tokens are decoded without verification;
// the server remains the authority on validity.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// DecodeClaims parses the access token payload without verifying the
// signature.
func DecodeClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// Expired reports whether the token's exp claim has passed. Tokens without
// an exp claim are treated as live.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return now.After(c.ExpiresAt.Time)
}
