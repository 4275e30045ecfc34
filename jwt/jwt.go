// Package jwt inspects the learner's bearer token.
//
// The client never holds the signing secret, so tokens are decoded
// without signature verification. The server remains the authority; this
// package only lets the CLI fail fast on a missing or expired token and
// show who is signed in.
package jwt

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samarthsinh2660/fluentify"
)

// Credentials is a decoded bearer token.
type Credentials struct {
	raw       string
	UserID    string
	Email     string
	Role      string
	ExpiresAt time.Time // zero when the token has no exp claim
	now       func() time.Time
}

// Parse decodes token without verifying its signature.
func Parse(token string) (*Credentials, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, fmt.Errorf("jwt: empty token: %w", fluentify.ErrUnauthorized)
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}

	c := &Credentials{raw: token, now: time.Now}
	for _, key := range []string{"id", "userId", "sub"} {
		if v, ok := claims[key]; ok {
			c.UserID = claimString(v)
			break
		}
	}
	c.Email = claimString(claims["email"])
	c.Role = claimString(claims["role"])
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// LoadFile reads and parses a token stored in a file.
func LoadFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return Parse(string(data))
}

// Valid reports an error wrapping [fluentify.ErrTokenExpired] when the
// token is past its expiry at now.
func (c *Credentials) Valid(now time.Time) error {
	if !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt) {
		return fmt.Errorf("jwt: expired at %s: %w", c.ExpiresAt.Format(time.RFC3339), fluentify.ErrTokenExpired)
	}
	return nil
}

// Token returns the raw token if it has not expired.
func (c *Credentials) Token() (string, error) {
	if err := c.Valid(c.now()); err != nil {
		return "", err
	}
	return c.raw, nil
}

// String describes the signed-in user.
func (c *Credentials) String() string {
	who := c.Email
	if who == "" {
		who = c.UserID
	}
	if who == "" {
		who = "unknown user"
	}
	if c.Role != "" {
		return who + " (" + c.Role + ")"
	}
	return who
}

func claimString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
