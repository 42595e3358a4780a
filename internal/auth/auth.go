// Package auth supplies the bearer credential attached to every API request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoCredential is returned when no source holds a credential.
	ErrNoCredential = errors.New("no credential available")
	// ErrExpired is returned for a JWT whose exp claim is in the past.
	ErrExpired = errors.New("credential expired")
)

// TokenSource returns the caller's current credential.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed credential, typically from a command-line flag.
type Static string

// Token implements TokenSource.
func (s Static) Token(context.Context) (string, error) {
	if token := strings.TrimSpace(string(s)); token != "" {
		return token, nil
	}
	return "", ErrNoCredential
}

// Env reads the credential from an environment variable on every call.
type Env string

// Token implements TokenSource.
func (e Env) Token(context.Context) (string, error) {
	if token := strings.TrimSpace(os.Getenv(string(e))); token != "" {
		return token, nil
	}
	return "", ErrNoCredential
}

// File reads the credential from a file on every call so that a token
// refreshed by another tool is picked up without a restart.
type File string

// Token implements TokenSource.
func (f File) Token(context.Context) (string, error) {
	path := strings.TrimSpace(string(f))
	if path == "" {
		return "", ErrNoCredential
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCredential
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	if token := strings.TrimSpace(string(data)); token != "" {
		return token, nil
	}
	return "", ErrNoCredential
}

// Chain tries each source in order and returns the first credential found.
type Chain []TokenSource

// Token implements TokenSource.
func (c Chain) Token(ctx context.Context) (string, error) {
	for _, src := range c {
		if src == nil {
			continue
		}
		token, err := src.Token(ctx)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrNoCredential) {
			return "", err
		}
	}
	return "", ErrNoCredential
}

// CheckExpiry reports ErrExpired when token is a JWT whose exp claim is
// before now. Signatures are not verified here; the API does that. Tokens that
// are not JWTs pass unchecked.
func CheckExpiry(token string, now time.Time) error {
	if strings.Count(token, ".") != 2 {
		return nil
	}
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return fmt.Errorf("%w at %s", ErrExpired, claims.ExpiresAt.Time.Format(time.RFC3339))
	}
	return nil
}
