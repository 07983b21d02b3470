package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAuthDisabled       = errors.New("operator auth is not configured")
)

// Service defines the interface for operator authentication.
type Service interface {
	// Login checks the operator's password and returns a signed session token.
	Login(ctx context.Context, name, password string) (string, error)
	// Verify returns the operator name a token was issued to.
	Verify(token string) (string, error)
	// Enabled reports whether a signing secret is configured.
	Enabled() bool
}

// Config holds the single register operator and the token settings.
type Config struct {
	Secret       string
	Operator     string
	PasswordHash string
}
