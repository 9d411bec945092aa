// Package auth verifies the credentials that guard the scheduler's
// administrative RPCs.
package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Authenticator checks a bearer credential and returns the subject it was
// issued to. Implementations: JWTManager (signed tokens) and KeyVerifier
// (static bcrypt-hashed key).
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (subject string, err error)
}

// Chain accepts a credential that any of its authenticators accepts.
type Chain []Authenticator

// Authenticate implements Authenticator. It returns ErrInvalidToken when the
// chain is empty or every authenticator rejects the credential.
func (c Chain) Authenticate(ctx context.Context, credential string) (string, error) {
	for _, a := range c {
		subject, err := a.Authenticate(ctx, credential)
		if err == nil {
			return subject, nil
		}
	}
	return "", ErrInvalidToken
}
