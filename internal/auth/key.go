package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// KeySubject is the subject reported for requests authenticated by a static key.
const KeySubject = "static-key"

var ErrWeakKey = errors.New("wake key must be at least 16 characters")

// KeyVerifier accepts a single static key stored as a bcrypt hash.
type KeyVerifier struct {
	hash []byte
}

// NewKeyVerifier creates a verifier for a bcrypt hash produced by HashKey.
func NewKeyVerifier(hash string) (*KeyVerifier, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid key hash: %w", err)
	}
	return &KeyVerifier{hash: []byte(hash)}, nil
}

// HashKey hashes a new static key for WAKE_KEY_HASH.
func HashKey(key string) (string, error) {
	if len(key) < 16 {
		return "", ErrWeakKey
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hashed), nil
}

// Authenticate implements Authenticator.
func (v *KeyVerifier) Authenticate(_ context.Context, credential string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(credential)); err != nil {
		return "", ErrInvalidToken
	}
	return KeySubject, nil
}
