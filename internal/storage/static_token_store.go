package storage

import (
	"context"
	"errors"
)

// StaticTokenStore serves a fixed refresh token supplied at startup, for
// deployments where the token is provided directly through the environment.
// Rotated tokens cannot be persisted; providers that rotate refresh tokens
// need the Secrets Manager or file-backed store instead.
type StaticTokenStore struct {
	token string
}

// NewStaticTokenStore creates a token store serving the given refresh token.
func NewStaticTokenStore(token string) (*StaticTokenStore, error) {
	if token == "" {
		return nil, errors.New("refresh token is required")
	}
	return &StaticTokenStore{token: token}, nil
}

// RefreshToken returns the configured refresh token.
func (s *StaticTokenStore) RefreshToken(_ context.Context) (string, error) {
	return s.token, nil
}

// SaveRefreshToken discards the rotated token.
func (s *StaticTokenStore) SaveRefreshToken(_ context.Context, _ string) error {
	return nil
}
