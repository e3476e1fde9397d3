// Package auth holds the transport-independent login logic behind the HTTP
// token endpoint.
package auth

import (
	"context"
	"errors"
	"fmt"
)

type Credentials struct {
	Username string
	Password string
}

// Identity is a successfully authenticated user.
type Identity struct {
	Subject string
	Role    string
}

// Provider is a source of accounts.
type Provider interface {
	// Verify returns an error unless creds name an existing account.
	Verify(ctx context.Context, creds Credentials) error
	// Role is only called after Verify succeeded for username.
	Role(ctx context.Context, username string) (string, error)
	Name() string
}

var (
	ErrNoProvider = errors.New("auth: no provider configured")
	ErrRejected   = errors.New("auth: credentials rejected")
	ErrNoRole     = errors.New("auth: no role for user")
)

type Service struct {
	provider Provider
}

func NewService(p Provider) *Service {
	return &Service{provider: p}
}

// Login verifies creds and resolves the role. Provider errors are wrapped
// in ErrRejected or ErrNoRole so callers never need to inspect them.
func (s *Service) Login(ctx context.Context, creds Credentials) (Identity, error) {
	if s == nil || s.provider == nil {
		return Identity{}, ErrNoProvider
	}
	if err := s.provider.Verify(ctx, creds); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	role, err := s.provider.Role(ctx, creds.Username)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrNoRole, err)
	}
	return Identity{Subject: creds.Username, Role: role}, nil
}
