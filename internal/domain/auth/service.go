package auth

import (
	"context"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// Logout revokes the access token and records the logout on its account
	Logout(ctx context.Context, token string) error
	// EnsureDefaultAdmin creates the bootstrap administrator when it does not
	// exist. An existing account is left untouched.
	EnsureDefaultAdmin(ctx context.Context) error
}
