package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks AuthAPI,Slots

import (
	"context"

	"nexuscomply/internal/backend"
	"nexuscomply/internal/session/store"
)

// AuthAPI is the part of the backend the session talks to.
type AuthAPI interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error)
	ChangePassword(ctx context.Context, req backend.ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req backend.ForgotPasswordRequest) (*backend.ForgotPasswordResponse, error)
	ValidateResetToken(ctx context.Context, token string) (bool, error)
	ResetPassword(ctx context.Context, req backend.ResetPasswordRequest) error
}

// Slots persists the token and profile together.
// Error Contract: Load returns store.ErrNotFound when no session is persisted.
type Slots interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Save(ctx context.Context, s store.Snapshot) error
	Clear(ctx context.Context) error
}
