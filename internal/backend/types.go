package backend

import "nexuscomply/internal/license/models"

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the token and profile returned by a successful login.
// Role is kept as the raw string; the session layer parses it.
type LoginResponse struct {
	Token                  string `json:"token"`
	Username               string `json:"username"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	Region                 string `json:"region"`
	FullName               string `json:"fullName"`
	PasswordChangeRequired bool   `json:"passwordChangeRequired"`
}

// ChangePasswordRequest is the body of POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordResponse echoes the email. ResetToken is only present when the
// backend runs in a development configuration.
type ForgotPasswordResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"resetToken,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// validateTokenResponse is the body of GET /auth/validate-reset-token/{token}.
// A 2xx without a valid field counts as valid.
type validateTokenResponse struct {
	Valid *bool `json:"valid"`
}

// springPage is the backend's page encoding.
type springPage[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

func (p springPage[T]) toPage() models.Page[T] {
	content := p.Content
	if content == nil {
		content = []T{}
	}
	return models.Page[T]{
		Content:       content,
		PageNumber:    p.Number,
		PageSize:      p.Size,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
	}
}
