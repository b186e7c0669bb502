package service

import "time"

type loginInput struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"notblank"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

type forgotPasswordInput struct {
	Email string `json:"email" validate:"notblank,contains=@"`
}

type resetPasswordInput struct {
	Token           string `json:"token" validate:"notblank"`
	NewPassword     string `json:"newPassword" validate:"min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

// ResetRequest is the outcome of a forgot-password call. ResetToken is empty
// unless the backend runs in a development configuration.
type ResetRequest struct {
	Email      string    `json:"email"`
	ResetToken string    `json:"resetToken,omitempty"`
	IssuedAt   time.Time `json:"issuedAt"`
}

// TokenValidation is the outcome of checking a recovery token. An invalid
// token is a normal result, not an error.
type TokenValidation struct {
	Valid bool `json:"valid"`
}
