package dto

import "github.com/spec-kit/lms-console/internal/domain"

// LoginRequest payload for login. Next carries the originally requested path
// recorded by the authorization gate.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Next     string `json:"next,omitempty"`
}

// LoginResponse reports the resolved user and where to land.
type LoginResponse struct {
	User     domain.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// ForgotPasswordRequest payload for password recovery.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest payload for completing password recovery.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}
