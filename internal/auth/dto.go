package auth

import (
	"github.com/cjnation/cjnation-backend/internal/users"
)

// RegisterRequest captures the payload for local account creation.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=80"`
}

// RegisterResponse acknowledges the pending verification. VerificationToken
// is populated outside production so integration tests can complete the flow
// without a mailbox.
type RegisterResponse struct {
	User              *users.UserDTO `json:"user"`
	VerificationToken string         `json:"verification_token,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the tokens and user produced by a successful login.
// An unverified user gets no session pair; instead a fresh verification token
// is issued and, outside production, echoed back.
type LoginResponse struct {
	AccessToken       string         `json:"access_token,omitempty"`
	RefreshToken      string         `json:"refresh_token,omitempty"`
	User              *users.UserDTO `json:"user"`
	VerificationToken string         `json:"verification_token,omitempty"`
}

// GoogleLoginRequest carries the authorization code returned by Google.
type GoogleLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// VerifyEmailRequest carries the raw single-use verification token.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordRequest asks for a reset link to be mailed.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest carries the raw single-use reset token and new password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}
