package dto

import (
	"time"

	"github.com/webreviewer/webreviewer/internal/model"
)

// SignupRequest represents the request body for a signup request.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyCodeRequest carries an email verification code.
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// EmailRequest carries an email address, for resend and status lookups.
type EmailRequest struct {
	Email string `json:"email"`
}

// LoginRequest represents the request body for a password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update. Omitted fields are
// left unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DeleteAccountRequest confirms an account deletion.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// UserResponse represents an account in API responses.
type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	HasPassword   bool      `json:"has_password"`
	GoogleLinked  bool      `json:"google_linked"`
	CreatedAt     time.Time `json:"created_at"`
}

// TokenResponse carries the access token issued on login or refresh. The
// refresh token travels in an HttpOnly cookie, never in the body.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

// VerificationStatusResponse reports an account's email verification state.
type VerificationStatusResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// ToUserResponse converts a User model to its API representation.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Role:          string(user.Role),
		EmailVerified: user.EmailVerified,
		HasPassword:   user.HasPassword(),
		GoogleLinked:  user.GoogleID != nil,
		CreatedAt:     user.CreatedAt,
	}
}
