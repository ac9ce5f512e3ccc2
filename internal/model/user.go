// Package model defines domain entities for the application.
package model

import "time"

// Role is the access level assigned to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
// PasswordHash is nil for Google-only accounts.
type User struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  *string    `json:"-"`
	GoogleID      *string    `json:"-"`
	Role          Role       `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// AuthContext is the authenticated identity attached to a request.
type AuthContext struct {
	UserID   string
	Username string
	Role     Role
}

// IsAdmin reports whether the request is authenticated as an admin.
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}
