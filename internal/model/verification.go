package model

import "time"

// VerificationCode is a short-lived email verification code.
// One code exists per user; issuing a new one replaces the old.
type VerificationCode struct {
	UserID    string
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at the given time.
func (c *VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
