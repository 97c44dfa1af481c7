package otp

import (
	"time"
)

// Purpose states why an OTP code was issued.
type Purpose string

const (
	PurposeSignup Purpose = "SIGNUP"
	PurposeLogin  Purpose = "LOGIN"
	PurposeReset  Purpose = "RESET"
)

// ParsePurpose maps a request string to a Purpose. Unknown values report false.
func ParsePurpose(s string) (Purpose, bool) {
	switch Purpose(s) {
	case PurposeSignup, PurposeLogin, PurposeReset:
		return Purpose(s), true
	}
	return "", false
}

// OTP is a one-time code issued to an email address for a single purpose.
// Only the bcrypt hash of the code is stored. At most one unused, unexpired
// row may exist per (email, purpose); issuing a new code marks all prior
// unused rows as used first.
type OTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;index" json:"email"`
	CodeHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	Purpose   Purpose   `gorm:"type:varchar(10);not null" json:"purpose"`
	Used      bool      `gorm:"default:false" json:"used"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired checks the expiry timestamp against the current wall clock.
// There is no grace period.
func (o *OTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// RemainingSeconds returns the validity window left, floored at 0.
func (o *OTP) RemainingSeconds() int {
	remaining := int(time.Until(o.ExpiresAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
