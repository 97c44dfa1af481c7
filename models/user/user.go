package user

import (
	"time"
)

// Role is the access level carried by a user record and by session tokens.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOrganizer   Role = "ORGANIZER"
	RoleParticipant Role = "PARTICIPANT"
)

// ParseRole maps a request string to a Role. Unknown values report false.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleOrganizer, RoleParticipant:
		return Role(s), true
	}
	return "", false
}

// User is an account record. Email is stored lowercase and unique.
// PasswordHash is nil for accounts created through OTP-only flows and is
// never serialized.
type User struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid               string  `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Name               string  `gorm:"type:varchar(255)" json:"name"`
	Email              string  `gorm:"type:varchar(255);not null;unique" json:"email"`
	PasswordHash       *string `gorm:"type:varchar(255)" json:"-"`
	Role               Role    `gorm:"type:varchar(20);not null;default:PARTICIPANT" json:"role"`
	OtpVerified        bool    `gorm:"default:false" json:"otp_verified"`
	IsActive           bool    `gorm:"default:true" json:"is_active"`
	EmailNotifications bool    `gorm:"default:true" json:"email_notifications"`
	AvatarURL          *string `gorm:"type:varchar(2048)" json:"avatar_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Avatar returns the avatar URL or "" when none is set.
func (u *User) Avatar() string {
	if u.AvatarURL == nil {
		return ""
	}
	return *u.AvatarURL
}
