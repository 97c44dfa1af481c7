package user

// UpdateProfileRequest carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileRequest struct {
	Name               *string `json:"name"`
	AvatarURL          *string `json:"avatar_url"`
	IsActive           *bool   `json:"is_active"`
	EmailNotifications *bool   `json:"email_notifications"`
}
