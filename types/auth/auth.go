package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest is the payload for account creation. Role is optional and
// defaults to PARTICIPANT.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=ADMIN ORGANIZER PARTICIPANT"`
}

func (r *RegisterRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "name, email and password are required"
	}
	return ""
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "email and password are required"
	}
	return ""
}

// RequestOTPRequest asks for a fresh one-time code. Purpose must be SIGNUP
// or LOGIN; RESET codes go through the password reset endpoints.
type RequestOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=SIGNUP LOGIN"`
}

func (r *RequestOTPRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "email and a valid purpose (SIGNUP or LOGIN) are required"
	}
	return ""
}

type VerifyOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=SIGNUP LOGIN"`
	Code    string `json:"code" validate:"required"`
}

func (r *VerifyOTPRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "email, purpose and code are required"
	}
	return ""
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *PasswordResetRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "email is required"
	}
	return ""
}

type PasswordResetConfirmRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (r *PasswordResetConfirmRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "email, code and newPassword are required"
	}
	return ""
}

// OTPStatusResponse reports the validity window left on the active code.
type OTPStatusResponse struct {
	ExpiresAt        string `json:"expiresAt"`
	RemainingSeconds int    `json:"remainingSeconds"`
}
