package auth

import (
	"errors"
	"fmt"
	"time"

	"event-guard/config"
	"event-guard/logger"
	otpModel "event-guard/models/otp"
	"event-guard/models/user"
	otpService "event-guard/services/otp"
	"event-guard/services/token"
	"event-guard/types"
	authTypes "event-guard/types/auth"
	"event-guard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthController struct {
	db             *gorm.DB
	cfg            *config.Config
	tokens         *token.Service
	otp            *otpService.Service
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(db *gorm.DB, cfg *config.Config, tokens *token.Service, otp *otpService.Service, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{db: db, cfg: cfg, tokens: tokens, otp: otp, loggerInstance: asyncLogger}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: false,
		Secure:   h.cfg.Production, // Only secure in production (HTTPS)
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	})
}

func (h *AuthController) findUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := h.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	email := utils.NormalizeEmail(req.Email)

	if _, err := h.findUserByEmail(email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Message: "Email already registered",
			Status:  fiber.StatusConflict,
		})
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}

	role := user.RoleParticipant
	if req.Role != "" {
		if parsed, ok := user.ParseRole(req.Role); ok {
			role = parsed
		}
	}

	newUser := user.User{
		Uuid:         uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: &hash,
		Role:         role,
		OtpVerified:  false,
		IsActive:     true,
	}
	if err := h.db.Create(&newUser).Error; err != nil {
		logger.Error("Failed to create user", err)
		// Unique index on email catches the race the earlier lookup missed.
		return c.Status(fiber.StatusConflict).JSON(types.ApiResponse{
			Message: "Email already registered",
			Status:  fiber.StatusConflict,
		})
	}

	// Short-lived token: enough to drive the OTP verification flow, not a
	// full session.
	signed, err := h.tokens.SignShort(&newUser)
	if err != nil {
		logger.Error("Failed to sign token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("User registered successfully. uuid: " + newUser.Uuid)
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Registration successful. Verify your email with the OTP sent to you.",
		Status:  fiber.StatusCreated,
		Token:   signed,
		Data:    newUser,
	})
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	email := utils.NormalizeEmail(req.Email)

	existingUser, err := h.findUserByEmail(email)
	if err != nil || !existingUser.HasPassword() || !utils.VerifyPassword(req.Password, *existingUser.PasswordHash) {
		// Same message for unknown email and wrong password.
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Message: "Invalid credentials",
			Status:  fiber.StatusUnauthorized,
		})
	}

	if !existingUser.OtpVerified {
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "Account not verified. Complete OTP verification first.",
			Status:  fiber.StatusForbidden,
		})
	}

	signed, err := h.tokens.Sign(existingUser)
	if err != nil {
		logger.Error("Failed to sign token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}

	h.setSecureCookie(c, "access", signed, int(h.cfg.TokenTTL.Seconds()))

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	currentTime := time.Now().Format("2006-01-02 03:04:05 PM")
	logger.Success("User logged in successfully. uuid: " + existingUser.Uuid + " at " + currentTime)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Login successful",
		Status:  fiber.StatusOK,
		Token:   signed,
		Data:    existingUser,
	})
}

func (h *AuthController) RequestOTP(c *fiber.Ctx) error {
	var req authTypes.RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	email := utils.NormalizeEmail(req.Email)
	purpose, _ := otpModel.ParsePurpose(req.Purpose)

	// LOGIN codes only make sense for an account that exists.
	if purpose == otpModel.PurposeLogin {
		if _, err := h.findUserByEmail(email); err != nil {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "User not found",
				Status:  fiber.StatusNotFound,
			})
		}
	}

	record, err := h.otp.Request(email, purpose)
	if err != nil {
		logger.Error("Failed to issue OTP", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to send OTP",
			Status:  fiber.StatusInternalServerError,
		})
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("OTP issued for " + email + " purpose " + string(purpose))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "OTP sent",
		Status:  fiber.StatusOK,
		Data: authTypes.OTPStatusResponse{
			ExpiresAt:        record.ExpiresAt.UTC().Format(time.RFC3339),
			RemainingSeconds: record.RemainingSeconds(),
		},
	})
}

func (h *AuthController) OTPStatus(c *fiber.Ctx) error {
	email := utils.NormalizeEmail(c.Query("email"))
	purpose, ok := otpModel.ParsePurpose(c.Query("purpose"))
	// Reset codes are not queryable; only signup and login codes expose
	// their status.
	if email == "" || !ok || purpose == otpModel.PurposeReset {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "email and a valid purpose are required",
			Status:  fiber.StatusBadRequest,
		})
	}

	record, err := h.otp.Status(email, purpose)
	if err != nil {
		if errors.Is(err, otpService.ErrNoActiveCode) {
			return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
				Message: "No active OTP",
				Status:  fiber.StatusNotFound,
			})
		}
		logger.Error("Failed to look up OTP status", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Active OTP found",
		Status:  fiber.StatusOK,
		Data: authTypes.OTPStatusResponse{
			ExpiresAt:        record.ExpiresAt.UTC().Format(time.RFC3339),
			RemainingSeconds: record.RemainingSeconds(),
		},
	})
}

func (h *AuthController) VerifyOTP(c *fiber.Ctx) error {
	var req authTypes.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	email := utils.NormalizeEmail(req.Email)
	purpose, _ := otpModel.ParsePurpose(req.Purpose)

	// The code is checked before the account lookup, so a missing account
	// surfaces only once the caller has proven it holds a valid code.
	if _, err := h.otp.Verify(email, purpose, req.Code); err != nil {
		return h.otpVerifyError(c, err)
	}

	existingUser, err := h.findUserByEmail(email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "User not found",
			Status:  fiber.StatusNotFound,
		})
	}

	if !existingUser.OtpVerified {
		if err := h.db.Model(existingUser).Update("otp_verified", true).Error; err != nil {
			logger.Error("Failed to mark user verified", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Something went wrong",
				Status:  fiber.StatusInternalServerError,
			})
		}
		existingUser.OtpVerified = true
	}

	signed, err := h.tokens.Sign(existingUser)
	if err != nil {
		logger.Error("Failed to sign token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}

	h.setSecureCookie(c, "access", signed, int(h.cfg.TokenTTL.Seconds()))

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("OTP verified for " + email + " purpose " + string(purpose))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "OTP verified",
		Status:  fiber.StatusOK,
		Token:   signed,
		Data:    existingUser,
	})
}

func (h *AuthController) otpVerifyError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, otpService.ErrNoActiveCode):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "No active OTP. Request a new one.",
			Status:  fiber.StatusBadRequest,
		})
	case errors.Is(err, otpService.ErrCodeExpired):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "OTP expired. Request a new one.",
			Status:  fiber.StatusBadRequest,
		})
	case errors.Is(err, otpService.ErrCodeMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid OTP",
			Status:  fiber.StatusBadRequest,
		})
	default:
		logger.Error("Failed to verify OTP", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}
}

func (h *AuthController) PasswordResetRequest(c *fiber.Ctx) error {
	var req authTypes.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	email := utils.NormalizeEmail(req.Email)

	if _, err := h.findUserByEmail(email); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "User not found",
			Status:  fiber.StatusNotFound,
		})
	}

	record, err := h.otp.Request(email, otpModel.PurposeReset)
	if err != nil {
		logger.Error("Failed to issue password reset OTP", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to send OTP",
			Status:  fiber.StatusInternalServerError,
		})
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("Password reset OTP issued for " + email)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Password reset OTP sent",
		Status:  fiber.StatusOK,
		Data: authTypes.OTPStatusResponse{
			ExpiresAt:        record.ExpiresAt.UTC().Format(time.RFC3339),
			RemainingSeconds: record.RemainingSeconds(),
		},
	})
}

func (h *AuthController) PasswordResetConfirm(c *fiber.Ctx) error {
	var req authTypes.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	if validationErr := req.Validate(); validationErr != "" {
		logger.Error(validationErr, nil)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: validationErr,
			Status:  fiber.StatusBadRequest,
		})
	}

	email := utils.NormalizeEmail(req.Email)

	existingUser, err := h.findUserByEmail(email)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "User not found",
			Status:  fiber.StatusNotFound,
		})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Something went wrong",
			Status:  fiber.StatusInternalServerError,
		})
	}

	// Code consumption and the password change commit together or not at all.
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if _, err := h.otp.VerifyTx(tx, email, otpModel.PurposeReset, req.Code); err != nil {
			return err
		}
		return tx.Model(&user.User{}).Where("id = ?", existingUser.ID).
			Update("password_hash", hash).Error
	})
	if txErr != nil {
		return h.otpVerifyError(c, txErr)
	}

	logEntry := utils.CreateSanitizedLogEntry(c)
	h.loggerInstance.Log(logEntry)

	logger.Success("Password reset completed for " + email)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Password reset successful",
		Status:  fiber.StatusOK,
	})
}

func (h *AuthController) LogOut(c *fiber.Ctx) error {
	// Clear the access and refresh cookies
	h.setSecureCookie(c, "access", "", -1)  // Expire immediately
	h.setSecureCookie(c, "refresh", "", -1) // Expire immediately

	logger.Success("Logout successful")
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Logout successful",
		Status:  fiber.StatusOK,
		Data:    nil,
	})
}
