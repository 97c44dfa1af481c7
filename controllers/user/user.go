package user

import (
	"fmt"

	"event-guard/logger"
	"event-guard/middleware"
	userModel "event-guard/models/user"
	"event-guard/types"
	userTypes "event-guard/types/user"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UserController struct {
	db *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Me returns the authenticated user's profile.
func (h *UserController) Me(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var u userModel.User
	if err := h.db.First(&u, userID).Error; err != nil {
		// Token outlived the account.
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "User not found",
			Status:  fiber.StatusNotFound,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Profile fetched successfully",
		Status:  fiber.StatusOK,
		Data:    u,
	})
}

// UpdateMe applies a partial update to the authenticated user's profile.
// Only the fields present in the body change.
func (h *UserController) UpdateMe(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req userTypes.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	var u userModel.User
	if err := h.db.First(&u, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "User not found",
			Status:  fiber.StatusNotFound,
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "Name cannot be empty",
				Status:  fiber.StatusBadRequest,
			})
		}
		updates["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.EmailNotifications != nil {
		updates["email_notifications"] = *req.EmailNotifications
	}

	if len(updates) > 0 {
		if err := h.db.Model(&u).Updates(updates).Error; err != nil {
			logger.Error("Failed to update profile", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Failed to update profile",
				Status:  fiber.StatusInternalServerError,
			})
		}
		if err := h.db.First(&u, userID).Error; err != nil {
			logger.Error("Failed to reload profile", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Failed to update profile",
				Status:  fiber.StatusInternalServerError,
			})
		}
	}

	logger.Success("Profile updated. uuid: " + u.Uuid)
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Profile updated successfully",
		Status:  fiber.StatusOK,
		Data:    u,
	})
}
