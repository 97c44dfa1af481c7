package admin

import (
	"event-guard/logger"
	eventModel "event-guard/models/event"
	registrationModel "event-guard/models/registration"
	userModel "event-guard/models/user"
	"event-guard/types"
	"event-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminController exposes the platform-wide listings restricted to admins.
type AdminController struct {
	db *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// Users lists every account, newest first.
func (h *AdminController) Users(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&userModel.User{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count users", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list users",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var users []userModel.User
	if err := h.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list users",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.Paginated{
		Data:       users,
		Pagination: types.NewPagination(total, page, limit),
	})
}

// Events lists every event with its organizer, newest first.
func (h *AdminController) Events(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&eventModel.Event{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var events []eventModel.Event
	if err := h.db.Preload("Organizer").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error; err != nil {
		logger.Error("Failed to list events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.Paginated{
		Data:       events,
		Pagination: types.NewPagination(total, page, limit),
	})
}

// Registrations lists every registration with its event and user, newest
// first.
func (h *AdminController) Registrations(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)

	var total int64
	if err := h.db.Model(&registrationModel.EventRegistration{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count registrations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list registrations",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var regs []registrationModel.EventRegistration
	if err := h.db.Preload("Event").Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&regs).Error; err != nil {
		logger.Error("Failed to list registrations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list registrations",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.Paginated{
		Data:       regs,
		Pagination: types.NewPagination(total, page, limit),
	})
}
