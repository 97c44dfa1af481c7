package registration

import (
	"fmt"

	"event-guard/logger"
	"event-guard/middleware"
	eventModel "event-guard/models/event"
	registrationModel "event-guard/models/registration"
	"event-guard/types"
	"event-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RegistrationController struct {
	db *gorm.DB
}

func NewRegistrationController(db *gorm.DB) *RegistrationController {
	return &RegistrationController{db: db}
}

// Join registers the authenticated participant for an event. The capacity
// check and the insert run in one transaction so a full event never
// oversubscribes.
func (h *RegistrationController) Join(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("eventId")
	if err != nil || eventID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid event id",
			Status:  fiber.StatusBadRequest,
		})
	}
	userID := middleware.UserID(c)

	var status int
	var message string
	var reg registrationModel.EventRegistration
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		var e eventModel.Event
		if err := tx.First(&e, eventID).Error; err != nil {
			status, message = fiber.StatusNotFound, "Event not found"
			return err
		}

		var count int64
		if err := tx.Model(&registrationModel.EventRegistration{}).
			Where("event_id = ?", e.ID).Count(&count).Error; err != nil {
			status, message = fiber.StatusInternalServerError, "Failed to join event"
			return err
		}
		if count >= int64(e.MaxParticipants) {
			status, message = fiber.StatusBadRequest, "Event is full"
			return gorm.ErrInvalidData
		}

		reg = registrationModel.EventRegistration{EventID: e.ID, UserID: userID}
		if err := tx.Create(&reg).Error; err != nil {
			// Unique index on (event_id, user_id) rejects double joins.
			status, message = fiber.StatusBadRequest, "Already registered for this event"
			return err
		}
		return nil
	})
	if txErr != nil {
		return c.Status(status).JSON(types.ApiResponse{
			Message: message,
			Status:  status,
		})
	}

	logger.Success(fmt.Sprintf("User %d joined event %d", userID, eventID))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Joined event successfully",
		Status:  fiber.StatusCreated,
		Data:    reg,
	})
}

// Leave removes the authenticated participant's registration.
func (h *RegistrationController) Leave(c *fiber.Ctx) error {
	eventID, err := c.ParamsInt("eventId")
	if err != nil || eventID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid event id",
			Status:  fiber.StatusBadRequest,
		})
	}
	userID := middleware.UserID(c)

	res := h.db.Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&registrationModel.EventRegistration{})
	if res.Error != nil {
		logger.Error("Failed to leave event", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to leave event",
			Status:  fiber.StatusInternalServerError,
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Not registered for this event",
			Status:  fiber.StatusBadRequest,
		})
	}

	logger.Success(fmt.Sprintf("User %d left event %d", userID, eventID))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Left event successfully",
		Status:  fiber.StatusOK,
	})
}

// OrganizerIndex lists registrations for events the authenticated organizer
// owns, newest first.
func (h *RegistrationController) OrganizerIndex(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	organizerID := middleware.UserID(c)

	query := h.db.Model(&registrationModel.EventRegistration{}).
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("events.organizer_id = ?", organizerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count registrations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list registrations",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var regs []registrationModel.EventRegistration
	if err := query.Preload("Event").Preload("User").
		Order("event_registrations.created_at DESC").
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

// ParticipantIndex lists the authenticated participant's own registrations,
// newest first.
func (h *RegistrationController) ParticipantIndex(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	userID := middleware.UserID(c)

	query := h.db.Model(&registrationModel.EventRegistration{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count registrations", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list registrations",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var regs []registrationModel.EventRegistration
	if err := query.Preload("Event").Preload("Event.Organizer").
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
