package event

import (
	"fmt"
	"time"

	"event-guard/constants"
	"event-guard/logger"
	"event-guard/middleware"
	eventModel "event-guard/models/event"
	"event-guard/models/registration"
	"event-guard/models/user"
	"event-guard/types"
	eventTypes "event-guard/types/event"
	"event-guard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type EventController struct {
	db    *gorm.DB
	cache *ListingCache
}

func NewEventController(db *gorm.DB, cache *ListingCache) *EventController {
	return &EventController{db: db, cache: cache}
}

// buildListItems decorates events with their organizer summary and the ids
// of registered users.
func buildListItems(db *gorm.DB, events []eventModel.Event) ([]eventTypes.ListItem, error) {
	items := make([]eventTypes.ListItem, 0, len(events))
	if len(events) == 0 {
		return items, nil
	}

	eventIDs := make([]uint, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.ID)
	}

	var regs []registration.EventRegistration
	if err := db.Where("event_id IN ?", eventIDs).Find(&regs).Error; err != nil {
		return nil, err
	}
	registered := make(map[uint][]uint, len(events))
	for _, r := range regs {
		registered[r.EventID] = append(registered[r.EventID], r.UserID)
	}

	for _, e := range events {
		item := eventTypes.ListItem{
			Event:             e,
			RegisteredUserIDs: registered[e.ID],
		}
		if item.RegisteredUserIDs == nil {
			item.RegisteredUserIDs = []uint{}
		}
		if e.Organizer != nil {
			item.OrganizerInfo = eventTypes.OrganizerSummary{
				ID:    e.Organizer.ID,
				Name:  e.Organizer.Name,
				Email: e.Organizer.Email,
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// loadFrontPage reads the default public listing page straight from the
// database. The cache refresher uses it as its data source.
func loadFrontPage(db *gorm.DB) (*cachedListing, error) {
	var total int64
	if err := db.Model(&eventModel.Event{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var events []eventModel.Event
	if err := db.Preload("Organizer").
		Order("date ASC").
		Limit(constants.DefaultLimit).
		Find(&events).Error; err != nil {
		return nil, err
	}

	items, err := buildListItems(db, events)
	if err != nil {
		return nil, err
	}

	return &cachedListing{
		Items:      items,
		Pagination: types.NewPagination(total, constants.DefaultPage, constants.DefaultLimit),
	}, nil
}

// Index lists events publicly, paginated and sorted by date. The default
// page with no filters is served from the cache when it is warm.
func (h *EventController) Index(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	statusFilter := c.Query("status")
	dateFilter := c.Query("date")

	if page == constants.DefaultPage && limit == constants.DefaultLimit && statusFilter == "" && dateFilter == "" {
		if listing := h.cache.Get(); listing != nil {
			return c.Status(fiber.StatusOK).JSON(types.Paginated{
				Data:       listing.Items,
				Pagination: listing.Pagination,
			})
		}
	}

	query := h.db.Model(&eventModel.Event{})
	if statusFilter != "" {
		status, ok := eventModel.ParseStatus(statusFilter)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "Unknown event status",
				Status:  fiber.StatusBadRequest,
			})
		}
		query = query.Where("status = ?", status)
	}
	if dateFilter != "" {
		day, err := time.Parse("2006-01-02", dateFilter)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "date filter must be YYYY-MM-DD",
				Status:  fiber.StatusBadRequest,
			})
		}
		n := now.New(day)
		query = query.Where("date BETWEEN ? AND ?", n.BeginningOfDay(), n.EndOfDay())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var events []eventModel.Event
	if err := query.Preload("Organizer").
		Order("date ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error; err != nil {
		logger.Error("Failed to list events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	items, err := buildListItems(h.db, events)
	if err != nil {
		logger.Error("Failed to decorate events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.Paginated{
		Data:       items,
		Pagination: types.NewPagination(total, page, limit),
	})
}

// Show returns a single event with its organizer and registered user ids.
func (h *EventController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid event id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var e eventModel.Event
	if err := h.db.Preload("Organizer").First(&e, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "Event not found",
			Status:  fiber.StatusNotFound,
		})
	}

	items, err := buildListItems(h.db, []eventModel.Event{e})
	if err != nil {
		logger.Error("Failed to decorate event", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to fetch event",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Event fetched successfully",
		Status:  fiber.StatusOK,
		Data:    items[0],
	})
}

// Store creates an event owned by the authenticated organizer.
func (h *EventController) Store(c *fiber.Ctx) error {
	var req eventTypes.CreateEventRequest
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

	date, _ := time.Parse(time.RFC3339, req.Date)

	maxParticipants := req.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = constants.DefaultMaxParticipants
	}

	e := eventModel.Event{
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		Date:            date,
		Location:        req.Location,
		EntryFee:        req.EntryFee,
		MaxParticipants: maxParticipants,
		Tags:            req.Tags,
		Status:          eventModel.StatusUpcoming,
		OrganizerID:     middleware.UserID(c),
	}
	if err := h.db.Create(&e).Error; err != nil {
		logger.Error("Failed to create event", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to create event",
			Status:  fiber.StatusInternalServerError,
		})
	}

	h.cache.Invalidate()

	logger.Success(fmt.Sprintf("Event created. id: %d title: %s", e.ID, e.Title))
	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Message: "Event created successfully",
		Status:  fiber.StatusCreated,
		Data:    e,
	})
}

// loadOwnedEvent fetches an event and enforces the ownership rule: the
// organizer who created it, or an admin.
func (h *EventController) loadOwnedEvent(c *fiber.Ctx) (*eventModel.Event, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: "Invalid event id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var e eventModel.Event
	if err := h.db.First(&e, id).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Message: "Event not found",
			Status:  fiber.StatusNotFound,
		})
	}

	claims := middleware.Claims(c)
	if claims.Role != user.RoleAdmin && e.OrganizerID != middleware.UserID(c) {
		return nil, c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "Forbidden",
			Status:  fiber.StatusForbidden,
		})
	}
	return &e, nil
}

// Update applies a partial update to an owned event.
func (h *EventController) Update(c *fiber.Ctx) error {
	e, handled := h.loadOwnedEvent(c)
	if e == nil {
		return handled
	}

	var req eventTypes.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Message: fmt.Sprintf("Error parsing request body: %v", err),
			Status:  fiber.StatusBadRequest,
		})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		if *req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "Title cannot be empty",
				Status:  fiber.StatusBadRequest,
			})
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Date != nil {
		date, err := time.Parse(time.RFC3339, *req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "date must be RFC3339 formatted",
				Status:  fiber.StatusBadRequest,
			})
		}
		updates["date"] = date
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.EntryFee != nil {
		if *req.EntryFee < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "Entry fee cannot be negative",
				Status:  fiber.StatusBadRequest,
			})
		}
		updates["entry_fee"] = *req.EntryFee
	}
	if req.MaxParticipants != nil {
		if *req.MaxParticipants < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "Max participants must be positive",
				Status:  fiber.StatusBadRequest,
			})
		}
		updates["max_participants"] = *req.MaxParticipants
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.Status != nil {
		status, ok := eventModel.ParseStatus(*req.Status)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
				Message: "Unknown event status",
				Status:  fiber.StatusBadRequest,
			})
		}
		updates["status"] = status
	}

	if len(updates) > 0 {
		if err := h.db.Model(e).Updates(updates).Error; err != nil {
			logger.Error("Failed to update event", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Failed to update event",
				Status:  fiber.StatusInternalServerError,
			})
		}
		h.cache.Invalidate()
		if err := h.db.First(e, e.ID).Error; err != nil {
			logger.Error("Failed to reload event", err)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Failed to update event",
				Status:  fiber.StatusInternalServerError,
			})
		}
	}

	logger.Success(fmt.Sprintf("Event updated. id: %d", e.ID))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Event updated successfully",
		Status:  fiber.StatusOK,
		Data:    e,
	})
}

// Destroy deletes an owned event. Registrations go with it via the cascade.
func (h *EventController) Destroy(c *fiber.Ctx) error {
	e, handled := h.loadOwnedEvent(c)
	if e == nil {
		return handled
	}

	if err := h.db.Delete(e).Error; err != nil {
		logger.Error("Failed to delete event", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to delete event",
			Status:  fiber.StatusInternalServerError,
		})
	}

	h.cache.Invalidate()

	logger.Success(fmt.Sprintf("Event deleted. id: %d", e.ID))
	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Message: "Event deleted successfully",
		Status:  fiber.StatusOK,
	})
}

// OrganizerIndex lists the authenticated organizer's own events, paginated.
func (h *EventController) OrganizerIndex(c *fiber.Ctx) error {
	page, limit := utils.ParsePagination(c)
	organizerID := middleware.UserID(c)

	query := h.db.Model(&eventModel.Event{}).Where("organizer_id = ?", organizerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count organizer events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	var events []eventModel.Event
	if err := query.Preload("Organizer").
		Order("date ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error; err != nil {
		logger.Error("Failed to list organizer events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	items, err := buildListItems(h.db, events)
	if err != nil {
		logger.Error("Failed to decorate organizer events", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Message: "Failed to list events",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.Paginated{
		Data:       items,
		Pagination: types.NewPagination(total, page, limit),
	})
}
