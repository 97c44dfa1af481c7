package event

import (
	"time"

	"github.com/go-playground/validator/v10"

	eventModel "event-guard/models/event"
)

var validate = validator.New()

// CreateEventRequest is the payload for event creation.
type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required"`
	Description     string  `json:"description"`
	ImageURL        string  `json:"image_url"`
	Date            string  `json:"date" validate:"required"`
	Location        string  `json:"location"`
	EntryFee        float64 `json:"entry_fee" validate:"gte=0"`
	MaxParticipants int     `json:"max_participants" validate:"gte=0"`
	Tags            string  `json:"tags"`
}

func (r *CreateEventRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "title and date are required"
	}
	if _, err := time.Parse(time.RFC3339, r.Date); err != nil {
		return "date must be RFC3339 formatted"
	}
	return ""
}

// UpdateEventRequest carries a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Date        *string  `json:"date"`
	Location    *string  `json:"location"`
	EntryFee        *float64 `json:"entry_fee"`
	MaxParticipants *int     `json:"max_participants"`
	Tags            *string  `json:"tags"`
	Status          *string  `json:"status"`
}

// OrganizerSummary is the subset of the organizer exposed on listings.
type OrganizerSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListItem is an event enriched with its organizer summary and the ids of
// users registered for it.
type ListItem struct {
	eventModel.Event
	OrganizerInfo     OrganizerSummary `json:"organizer"`
	RegisteredUserIDs []uint           `json:"registered_user_ids"`
}
