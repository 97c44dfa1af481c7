package event

import (
	"time"

	"event-guard/models/user"
)

// Status tracks where an event is in its lifecycle.
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a raw string onto a known status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return Status(s), true
	default:
		return "", false
	}
}

// Event is an event listing created by an organizer or admin.
type Event struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	ImageURL        string    `gorm:"type:varchar(2048)" json:"image_url"`
	Date            time.Time `gorm:"not null;index" json:"date"`
	Location        string    `gorm:"type:varchar(255)" json:"location"`
	EntryFee        float64   `gorm:"default:0" json:"entry_fee"`
	MaxParticipants int       `gorm:"default:100" json:"max_participants"`
	Tags            string    `gorm:"type:varchar(512)" json:"tags"`
	Status          Status    `gorm:"type:varchar(20);not null;default:UPCOMING" json:"status"`

	OrganizerID uint       `gorm:"not null;index" json:"organizer_id"`
	Organizer   *user.User `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"organizer,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
