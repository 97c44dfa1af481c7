package registration

import (
	"time"

	"event-guard/models/event"
	"event-guard/models/user"
)

// EventRegistration links a participant to an event. A user can hold at most
// one registration per event.
type EventRegistration struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID uint `gorm:"not null;uniqueIndex:idx_registrations_event_user" json:"event_id"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_registrations_event_user" json:"user_id"`

	Event *event.Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"event,omitempty"`
	User  *user.User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
