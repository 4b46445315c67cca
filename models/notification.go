package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification statuses.
const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is a one-way message to a user, optionally tied to an
// incident. Rows are immutable except for the read transition; actual
// delivery (push/email) happens outside this service.
type Notification struct {
	Model
	RecipientID uint       `json:"recipient_id" gorm:"not null;index"`
	IncidentID  *uuid.UUID `json:"incident_id" gorm:"type:uuid"`
	Message     string     `json:"message" gorm:"type:varchar(500)"`
	Status      string     `json:"status" gorm:"type:varchar(10);default:unread;index"`
	ReadAt      *time.Time `json:"read_at"`
}
