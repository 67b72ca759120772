package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeShiftAssigned   NotificationType = "shift_assigned"
	TypeShiftAccepted   NotificationType = "shift_accepted"
	TypeShiftRejected   NotificationType = "shift_rejected"
	TypeShiftStarted    NotificationType = "shift_started"
	TypeShiftCompleted  NotificationType = "shift_completed"
	TypeShiftAutoClosed NotificationType = "shift_auto_closed"
	TypeShiftExpired    NotificationType = "shift_expired"
	TypeShiftForced     NotificationType = "shift_forced"
	TypeShiftUpdated    NotificationType = "shift_updated"
	TypeShiftDeleted    NotificationType = "shift_deleted"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeShiftAssigned,
		TypeShiftAccepted,
		TypeShiftRejected,
		TypeShiftStarted,
		TypeShiftCompleted,
		TypeShiftAutoClosed,
		TypeShiftExpired,
		TypeShiftForced,
		TypeShiftUpdated,
		TypeShiftDeleted,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
