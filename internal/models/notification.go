package models

import "time"

// NotificationType enumerates dashboard notification severities.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
)

// Notification is a user-facing dashboard event record.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	TargetURL *string          `db:"target_url" json:"targetUrl,omitempty"`
	Read      bool             `db:"read" json:"read"`
	ReadAt    *time.Time       `db:"read_at" json:"readAt,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// NotificationFilter captures the notification list query parameters.
type NotificationFilter struct {
	Type       string
	UnreadOnly bool
	Limit      int
}
