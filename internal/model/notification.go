package model

import "time"

// NotificationType tags what kind of action produced a notification.
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationShare   NotificationType = "share"
)

// Notification is a fan-out record created for UserID when another user acts
// on their content or account. The only mutation it ever sees is Read going
// from false to true.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"` // recipient
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
