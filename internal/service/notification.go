package service

import (
	"sort"

	"github.com/sakif/socialhub/internal/model"
)

// NotificationCenter holds per-user notification records.
type NotificationCenter struct {
	state *model.State
	env   *env
}

func newNotificationCenter(state *model.State, e *env) *NotificationCenter {
	return &NotificationCenter{state: state, env: e}
}

// Notify always appends a new unread record. Repeated actions produce
// repeated notifications; there is no deduplication.
func (c *NotificationCenter) Notify(recipientID, message string, typ model.NotificationType) model.Notification {
	n := model.Notification{
		ID:        c.env.newID(),
		UserID:    recipientID,
		Message:   message,
		Type:      typ,
		Read:      false,
		CreatedAt: c.env.now(),
	}
	c.state.Notifications = append(c.state.Notifications, n)
	return n
}

// UnreadCountFor counts the user's notifications that are still unread.
func (c *NotificationCenter) UnreadCountFor(userID string) int {
	count := 0
	for _, n := range c.state.Notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}

// ListFor returns the user's notifications, newest first. Records with equal
// timestamps keep reverse insertion order.
func (c *NotificationCenter) ListFor(userID string) []model.Notification {
	out := []model.Notification{}
	for i := len(c.state.Notifications) - 1; i >= 0; i-- {
		if n := c.state.Notifications[i]; n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Find returns a copy of the notification with the given ID.
func (c *NotificationCenter) Find(id string) (model.Notification, bool) {
	for _, n := range c.state.Notifications {
		if n.ID == id {
			return n, true
		}
	}
	return model.Notification{}, false
}

// MarkRead flips one notification to read. An unknown ID is silently
// ignored; the return value only says whether anything changed.
func (c *NotificationCenter) MarkRead(id string) bool {
	for i := range c.state.Notifications {
		n := &c.state.Notifications[i]
		if n.ID == id {
			changed := !n.Read
			n.Read = true
			return changed
		}
	}
	return false
}

// MarkAllReadFor marks every notification of the user as read and returns
// how many were unread.
func (c *NotificationCenter) MarkAllReadFor(userID string) int {
	changed := 0
	for i := range c.state.Notifications {
		n := &c.state.Notifications[i]
		if n.UserID == userID && !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed
}

// NotificationIcon names the icon the client shows for a notification type.
func NotificationIcon(typ model.NotificationType) string {
	switch typ {
	case model.NotificationLike:
		return "heart"
	case model.NotificationComment:
		return "comment"
	case model.NotificationFollow:
		return "user-plus"
	case model.NotificationShare:
		return "share"
	default:
		return "bell"
	}
}
