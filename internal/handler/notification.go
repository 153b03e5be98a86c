package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/socialhub/internal/service"
)

// NotificationHandler serves a user's notifications.
//
// Listing notifications starts a dwell timer: once it fires, every
// notification of that user is marked read, as if they had looked at the
// list for that long. Listing again before it fires restarts the timer.
// Stop cancels all pending timers on shutdown.
type NotificationHandler struct {
	app    *service.App
	view   presenter
	dwell  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer // by user ID
	stopped bool
}

func NewNotificationHandler(app *service.App, dwell time.Duration, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		app:    app,
		view:   presenter{app: app, now: time.Now},
		dwell:  dwell,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// NotificationsResponse is the list view plus the unread badge count.
type NotificationsResponse struct {
	Notifications []NotificationView `json:"notifications"`
	Unread        int                `json:"unread"`
}

// HandleList returns the user's notifications, newest first, and schedules
// the mark-all-read.
//
// HTTP: GET /api/notifications
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	unread := h.app.UnreadCount(userID)
	writeJSON(w, http.StatusOK, NotificationsResponse{
		Notifications: h.view.notifications(h.app.Notifications(userID)),
		Unread:        unread,
	})

	if unread > 0 {
		h.scheduleMarkAllRead(userID)
	}
}

// HandleUnread returns the unread badge count.
//
// HTTP: GET /api/notifications/unread
func (h *NotificationHandler) HandleUnread(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": h.app.UnreadCount(userID)})
}

// HandleMarkRead marks one notification read. Unknown IDs succeed silently;
// another user's notification is 403.
//
// HTTP: POST /api/notifications/{id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.app.MarkRead(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) scheduleMarkAllRead(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return
	}
	if t, ok := h.timers[userID]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(h.dwell, func() {
		h.mu.Lock()
		if h.timers[userID] == t {
			delete(h.timers, userID)
		}
		h.mu.Unlock()

		// The request that scheduled this is long gone; use a fresh context.
		if err := h.app.MarkAllRead(context.Background(), userID); err != nil {
			h.logger.Error("marking notifications read failed",
				slog.String("userID", userID),
				slog.String("error", err.Error()),
			)
		}
	})
	h.timers[userID] = t
}

// Pending reports how many dwell timers have not fired yet.
func (h *NotificationHandler) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timers)
}

// Stop cancels every pending dwell timer. Lists served afterwards don't
// schedule new ones.
func (h *NotificationHandler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
	for id, t := range h.timers {
		t.Stop()
		delete(h.timers, id)
	}
}
