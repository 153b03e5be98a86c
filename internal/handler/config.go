package handler

import (
	"net/http"
	"time"
)

// ClientConfig is the timing the client needs to behave like the server
// expects.
type ClientConfig struct {
	FeedRefreshSeconds  int   `json:"feedRefreshSeconds"`
	NotificationDwellMs int64 `json:"notificationDwellMs"`
}

// ConfigHandler serves ClientConfig. The server never pushes, so clients
// poll the feed every FeedRefreshSeconds.
type ConfigHandler struct {
	cfg ClientConfig
}

func NewConfigHandler(feedRefresh, notificationDwell time.Duration) *ConfigHandler {
	return &ConfigHandler{cfg: ClientConfig{
		FeedRefreshSeconds:  int(feedRefresh / time.Second),
		NotificationDwellMs: notificationDwell.Milliseconds(),
	}}
}

// HTTP: GET /api/config
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cfg)
}
