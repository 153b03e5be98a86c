package handler

import (
	"fmt"
	"time"
)

// timeAgo renders t relative to now the way the feed shows it: "just now",
// then minutes, hours and days, and a plain date after a week.
func timeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	default:
		return t.Format("Jan 2, 2006")
	}
}
