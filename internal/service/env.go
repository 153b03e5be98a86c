package service

import (
	"time"

	"github.com/rs/xid"
)

// env carries the clock and ID generator shared by every store. Tests swap
// both for deterministic values.
type env struct {
	now   func() time.Time
	newID func() string
}

func defaultEnv() *env {
	return &env{
		now:   time.Now,
		newID: func() string { return xid.New().String() },
	}
}
