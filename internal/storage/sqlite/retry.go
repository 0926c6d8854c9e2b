package sqlite

import (
	"strings"
	"time"
)

const (
	busyRetries = 5
	busyBackoff = 20 * time.Millisecond
)

// retryOnBusy runs f and retries it with exponential backoff while SQLite
// reports the database as locked.
func retryOnBusy(f func() error) error {
	var err error
	delay := busyBackoff
	for attempt := 0; attempt <= busyRetries; attempt++ {
		if err = f(); err == nil || !isBusy(err) {
			return err
		}
		if attempt < busyRetries {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
