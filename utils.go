package luckbook

import (
	"time"

	"github.com/google/uuid"
)

// ValidateRange validates range parameters
func ValidateRange(min, max int) error {
	if min > max {
		return ErrInvalidRange
	}
	return nil
}

// newRecordID returns a time-ordered UUIDv7, falling back to a random v4
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// midnight truncates t to 00:00 of its own calendar day and location
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
