package models

import (
	"time"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// SessionDate is the time window a session runs in.
type SessionDate struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewSessionDate fails when start is after end.
func NewSessionDate(start, end time.Time) (SessionDate, error) {
	if start.After(end) {
		return SessionDate{}, appErrors.Clone(appErrors.ErrInvalidArgument, "start date cannot be after end date")
	}
	return SessionDate{Start: start, End: end}, nil
}

// Duration returns the length of the window.
func (d SessionDate) Duration() time.Duration {
	return d.End.Sub(d.Start)
}
