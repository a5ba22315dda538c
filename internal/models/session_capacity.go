package models

import (
	"fmt"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// SessionCapacity bounds the number of students a paid session admits.
type SessionCapacity struct {
	max     int
	current int
}

// NewSessionCapacity constructs an empty capacity with the given ceiling.
func NewSessionCapacity(limit int) (SessionCapacity, error) {
	if limit < 1 {
		return SessionCapacity{}, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("capacity must be positive: %d", limit))
	}
	return SessionCapacity{max: limit}, nil
}

// Max returns the configured ceiling.
func (c SessionCapacity) Max() int { return c.max }

// CurrentCount returns the number of admitted students.
func (c SessionCapacity) CurrentCount() int { return c.current }

// Remaining returns the number of free seats.
func (c SessionCapacity) Remaining() int { return c.max - c.current }

// Check fails when size exceeds the ceiling.
func (c SessionCapacity) Check(size int) error {
	if size > c.max {
		return appErrors.Clone(appErrors.ErrCapacityExceeded, fmt.Sprintf("capacity exceeded: %d of %d", size, c.max))
	}
	return nil
}

// Reserve claims one seat. The counter is left untouched when the session is full.
func (c *SessionCapacity) Reserve() error {
	if err := c.Check(c.current + 1); err != nil {
		return err
	}
	c.current++
	return nil
}

// withCount returns a copy whose counter reflects an already persisted roster.
func (c SessionCapacity) withCount(size int) (SessionCapacity, error) {
	if err := c.Check(size); err != nil {
		return SessionCapacity{}, err
	}
	c.current = size
	return c, nil
}
