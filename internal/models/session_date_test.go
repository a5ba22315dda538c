package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

func TestNewSessionDate(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 10, 0, 0, time.UTC)

	date, err := NewSessionDate(start, start)
	require.NoError(t, err)
	assert.Zero(t, date.Duration())

	_, err = NewSessionDate(start.Add(time.Second), start)
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
}

func TestSessionDateFailsOnlyWhenStartAfterEnd(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rapid.Check(t, func(r *rapid.T) {
		start := base.Add(time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(r, "start")) * time.Second)
		end := base.Add(time.Duration(rapid.Int64Range(-1e6, 1e6).Draw(r, "end")) * time.Second)

		_, err := NewSessionDate(start, end)
		if start.After(end) {
			if !appErrors.IsCode(err, appErrors.ErrInvalidArgument.Code) {
				r.Fatalf("expected invalid argument for start %v after end %v, got %v", start, end, err)
			}
			return
		}
		if err != nil {
			r.Fatalf("unexpected error for start %v end %v: %v", start, end, err)
		}
	})
}
