package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

func TestNewSessionCapacity(t *testing.T) {
	_, err := NewSessionCapacity(0)
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	c, err := NewSessionCapacity(2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Max())
	assert.Equal(t, 0, c.CurrentCount())
	assert.Equal(t, 2, c.Remaining())
}

func TestSessionCapacityReserve(t *testing.T) {
	c, err := NewSessionCapacity(1)
	require.NoError(t, err)

	require.NoError(t, c.Reserve())
	assert.Equal(t, 1, c.CurrentCount())

	err = c.Reserve()
	assert.ErrorIs(t, err, appErrors.ErrCapacityExceeded)
	assert.Equal(t, 1, c.CurrentCount())
}

func TestSessionCapacityCheck(t *testing.T) {
	c, err := NewSessionCapacity(3)
	require.NoError(t, err)

	assert.NoError(t, c.Check(3))
	assert.ErrorIs(t, c.Check(4), appErrors.ErrCapacityExceeded)
}
