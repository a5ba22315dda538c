package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

func TestNewRegistration(t *testing.T) {
	user := newTestUser(7)
	reg, err := NewRegistration(testSessionID, user, &Payment{ID: "p-1", SessionID: testSessionID, NsUserID: user.ID, Amount: 200_000})
	require.NoError(t, err)

	assert.Equal(t, testSessionID, reg.SessionID())
	assert.Equal(t, *user, reg.User())
	assert.Equal(t, "p-1", reg.PaymentID())
	assert.Equal(t, Money{Price: 200_000}, reg.Amount())
}

func TestNewRegistrationRejectsInvalidInput(t *testing.T) {
	user := newTestUser(7)

	_, err := NewRegistration(testSessionID, user, nil)
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	_, err = NewRegistration(testSessionID, nil, &Payment{SessionID: testSessionID})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	_, err = NewRegistration(testSessionID, user, &Payment{SessionID: 99, Amount: 1})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	_, err = NewRegistration(testSessionID, user, &Payment{SessionID: testSessionID, Amount: -1})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
}

func TestNewStudent(t *testing.T) {
	reg := newTestRegistration(t, 7, 200_000)

	st := NewStudent(reg)
	assert.Equal(t, StudentStatusPending, st.Status)
	assert.Equal(t, int64(7), st.NsUserID)
	assert.Equal(t, int64(200_000), st.Amount)
	assert.True(t, st.Equal(Student{NsUserID: 7, Amount: 1}))
	assert.False(t, st.Equal(Student{NsUserID: 8}))
}

func TestStudentDecisionsAreFinal(t *testing.T) {
	st := Student{NsUserID: 1, Status: StudentStatusPending}
	require.NoError(t, st.Accept())
	require.NoError(t, st.Accept())
	assert.ErrorIs(t, st.Reject(), appErrors.ErrInvalidArgument)
	assert.Equal(t, StudentStatusAccepted, st.Status)

	other := Student{NsUserID: 2, Status: StudentStatusPending}
	require.NoError(t, other.Reject())
	assert.ErrorIs(t, other.Accept(), appErrors.ErrInvalidArgument)
	assert.Equal(t, StudentStatusRejected, other.Status)
}
