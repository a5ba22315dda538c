package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSessionID int64 = 1

func newTestImage(t *testing.T) Image {
	t.Helper()
	img, err := NewImage(1024, ImageTypeGIF, 300, 200)
	require.NoError(t, err)
	return img
}

func newTestDate(t *testing.T) SessionDate {
	t.Helper()
	start := time.Date(2024, 10, 10, 10, 10, 0, 0, time.UTC)
	date, err := NewSessionDate(start, start.Add(time.Minute))
	require.NoError(t, err)
	return date
}

func newTestPaidSession(t *testing.T, capacity int, fee int64) *Session {
	t.Helper()
	c, err := NewSessionCapacity(capacity)
	require.NoError(t, err)
	m, err := NewMoney(fee)
	require.NoError(t, err)
	s := NewPaidSession("TDD", []Image{newTestImage(t)}, newTestDate(t), c, m)
	s.ID = testSessionID
	return s
}

func newTestFreeSession(t *testing.T) *Session {
	t.Helper()
	s := NewFreeSession("TDD", []Image{newTestImage(t)}, newTestDate(t))
	s.ID = testSessionID
	return s
}

func newTestLecturer() *Lecturer {
	return &Lecturer{ID: 1, NsUserID: 100, Name: "lecturer"}
}

func newTestUser(id int64) *NsUser {
	return &NsUser{ID: id, UserID: "user", Name: "user", Email: "user@nextstep.camp"}
}

func newTestRegistration(t *testing.T, userID, amount int64) *Registration {
	t.Helper()
	reg, err := NewRegistration(testSessionID, newTestUser(userID), &Payment{ID: "pay", SessionID: testSessionID, NsUserID: userID, Amount: amount})
	require.NoError(t, err)
	return reg
}
