package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

func TestNewPaidSession(t *testing.T) {
	s := newTestPaidSession(t, 10, 200_000)
	s.AssignLecturer(newTestLecturer())

	assert.Equal(t, testSessionID, s.ID)
	assert.Equal(t, SessionTypePaid, s.Type)
	assert.True(t, s.IsPaid())
	assert.Equal(t, InitialSessionStatus(), s.Status())
	assert.Equal(t, newTestLecturer(), s.Lecturer())
	assert.Equal(t, 10, s.Capacity().Max())
	assert.Equal(t, Money{Price: 200_000}, s.Fee())
	assert.Empty(t, s.Students())
}

func TestPaidSessionRegister(t *testing.T) {
	s := newTestPaidSession(t, 1, 200_000)
	require.NoError(t, s.Open())

	reg := newTestRegistration(t, 1, 200_000)
	require.NoError(t, s.Register(reg))

	require.Len(t, s.Students(), 1)
	assert.Equal(t, NewStudent(reg), s.Students()[0])
	assert.Equal(t, 1, s.Capacity().CurrentCount())

	err := s.Register(newTestRegistration(t, 2, 200_000))
	assert.ErrorIs(t, err, appErrors.ErrCapacityExceeded)
	assert.Len(t, s.Students(), 1)
	assert.Equal(t, 1, s.Capacity().CurrentCount())
}

func TestSessionHasStudent(t *testing.T) {
	s := newTestPaidSession(t, 10, 200_000)
	require.NoError(t, s.Open())
	assert.False(t, s.HasStudent(1))

	require.NoError(t, s.Register(newTestRegistration(t, 1, 200_000)))
	assert.True(t, s.HasStudent(1))
	assert.False(t, s.HasStudent(2))
}

func TestPaidSessionRegisterWhenNotRecruiting(t *testing.T) {
	s := newTestPaidSession(t, 1, 200_000)

	err := s.Register(newTestRegistration(t, 1, 200_000))
	assert.ErrorIs(t, err, appErrors.ErrIllegalState)
	assert.Empty(t, s.Students())
}

func TestPaidSessionRegisterNilRegistration(t *testing.T) {
	s := newTestPaidSession(t, 1, 200_000)
	require.NoError(t, s.Open())

	assert.ErrorIs(t, s.Register(nil), appErrors.ErrInvalidArgument)
}

func TestPaidSessionRegisterAmountMismatch(t *testing.T) {
	for _, amount := range []int64{199_999, 200_001} {
		s := newTestPaidSession(t, 1, 200_000)
		require.NoError(t, s.Open())

		err := s.Register(newTestRegistration(t, 1, amount))
		assert.ErrorIs(t, err, appErrors.ErrInvalidArgument, "amount %d", amount)
		assert.Empty(t, s.Students())
		assert.Equal(t, 0, s.Capacity().CurrentCount())
	}
}

func TestPaidSessionRegisterSucceedsOnlyOnExactFee(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		fee := rapid.Int64Range(0, 1_000_000).Draw(r, "fee")
		amount := rapid.Int64Range(0, 1_000_000).Draw(r, "amount")
		open := rapid.Bool().Draw(r, "open")

		c, _ := NewSessionCapacity(1)
		s := NewPaidSession("TDD", nil, SessionDate{}, c, Money{Price: fee})
		if open {
			_ = s.Open()
		}
		reg, err := NewRegistration(0, &NsUser{ID: 1}, &Payment{SessionID: 0, Amount: amount})
		if err != nil {
			r.Fatalf("registration: %v", err)
		}

		err = s.Register(reg)
		switch {
		case !open:
			if !appErrors.IsCode(err, appErrors.ErrIllegalState.Code) {
				r.Fatalf("expected illegal state, got %v", err)
			}
		case amount != fee:
			if !appErrors.IsCode(err, appErrors.ErrInvalidArgument.Code) {
				r.Fatalf("expected invalid argument for amount %d fee %d, got %v", amount, fee, err)
			}
		default:
			if err != nil {
				r.Fatalf("unexpected error: %v", err)
			}
		}
	})
}

func TestPaidSessionCapacityProperty(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		capacity := rapid.IntRange(1, 20).Draw(r, "capacity")
		c, _ := NewSessionCapacity(capacity)
		s := NewPaidSession("TDD", nil, SessionDate{}, c, Money{Price: 100})
		_ = s.Open()

		for i := 1; i <= capacity; i++ {
			reg, _ := NewRegistration(0, &NsUser{ID: int64(i)}, &Payment{Amount: 100})
			if err := s.Register(reg); err != nil {
				r.Fatalf("registration %d of %d failed: %v", i, capacity, err)
			}
		}
		reg, _ := NewRegistration(0, &NsUser{ID: int64(capacity + 1)}, &Payment{Amount: 100})
		if err := s.Register(reg); !appErrors.IsCode(err, appErrors.ErrCapacityExceeded.Code) {
			r.Fatalf("expected capacity exceeded, got %v", err)
		}
		if got := len(s.Students()); got != capacity {
			r.Fatalf("roster size %d, want %d", got, capacity)
		}
		if got := s.Capacity().CurrentCount(); got != capacity {
			r.Fatalf("current count %d, want %d", got, capacity)
		}
	})
}

func TestFreeSessionRegisterIgnoresAmount(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		amount := rapid.Int64Range(0, 1_000_000).Draw(r, "amount")
		open := rapid.Bool().Draw(r, "open")

		s := NewFreeSession("TDD", nil, SessionDate{})
		if open {
			_ = s.Open()
		}
		reg, _ := NewRegistration(0, &NsUser{ID: 1}, &Payment{Amount: amount})

		err := s.Register(reg)
		if open && err != nil {
			r.Fatalf("unexpected error: %v", err)
		}
		if !open && !appErrors.IsCode(err, appErrors.ErrIllegalState.Code) {
			r.Fatalf("expected illegal state, got %v", err)
		}
	})
}

func TestSessionCloseIsTerminal(t *testing.T) {
	s := newTestPaidSession(t, 1, 200_000)
	require.NoError(t, s.Open())
	assert.Equal(t, SessionStatus{Progress: ProgressOngoing, Recruit: RecruitRecruiting}, s.Status())

	s.Close()
	assert.Equal(t, SessionStatus{Progress: ProgressEnd, Recruit: RecruitClosed}, s.Status())

	assert.ErrorIs(t, s.Open(), appErrors.ErrIllegalState)
	assert.Equal(t, SessionStatus{Progress: ProgressEnd, Recruit: RecruitClosed}, s.Status())
	assert.ErrorIs(t, s.Register(newTestRegistration(t, 1, 200_000)), appErrors.ErrIllegalState)
}

func newRecruitedSession(t *testing.T, userIDs ...int64) *Session {
	t.Helper()
	capacity := len(userIDs)
	if capacity == 0 {
		capacity = 1
	}
	s := newTestPaidSession(t, capacity, 200_000)
	s.AssignLecturer(newTestLecturer())
	require.NoError(t, s.Open())
	for _, id := range userIDs {
		require.NoError(t, s.Register(newTestRegistration(t, id, 200_000)))
	}
	return s
}

func statusOf(s *Session, userID int64) StudentStatus {
	for _, st := range s.Students() {
		if st.NsUserID == userID {
			return st.Status
		}
	}
	return ""
}

func TestSessionAcceptAndRejectStudents(t *testing.T) {
	s := newRecruitedSession(t, 1, 2, 3)

	require.NoError(t, s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 1}}))
	require.NoError(t, s.RejectStudents(newTestLecturer(), []Student{{NsUserID: 2}}))

	require.Len(t, s.Students(), 3)
	assert.Equal(t, StudentStatusAccepted, statusOf(s, 1))
	assert.Equal(t, StudentStatusRejected, statusOf(s, 2))
	assert.Equal(t, StudentStatusPending, statusOf(s, 3))
	assert.Equal(t, 3, s.Capacity().CurrentCount())
}

func TestSessionDecisionRequiresStudents(t *testing.T) {
	s := newRecruitedSession(t)
	err := s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrIllegalState)
}

func TestSessionDecisionRequiresAssignedLecturer(t *testing.T) {
	s := newRecruitedSession(t, 1)

	err := s.AcceptStudents(&Lecturer{ID: 2}, []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	err = s.RejectStudents(nil, []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	s.AssignLecturer(nil)
	err = s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
	assert.Equal(t, StudentStatusPending, statusOf(s, 1))
}

func TestSessionDecisionCheckOrder(t *testing.T) {
	s := newRecruitedSession(t, 1)
	s.Close()

	// lecturer is checked before the ended status
	err := s.AcceptStudents(&Lecturer{ID: 2}, []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)

	err = s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrIllegalState)
	assert.Equal(t, StudentStatusPending, statusOf(s, 1))
}

func TestSessionDecisionsAreMutuallyExclusive(t *testing.T) {
	s := newRecruitedSession(t, 1, 2)
	require.NoError(t, s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 1}}))
	require.NoError(t, s.RejectStudents(newTestLecturer(), []Student{{NsUserID: 2}}))

	err := s.RejectStudents(newTestLecturer(), []Student{{NsUserID: 1}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
	assert.Equal(t, StudentStatusAccepted, statusOf(s, 1))

	err = s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 2}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
	assert.Equal(t, StudentStatusRejected, statusOf(s, 2))
}

func TestSessionDecisionFailureLeavesRosterUntouched(t *testing.T) {
	s := newRecruitedSession(t, 1, 2)
	require.NoError(t, s.RejectStudents(newTestLecturer(), []Student{{NsUserID: 2}}))

	err := s.AcceptStudents(newTestLecturer(), []Student{{NsUserID: 1}, {NsUserID: 2}})
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
	assert.Equal(t, StudentStatusPending, statusOf(s, 1))
	assert.Equal(t, StudentStatusRejected, statusOf(s, 2))
}

func TestSessionStudentsReturnsSnapshot(t *testing.T) {
	s := newRecruitedSession(t, 1)

	students := s.Students()
	students[0].Status = StudentStatusAccepted
	assert.Equal(t, StudentStatusPending, statusOf(s, 1))
}

func TestSessionEqual(t *testing.T) {
	a := newTestPaidSession(t, 1, 1)
	b := newTestFreeSession(t)
	assert.True(t, a.Equal(b))

	b.ID = 2
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestParseSessionType(t *testing.T) {
	kind, err := ParseSessionType("paid")
	require.NoError(t, err)
	assert.Equal(t, SessionTypePaid, kind)

	_, err = ParseSessionType("premium")
	assert.ErrorIs(t, err, appErrors.ErrInvalidArgument)
}
