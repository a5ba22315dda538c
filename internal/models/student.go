package models

import (
	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// StudentStatus is the lecturer's decision on an applicant.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusPending  StudentStatus = "PENDING"
	StudentStatusAccepted StudentStatus = "ACCEPTED"
	StudentStatusRejected StudentStatus = "REJECTED"
)

// Student is an enrollment record derived from a registration.
type Student struct {
	ID        string        `db:"id" json:"id"`
	SessionID int64         `db:"session_id" json:"session_id"`
	NsUserID  int64         `db:"ns_user_id" json:"ns_user_id"`
	Amount    int64         `db:"amount" json:"amount"`
	Status    StudentStatus `db:"status" json:"status"`
}

// NewStudent derives a pending student from a registration.
func NewStudent(reg *Registration) Student {
	return Student{
		SessionID: reg.SessionID(),
		NsUserID:  reg.User().ID,
		Amount:    reg.Amount().Price,
		Status:    StudentStatusPending,
	}
}

// Equal identifies students by user.
func (s Student) Equal(other Student) bool {
	return s.NsUserID == other.NsUserID
}

// Accept records a positive decision. A rejected student cannot be accepted.
func (s *Student) Accept() error {
	if s.Status == StudentStatusRejected {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "student already rejected")
	}
	s.Status = StudentStatusAccepted
	return nil
}

// Reject records a negative decision. An accepted student cannot be rejected.
func (s *Student) Reject() error {
	if s.Status == StudentStatusAccepted {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "student already accepted")
	}
	s.Status = StudentStatusRejected
	return nil
}

func (s StudentStatus) opposite() StudentStatus {
	switch s {
	case StudentStatusAccepted:
		return StudentStatusRejected
	case StudentStatusRejected:
		return StudentStatusAccepted
	}
	return ""
}
