package models

import (
	"fmt"
	"strings"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// SessionType distinguishes free sessions from paid ones.
type SessionType string

// Session variants.
const (
	SessionTypeFree SessionType = "FREE"
	SessionTypePaid SessionType = "PAID"
)

// ParseSessionType normalises a persisted or user supplied type.
func ParseSessionType(raw string) (SessionType, error) {
	t := SessionType(strings.ToUpper(strings.TrimSpace(raw)))
	switch t {
	case SessionTypeFree, SessionTypePaid:
		return t, nil
	}
	return "", appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unknown session type %q", raw))
}

// Session is one offering of a course. Status and roster change only through its methods,
// and a Session must not be mutated from more than one goroutine at a time.
type Session struct {
	ID       int64
	CourseID int64
	Title    string
	Date     SessionDate
	Images   []Image
	Type     SessionType

	status   SessionStatus
	students []*Student
	lecturer *Lecturer

	// paid only
	fee      Money
	capacity SessionCapacity
}

// NewFreeSession builds a session that admits anyone while recruiting.
func NewFreeSession(title string, images []Image, date SessionDate) *Session {
	return &Session{
		Title:  title,
		Date:   date,
		Images: images,
		Type:   SessionTypeFree,
		status: InitialSessionStatus(),
	}
}

// NewPaidSession builds a session that admits registrations paying exactly fee, up to capacity.
func NewPaidSession(title string, images []Image, date SessionDate, capacity SessionCapacity, fee Money) *Session {
	return &Session{
		Title:    title,
		Date:     date,
		Images:   images,
		Type:     SessionTypePaid,
		status:   InitialSessionStatus(),
		fee:      fee,
		capacity: capacity,
	}
}

// Status returns the current lifecycle state.
func (s *Session) Status() SessionStatus { return s.status }

// Lecturer returns the assigned lecturer, if any.
func (s *Session) Lecturer() *Lecturer { return s.lecturer }

// Fee returns the registration fee. Free sessions report zero.
func (s *Session) Fee() Money { return s.fee }

// Capacity returns the seat counter. Free sessions report a zero value.
func (s *Session) Capacity() SessionCapacity { return s.capacity }

// IsPaid reports whether registrations are fee and capacity checked.
func (s *Session) IsPaid() bool { return s.Type == SessionTypePaid }

// Students returns a snapshot of the roster.
func (s *Session) Students() []Student {
	out := make([]Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, *st)
	}
	return out
}

// HasStudent reports whether nsUserID is already on the roster.
func (s *Session) HasStudent(nsUserID int64) bool {
	for _, st := range s.students {
		if st.NsUserID == nsUserID {
			return true
		}
	}
	return false
}

// Equal compares sessions by identity.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return false
	}
	return s.ID == other.ID
}

// AssignLecturer sets the lecturer allowed to decide on applicants.
func (s *Session) AssignLecturer(l *Lecturer) {
	s.lecturer = l
}

// Open starts recruitment.
func (s *Session) Open() error {
	return s.status.Open()
}

// Close ends the session and recruitment. There is no way back.
func (s *Session) Close() {
	s.status.Close()
}

// Register admits a registration onto the roster.
func (s *Session) Register(reg *Registration) error {
	if !s.status.IsRegistrationAvailable() {
		return appErrors.Clone(appErrors.ErrIllegalState, "cannot register: session is not recruiting")
	}
	if reg == nil {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "registration is required")
	}
	if err := s.admit(reg); err != nil {
		return err
	}
	student := NewStudent(reg)
	s.students = append(s.students, &student)
	return nil
}

// admit applies the variant specific admission rule. Capacity is claimed before the roster
// grows so a rejected registration leaves no trace.
func (s *Session) admit(reg *Registration) error {
	switch s.Type {
	case SessionTypeFree:
		return nil
	case SessionTypePaid:
		if !s.fee.Equal(reg.Amount()) {
			return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("amount %s must be equal to session fee %s", reg.Amount(), s.fee))
		}
		return s.capacity.Reserve()
	}
	return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unknown session type %q", s.Type))
}

// AcceptStudents marks every roster member found in applicants as accepted.
func (s *Session) AcceptStudents(lecturer *Lecturer, applicants []Student) error {
	return s.decide(lecturer, applicants, StudentStatusAccepted)
}

// RejectStudents marks every roster member found in applicants as rejected.
func (s *Session) RejectStudents(lecturer *Lecturer, applicants []Student) error {
	return s.decide(lecturer, applicants, StudentStatusRejected)
}

func (s *Session) decide(lecturer *Lecturer, applicants []Student, decision StudentStatus) error {
	if len(s.students) == 0 {
		return appErrors.Clone(appErrors.ErrIllegalState, "no students")
	}
	if err := s.checkLecturer(lecturer); err != nil {
		return err
	}
	if s.status.IsEnd() {
		return appErrors.Clone(appErrors.ErrIllegalState, "session ended")
	}
	targets := s.matching(applicants)
	if err := checkApplicants(applicants, targets, decision.opposite()); err != nil {
		return err
	}
	for _, st := range targets {
		var err error
		if decision == StudentStatusAccepted {
			err = st.Accept()
		} else {
			err = st.Reject()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) checkLecturer(lecturer *Lecturer) error {
	if lecturer == nil || s.lecturer == nil {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "lecturer is required")
	}
	if !s.lecturer.Equal(lecturer) {
		return appErrors.Clone(appErrors.ErrInvalidArgument, "lecturer mismatch")
	}
	return nil
}

func (s *Session) matching(applicants []Student) []*Student {
	var out []*Student
	for _, st := range s.students {
		for _, a := range applicants {
			if st.Equal(a) {
				out = append(out, st)
				break
			}
		}
	}
	return out
}

func checkApplicants(applicants []Student, targets []*Student, opposite StudentStatus) error {
	for _, a := range applicants {
		if a.Status == opposite {
			return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("applicant %d already %s", a.NsUserID, strings.ToLower(string(opposite))))
		}
	}
	for _, st := range targets {
		if st.Status == opposite {
			return appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("student %d already %s", st.NsUserID, strings.ToLower(string(opposite))))
		}
	}
	return nil
}
