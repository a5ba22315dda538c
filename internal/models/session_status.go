package models

import (
	"fmt"

	appErrors "github.com/noah-isme/course-sessions/pkg/errors"
)

// ProgressStatus tracks whether a session has started or finished.
type ProgressStatus string

// Progress phases.
const (
	ProgressPreparing ProgressStatus = "PREPARING"
	ProgressOngoing   ProgressStatus = "ONGOING"
	ProgressEnd       ProgressStatus = "END"
)

// RecruitStatus tracks whether a session accepts registrations.
type RecruitStatus string

// Recruitment phases.
const (
	RecruitNotStarted RecruitStatus = "NOT_STARTED"
	RecruitRecruiting RecruitStatus = "RECRUITING"
	RecruitClosed     RecruitStatus = "CLOSED"
)

// SessionStatus is the composite lifecycle state of a session.
type SessionStatus struct {
	Progress ProgressStatus `json:"progress"`
	Recruit  RecruitStatus  `json:"recruit"`
}

// InitialSessionStatus returns the state of a freshly created session.
func InitialSessionStatus() SessionStatus {
	return SessionStatus{Progress: ProgressPreparing, Recruit: RecruitNotStarted}
}

// ParseSessionStatus rebuilds a status from its persisted columns.
func ParseSessionStatus(progress, recruit string) (SessionStatus, error) {
	p := ProgressStatus(progress)
	switch p {
	case ProgressPreparing, ProgressOngoing, ProgressEnd:
	default:
		return SessionStatus{}, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unknown progress status %q", progress))
	}
	r := RecruitStatus(recruit)
	switch r {
	case RecruitNotStarted, RecruitRecruiting, RecruitClosed:
	default:
		return SessionStatus{}, appErrors.Clone(appErrors.ErrInvalidArgument, fmt.Sprintf("unknown recruit status %q", recruit))
	}
	return SessionStatus{Progress: p, Recruit: r}, nil
}

// Open starts the session and its recruitment. An ended session stays ended.
func (s *SessionStatus) Open() error {
	if s.IsEnd() {
		return appErrors.Clone(appErrors.ErrIllegalState, "session ended")
	}
	s.Progress = ProgressOngoing
	s.Recruit = RecruitRecruiting
	return nil
}

// Close ends the session and its recruitment permanently.
func (s *SessionStatus) Close() {
	s.Progress = ProgressEnd
	s.Recruit = RecruitClosed
}

// IsRegistrationAvailable reports whether registrations are accepted.
func (s SessionStatus) IsRegistrationAvailable() bool {
	return s.Recruit == RecruitRecruiting
}

// IsEnd reports whether the session has finished.
func (s SessionStatus) IsEnd() bool {
	return s.Progress == ProgressEnd
}

func (s SessionStatus) String() string {
	return fmt.Sprintf("%s/%s", s.Progress, s.Recruit)
}
