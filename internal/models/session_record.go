package models

import (
	"time"
)

// SessionRecord is the persisted row of a session without its roster, images or lecturer.
type SessionRecord struct {
	ID             int64     `db:"id" json:"id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	Title          string    `db:"title" json:"title"`
	StartAt        time.Time `db:"start_at" json:"start_at"`
	EndAt          time.Time `db:"end_at" json:"end_at"`
	SessionType    string    `db:"session_type" json:"session_type"`
	ProgressStatus string    `db:"progress_status" json:"progress_status"`
	RecruitStatus  string    `db:"recruit_status" json:"recruit_status"`
	Capacity       *int      `db:"capacity" json:"capacity,omitempty"`
	Price          *int64    `db:"price" json:"price,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// NewSessionRecord flattens a session for persistence under the given course.
func NewSessionRecord(s *Session, courseID int64) SessionRecord {
	rec := SessionRecord{
		ID:             s.ID,
		CourseID:       courseID,
		Title:          s.Title,
		StartAt:        s.Date.Start,
		EndAt:          s.Date.End,
		SessionType:    string(s.Type),
		ProgressStatus: string(s.status.Progress),
		RecruitStatus:  string(s.status.Recruit),
	}
	if s.IsPaid() {
		capacity := s.capacity.Max()
		price := s.fee.Price
		rec.Capacity = &capacity
		rec.Price = &price
	}
	return rec
}

// RestoreSession rebuilds an aggregate from its persisted fragments.
func RestoreSession(rec SessionRecord, images []Image, students []Student, lecturer *Lecturer) (*Session, error) {
	sessionType, err := ParseSessionType(rec.SessionType)
	if err != nil {
		return nil, err
	}
	date, err := NewSessionDate(rec.StartAt, rec.EndAt)
	if err != nil {
		return nil, err
	}
	status, err := ParseSessionStatus(rec.ProgressStatus, rec.RecruitStatus)
	if err != nil {
		return nil, err
	}

	var session *Session
	if sessionType == SessionTypePaid {
		capacity, fee, err := paidTerms(rec, len(students))
		if err != nil {
			return nil, err
		}
		session = NewPaidSession(rec.Title, images, date, capacity, fee)
	} else {
		session = NewFreeSession(rec.Title, images, date)
	}
	session.ID = rec.ID
	session.CourseID = rec.CourseID
	session.status = status
	session.lecturer = lecturer
	session.students = make([]*Student, 0, len(students))
	for i := range students {
		st := students[i]
		session.students = append(session.students, &st)
	}
	return session, nil
}

func paidTerms(rec SessionRecord, rosterSize int) (SessionCapacity, Money, error) {
	var limit int
	if rec.Capacity != nil {
		limit = *rec.Capacity
	}
	capacity, err := NewSessionCapacity(limit)
	if err != nil {
		return SessionCapacity{}, Money{}, err
	}
	capacity, err = capacity.withCount(rosterSize)
	if err != nil {
		return SessionCapacity{}, Money{}, err
	}
	var price int64
	if rec.Price != nil {
		price = *rec.Price
	}
	fee, err := NewMoney(price)
	if err != nil {
		return SessionCapacity{}, Money{}, err
	}
	return capacity, fee, nil
}

// SessionSnapshot bundles every persisted fragment of a session so it can be cached and restored.
type SessionSnapshot struct {
	Record   SessionRecord `json:"record"`
	Images   []Image       `json:"images"`
	Students []Student     `json:"students"`
	Lecturer *Lecturer     `json:"lecturer,omitempty"`
}

// NewSessionSnapshot captures the current state of s.
func NewSessionSnapshot(s *Session) SessionSnapshot {
	return SessionSnapshot{
		Record:   NewSessionRecord(s, s.CourseID),
		Images:   s.Images,
		Students: s.Students(),
		Lecturer: s.lecturer,
	}
}

// Restore rebuilds the aggregate.
func (s SessionSnapshot) Restore() (*Session, error) {
	return RestoreSession(s.Record, s.Images, s.Students, s.Lecturer)
}
