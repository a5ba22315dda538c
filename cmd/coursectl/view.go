package main

import (
	"time"

	"github.com/noah-isme/course-sessions/internal/models"
)

type capacityView struct {
	Max       int `json:"max"`
	Current   int `json:"current"`
	Remaining int `json:"remaining"`
}

type sessionView struct {
	ID       int64            `json:"id"`
	CourseID int64            `json:"course_id"`
	Title    string           `json:"title"`
	Type     string           `json:"type"`
	Progress string           `json:"progress"`
	Recruit  string           `json:"recruit"`
	StartAt  time.Time        `json:"start_at"`
	EndAt    time.Time        `json:"end_at"`
	Duration string           `json:"duration"`
	Fee      *int64           `json:"fee,omitempty"`
	Capacity *capacityView    `json:"capacity,omitempty"`
	Lecturer *models.Lecturer `json:"lecturer,omitempty"`
	Images   []models.Image   `json:"images"`
	Students []models.Student `json:"students"`
}

func newSessionView(s *models.Session) sessionView {
	status := s.Status()
	v := sessionView{
		ID:       s.ID,
		CourseID: s.CourseID,
		Title:    s.Title,
		Type:     string(s.Type),
		Progress: string(status.Progress),
		Recruit:  string(status.Recruit),
		StartAt:  s.Date.Start,
		EndAt:    s.Date.End,
		Duration: s.Date.Duration().String(),
		Lecturer: s.Lecturer(),
		Images:   s.Images,
		Students: s.Students(),
	}
	if s.IsPaid() {
		fee := s.Fee().Price
		v.Fee = &fee
		capacity := s.Capacity()
		v.Capacity = &capacityView{Max: capacity.Max(), Current: capacity.CurrentCount(), Remaining: capacity.Remaining()}
	}
	return v
}
