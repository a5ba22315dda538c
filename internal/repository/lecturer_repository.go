package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-sessions/internal/models"
)

// LecturerRepository persists the lecturer assigned to a session.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs the repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

// FindBySessionID returns the assigned lecturer or sql.ErrNoRows.
func (r *LecturerRepository) FindBySessionID(ctx context.Context, sessionID int64) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	const query = `SELECT id, ns_user_id, name FROM session_lecturers WHERE session_id = $1`
	if err := r.db.GetContext(ctx, &lecturer, query, sessionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get session lecturer: %w", err)
	}
	return &lecturer, nil
}

// Save assigns lecturer to the session and returns the row id.
func (r *LecturerRepository) Save(ctx context.Context, lecturer *models.Lecturer, sessionID int64) (int64, error) {
	const query = `INSERT INTO session_lecturers (session_id, ns_user_id, name) VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO UPDATE SET ns_user_id = EXCLUDED.ns_user_id, name = EXCLUDED.name
RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, query, sessionID, lecturer.NsUserID, lecturer.Name); err != nil {
		return 0, fmt.Errorf("save session lecturer: %w", err)
	}
	return id, nil
}
