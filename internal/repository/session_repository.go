package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-sessions/internal/models"
)

const sessionColumns = `id, course_id, title, start_at, end_at, session_type, progress_status, recruit_status, capacity, price, created_at`

// SessionRepository persists session rows. Roster, images and lecturer live in their own tables.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save inserts the session under courseID and returns the generated id.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session, courseID int64) (int64, error) {
	rec := models.NewSessionRecord(session, courseID)
	rec.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO sessions (course_id, title, start_at, end_at, session_type, progress_status, recruit_status, capacity, price, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	var id int64
	if err := r.db.GetContext(ctx, &id, query,
		rec.CourseID, rec.Title, rec.StartAt, rec.EndAt, rec.SessionType,
		rec.ProgressStatus, rec.RecruitStatus, rec.Capacity, rec.Price, rec.CreatedAt,
	); err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// FindByID returns the session row or sql.ErrNoRows.
func (r *SessionRepository) FindByID(ctx context.Context, id int64) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &rec, nil
}

// FindAllByCourseID lists the sessions of a course ordered by start date.
func (r *SessionRepository) FindAllByCourseID(ctx context.Context, courseID int64) ([]models.SessionRecord, error) {
	var recs []models.SessionRecord
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE course_id = $1 ORDER BY start_at, id`
	if err := r.db.SelectContext(ctx, &recs, query, courseID); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return recs, nil
}

// UpdateStatus writes the lifecycle state. A missing row yields sql.ErrNoRows.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) error {
	const query = `UPDATE sessions SET progress_status = $1, recruit_status = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, string(status.Progress), string(status.Recruit), id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("session status rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
