package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-sessions/internal/models"
)

// StudentRepository persists the roster of a session.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindAllBySessionID returns the roster in registration order.
func (r *StudentRepository) FindAllBySessionID(ctx context.Context, sessionID int64) ([]models.Student, error) {
	var students []models.Student
	const query = `SELECT id, session_id, ns_user_id, amount, status FROM session_students WHERE session_id = $1 ORDER BY created_at, ns_user_id`
	if err := r.db.SelectContext(ctx, &students, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session students: %w", err)
	}
	return students, nil
}

// SaveAll upserts the roster in a single transaction. Rows are keyed by (session_id, ns_user_id)
// and only their status changes after the first insert.
func (r *StudentRepository) SaveAll(ctx context.Context, students []models.Student, sessionID int64) (err error) {
	if len(students) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session students transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO session_students (id, session_id, ns_user_id, amount, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (session_id, ns_user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for _, st := range students {
		id := st.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err = tx.ExecContext(ctx, query, id, sessionID, st.NsUserID, st.Amount, string(st.Status), now); err != nil {
			return fmt.Errorf("upsert session student %d: %w", st.NsUserID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session students: %w", err)
	}
	return nil
}
