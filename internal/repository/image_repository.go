package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-sessions/internal/models"
)

// ImageRepository persists cover images of sessions.
type ImageRepository struct {
	db *sqlx.DB
}

// NewImageRepository constructs the repository.
func NewImageRepository(db *sqlx.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// FindAllBySessionID returns the images attached to a session.
func (r *ImageRepository) FindAllBySessionID(ctx context.Context, sessionID int64) ([]models.Image, error) {
	var images []models.Image
	const query = `SELECT id, session_id, size_kb, image_type, width, height FROM session_images WHERE session_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &images, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session images: %w", err)
	}
	return images, nil
}

// SaveAll inserts images for a session in one transaction.
func (r *ImageRepository) SaveAll(ctx context.Context, images []models.Image, sessionID int64) (err error) {
	if len(images) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session images transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO session_images (session_id, size_kb, image_type, width, height) VALUES ($1, $2, $3, $4, $5)`
	for _, img := range images {
		if _, err = tx.ExecContext(ctx, query, sessionID, img.SizeKB, string(img.Type), img.Width, img.Height); err != nil {
			return fmt.Errorf("insert session image: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session images: %w", err)
	}
	return nil
}
