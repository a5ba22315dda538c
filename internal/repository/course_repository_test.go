package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "order", "creator_id", "created_at", "updated_at"}).
			AddRow(int64(1), "TDD, clean code with Go", 1, int64(1), now, nil))

	course, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "TDD, clean code with Go", course.Title)
	assert.Nil(t, course.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newSessionRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM courses WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 2)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
