package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly8-hq/fly8-api/internal/models"
)

func TestApplicationRepositoryFindByStudentAndServiceNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT .+ FROM service_applications WHERE student_id").
		WithArgs("student-1", "service-9").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByStudentAndService(context.Background(), "student-1", "service-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestApplicationRepositoryCascadeCounselorTouchesAllRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE service_applications SET assigned_counselor = $2, updated_at = $3 WHERE student_id = $1")).
		WithArgs("student-1", "counselor-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.CascadeCounselor(context.Background(), "student-1", "counselor-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCountByStatuses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM service_applications WHERE status IN ($1, $2)")).
		WithArgs(models.ApplicationStatusNotStarted, models.ApplicationStatusInProgress).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	total, err := repo.CountByStatuses(context.Background(), models.ApplicationStatusNotStarted, models.ApplicationStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestApplicationRepositoryAddNoteDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO application_notes").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	note := &models.ApplicationNote{ApplicationID: "app-1", Text: "called the student", AddedBy: "counselor-1"}
	err := repo.AddNote(context.Background(), note)
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.False(t, note.AddedAt.IsZero())
}

func TestApplicationRepositoryListNotesOrder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "application_id", "text", "added_by", "added_at"}).
		AddRow("note-1", "app-1", "first", "counselor-1", time.Now().Add(-time.Hour)).
		AddRow("note-2", "app-1", "second", "counselor-1", time.Now())
	mock.ExpectQuery("SELECT .+ FROM application_notes WHERE application_id").
		WithArgs("app-1").
		WillReturnRows(rows)

	notes, err := repo.ListNotes(context.Background(), "app-1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Text)
}
