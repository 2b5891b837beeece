package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselog/courselog-api/internal/models"
)

func TestLessonCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("INSERT INTO lesson_records").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.LessonRecord{
		CourseID:          "c1",
		LecturerID:        "u1",
		Mode:              models.ModeFulltime,
		Date:              time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:         "09:00",
		EndTime:           "11:00",
		StudentAttendance: 32,
		Lessons:           pq.StringArray{"Normalization", "ER diagrams"},
	}
	err := repo.Create(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonListByAssignment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "lecturer_id", "mode", "date", "start_time", "end_time", "student_attendance", "lessons", "created_at", "updated_at"}).
		AddRow("r1", "c1", "u1", string(models.ModeFulltime), now, "09:00", "11:00", 32, "{Normalization}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM lesson_records")).
		WithArgs("c1", "u1", string(models.ModeFulltime)).
		WillReturnRows(rows)

	mode := models.ModeFulltime
	records, err := repo.ListByAssignment(context.Background(), "c1", &mode, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "r1", records[0].ID)
	assert.Equal(t, 32, records[0].StudentAttendance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonListByAssignmentAllModes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "course_id", "lecturer_id", "mode", "date", "start_time", "end_time", "student_attendance", "lessons", "created_at", "updated_at"}).
		AddRow("r1", "c1", "u1", string(models.ModeFulltime), now, "09:00", "11:00", 32, "{Normalization}", now, now).
		AddRow("r2", "c1", "u1", string(models.ModeParttime), now, "18:00", "20:00", 12, "{Indexes}", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM lesson_records")).
		WithArgs("c1", "u1").
		WillReturnRows(rows)

	records, err := repo.ListByAssignment(context.Background(), "c1", nil, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.ModeParttime, records[1].Mode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonUpdateContent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("UPDATE lesson_records SET").WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.LessonRecord{
		ID:                "r1",
		Date:              time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:         "10:00",
		EndTime:           "12:00",
		StudentAttendance: 28,
		Lessons:           pq.StringArray{"Indexes"},
	}
	err := repo.UpdateContent(context.Background(), record)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonCountByLecturerBetween(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lesson_records WHERE lecturer_id = $1 AND date >= $2 AND date <= $3")).
		WithArgs("u1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByLecturerBetween(context.Background(), "u1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonListRecentByLecturer(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "course_id", "lecturer_id", "mode", "date", "start_time", "end_time",
		"student_attendance", "lessons", "created_at", "updated_at",
		"course.id", "course.course_code", "course.course_title", "course.department",
		"course.year", "course.semester", "course.mode", "course.created_at", "course.updated_at",
		"lecturer.id", "lecturer.name", "lecturer.email", "lecturer.role", "lecturer.department",
	}).AddRow(
		"r1", "c1", "u1", string(models.ModeFulltime), now, "09:00", "11:00",
		32, "{Normalization}", now, now,
		"c1", "ITC101", "Intro to Computing", string(models.DepartmentIT),
		1, 1, string(models.ModeFulltime), now, now,
		"u1", "Ama Mensah", "ama@example.com", string(models.RoleLecturer), string(models.DepartmentIT),
	)
	mock.ExpectQuery("ORDER BY lr.date DESC LIMIT").
		WithArgs("u1", 10).
		WillReturnRows(rows)

	records, err := repo.ListRecentByLecturer(context.Background(), "u1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ITC101", records[0].Course.Code)
	assert.Equal(t, "Ama Mensah", records[0].Lecturer.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
