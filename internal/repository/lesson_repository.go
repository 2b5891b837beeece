package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/courselog/courselog-api/internal/models"
)

const lessonColumns = `id, course_id, lecturer_id, mode, date, start_time, end_time, student_attendance, lessons, created_at, updated_at`

const lessonDetailColumns = `
	lr.id, lr.course_id, lr.lecturer_id, lr.mode, lr.date, lr.start_time, lr.end_time,
	lr.student_attendance, lr.lessons, lr.created_at, lr.updated_at,
	c.id AS "course.id", c.course_code AS "course.course_code", c.course_title AS "course.course_title",
	c.department AS "course.department", c.year AS "course.year", c.semester AS "course.semester",
	c.mode AS "course.mode", c.created_at AS "course.created_at", c.updated_at AS "course.updated_at",
	l.id AS "lecturer.id", l.first_name || ' ' || l.last_name AS "lecturer.name",
	l.email AS "lecturer.email", l.role AS "lecturer.role", l.department AS "lecturer.department"`

// LessonRepository provides database access for lesson records.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new instance of LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// Create inserts a new lesson record. The unique (course_id, date, mode)
// index rejects a second record for the same course and day.
func (r *LessonRepository) Create(ctx context.Context, record *models.LessonRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO lesson_records (id, course_id, lecturer_id, mode, date, start_time, end_time, student_attendance, lessons, created_at, updated_at)
		VALUES (:id, :course_id, :lecturer_id, :mode, :date, :start_time, :end_time, :student_attendance, :lessons, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create lesson record: %w", err)
	}
	return nil
}

// FindByID returns a lesson record by identifier.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.LessonRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_records WHERE id = $1 LIMIT 1`, lessonColumns)
	var record models.LessonRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lesson record by id: %w", err)
	}
	return &record, nil
}

// UpdateContent rewrites the editable fields of a record. Course,
// lecturer and mode are immutable after creation.
func (r *LessonRepository) UpdateContent(ctx context.Context, record *models.LessonRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lesson_records SET date = :date, start_time = :start_time, end_time = :end_time,
		student_attendance = :student_attendance, lessons = :lessons, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update lesson record: %w", err)
	}
	return nil
}

// ListByAssignment returns a lecturer's records for one course, newest
// first, optionally narrowed to one mode.
func (r *LessonRepository) ListByAssignment(ctx context.Context, courseID string, mode *models.Mode, lecturerID string) ([]models.LessonRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_records
		WHERE course_id = $1 AND lecturer_id = $2`, lessonColumns)
	args := []interface{}{courseID, lecturerID}
	if mode != nil {
		query += ` AND mode = $3`
		args = append(args, *mode)
	}
	query += ` ORDER BY date DESC`

	var records []models.LessonRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list lesson records by assignment: %w", err)
	}
	return records, nil
}

// ListByDepartment returns all records whose course belongs to the
// department. Orphaned records whose course is gone are excluded by the
// inner join.
func (r *LessonRepository) ListByDepartment(ctx context.Context, dept models.Department) ([]models.LessonRecordDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_records lr
		JOIN courses c ON c.id = lr.course_id
		JOIN users l ON l.id = lr.lecturer_id
		WHERE c.department = $1 ORDER BY lr.date DESC`, lessonDetailColumns)
	var records []models.LessonRecordDetail
	if err := r.db.SelectContext(ctx, &records, query, dept); err != nil {
		return nil, fmt.Errorf("list lesson records by department: %w", err)
	}
	return records, nil
}

// ListRecentByLecturer returns the newest records for one lecturer.
func (r *LessonRepository) ListRecentByLecturer(ctx context.Context, lecturerID string, limit int) ([]models.LessonRecordDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_records lr
		JOIN courses c ON c.id = lr.course_id
		JOIN users l ON l.id = lr.lecturer_id
		WHERE lr.lecturer_id = $1 ORDER BY lr.date DESC LIMIT $2`, lessonDetailColumns)
	var records []models.LessonRecordDetail
	if err := r.db.SelectContext(ctx, &records, query, lecturerID, limit); err != nil {
		return nil, fmt.Errorf("list recent lesson records by lecturer: %w", err)
	}
	return records, nil
}

// ListRecentByDepartment returns the newest records for a department.
func (r *LessonRepository) ListRecentByDepartment(ctx context.Context, dept models.Department, limit int) ([]models.LessonRecordDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM lesson_records lr
		JOIN courses c ON c.id = lr.course_id
		JOIN users l ON l.id = lr.lecturer_id
		WHERE c.department = $1 ORDER BY lr.date DESC LIMIT $2`, lessonDetailColumns)
	var records []models.LessonRecordDetail
	if err := r.db.SelectContext(ctx, &records, query, dept, limit); err != nil {
		return nil, fmt.Errorf("list recent lesson records by department: %w", err)
	}
	return records, nil
}

// CountByLecturer returns the total records for one lecturer.
func (r *LessonRepository) CountByLecturer(ctx context.Context, lecturerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM lesson_records WHERE lecturer_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, lecturerID); err != nil {
		return 0, fmt.Errorf("count lesson records by lecturer: %w", err)
	}
	return count, nil
}

// CountByLecturerBetween counts one lecturer's records in a date window.
func (r *LessonRepository) CountByLecturerBetween(ctx context.Context, lecturerID string, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM lesson_records WHERE lecturer_id = $1 AND date >= $2 AND date <= $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, lecturerID, from, to); err != nil {
		return 0, fmt.Errorf("count lesson records by lecturer window: %w", err)
	}
	return count, nil
}

// CountByDepartment counts records whose course is in the department.
func (r *LessonRepository) CountByDepartment(ctx context.Context, dept models.Department) (int, error) {
	const query = `SELECT COUNT(*) FROM lesson_records lr JOIN courses c ON c.id = lr.course_id WHERE c.department = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, dept); err != nil {
		return 0, fmt.Errorf("count lesson records by department: %w", err)
	}
	return count, nil
}

// CountByDepartmentBetween counts department records in a date window.
func (r *LessonRepository) CountByDepartmentBetween(ctx context.Context, dept models.Department, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM lesson_records lr JOIN courses c ON c.id = lr.course_id
		WHERE c.department = $1 AND lr.date >= $2 AND lr.date <= $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, dept, from, to); err != nil {
		return 0, fmt.Errorf("count lesson records by department window: %w", err)
	}
	return count, nil
}
