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

const courseColumns = `id, course_code, course_title, department, year, semester, mode, created_at, updated_at`

// CourseRepository provides database access for courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course. The unique (course_code, mode) index
// rejects duplicates at write time.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, course_code, course_title, department, year, semester, mode, created_at, updated_at)
		VALUES (:id, :course_code, :course_title, :department, :year, :semester, :mode, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1 LIMIT 1`, courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return &course, nil
}

// FindByCodeAndMode returns the course carrying the (code, mode) pair,
// excluding the given id when non-empty. Used for pre-save conflict checks.
func (r *CourseRepository) FindByCodeAndMode(ctx context.Context, code string, mode models.Mode, excludeID string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE course_code = $1 AND mode = $2`, courseColumns)
	args := []interface{}{code, mode}
	if excludeID != "" {
		query += ` AND id <> $3`
		args = append(args, excludeID)
	}
	query += ` LIMIT 1`

	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by code and mode: %w", err)
	}
	return &course, nil
}

// Update rewrites the mutable columns of a course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET course_code = :course_code, course_title = :course_title, department = :department,
		year = :year, semester = :semester, mode = :mode, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// HasAssignments reports whether any lecturer is assigned to the course.
func (r *CourseRepository) HasAssignments(ctx context.Context, id string) (bool, error) {
	const query = `SELECT 1 FROM course_assignments WHERE course_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course assignments: %w", err)
	}
	return true, nil
}

// DeleteWithAssignments removes a course and its assignments in one
// transaction so the cascade cannot half-apply.
func (r *CourseRepository) DeleteWithAssignments(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_assignments WHERE course_id = $1`, id); err != nil {
		return fmt.Errorf("delete course assignments: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted course rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ListByDepartment returns all courses in a department.
func (r *CourseRepository) ListByDepartment(ctx context.Context, dept models.Department) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE department = $1 ORDER BY course_code, mode`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, dept); err != nil {
		return nil, fmt.Errorf("list courses by department: %w", err)
	}
	return courses, nil
}

// ListUnassignedByDepartment returns department courses that have no
// assignment yet.
func (r *CourseRepository) ListUnassignedByDepartment(ctx context.Context, dept models.Department) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM (
		SELECT c.* FROM courses c
		LEFT JOIN course_assignments ca ON ca.course_id = c.id
		WHERE c.department = $1 AND ca.id IS NULL
	) u ORDER BY course_code, mode`, courseColumns)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, dept); err != nil {
		return nil, fmt.Errorf("list unassigned courses: %w", err)
	}
	return courses, nil
}

// CountByDepartment returns the number of courses in a department.
func (r *CourseRepository) CountByDepartment(ctx context.Context, dept models.Department) (int, error) {
	const query = `SELECT COUNT(*) FROM courses WHERE department = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, dept); err != nil {
		return 0, fmt.Errorf("count courses by department: %w", err)
	}
	return count, nil
}
