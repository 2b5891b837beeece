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

const assignmentDetailColumns = `
	ca.id, ca.mode,
	c.id AS "course.id", c.course_code AS "course.course_code", c.course_title AS "course.course_title",
	c.department AS "course.department", c.year AS "course.year", c.semester AS "course.semester",
	c.mode AS "course.mode", c.created_at AS "course.created_at", c.updated_at AS "course.updated_at"`

// AssignmentRepository provides database access for course assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment. The unique (course_id, mode) index is
// the correctness guarantee against concurrent duplicates.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.CourseAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_assignments (id, course_id, lecturer_id, assigned_by, mode, created_at)
		VALUES (:id, :course_id, :lecturer_id, :assigned_by, :mode, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID returns an assignment row by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.CourseAssignment, error) {
	const query = `SELECT id, course_id, lecturer_id, assigned_by, mode, created_at FROM course_assignments WHERE id = $1 LIMIT 1`
	var assignment models.CourseAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by id: %w", err)
	}
	return &assignment, nil
}

// FindByCourseAndMode returns the assignment for a (course, mode) pair.
func (r *AssignmentRepository) FindByCourseAndMode(ctx context.Context, courseID string, mode models.Mode) (*models.CourseAssignment, error) {
	const query = `SELECT id, course_id, lecturer_id, assigned_by, mode, created_at
		FROM course_assignments WHERE course_id = $1 AND mode = $2 LIMIT 1`
	var assignment models.CourseAssignment
	if err := r.db.GetContext(ctx, &assignment, query, courseID, mode); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment by course and mode: %w", err)
	}
	return &assignment, nil
}

// ExistsForLecturer reports whether the lecturer holds an assignment for
// the course, optionally narrowed to one mode.
func (r *AssignmentRepository) ExistsForLecturer(ctx context.Context, courseID, lecturerID string, mode *models.Mode) (bool, error) {
	query := `SELECT 1 FROM course_assignments WHERE course_id = $1 AND lecturer_id = $2`
	args := []interface{}{courseID, lecturerID}
	if mode != nil {
		query += ` AND mode = $3`
		args = append(args, *mode)
	}
	query += ` LIMIT 1`

	var exists int
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check assignment for lecturer: %w", err)
	}
	return true, nil
}

// UpdateLecturer points an existing assignment at a different lecturer.
func (r *AssignmentRepository) UpdateLecturer(ctx context.Context, id, lecturerID string) error {
	const query = `UPDATE course_assignments SET lecturer_id = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, lecturerID)
	if err != nil {
		return fmt.Errorf("update assignment lecturer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByLecturer returns a lecturer's assignments joined with courses.
func (r *AssignmentRepository) ListByLecturer(ctx context.Context, lecturerID string) ([]models.AssignmentWithCourse, error) {
	query := fmt.Sprintf(`SELECT %s
		FROM course_assignments ca
		JOIN courses c ON c.id = ca.course_id
		WHERE ca.lecturer_id = $1
		ORDER BY c.course_code, ca.mode`, assignmentDetailColumns)
	var assignments []models.AssignmentWithCourse
	if err := r.db.SelectContext(ctx, &assignments, query, lecturerID); err != nil {
		return nil, fmt.Errorf("list assignments by lecturer: %w", err)
	}
	return assignments, nil
}

// ListDetailsByDepartment returns every assignment whose course belongs to
// the department, joined with course, lecturer and assigning HOD.
func (r *AssignmentRepository) ListDetailsByDepartment(ctx context.Context, dept models.Department) ([]models.AssignmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s,
		l.id AS "lecturer.id", l.first_name || ' ' || l.last_name AS "lecturer.name",
		l.email AS "lecturer.email", l.role AS "lecturer.role", l.department AS "lecturer.department",
		ab.id AS "assigned_by.id", ab.first_name || ' ' || ab.last_name AS "assigned_by.name",
		ab.email AS "assigned_by.email", ab.role AS "assigned_by.role", ab.department AS "assigned_by.department"
		FROM course_assignments ca
		JOIN courses c ON c.id = ca.course_id
		JOIN users l ON l.id = ca.lecturer_id
		JOIN users ab ON ab.id = ca.assigned_by
		WHERE c.department = $1
		ORDER BY c.course_code, ca.mode`, assignmentDetailColumns)
	var details []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, dept); err != nil {
		return nil, fmt.Errorf("list assignment details: %w", err)
	}
	return details, nil
}

// ListWithLessonCounts returns a lecturer's assignments with the number of
// lesson records logged per course and mode.
func (r *AssignmentRepository) ListWithLessonCounts(ctx context.Context, lecturerID string) ([]models.AssignedCourseCount, error) {
	query := fmt.Sprintf(`SELECT %s,
		(SELECT COUNT(*) FROM lesson_records lr WHERE lr.course_id = ca.course_id AND lr.mode = ca.mode) AS lesson_count
		FROM course_assignments ca
		JOIN courses c ON c.id = ca.course_id
		WHERE ca.lecturer_id = $1
		ORDER BY c.course_code, ca.mode`, assignmentDetailColumns)
	var counts []models.AssignedCourseCount
	if err := r.db.SelectContext(ctx, &counts, query, lecturerID); err != nil {
		return nil, fmt.Errorf("list assignments with lesson counts: %w", err)
	}
	return counts, nil
}

// CountByLecturer returns the number of assignments held by a lecturer.
func (r *AssignmentRepository) CountByLecturer(ctx context.Context, lecturerID string) (int, error) {
	const query = `SELECT COUNT(*) FROM course_assignments WHERE lecturer_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, lecturerID); err != nil {
		return 0, fmt.Errorf("count assignments by lecturer: %w", err)
	}
	return count, nil
}
