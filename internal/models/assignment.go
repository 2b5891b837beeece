package models

import "time"

// CourseAssignment binds one lecturer to one (course, mode) pair. The
// (course_id, mode) unique index enforces a single lecturer per pair; the
// mode column copies the course's mode at creation time.
type CourseAssignment struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"course_id" json:"courseId"`
	LecturerID string    `db:"lecturer_id" json:"lecturerId"`
	AssignedBy string    `db:"assigned_by" json:"assignedBy"`
	Mode       Mode      `db:"mode" json:"mode"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// AssignmentWithCourse is an assignment joined with its course, used for
// lecturer-facing listings.
type AssignmentWithCourse struct {
	ID     string `db:"id" json:"id"`
	Mode   Mode   `db:"mode" json:"mode"`
	Course Course `db:"course" json:"course"`
}

// AssignmentDetail is the fully joined shape for HOD listings.
type AssignmentDetail struct {
	ID         string      `db:"id" json:"id"`
	Mode       Mode        `db:"mode" json:"mode"`
	Course     Course      `db:"course" json:"course"`
	Lecturer   UserSummary `db:"lecturer" json:"lecturer"`
	AssignedBy UserSummary `db:"assigned_by" json:"assignedBy"`
}

// AssignedCourseCount pairs an assignment with the number of lesson
// records logged against its course and mode.
type AssignedCourseCount struct {
	ID          string `db:"id" json:"id"`
	Mode        Mode   `db:"mode" json:"mode"`
	Course      Course `db:"course" json:"course"`
	LessonCount int    `db:"lesson_count" json:"lessonCount"`
}
