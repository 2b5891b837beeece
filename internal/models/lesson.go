package models

import (
	"time"

	"github.com/lib/pq"
)

// LessonRecord is a single dated teaching-session log for an assigned
// course. The (course_id, date, mode) unique index allows one record per
// course per calendar date per mode. Course, lecturer and mode are fixed
// at creation; only the content fields may change afterwards.
type LessonRecord struct {
	ID                string         `db:"id" json:"id"`
	CourseID          string         `db:"course_id" json:"courseId"`
	LecturerID        string         `db:"lecturer_id" json:"lecturerId"`
	Mode              Mode           `db:"mode" json:"mode"`
	Date              time.Time      `db:"date" json:"date"`
	StartTime         string         `db:"start_time" json:"startTime"`
	EndTime           string         `db:"end_time" json:"endTime"`
	StudentAttendance int            `db:"student_attendance" json:"studentAttendance"`
	Lessons           pq.StringArray `db:"lessons" json:"lessons"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

// LessonRecordDetail joins a record with its course and lecturer for HOD
// and dashboard listings.
type LessonRecordDetail struct {
	LessonRecord
	Course   Course      `db:"course" json:"course"`
	Lecturer UserSummary `db:"lecturer" json:"lecturer"`
}

// CourseLessonRecords groups a lecturer's records under one assignment.
type CourseLessonRecords struct {
	AssignmentID  string         `json:"assignmentId"`
	Course        Course         `json:"course"`
	Mode          Mode           `json:"mode"`
	LessonRecords []LessonRecord `json:"lessonRecords"`
	LessonCount   int            `json:"lessonCount"`
}
