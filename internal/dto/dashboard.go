package dto

import "github.com/courselog/courselog-api/internal/models"

// LecturerDashboard aggregates a caller's own teaching activity. The
// weekly count covers the Sunday-Saturday window containing today in
// server-local time; recent lists hold the ten newest records by date.
type LecturerDashboard struct {
	TotalAssignments      int                           `json:"totalAssignments"`
	TotalLessonRecords    int                           `json:"totalLessonRecords"`
	LessonRecordsThisWeek int                           `json:"lessonRecordsThisWeek"`
	AssignedCourses       []models.AssignmentWithCourse `json:"assignedCourses"`
	RecentLessonRecords   []models.LessonRecordDetail   `json:"recentLessonRecords"`
}

// DepartmentDashboard aggregates department-wide activity for an HOD.
type DepartmentDashboard struct {
	TotalCourses          int                         `json:"totalCourses"`
	TotalAssignments      int                         `json:"totalAssignments"`
	TotalLessonRecords    int                         `json:"totalLessonRecords"`
	LessonRecordsThisWeek int                         `json:"lessonRecordsThisWeek"`
	Assignments           []models.AssignmentDetail   `json:"assignments"`
	RecentLessonRecords   []models.LessonRecordDetail `json:"recentLessonRecords"`
	Lecturers             []models.UserSummary        `json:"lecturers"`
}

// HODDashboard pairs the HOD's personal teaching stats with the
// department-wide view.
type HODDashboard struct {
	Personal   LecturerDashboard   `json:"personal"`
	Department DepartmentDashboard `json:"department"`
}
