package models

// CreateCourseRequest adds a course to the caller's department. Year is
// range-checked against the department in the service because the ceiling
// differs per department.
type CreateCourseRequest struct {
	CourseID    string     `json:"courseId" validate:"required,min=2"`
	CourseTitle string     `json:"courseTitle" validate:"required,min=2"`
	Department  Department `json:"department" validate:"required,oneof=it accountancy english"`
	Year        int        `json:"year" validate:"required,min=1"`
	Semester    int        `json:"semester" validate:"required,oneof=1 2"`
	Mode        Mode       `json:"mode" validate:"required,oneof=fulltime parttime"`
}

// UpdateCourseRequest carries a partial course edit. Nil fields keep their
// stored value.
type UpdateCourseRequest struct {
	CourseID    *string     `json:"courseId" validate:"omitempty,min=2"`
	CourseTitle *string     `json:"courseTitle" validate:"omitempty,min=2"`
	Department  *Department `json:"department" validate:"omitempty,oneof=it accountancy english"`
	Year        *int        `json:"year" validate:"omitempty,min=1"`
	Semester    *int        `json:"semester" validate:"omitempty,oneof=1 2"`
	Mode        *Mode       `json:"mode" validate:"omitempty,oneof=fulltime parttime"`
}

// AssignLecturerRequest binds a lecturer to a course in the course's
// mode. The course comes from the route path.
type AssignLecturerRequest struct {
	LecturerID string `json:"lecturerId" validate:"required"`
}

// ReassignLecturerRequest moves an existing assignment to a new lecturer.
type ReassignLecturerRequest struct {
	LecturerID string `json:"lecturerId" validate:"required"`
}

// CreateLessonRecordRequest logs one teaching session. Date is a calendar
// day in YYYY-MM-DD form; times are 24-hour HH:MM strings checked in the
// service so the end can be compared against the start.
type CreateLessonRecordRequest struct {
	CourseID          string   `json:"courseId" validate:"required"`
	Mode              Mode     `json:"mode" validate:"required,oneof=fulltime parttime"`
	Date              string   `json:"date" validate:"required"`
	StartTime         string   `json:"startTime" validate:"required"`
	EndTime           string   `json:"endTime" validate:"required"`
	StudentAttendance int      `json:"studentAttendance" validate:"required,min=1"`
	Lessons           []string `json:"lessons" validate:"required,min=1,dive,required"`
}

// UpdateLessonRecordRequest edits the content fields of a record. Course,
// lecturer and mode cannot change after creation.
type UpdateLessonRecordRequest struct {
	Date              *string  `json:"date"`
	StartTime         *string  `json:"startTime"`
	EndTime           *string  `json:"endTime"`
	StudentAttendance *int     `json:"studentAttendance" validate:"omitempty,min=1"`
	Lessons           []string `json:"lessons" validate:"omitempty,min=1,dive,required"`
}
