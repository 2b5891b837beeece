package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/pkg/database"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type lessonRepository interface {
	Create(ctx context.Context, record *models.LessonRecord) error
	FindByID(ctx context.Context, id string) (*models.LessonRecord, error)
	UpdateContent(ctx context.Context, record *models.LessonRecord) error
	ListByAssignment(ctx context.Context, courseID string, mode *models.Mode, lecturerID string) ([]models.LessonRecord, error)
	ListByDepartment(ctx context.Context, dept models.Department) ([]models.LessonRecordDetail, error)
}

type lessonAssignmentReader interface {
	ExistsForLecturer(ctx context.Context, courseID, lecturerID string, mode *models.Mode) (bool, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]models.AssignmentWithCourse, error)
	ListWithLessonCounts(ctx context.Context, lecturerID string) ([]models.AssignedCourseCount, error)
}

type lessonCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// LessonService covers lecturer lesson-record logging and retrieval.
type LessonService struct {
	lessons     lessonRepository
	assignments lessonAssignmentReader
	courses     lessonCourseReader
	cache       dashboardCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(lessons lessonRepository, assignments lessonAssignmentReader, courses lessonCourseReader, cache dashboardCache, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LessonService{lessons: lessons, assignments: assignments, courses: courses, cache: cache, validator: validate, logger: logger}
}

// CreateRecord logs a teaching session for a course the caller is
// assigned to. One record is allowed per course, mode and calendar date.
func (s *LessonService) CreateRecord(ctx context.Context, caller *models.Claims, req models.CreateLessonRecordRequest) (*models.LessonRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson record payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	mode := req.Mode
	assigned, err := s.assignments.ExistsForLecturer(ctx, course.ID, caller.UserID, &mode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if !assigned {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not assigned to this course")
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
	}
	start, end, err := parseSessionTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	record := &models.LessonRecord{
		CourseID:          course.ID,
		LecturerID:        caller.UserID,
		Mode:              mode,
		Date:              date,
		StartTime:         start,
		EndTime:           end,
		StudentAttendance: req.StudentAttendance,
		Lessons:           req.Lessons,
	}
	if err := s.lessons.Create(ctx, record); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "a lesson record already exists for this course on this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson record")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("lesson record created",
		zap.String("record_id", record.ID),
		zap.String("course_id", course.ID),
		zap.String("lecturer_id", caller.UserID))
	return record, nil
}

// UpdateRecord edits the content fields of a record. The caller must
// currently hold the assignment for the record's course and mode, so a
// reassigned course moves edit rights to the new lecturer.
func (s *LessonService) UpdateRecord(ctx context.Context, caller *models.Claims, recordID string, req models.UpdateLessonRecordRequest) (*models.LessonRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson record payload")
	}

	record, err := s.lessons.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson record")
	}

	mode := record.Mode
	assigned, err := s.assignments.ExistsForLecturer(ctx, record.CourseID, caller.UserID, &mode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if !assigned {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not assigned to this course")
	}

	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
		}
		record.Date = date
	}
	if req.StartTime != nil {
		record.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		record.EndTime = *req.EndTime
	}
	start, end, err := parseSessionTimes(record.StartTime, record.EndTime)
	if err != nil {
		return nil, err
	}
	record.StartTime = start
	record.EndTime = end
	if req.StudentAttendance != nil {
		record.StudentAttendance = *req.StudentAttendance
	}
	if req.Lessons != nil {
		record.Lessons = req.Lessons
	}

	if err := s.lessons.UpdateContent(ctx, record); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "a lesson record already exists for this course on this date")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson record")
	}

	s.invalidateDashboards(ctx)
	return record, nil
}

// AssignedCourses returns the caller's assignments with per-course record
// counts.
func (s *LessonService) AssignedCourses(ctx context.Context, lecturerID string) ([]models.AssignedCourseCount, error) {
	counts, err := s.assignments.ListWithLessonCounts(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned courses")
	}
	if counts == nil {
		counts = []models.AssignedCourseCount{}
	}
	return counts, nil
}

// Assignments returns the caller's raw assignment list.
func (s *LessonService) Assignments(ctx context.Context, lecturerID string) ([]models.AssignmentWithCourse, error) {
	assignments, err := s.assignments.ListByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if assignments == nil {
		assignments = []models.AssignmentWithCourse{}
	}
	return assignments, nil
}

// AllRecordsGrouped returns the caller's records grouped under each of
// their assignments, newest first within a group.
func (s *LessonService) AllRecordsGrouped(ctx context.Context, lecturerID string) ([]models.CourseLessonRecords, error) {
	assignments, err := s.assignments.ListByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	groups := make([]models.CourseLessonRecords, 0, len(assignments))
	for _, assignment := range assignments {
		mode := assignment.Mode
		records, err := s.lessons.ListByAssignment(ctx, assignment.Course.ID, &mode, lecturerID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lesson records")
		}
		if records == nil {
			records = []models.LessonRecord{}
		}
		groups = append(groups, models.CourseLessonRecords{
			AssignmentID:  assignment.ID,
			Course:        assignment.Course,
			Mode:          assignment.Mode,
			LessonRecords: records,
			LessonCount:   len(records),
		})
	}
	return groups, nil
}

// RecordsByCourse returns the caller's records for one assigned course.
// A nil mode covers every mode the caller holds for the course.
func (s *LessonService) RecordsByCourse(ctx context.Context, caller *models.Claims, courseID string, mode *models.Mode) ([]models.LessonRecord, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	assigned, err := s.assignments.ExistsForLecturer(ctx, course.ID, caller.UserID, mode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if !assigned {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you are not assigned to this course")
	}

	records, err := s.lessons.ListByAssignment(ctx, course.ID, mode, caller.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lesson records")
	}
	if records == nil {
		records = []models.LessonRecord{}
	}
	return records, nil
}

// DepartmentRecords returns every record logged against the department's
// courses, for HOD review.
func (s *LessonService) DepartmentRecords(ctx context.Context, callerDept models.Department) ([]models.LessonRecordDetail, error) {
	records, err := s.lessons.ListByDepartment(ctx, callerDept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department records")
	}
	if records == nil {
		records = []models.LessonRecordDetail{}
	}
	return records, nil
}

func (s *LessonService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

// parseSessionTimes validates two HH:MM values and checks the session has
// positive duration within one day.
func parseSessionTimes(startValue, endValue string) (string, string, error) {
	start, err := time.Parse(timeLayout, startValue)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "startTime must be in HH:MM format")
	}
	end, err := time.Parse(timeLayout, endValue)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "endTime must be in HH:MM format")
	}
	startMinutes := start.Hour()*60 + start.Minute()
	endMinutes := end.Hour()*60 + end.Minute()
	if endMinutes <= startMinutes {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}
	return start.Format(timeLayout), end.Format(timeLayout), nil
}
