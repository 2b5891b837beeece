package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/pkg/database"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCodeAndMode(ctx context.Context, code string, mode models.Mode, excludeID string) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	HasAssignments(ctx context.Context, id string) (bool, error)
	DeleteWithAssignments(ctx context.Context, id string) error
	ListByDepartment(ctx context.Context, dept models.Department) ([]models.Course, error)
}

// CourseService covers HOD course management. Every operation is scoped to
// the caller's department.
type CourseService struct {
	repo      courseRepository
	cache     dashboardCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(repo courseRepository, cache dashboardCache, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// AddCourse creates a course in the caller's department.
func (s *CourseService) AddCourse(ctx context.Context, callerDept models.Department, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if req.Department != callerDept {
		return nil, appErrors.Clone(appErrors.ErrValidation, "you can only add courses within your own department")
	}
	if req.Year > models.MaxYear(req.Department) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("year must be between 1 and %d for the %s department", models.MaxYear(req.Department), req.Department))
	}

	if _, err := s.repo.FindByCodeAndMode(ctx, req.CourseID, req.Mode, ""); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "a course with this code already exists in this mode")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}

	course := &models.Course{
		Code:       req.CourseID,
		Title:      req.CourseTitle,
		Department: req.Department,
		Year:       req.Year,
		Semester:   req.Semester,
		Mode:       req.Mode,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "a course with this code already exists in this mode")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("course created",
		zap.String("course_id", course.ID),
		zap.String("course_code", course.Code),
		zap.String("mode", string(course.Mode)))
	return course, nil
}

// UpdateCourse applies a partial edit to a course in the caller's
// department. Changing the code or mode re-checks the uniqueness pair;
// the mode is frozen while an assignment references the course.
func (s *CourseService) UpdateCourse(ctx context.Context, callerDept models.Department, courseID string, req models.UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course, err := s.findDepartmentCourse(ctx, callerDept, courseID)
	if err != nil {
		return nil, err
	}

	if req.CourseID != nil {
		course.Code = *req.CourseID
	}
	if req.CourseTitle != nil {
		course.Title = *req.CourseTitle
	}
	if req.Department != nil && *req.Department != course.Department {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courses cannot move between departments")
	}
	if req.Year != nil {
		course.Year = *req.Year
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	if req.Mode != nil && *req.Mode != course.Mode {
		// Assignments carry the course's mode, so a mode switch would
		// strand them on the old value.
		assigned, err := s.repo.HasAssignments(ctx, course.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignments")
		}
		if assigned {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course mode cannot change while a lecturer is assigned")
		}
		course.Mode = *req.Mode
	}

	if course.Year > models.MaxYear(course.Department) {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("year must be between 1 and %d for the %s department", models.MaxYear(course.Department), course.Department))
	}

	if _, err := s.repo.FindByCodeAndMode(ctx, course.Code, course.Mode, course.ID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "a course with this code already exists in this mode")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}

	if err := s.repo.Update(ctx, course); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "a course with this code already exists in this mode")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidateDashboards(ctx)
	return course, nil
}

// DeleteCourse removes a course and its assignments. Lesson records keep
// their rows as a historical log of taught sessions.
func (s *CourseService) DeleteCourse(ctx context.Context, callerDept models.Department, courseID string) error {
	if _, err := s.findDepartmentCourse(ctx, callerDept, courseID); err != nil {
		return err
	}

	if err := s.repo.DeleteWithAssignments(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("course deleted", zap.String("course_id", courseID))
	return nil
}

// ListDepartmentCourses returns every course in the caller's department.
func (s *CourseService) ListDepartmentCourses(ctx context.Context, callerDept models.Department) ([]models.Course, error) {
	courses, err := s.repo.ListByDepartment(ctx, callerDept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

func (s *CourseService) findDepartmentCourse(ctx context.Context, callerDept models.Department, courseID string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.Department != callerDept {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "this course belongs to another department")
	}
	return course, nil
}

func (s *CourseService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
