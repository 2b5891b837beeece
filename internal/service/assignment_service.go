package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/pkg/database"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.CourseAssignment) error
	FindByID(ctx context.Context, id string) (*models.CourseAssignment, error)
	FindByCourseAndMode(ctx context.Context, courseID string, mode models.Mode) (*models.CourseAssignment, error)
	UpdateLecturer(ctx context.Context, id, lecturerID string) error
	ListDetailsByDepartment(ctx context.Context, dept models.Department) ([]models.AssignmentDetail, error)
}

type assignmentCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListUnassignedByDepartment(ctx context.Context, dept models.Department) ([]models.Course, error)
}

type assignmentUserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListTeachingStaff(ctx context.Context) ([]models.UserSummary, error)
}

// AssignmentService covers HOD lecturer-assignment management. A course in
// one mode holds at most one lecturer; the lecturer pool spans all
// departments so visiting staff can teach anywhere.
type AssignmentService struct {
	assignments assignmentRepository
	courses     assignmentCourseReader
	users       assignmentUserReader
	cache       dashboardCache
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignments assignmentRepository, courses assignmentCourseReader, users assignmentUserReader, cache dashboardCache, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{assignments: assignments, courses: courses, users: users, cache: cache, validator: validate, logger: logger}
}

// AssignLecturer binds a lecturer to a course in the course's mode.
func (s *AssignmentService) AssignLecturer(ctx context.Context, caller *models.Claims, courseID string, req models.AssignLecturerRequest) (*models.CourseAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if caller.Department == nil || course.Department != *caller.Department {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "this course belongs to another department")
	}

	lecturer, err := s.loadAssignableLecturer(ctx, req.LecturerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.assignments.FindByCourseAndMode(ctx, course.ID, course.Mode); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "this course already has a lecturer assigned")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignment")
	}

	assignment := &models.CourseAssignment{
		CourseID:   course.ID,
		LecturerID: lecturer.ID,
		AssignedBy: caller.UserID,
		Mode:       course.Mode,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "this course already has a lecturer assigned")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.invalidateDashboards(ctx)
	s.logger.Info("lecturer assigned",
		zap.String("course_id", course.ID),
		zap.String("lecturer_id", lecturer.ID),
		zap.String("mode", string(course.Mode)))
	return assignment, nil
}

// ReassignLecturer moves an existing assignment to a different lecturer.
func (s *AssignmentService) ReassignLecturer(ctx context.Context, caller *models.Claims, assignmentID string, req models.ReassignLecturerRequest) (*models.CourseAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassignment payload")
	}

	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	course, err := s.courses.FindByID(ctx, assignment.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if caller.Department == nil || course.Department != *caller.Department {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "this course belongs to another department")
	}

	if assignment.LecturerID == req.LecturerID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "this lecturer already holds the assignment")
	}

	lecturer, err := s.loadAssignableLecturer(ctx, req.LecturerID)
	if err != nil {
		return nil, err
	}

	if err := s.assignments.UpdateLecturer(ctx, assignment.ID, lecturer.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign lecturer")
	}
	assignment.LecturerID = lecturer.ID

	s.invalidateDashboards(ctx)
	s.logger.Info("lecturer reassigned",
		zap.String("assignment_id", assignment.ID),
		zap.String("lecturer_id", lecturer.ID))
	return assignment, nil
}

// DepartmentAssignments returns every assignment in the caller's
// department, fully joined.
func (s *AssignmentService) DepartmentAssignments(ctx context.Context, callerDept models.Department) ([]models.AssignmentDetail, error) {
	details, err := s.assignments.ListDetailsByDepartment(ctx, callerDept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if details == nil {
		details = []models.AssignmentDetail{}
	}
	return details, nil
}

// UnassignedCourses returns department courses that have no lecturer yet.
func (s *AssignmentService) UnassignedCourses(ctx context.Context, callerDept models.Department) ([]models.Course, error) {
	courses, err := s.courses.ListUnassignedByDepartment(ctx, callerDept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unassigned courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// LecturerPool returns every lecturer and HOD across departments.
func (s *AssignmentService) LecturerPool(ctx context.Context) ([]models.UserSummary, error) {
	staff, err := s.users.ListTeachingStaff(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	if staff == nil {
		staff = []models.UserSummary{}
	}
	return staff, nil
}

func (s *AssignmentService) loadAssignableLecturer(ctx context.Context, lecturerID string) (*models.User, error) {
	lecturer, err := s.users.FindByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	if lecturer.Role == models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admins cannot be assigned to courses")
	}
	return lecturer, nil
}

func (s *AssignmentService) invalidateDashboards(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
