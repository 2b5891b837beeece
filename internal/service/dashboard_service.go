package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/dto"
	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

const recentRecordLimit = 10

type dashboardLessonReader interface {
	CountByLecturer(ctx context.Context, lecturerID string) (int, error)
	CountByLecturerBetween(ctx context.Context, lecturerID string, from, to time.Time) (int, error)
	ListRecentByLecturer(ctx context.Context, lecturerID string, limit int) ([]models.LessonRecordDetail, error)
	CountByDepartment(ctx context.Context, dept models.Department) (int, error)
	CountByDepartmentBetween(ctx context.Context, dept models.Department, from, to time.Time) (int, error)
	ListRecentByDepartment(ctx context.Context, dept models.Department, limit int) ([]models.LessonRecordDetail, error)
}

type dashboardAssignmentReader interface {
	CountByLecturer(ctx context.Context, lecturerID string) (int, error)
	ListByLecturer(ctx context.Context, lecturerID string) ([]models.AssignmentWithCourse, error)
	ListDetailsByDepartment(ctx context.Context, dept models.Department) ([]models.AssignmentDetail, error)
}

type dashboardCourseReader interface {
	CountByDepartment(ctx context.Context, dept models.Department) (int, error)
}

type dashboardUserReader interface {
	ListByDepartment(ctx context.Context, dept models.Department) ([]models.UserSummary, error)
}

// DashboardConfig controls dashboard response caching.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// DashboardService aggregates teaching activity for lecturer and HOD
// home screens. Payloads are cached per user and invalidated by write
// paths elsewhere in the service layer.
type DashboardService struct {
	lessons     dashboardLessonReader
	assignments dashboardAssignmentReader
	courses     dashboardCourseReader
	users       dashboardUserReader
	cache       dashboardCache
	config      DashboardConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(lessons dashboardLessonReader, assignments dashboardAssignmentReader, courses dashboardCourseReader, users dashboardUserReader, cache dashboardCache, config DashboardConfig, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		lessons:     lessons,
		assignments: assignments,
		courses:     courses,
		users:       users,
		cache:       cache,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// LecturerDashboard returns the caller's personal teaching summary.
func (s *DashboardService) LecturerDashboard(ctx context.Context, caller *models.Claims) (*dto.LecturerDashboard, error) {
	cacheKey := "dash:lecturer:" + caller.UserID
	if s.cacheEnabled() {
		var cached dto.LecturerDashboard
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	dashboard, err := s.buildLecturerDashboard(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	s.storeCache(ctx, cacheKey, dashboard)
	return dashboard, nil
}

// HODDashboard pairs the caller's personal summary with the
// department-wide view.
func (s *DashboardService) HODDashboard(ctx context.Context, caller *models.Claims) (*dto.HODDashboard, error) {
	if caller.Department == nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "no department on record for this account")
	}
	dept := *caller.Department

	cacheKey := "dash:hod:" + caller.UserID
	if s.cacheEnabled() {
		var cached dto.HODDashboard
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	personal, err := s.buildLecturerDashboard(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	from, to := weekBounds(s.now())

	totalCourses, err := s.courses.CountByDepartment(ctx, dept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	assignments, err := s.assignments.ListDetailsByDepartment(ctx, dept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	if assignments == nil {
		assignments = []models.AssignmentDetail{}
	}
	totalRecords, err := s.lessons.CountByDepartment(ctx, dept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lesson records")
	}
	weekRecords, err := s.lessons.CountByDepartmentBetween(ctx, dept, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count weekly lesson records")
	}
	recent, err := s.lessons.ListRecentByDepartment(ctx, dept, recentRecordLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent lesson records")
	}
	if recent == nil {
		recent = []models.LessonRecordDetail{}
	}
	lecturers, err := s.users.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department staff")
	}
	if lecturers == nil {
		lecturers = []models.UserSummary{}
	}

	dashboard := &dto.HODDashboard{
		Personal: *personal,
		Department: dto.DepartmentDashboard{
			TotalCourses:          totalCourses,
			TotalAssignments:      len(assignments),
			TotalLessonRecords:    totalRecords,
			LessonRecordsThisWeek: weekRecords,
			Assignments:           assignments,
			RecentLessonRecords:   recent,
			Lecturers:             lecturers,
		},
	}

	s.storeCache(ctx, cacheKey, dashboard)
	return dashboard, nil
}

func (s *DashboardService) buildLecturerDashboard(ctx context.Context, lecturerID string) (*dto.LecturerDashboard, error) {
	from, to := weekBounds(s.now())

	totalAssignments, err := s.assignments.CountByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assignments")
	}
	totalRecords, err := s.lessons.CountByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count lesson records")
	}
	weekRecords, err := s.lessons.CountByLecturerBetween(ctx, lecturerID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count weekly lesson records")
	}
	assignedCourses, err := s.assignments.ListByLecturer(ctx, lecturerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assigned courses")
	}
	if assignedCourses == nil {
		assignedCourses = []models.AssignmentWithCourse{}
	}
	recent, err := s.lessons.ListRecentByLecturer(ctx, lecturerID, recentRecordLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recent lesson records")
	}
	if recent == nil {
		recent = []models.LessonRecordDetail{}
	}

	return &dto.LecturerDashboard{
		TotalAssignments:      totalAssignments,
		TotalLessonRecords:    totalRecords,
		LessonRecordsThisWeek: weekRecords,
		AssignedCourses:       assignedCourses,
		RecentLessonRecords:   recent,
	}, nil
}

func (s *DashboardService) cacheEnabled() bool {
	return s.cache != nil && s.config.CacheEnabled
}

func (s *DashboardService) storeCache(ctx context.Context, key string, value interface{}) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// weekBounds returns the Sunday and Saturday of the week containing the
// given instant, at midnight local time.
func weekBounds(at time.Time) (time.Time, time.Time) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 6)
	return start, end
}
