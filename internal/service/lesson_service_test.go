package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

type mockLessonRepo struct {
	created      *models.LessonRecord
	createErr    error
	byID         *models.LessonRecord
	updated      *models.LessonRecord
	updateErr    error
	byAssignment []models.LessonRecord
	byDepartment []models.LessonRecordDetail
	recentByLect []models.LessonRecordDetail
	recentByDept []models.LessonRecordDetail
	lectCount    int
	lectWeek     int
	deptCount    int
	deptWeek     int
}

func (m *mockLessonRepo) Create(ctx context.Context, record *models.LessonRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	record.ID = "new-record"
	m.created = record
	return nil
}

func (m *mockLessonRepo) FindByID(ctx context.Context, id string) (*models.LessonRecord, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	return m.byID, nil
}

func (m *mockLessonRepo) UpdateContent(ctx context.Context, record *models.LessonRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = record
	return nil
}

func (m *mockLessonRepo) ListByAssignment(ctx context.Context, courseID string, mode *models.Mode, lecturerID string) ([]models.LessonRecord, error) {
	return m.byAssignment, nil
}

func (m *mockLessonRepo) ListByDepartment(ctx context.Context, dept models.Department) ([]models.LessonRecordDetail, error) {
	return m.byDepartment, nil
}

func (m *mockLessonRepo) ListRecentByLecturer(ctx context.Context, lecturerID string, limit int) ([]models.LessonRecordDetail, error) {
	return m.recentByLect, nil
}

func (m *mockLessonRepo) ListRecentByDepartment(ctx context.Context, dept models.Department, limit int) ([]models.LessonRecordDetail, error) {
	return m.recentByDept, nil
}

func (m *mockLessonRepo) CountByLecturer(ctx context.Context, lecturerID string) (int, error) {
	return m.lectCount, nil
}

func (m *mockLessonRepo) CountByLecturerBetween(ctx context.Context, lecturerID string, from, to time.Time) (int, error) {
	return m.lectWeek, nil
}

func (m *mockLessonRepo) CountByDepartment(ctx context.Context, dept models.Department) (int, error) {
	return m.deptCount, nil
}

func (m *mockLessonRepo) CountByDepartmentBetween(ctx context.Context, dept models.Department, from, to time.Time) (int, error) {
	return m.deptWeek, nil
}

func lecturerClaims() *models.Claims {
	dept := models.DepartmentIT
	return &models.Claims{
		UserID:     "lect-1",
		Role:       models.RoleLecturer,
		Department: &dept,
		IsActive:   true,
	}
}

func validLessonRequest() models.CreateLessonRecordRequest {
	return models.CreateLessonRecordRequest{
		CourseID:          "c1",
		Mode:              models.ModeFulltime,
		Date:              "2025-03-10",
		StartTime:         "09:00",
		EndTime:           "11:00",
		StudentAttendance: 32,
		Lessons:           []string{"Normalization", "ER diagrams"},
	}
}

func newLessonService(lessons *mockLessonRepo, assignments *mockAssignmentRepo, courses *mockCourseRepo, cache *mockCache) *LessonService {
	// Avoid storing a typed nil in the cache interface so the service's
	// nil-cache guard applies when no cache is supplied.
	if cache == nil {
		return NewLessonService(lessons, assignments, courses, nil, validator.New(), zap.NewNop())
	}
	return NewLessonService(lessons, assignments, courses, cache, validator.New(), zap.NewNop())
}

func TestCreateRecordSuccess(t *testing.T) {
	lessons := &mockLessonRepo{}
	assignments := &mockAssignmentRepo{existsAssignment: true}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Department: models.DepartmentIT, Mode: models.ModeFulltime}}
	cache := &mockCache{}
	svc := newLessonService(lessons, assignments, courses, cache)

	record, err := svc.CreateRecord(context.Background(), lecturerClaims(), validLessonRequest())
	require.NoError(t, err)
	assert.Equal(t, "lect-1", record.LecturerID)
	assert.Equal(t, "09:00", record.StartTime)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), record.Date)
	assert.Contains(t, cache.deletedPatterns, "dash:*")
}

func TestCreateRecordUnassignedCourseForbidden(t *testing.T) {
	assignments := &mockAssignmentRepo{existsAssignment: false}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Department: models.DepartmentIT, Mode: models.ModeFulltime}}
	svc := newLessonService(&mockLessonRepo{}, assignments, courses, nil)

	_, err := svc.CreateRecord(context.Background(), lecturerClaims(), validLessonRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, "you are not assigned to this course", appErr.Message)
}

func TestCreateRecordCourseNotFound(t *testing.T) {
	svc := newLessonService(&mockLessonRepo{}, &mockAssignmentRepo{}, &mockCourseRepo{}, nil)

	_, err := svc.CreateRecord(context.Background(), lecturerClaims(), validLessonRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateRecordEndBeforeStart(t *testing.T) {
	assignments := &mockAssignmentRepo{existsAssignment: true}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Mode: models.ModeFulltime}}
	svc := newLessonService(&mockLessonRepo{}, assignments, courses, nil)

	req := validLessonRequest()
	req.StartTime = "11:00"
	req.EndTime = "09:00"
	_, err := svc.CreateRecord(context.Background(), lecturerClaims(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req.EndTime = "11:00"
	_, err = svc.CreateRecord(context.Background(), lecturerClaims(), req)
	require.Error(t, err)
}

func TestCreateRecordBadDate(t *testing.T) {
	assignments := &mockAssignmentRepo{existsAssignment: true}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Mode: models.ModeFulltime}}
	svc := newLessonService(&mockLessonRepo{}, assignments, courses, nil)

	req := validLessonRequest()
	req.Date = "10/03/2025"
	_, err := svc.CreateRecord(context.Background(), lecturerClaims(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateRecordZeroAttendanceRejected(t *testing.T) {
	assignments := &mockAssignmentRepo{existsAssignment: true}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Mode: models.ModeFulltime}}
	svc := newLessonService(&mockLessonRepo{}, assignments, courses, nil)

	req := validLessonRequest()
	req.StudentAttendance = 0
	_, err := svc.CreateRecord(context.Background(), lecturerClaims(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateRecordZeroAttendanceRejected(t *testing.T) {
	lessons := &mockLessonRepo{byID: &models.LessonRecord{
		ID: "r1", CourseID: "c1", LecturerID: "lect-1", Mode: models.ModeFulltime,
		StartTime: "09:00", EndTime: "11:00", StudentAttendance: 32,
	}}
	svc := newLessonService(lessons, &mockAssignmentRepo{existsAssignment: true}, &mockCourseRepo{}, nil)

	attendance := 0
	_, err := svc.UpdateRecord(context.Background(), lecturerClaims(), "r1", models.UpdateLessonRecordRequest{StudentAttendance: &attendance})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Nil(t, lessons.updated)
}

func TestCreateRecordDuplicateDate(t *testing.T) {
	lessons := &mockLessonRepo{createErr: &pq.Error{Code: "23505"}}
	assignments := &mockAssignmentRepo{existsAssignment: true}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Mode: models.ModeFulltime}}
	svc := newLessonService(lessons, assignments, courses, nil)

	_, err := svc.CreateRecord(context.Background(), lecturerClaims(), validLessonRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
}

func TestUpdateRecordRequiresCurrentAssignment(t *testing.T) {
	// The original creator lost the assignment, so the edit is refused
	// even though the record carries their id.
	lessons := &mockLessonRepo{byID: &models.LessonRecord{
		ID: "r1", CourseID: "c1", LecturerID: "lect-1", Mode: models.ModeFulltime,
		StartTime: "09:00", EndTime: "11:00",
	}}
	assignments := &mockAssignmentRepo{existsAssignment: false}
	svc := newLessonService(lessons, assignments, &mockCourseRepo{}, nil)

	attendance := 20
	_, err := svc.UpdateRecord(context.Background(), lecturerClaims(), "r1", models.UpdateLessonRecordRequest{StudentAttendance: &attendance})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, "you are not assigned to this course", appErr.Message)
	assert.Equal(t, "c1", assignments.existsCourseID)
	require.NotNil(t, assignments.existsMode)
	assert.Equal(t, models.ModeFulltime, *assignments.existsMode)
}

func TestUpdateRecordAllowsCurrentAssignee(t *testing.T) {
	// The course was reassigned, so the new holder edits a record
	// created by the previous lecturer.
	lessons := &mockLessonRepo{byID: &models.LessonRecord{
		ID: "r1", CourseID: "c1", LecturerID: "previous-lect", Mode: models.ModeFulltime,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00", EndTime: "11:00", StudentAttendance: 32,
	}}
	assignments := &mockAssignmentRepo{existsAssignment: true}
	svc := newLessonService(lessons, assignments, &mockCourseRepo{}, nil)

	attendance := 20
	record, err := svc.UpdateRecord(context.Background(), lecturerClaims(), "r1", models.UpdateLessonRecordRequest{StudentAttendance: &attendance})
	require.NoError(t, err)
	assert.Equal(t, 20, record.StudentAttendance)
}

func TestUpdateRecordPartial(t *testing.T) {
	lessons := &mockLessonRepo{byID: &models.LessonRecord{
		ID: "r1", CourseID: "c1", LecturerID: "lect-1", Mode: models.ModeFulltime,
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00", EndTime: "11:00", StudentAttendance: 32,
		Lessons: pq.StringArray{"Normalization"},
	}}
	cache := &mockCache{}
	svc := newLessonService(lessons, &mockAssignmentRepo{existsAssignment: true}, &mockCourseRepo{}, cache)

	attendance := 28
	record, err := svc.UpdateRecord(context.Background(), lecturerClaims(), "r1", models.UpdateLessonRecordRequest{StudentAttendance: &attendance})
	require.NoError(t, err)
	assert.Equal(t, 28, record.StudentAttendance)
	assert.Equal(t, "09:00", record.StartTime)
	assert.Contains(t, cache.deletedPatterns, "dash:*")
}

func TestRecordsByCourseRequiresAssignment(t *testing.T) {
	assignments := &mockAssignmentRepo{existsAssignment: false}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Mode: models.ModeFulltime}}
	svc := newLessonService(&mockLessonRepo{}, assignments, courses, nil)

	mode := models.ModeFulltime
	_, err := svc.RecordsByCourse(context.Background(), lecturerClaims(), "c1", &mode)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestRecordsByCourseWithoutMode(t *testing.T) {
	lessons := &mockLessonRepo{byAssignment: []models.LessonRecord{
		{ID: "r1", Mode: models.ModeFulltime},
		{ID: "r2", Mode: models.ModeParttime},
	}}
	assignments := &mockAssignmentRepo{existsAssignment: true}
	courses := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Mode: models.ModeFulltime}}
	svc := newLessonService(lessons, assignments, courses, nil)

	records, err := svc.RecordsByCourse(context.Background(), lecturerClaims(), "c1", nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Nil(t, assignments.existsMode)
}

func TestAllRecordsGrouped(t *testing.T) {
	lessons := &mockLessonRepo{byAssignment: []models.LessonRecord{{ID: "r1"}, {ID: "r2"}}}
	assignments := &mockAssignmentRepo{byLecturer: []models.AssignmentWithCourse{
		{ID: "a1", Mode: models.ModeFulltime, Course: models.Course{ID: "c1", Code: "ITC101"}},
	}}
	svc := newLessonService(lessons, assignments, &mockCourseRepo{}, nil)

	groups, err := svc.AllRecordsGrouped(context.Background(), "lect-1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "a1", groups[0].AssignmentID)
	assert.Equal(t, 2, groups[0].LessonCount)
}
