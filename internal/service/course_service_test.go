package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

type mockCourseRepo struct {
	created        *models.Course
	createErr      error
	courseByID     *models.Course
	findByIDErr    error
	codeConflict   *models.Course
	updated        *models.Course
	updateErr      error
	deletedID      string
	deleteErr      error
	listed         []models.Course
	listErr        error
	unassigned     []models.Course
	countErr       error
	hasAssignments bool
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	course.ID = "new-course"
	m.created = course
	return nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	if m.courseByID == nil {
		return nil, sql.ErrNoRows
	}
	return m.courseByID, nil
}

func (m *mockCourseRepo) FindByCodeAndMode(ctx context.Context, code string, mode models.Mode, excludeID string) (*models.Course, error) {
	if m.codeConflict != nil {
		return m.codeConflict, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = course
	return nil
}

func (m *mockCourseRepo) HasAssignments(ctx context.Context, id string) (bool, error) {
	return m.hasAssignments, nil
}

func (m *mockCourseRepo) DeleteWithAssignments(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = id
	return nil
}

func (m *mockCourseRepo) ListByDepartment(ctx context.Context, dept models.Department) ([]models.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listed, nil
}

func (m *mockCourseRepo) ListUnassignedByDepartment(ctx context.Context, dept models.Department) ([]models.Course, error) {
	return m.unassigned, nil
}

func (m *mockCourseRepo) CountByDepartment(ctx context.Context, dept models.Department) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.listed), nil
}

type mockCache struct {
	store           map[string][]byte
	deletedPatterns []string
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	m.store[key] = nil
	return nil
}

func (m *mockCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPatterns = append(m.deletedPatterns, pattern)
	return nil
}

func newCourseService(repo *mockCourseRepo, cache *mockCache) *CourseService {
	// Avoid storing a typed nil in the dashboardCache interface so the
	// service's nil-cache guard applies when no cache is supplied.
	if cache == nil {
		return NewCourseService(repo, nil, validator.New(), zap.NewNop())
	}
	return NewCourseService(repo, cache, validator.New(), zap.NewNop())
}

func validCourseRequest() models.CreateCourseRequest {
	return models.CreateCourseRequest{
		CourseID:    "ITC101",
		CourseTitle: "Intro to Computing",
		Department:  models.DepartmentIT,
		Year:        1,
		Semester:    1,
		Mode:        models.ModeFulltime,
	}
}

func TestAddCourseSuccess(t *testing.T) {
	repo := &mockCourseRepo{}
	cache := &mockCache{}
	svc := newCourseService(repo, cache)

	course, err := svc.AddCourse(context.Background(), models.DepartmentIT, validCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, "ITC101", course.Code)
	assert.Contains(t, cache.deletedPatterns, "dash:*")
}

func TestAddCourseOtherDepartmentRejected(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, nil)

	_, err := svc.AddCourse(context.Background(), models.DepartmentEnglish, validCourseRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "you can only add courses within your own department", appErr.Message)
}

func TestAddCourseYearCeilingPerDepartment(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo, nil)

	req := validCourseRequest()
	req.Year = 3
	_, err := svc.AddCourse(context.Background(), models.DepartmentIT, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validCourseRequest()
	req.Department = models.DepartmentAccountancy
	req.Year = 4
	_, err = svc.AddCourse(context.Background(), models.DepartmentAccountancy, req)
	require.NoError(t, err)
}

func TestAddCourseDuplicateCode(t *testing.T) {
	repo := &mockCourseRepo{codeConflict: &models.Course{ID: "c-existing"}}
	svc := newCourseService(repo, nil)

	_, err := svc.AddCourse(context.Background(), models.DepartmentIT, validCourseRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErrors.FromError(err).Code)
}

func TestUpdateCourseOtherDepartmentForbidden(t *testing.T) {
	repo := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Department: models.DepartmentEnglish, Year: 1}}
	svc := newCourseService(repo, nil)

	title := "New Title"
	_, err := svc.UpdateCourse(context.Background(), models.DepartmentIT, "c1", models.UpdateCourseRequest{CourseTitle: &title})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUpdateCoursePartial(t *testing.T) {
	repo := &mockCourseRepo{courseByID: &models.Course{
		ID: "c1", Code: "ITC101", Title: "Old", Department: models.DepartmentIT,
		Year: 1, Semester: 1, Mode: models.ModeFulltime,
	}}
	svc := newCourseService(repo, &mockCache{})

	title := "Advanced Computing"
	course, err := svc.UpdateCourse(context.Background(), models.DepartmentIT, "c1", models.UpdateCourseRequest{CourseTitle: &title})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Computing", course.Title)
	assert.Equal(t, "ITC101", course.Code)
	require.NotNil(t, repo.updated)
}

func TestUpdateCourseModeFrozenWhileAssigned(t *testing.T) {
	repo := &mockCourseRepo{
		courseByID: &models.Course{
			ID: "c1", Code: "ITC101", Department: models.DepartmentIT,
			Year: 1, Semester: 1, Mode: models.ModeFulltime,
		},
		hasAssignments: true,
	}
	svc := newCourseService(repo, nil)

	mode := models.ModeParttime
	_, err := svc.UpdateCourse(context.Background(), models.DepartmentIT, "c1", models.UpdateCourseRequest{Mode: &mode})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "course mode cannot change while a lecturer is assigned", appErr.Message)
	assert.Nil(t, repo.updated)
}

func TestUpdateCourseModeChangeWithoutAssignments(t *testing.T) {
	repo := &mockCourseRepo{courseByID: &models.Course{
		ID: "c1", Code: "ITC101", Department: models.DepartmentIT,
		Year: 1, Semester: 1, Mode: models.ModeFulltime,
	}}
	svc := newCourseService(repo, nil)

	mode := models.ModeParttime
	course, err := svc.UpdateCourse(context.Background(), models.DepartmentIT, "c1", models.UpdateCourseRequest{Mode: &mode})
	require.NoError(t, err)
	assert.Equal(t, models.ModeParttime, course.Mode)
}

func TestDeleteCourseNotFound(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseService(repo, nil)

	err := svc.DeleteCourse(context.Background(), models.DepartmentIT, "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteCourseCascades(t *testing.T) {
	repo := &mockCourseRepo{courseByID: &models.Course{ID: "c1", Department: models.DepartmentIT}}
	cache := &mockCache{}
	svc := newCourseService(repo, cache)

	err := svc.DeleteCourse(context.Background(), models.DepartmentIT, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", repo.deletedID)
	assert.Contains(t, cache.deletedPatterns, "dash:*")
}

func TestListDepartmentCoursesNeverNil(t *testing.T) {
	svc := newCourseService(&mockCourseRepo{}, nil)

	courses, err := svc.ListDepartmentCourses(context.Background(), models.DepartmentIT)
	require.NoError(t, err)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)
}
