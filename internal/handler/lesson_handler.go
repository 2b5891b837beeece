package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/internal/service"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/response"
)

// LessonHandler wires lesson-record endpoints for teaching staff.
type LessonHandler struct {
	service *service.LessonService
	metrics *service.MetricsService
}

// NewLessonHandler creates a new handler.
func NewLessonHandler(svc *service.LessonService, metrics *service.MetricsService) *LessonHandler {
	return &LessonHandler{service: svc, metrics: metrics}
}

// CreateRecord godoc
// @Summary Log a lesson record
// @Description Record one taught session for an assigned course
// @Tags Lecturer
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body models.CreateLessonRecordRequest true "Lesson record payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/lesson/{courseId} [post]
func (h *LessonHandler) CreateRecord(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.CreateLessonRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson record payload"))
		return
	}
	req.CourseID = c.Param("courseId")

	record, err := h.service.CreateRecord(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordLessonCreated(string(record.Mode))
	response.Created(c, record, "lesson record created successfully")
}

// UpdateRecord godoc
// @Summary Edit a lesson record
// @Description Update the content fields of the caller's own record
// @Tags Lecturer
// @Accept json
// @Produce json
// @Param lessonRecordId path string true "Lesson record ID"
// @Param payload body models.UpdateLessonRecordRequest true "Lesson record patch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/lesson/{lessonRecordId} [put]
func (h *LessonHandler) UpdateRecord(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.UpdateLessonRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson record payload"))
		return
	}

	record, err := h.service.UpdateRecord(c.Request.Context(), claims, c.Param("lessonRecordId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, record, "lesson record updated successfully")
}

// AllRecords godoc
// @Summary Own records grouped by course
// @Tags Lecturer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /user/lessons/all [get]
func (h *LessonHandler) AllRecords(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	groups, err := h.service.AllRecordsGrouped(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, groups, "")
}

// RecordsByCourse godoc
// @Summary Own records for one course
// @Tags Lecturer
// @Produce json
// @Param courseId path string true "Course ID"
// @Param mode query string false "fulltime or parttime; omit for all modes"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /user/lesson/{courseId} [get]
func (h *LessonHandler) RecordsByCourse(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var mode *models.Mode
	if raw, exists := c.GetQuery("mode"); exists {
		value := models.Mode(strings.ToLower(raw))
		if value != models.ModeFulltime && value != models.ModeParttime {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "mode must be fulltime or parttime"))
			return
		}
		mode = &value
	}

	records, err := h.service.RecordsByCourse(c.Request.Context(), claims, c.Param("courseId"), mode)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, records, "")
}

// AssignedCourses godoc
// @Summary Own assignments
// @Tags Lecturer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /user/assigned-courses [get]
func (h *LessonHandler) AssignedCourses(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	assignments, err := h.service.Assignments(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, assignments, "")
}

// MyAssignedCourses godoc
// @Summary Own assignments with lesson counts
// @Tags Lecturer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /user/myassigned-courses [get]
func (h *LessonHandler) MyAssignedCourses(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	counts, err := h.service.AssignedCourses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, counts, "")
}

// DepartmentRecords godoc
// @Summary Department lesson records
// @Tags HOD
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hod/lessonrecords [get]
func (h *LessonHandler) DepartmentRecords(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	dept, ok := departmentFromClaims(claims)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "no department on record for this account"))
		return
	}

	records, err := h.service.DepartmentRecords(c.Request.Context(), dept)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, records, "")
}
