package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/internal/service"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/response"
)

// CourseHandler wires HOD course management endpoints.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// AddCourse godoc
// @Summary Add a course
// @Description Create a course in the caller's department
// @Tags HOD
// @Accept json
// @Produce json
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /hod/course [post]
func (h *CourseHandler) AddCourse(c *gin.Context) {
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

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.AddCourse(c.Request.Context(), dept, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, course, "course created successfully")
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Partially update a course in the caller's department
// @Tags HOD
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param payload body models.UpdateCourseRequest true "Course patch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hod/course/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
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

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.UpdateCourse(c.Request.Context(), dept, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, course, "course updated successfully")
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Remove a course and its assignments
// @Tags HOD
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hod/course/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
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

	if err := h.service.DeleteCourse(c.Request.Context(), dept, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, nil, "course deleted successfully")
}

// ListCourses godoc
// @Summary List department courses
// @Tags HOD
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hod/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
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

	courses, err := h.service.ListDepartmentCourses(c.Request.Context(), dept)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, courses, "")
}
