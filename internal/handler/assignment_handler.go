package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/internal/service"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/response"
)

// AssignmentHandler wires HOD lecturer-assignment endpoints.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// AssignLecturer godoc
// @Summary Assign a lecturer
// @Description Bind a lecturer to a course in the course's mode
// @Tags HOD
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body models.AssignLecturerRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hod/assign/{courseId} [post]
func (h *AssignmentHandler) AssignLecturer(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.AssignLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.AssignLecturer(c.Request.Context(), claims, c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment, "lecturer assigned successfully")
}

// ReassignLecturer godoc
// @Summary Reassign a lecturer
// @Description Move an existing assignment to a different lecturer
// @Tags HOD
// @Accept json
// @Produce json
// @Param assignmentId path string true "Assignment ID"
// @Param payload body models.ReassignLecturerRequest true "Reassignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /hod/reassign/{assignmentId} [put]
func (h *AssignmentHandler) ReassignLecturer(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ReassignLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reassignment payload"))
		return
	}

	assignment, err := h.service.ReassignLecturer(c.Request.Context(), claims, c.Param("assignmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, assignment, "lecturer reassigned successfully")
}

// AssignmentOptions godoc
// @Summary Assignment screen data
// @Description Unassigned department courses plus the lecturer pool
// @Tags HOD
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hod/assign [get]
func (h *AssignmentHandler) AssignmentOptions(c *gin.Context) {
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

	courses, err := h.service.UnassignedCourses(c.Request.Context(), dept)
	if err != nil {
		response.Error(c, err)
		return
	}
	lecturers, err := h.service.LecturerPool(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"courses": courses, "lecturers": lecturers}, "")
}

// CurrentAssignments godoc
// @Summary Current department assignments
// @Description Assignments joined with course, lecturer and assigning HOD
// @Tags HOD
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hod/current-assignments [get]
func (h *AssignmentHandler) CurrentAssignments(c *gin.Context) {
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

	assignments, err := h.service.DepartmentAssignments(c.Request.Context(), dept)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, assignments, "")
}
