package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/internal/service"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/response"
)

// AdminHandler wires HTTP endpoints to the admin service.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ApproveUser godoc
// @Summary Approve a pending account
// @Description Activate an inactive lecturer or HOD account
// @Tags Admin
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/approve/{userId} [patch]
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	user, err := h.service.ApproveUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, user, "account approved successfully")
}

// ListUsers godoc
// @Summary List accounts
// @Description List accounts, optionally filtered by activation state or role
// @Tags Admin
// @Produce json
// @Param active query bool false "Filter by activation state"
// @Param role query string false "Filter by role"
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter models.UserFilter

	if raw, ok := c.GetQuery("active"); ok {
		switch strings.ToLower(raw) {
		case "true":
			active := true
			filter.Active = &active
		case "false":
			active := false
			filter.Active = &active
		default:
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be true or false"))
			return
		}
	}
	if raw, ok := c.GetQuery("role"); ok {
		role := models.Role(strings.ToLower(raw))
		if role != models.RoleAdmin && role != models.RoleLecturer && role != models.RoleHOD {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "role must be admin, lecturer or hod"))
			return
		}
		filter.Role = &role
	}

	users, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, users, "")
}
