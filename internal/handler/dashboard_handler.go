package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/courselog/courselog-api/internal/service"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
	"github.com/courselog/courselog-api/pkg/response"
)

// DashboardHandler wires dashboard endpoints.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// LecturerDashboard godoc
// @Summary Personal teaching dashboard
// @Tags Lecturer
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /user/dashboard [get]
func (h *DashboardHandler) LecturerDashboard(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.service.LecturerDashboard(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dashboard, "")
}

// HODDashboard godoc
// @Summary Department dashboard
// @Tags HOD
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hod/dashboard [get]
func (h *DashboardHandler) HODDashboard(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.service.HODDashboard(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dashboard, "")
}
