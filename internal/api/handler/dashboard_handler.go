package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/smarttask/smarttask/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Admin handles GET /admin/dashboard.
//
// @Summary      Admin overview
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminDashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/dashboard [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	d, err := h.service.AdminDashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminDashboardResponse{
		Counts:  d.Counts,
		Clients: toUserResponses(d.Clients),
		Recent:  toTaskResponses(d.Recent, actor.Role),
		DueSoon: toTaskResponses(d.DueSoon, actor.Role),
	})
}

// Client handles GET /client/dashboard.
//
// @Summary      Client overview
// @Tags         client
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientDashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /client/dashboard [get]
func (h *DashboardHandler) Client(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	d, err := h.service.ClientDashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clientDashboardResponse{
		Counts:        d.Counts,
		Recent:        toTaskResponses(d.Recent, actor.Role),
		DueSoon:       toTaskResponses(d.DueSoon, actor.Role),
		Notifications: toNotificationResponses(d.Notifications),
	})
}

// Clients handles GET /admin/clients.
//
// @Summary      Per-client completion statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   clientStatsResponse
// @Failure      403  {object}  errorResponse
// @Router       /admin/clients [get]
func (h *DashboardHandler) Clients(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.service.ClientOverview(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	resp := make([]clientStatsResponse, 0, len(stats))
	for _, s := range stats {
		resp = append(resp, clientStatsResponse{
			Client:         toUserResponse(s.Client),
			TotalTasks:     s.TotalTasks,
			CompletedTasks: s.CompletedTasks,
			CompletionRate: s.CompletionRate,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
