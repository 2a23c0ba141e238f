package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetOverview returns the landing-page summary
// Query params: recent (default 5)
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	recent := c.QueryInt("recent", 5)
	if recent <= 0 {
		recent = 5
	}

	overview, err := h.service.Overview(middleware.AgencyID(c), recent)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard overview"})
	}
	return c.JSON(overview)
}
