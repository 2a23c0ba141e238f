package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/service"
)

type StatsHandler struct {
	service service.StatsService
}

func NewStatsHandler(s service.StatsService) *StatsHandler {
	return &StatsHandler{service: s}
}

// Current returns the persisted snapshot
// GET /api/v1/stats
func (h *StatsHandler) Current(c *fiber.Ctx) error {
	row, err := h.service.Current(middleware.AgencyID(c))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	return c.JSON(row)
}

// Refresh recomputes the snapshot now
// POST /api/v1/stats/update
func (h *StatsHandler) Refresh(c *fiber.Ctx) error {
	row, err := h.service.Refresh(c.UserContext(), middleware.AgencyID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stats updated", "data": row})
}

// Monthly returns sold count and revenue per calendar month
// GET /api/v1/stats/monthly?period=12m
func (h *StatsHandler) Monthly(c *fiber.Ctx) error {
	points, err := h.service.Monthly(middleware.AgencyID(c), c.Query("period"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": points})
}
