package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/service"
)

type AgencyHandler struct {
	service service.AgencyService
}

func NewAgencyHandler(s service.AgencyService) *AgencyHandler {
	return &AgencyHandler{service: s}
}

// GET /api/v1/agencies
func (h *AgencyHandler) List(c *fiber.Ctx) error {
	agencies, err := h.service.List()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch agencies"})
	}
	return c.JSON(agencies)
}

// GET /api/v1/agencies/:id
func (h *AgencyHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agency ID"})
	}
	agency, err := h.service.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(agency)
}

// POST /api/v1/agencies
func (h *AgencyHandler) Create(c *fiber.Ctx) error {
	var req service.AgencyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	agency, err := h.service.Create(&req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Agency created successfully",
		"data":    agency,
	})
}

// PUT /api/v1/agencies/:id
func (h *AgencyHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agency ID"})
	}
	var req service.AgencyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	agency, err := h.service.Update(id, &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Agency updated successfully",
		"data":    agency,
	})
}

// DELETE /api/v1/agencies/:id
func (h *AgencyHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agency ID"})
	}
	if err := h.service.Delete(id, middleware.Actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Agency deleted successfully"})
}
