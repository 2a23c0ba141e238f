package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/service"
)

type AgentHandler struct {
	service      service.AgentService
	statsService service.StatsService
}

func NewAgentHandler(s service.AgentService, statsService service.StatsService) *AgentHandler {
	return &AgentHandler{service: s, statsService: statsService}
}

// List returns one page of the agency's agents
// GET /api/v1/agents?search=&sortBy=&sortDirection=&page=&pageSize=&role=&isActive=
func (h *AgentHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(middleware.AgencyID(c), listQuery(c, "role", "isActive"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch agents"})
	}
	return c.JSON(page)
}

// Performance ranks agents by commission over a period
// GET /api/v1/agents/performance?period=12m
func (h *AgentHandler) Performance(c *fiber.Ctx) error {
	rows, err := h.statsService.AgentPerformance(middleware.AgencyID(c), c.Query("period"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": rows})
}

// GET /api/v1/agents/:id
func (h *AgentHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agent ID"})
	}
	agent, err := h.service.Get(middleware.AgencyID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(agent)
}

// POST /api/v1/agents
func (h *AgentHandler) Create(c *fiber.Ctx) error {
	var req service.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	agent, err := h.service.Create(middleware.AgencyID(c), &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "Agent created successfully",
		"data":    agent,
	})
}

// PUT /api/v1/agents/:id
func (h *AgentHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agent ID"})
	}
	var req service.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	agent, err := h.service.Update(middleware.AgencyID(c), id, &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Agent updated successfully",
		"data":    agent,
	})
}

// DELETE /api/v1/agents/:id
func (h *AgentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid agent ID"})
	}
	if err := h.service.Delete(middleware.AgencyID(c), id, middleware.Actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Agent deleted successfully"})
}
