package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/service"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

// GET /api/v1/settings?category=branding
func (h *SettingHandler) List(c *fiber.Ctx) error {
	settings, err := h.service.List(middleware.AgencyID(c), c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(settings)
}

// GET /api/v1/settings/:key
func (h *SettingHandler) Get(c *fiber.Ctx) error {
	setting, err := h.service.Get(middleware.AgencyID(c), c.Params("key"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(setting)
}

// Put upserts one setting; the key comes from the path
// PUT /api/v1/settings/:key
func (h *SettingHandler) Put(c *fiber.Ctx) error {
	var req service.SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	req.Key = c.Params("key")

	setting, err := h.service.Put(middleware.AgencyID(c), &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Setting saved", "data": setting})
}

// PutMany upserts a batch; nothing is written unless every entry is valid
// PUT /api/v1/settings
func (h *SettingHandler) PutMany(c *fiber.Ctx) error {
	var req struct {
		Settings []service.SettingRequest `json:"settings"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	settings, err := h.service.PutMany(middleware.AgencyID(c), req.Settings, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings saved", "data": settings})
}
