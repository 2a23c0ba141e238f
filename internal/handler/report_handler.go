package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/service"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Widgets lists the widget types a report may use
// GET /api/v1/reports/widgets
func (h *ReportHandler) Widgets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.Catalogue()})
}

// Compose resolves widget data and returns the row layout
// POST /api/v1/reports/compose
func (h *ReportHandler) Compose(c *fiber.Ctx) error {
	var cfg report.Configuration
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	doc, err := h.service.Compose(c.UserContext(), middleware.AgencyID(c), &cfg)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(doc)
}

// Export renders the report to PDF
// POST /api/v1/reports/export
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	var cfg report.Configuration
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	pdf, err := h.service.Export(c.UserContext(), middleware.AgencyID(c), &cfg)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="report.pdf"`)
	return c.Send(pdf)
}
