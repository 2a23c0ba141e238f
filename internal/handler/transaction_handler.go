package handler

import (
	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/service"
)

// Filters accepted on GET /transactions.
var transactionFilters = []string{"propertyType", "status", "agentId", "suburb", "dateRange", "priceRange"}

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// List returns one page of the agency's transactions
// GET /api/v1/transactions?page=&pageSize=&sortBy=&sortDirection=&search=&status=&dateRange=...
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	page, err := h.service.List(middleware.AgencyID(c), listQuery(c, transactionFilters...))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(page)
}

// GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}
	tx, err := h.service.Get(middleware.AgencyID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tx)
}

// POST /api/v1/transactions
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var req service.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	tx, err := h.service.Create(middleware.AgencyID(c), &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction created", "data": tx})
}

// PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}
	var req service.TransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	tx, err := h.service.Update(middleware.AgencyID(c), id, &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction updated", "data": tx})
}

// UpdateStatus moves a transaction along the sales pipeline
// PATCH /api/v1/transactions/:id/status
func (h *TransactionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}
	var req service.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	tx, err := h.service.UpdateStatus(middleware.AgencyID(c), id, &req, middleware.Actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": tx})
}

// DELETE /api/v1/transactions/:id
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}
	if err := h.service.Delete(middleware.AgencyID(c), id, middleware.Actor(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}
