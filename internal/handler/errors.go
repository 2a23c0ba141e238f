package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"realty-dashboard/internal/period"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/service"
	"realty-dashboard/pkg/validator"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, service.ErrAgencyNotFound),
		errors.Is(err, service.ErrAgentNotFound),
		errors.Is(err, service.ErrTransactionNotFound),
		errors.Is(err, service.ErrSettingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return 404
	case errors.Is(err, service.ErrEmailExists):
		return 409
	case errors.Is(err, service.ErrPlatformPrivilege):
		return 403
	case errors.Is(err, report.ErrExportFailed):
		return 502
	case errors.Is(err, service.ErrStatsRefreshFailed):
		return 500
	case errors.Is(err, service.ErrDatesOutOfOrder),
		errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrAgentNotInAgency),
		errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrInvalidReport),
		errors.Is(err, period.ErrUnknownPeriod),
		errors.Is(err, validator.ErrValidation):
		return 400
	}
	return 500
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case 500:
		msg = "Internal server error"
	case 502:
		msg = report.ErrExportFailed.Error()
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// paramID parses the :id route parameter.
func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// bind parses and validates the JSON body. When it reports false the 400
// response is already written; return the error as is.
func bind(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := validator.Check(req); err != nil {
		return false, c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return true, nil
}
