package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/pkg/jwt"
)

// Locals keys set by RequireAuth and RequireTenant.
const (
	LocalUserID     = "user_id"
	LocalUserEmail  = "user_email"
	LocalUserName   = "user_name"
	LocalPrivileges = "user_privileges"
	LocalUserAgency = "user_agency_id"
	LocalAgencyID   = "agency_id"
)

// AgencyHeader lets platform users pick the agency they act on.
const AgencyHeader = "X-Agency-ID"

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Check strict session against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalPrivileges, claims.Privileges)
		// The stored agency wins over the claim so a moved user cannot keep
		// acting on the old tenant with a still-valid token.
		c.Locals(LocalUserAgency, user.AgencyID)

		return c.Next()
	}
}

func hasPrivilege(c *fiber.Ctx, code string) bool {
	privileges, _ := c.Locals(LocalPrivileges).([]string)
	for _, p := range privileges {
		if p == code {
			return true
		}
	}
	return false
}

// RequirePrivilege checks if the authenticated user has the required privilege
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(LocalPrivileges).([]string); !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}
		if hasPrivilege(c, requiredPrivilege) {
			return c.Next()
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}

// RequireAnyPrivilege checks if the user has at least one of the specified privileges
func RequireAnyPrivilege(requiredPrivileges ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range requiredPrivileges {
			if hasPrivilege(c, p) {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires one of " + strings.Join(requiredPrivileges, ", ") + " privileges",
		})
	}
}

// RequireTenant resolves the agency the request acts on. Agency users are
// pinned to their own agency; holders of agency:switch name one with the
// X-Agency-ID header.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		own, _ := c.Locals(LocalUserAgency).(*uuid.UUID)
		header := strings.TrimSpace(c.Get(AgencyHeader))

		if own != nil && !hasPrivilege(c, model.PrivAgencySwitch) {
			if header != "" && header != own.String() {
				return c.Status(403).JSON(fiber.Map{"error": "Forbidden: agency is outside your tenant"})
			}
			c.Locals(LocalAgencyID, *own)
			return c.Next()
		}

		if header == "" {
			if own != nil {
				c.Locals(LocalAgencyID, *own)
				return c.Next()
			}
			return c.Status(400).JSON(fiber.Map{"error": "Missing " + AgencyHeader + " header"})
		}
		id, err := uuid.Parse(header)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid " + AgencyHeader + " header"})
		}
		c.Locals(LocalAgencyID, id)
		return c.Next()
	}
}

// AgencyID returns the tenant resolved by RequireTenant.
func AgencyID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(LocalAgencyID).(uuid.UUID)
	return id
}

// UserAgency returns the caller's own agency, nil for platform users.
func UserAgency(c *fiber.Ctx) *uuid.UUID {
	id, _ := c.Locals(LocalUserAgency).(*uuid.UUID)
	return id
}

// Actor returns the caller id for audit columns.
func Actor(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalUserID).(string); ok && id != "" {
		return id
	}
	return "system"
}
