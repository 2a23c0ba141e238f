package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"realty-dashboard/internal/middleware"
	"realty-dashboard/internal/model"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/jwt"
)

// Handlers bundles everything the API routes need.
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Role        *RoleHandler
	Agency      *AgencyHandler
	Agent       *AgentHandler
	Transaction *TransactionHandler
	Setting     *SettingHandler
	Stats       *StatsHandler
	Report      *ReportHandler
	Dashboard   *DashboardHandler
	UserRepo    repository.UserRepository
	Hub         *ws.Hub // nil disables /ws
}

// Register mounts the /api/v1 routes and the websocket endpoint on app.
func Register(app *fiber.App, h *Handlers) {
	api := app.Group("/api/v1")
	need := middleware.RequirePrivilege

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/reset-password", h.Auth.ResetPassword)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(h.UserRepo), h.Auth.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(h.UserRepo))

	// Platform administration
	protected.Get("/agencies", need(model.PrivAgencyManage), h.Agency.List)
	protected.Get("/agencies/:id", need(model.PrivAgencyManage), h.Agency.Get)
	protected.Post("/agencies", need(model.PrivAgencyManage), h.Agency.Create)
	protected.Put("/agencies/:id", need(model.PrivAgencyManage), h.Agency.Update)
	protected.Delete("/agencies/:id", need(model.PrivAgencyManage), h.Agency.Delete)

	// User Management Routes
	protected.Get("/users", need(model.PrivUserView), h.User.List)
	protected.Get("/users/:id", need(model.PrivUserView), h.User.Get)
	protected.Post("/users", need(model.PrivUserManage), h.User.Create)
	protected.Put("/users/:id", need(model.PrivUserManage), h.User.Update)
	protected.Delete("/users/:id", need(model.PrivUserManage), h.User.Delete)
	protected.Put("/users/:id/privileges", need(model.PrivUserManage), h.User.SetPrivileges)
	protected.Get("/roles", h.Role.GetRoles)
	protected.Get("/privileges", h.Role.GetPrivileges)

	// Everything below acts on one agency.
	tenant := protected.Group("", middleware.RequireTenant())

	tenant.Get("/dashboard/overview", need(model.PrivStatsView), h.Dashboard.GetOverview)

	tenant.Get("/agents", need(model.PrivAgentView), h.Agent.List)
	tenant.Get("/agents/performance", need(model.PrivStatsView), h.Agent.Performance)
	tenant.Get("/agents/:id", need(model.PrivAgentView), h.Agent.Get)
	tenant.Post("/agents", need(model.PrivAgentManage), h.Agent.Create)
	tenant.Put("/agents/:id", need(model.PrivAgentManage), h.Agent.Update)
	tenant.Delete("/agents/:id", need(model.PrivAgentManage), h.Agent.Delete)

	tenant.Get("/transactions", need(model.PrivTxView), h.Transaction.List)
	tenant.Get("/transactions/:id", need(model.PrivTxView), h.Transaction.Get)
	tenant.Post("/transactions", need(model.PrivTxManage), h.Transaction.Create)
	tenant.Put("/transactions/:id", need(model.PrivTxManage), h.Transaction.Update)
	tenant.Patch("/transactions/:id/status", need(model.PrivTxManage), h.Transaction.UpdateStatus)
	tenant.Delete("/transactions/:id", need(model.PrivTxManage), h.Transaction.Delete)

	tenant.Get("/settings", need(model.PrivSettingsView), h.Setting.List)
	tenant.Get("/settings/:key", need(model.PrivSettingsView), h.Setting.Get)
	tenant.Put("/settings", need(model.PrivSettingsManage), h.Setting.PutMany)
	tenant.Put("/settings/:key", need(model.PrivSettingsManage), h.Setting.Put)

	tenant.Get("/stats", need(model.PrivStatsView), h.Stats.Current)
	tenant.Post("/stats/update", need(model.PrivStatsRefresh), h.Stats.Refresh)
	tenant.Get("/stats/monthly", need(model.PrivStatsView), h.Stats.Monthly)

	tenant.Get("/reports/widgets", need(model.PrivReportExport), h.Report.Widgets)
	tenant.Post("/reports/compose", need(model.PrivReportExport), h.Report.Compose)
	tenant.Post("/reports/export", need(model.PrivReportExport), h.Report.Export)

	if h.Hub != nil {
		registerWebsocket(app, h.Hub)
	}
}

// registerWebsocket serves /ws?token=<jwt>. The token's agency decides
// which events the connection receives.
func registerWebsocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		claims, err := jwt.ValidateToken(c.Query("token"))
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		c.Locals(middleware.LocalUserAgency, claims.AgencyID)
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		agencyID, _ := c.Locals(middleware.LocalUserAgency).(*uuid.UUID)
		if !hub.Join(&ws.Client{Conn: c, AgencyID: agencyID}) {
			return
		}
		defer hub.Leave(c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
