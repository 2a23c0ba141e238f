// Package app wires repositories, services and handlers together. Both the
// API server and the operator CLI build on it.
package app

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"realty-dashboard/internal/config"
	"realty-dashboard/internal/handler"
	"realty-dashboard/internal/period"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/service"
	"realty-dashboard/internal/stats"
	"realty-dashboard/internal/ws"
)

type App struct {
	DB  *gorm.DB
	Log *logrus.Logger

	Users        repository.UserRepository
	Privileges   repository.PrivilegeRepository
	Roles        repository.RoleRepository
	Agencies     repository.AgencyRepository
	Agents       repository.AgentRepository
	Transactions repository.TransactionRepository
	Settings     repository.SettingRepository
	SalesStats   repository.StatsRepository

	AuthService        service.AuthService
	UserService        service.UserService
	AgencyService      service.AgencyService
	AgentService       service.AgentService
	TransactionService service.TransactionService
	SettingService     service.SettingService
	StatsService       service.StatsService
	ReportService      service.ReportService
	DashboardService   service.DashboardService
}

// New builds every layer on top of db. Events go to publisher and reports
// print through renderer.
func New(cfg *config.Config, db *gorm.DB, log *logrus.Logger, publisher ws.Publisher, renderer report.Renderer) (*App, error) {
	policy, err := stats.NewPolicy(cfg.Stats.CountStatuses)
	if err != nil {
		return nil, err
	}
	if cfg.Stats.Period != "" {
		if _, err := period.Parse(cfg.Stats.Period, time.Now()); err != nil {
			return nil, fmt.Errorf("STATS_PERIOD %q: %w", cfg.Stats.Period, err)
		}
	}

	a := &App{
		DB:           db,
		Log:          log,
		Users:        repository.NewUserRepo(db),
		Privileges:   repository.NewPrivilegeRepo(db),
		Roles:        repository.NewRoleRepo(db),
		Agencies:     repository.NewAgencyRepo(db),
		Agents:       repository.NewAgentRepo(db),
		Transactions: repository.NewTransactionRepo(db),
		Settings:     repository.NewSettingRepo(db),
		SalesStats:   repository.NewStatsRepo(db),
	}

	a.StatsService = service.NewStatsService(db, a.Transactions, a.Agents, a.Agencies, a.SalesStats, publisher, log, service.StatsOptions{
		Period: cfg.Stats.Period,
		Policy: policy,
		Strict: cfg.Stats.StrictRefresh,
	})
	a.AuthService = service.NewAuthService(a.Users, publisher)
	a.UserService = service.NewUserService(a.Users, a.Privileges, a.Roles)
	a.AgencyService = service.NewAgencyService(a.Agencies)
	a.AgentService = service.NewAgentService(a.Agents, publisher)
	a.TransactionService = service.NewTransactionService(a.Transactions, a.Agents, publisher)
	a.SettingService = service.NewSettingService(a.Settings, publisher)
	a.DashboardService = service.NewDashboardService(a.Transactions, a.StatsService)
	a.ReportService = service.NewReportService(a.Agencies, a.Agents, a.Transactions, policy, renderer, log, service.ReportOptions{
		MaxWidgets:   cfg.Report.MaxWidgets,
		TopLimit:     cfg.Report.TopLimit,
		FetchTimeout: 10 * time.Second,
	})
	return a, nil
}

// Seeder returns the default data seeder.
func (a *App) Seeder() *service.Seeder {
	return &service.Seeder{
		Privileges: a.Privileges,
		Roles:      a.Roles,
		Users:      a.Users,
		Log:        a.Log,
	}
}

// Handlers builds the HTTP handlers. hub may be nil.
func (a *App) Handlers(hub *ws.Hub) *handler.Handlers {
	return &handler.Handlers{
		Auth:        handler.NewAuthHandler(a.AuthService),
		User:        handler.NewUserHandler(a.UserService),
		Role:        handler.NewRoleHandler(a.Roles, a.Privileges),
		Agency:      handler.NewAgencyHandler(a.AgencyService),
		Agent:       handler.NewAgentHandler(a.AgentService, a.StatsService),
		Transaction: handler.NewTransactionHandler(a.TransactionService),
		Setting:     handler.NewSettingHandler(a.SettingService),
		Stats:       handler.NewStatsHandler(a.StatsService),
		Report:      handler.NewReportHandler(a.ReportService),
		Dashboard:   handler.NewDashboardHandler(a.DashboardService),
		UserRepo:    a.Users,
		Hub:         hub,
	}
}
