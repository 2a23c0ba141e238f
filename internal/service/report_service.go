package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/period"
	"realty-dashboard/internal/report"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/stats"
)

var ErrInvalidReport = errors.New("invalid report configuration")

type ReportService interface {
	Catalogue() []report.Descriptor
	Compose(ctx context.Context, agencyID uuid.UUID, cfg *report.Configuration) (*report.Document, error)
	Export(ctx context.Context, agencyID uuid.UUID, cfg *report.Configuration) ([]byte, error)
}

type ReportOptions struct {
	MaxWidgets   int
	TopLimit     int
	FetchTimeout time.Duration
	Now          func() time.Time
}

type reportService struct {
	agencyRepo repository.AgencyRepository
	agentRepo  repository.AgentRepository
	registry   *report.Registry
	resolver   *report.Resolver
	renderer   report.Renderer
	log        *logrus.Logger
	opts       ReportOptions
}

func NewReportService(
	agencyRepo repository.AgencyRepository,
	agentRepo repository.AgentRepository,
	txRepo repository.TransactionRepository,
	policy stats.Policy,
	renderer report.Renderer,
	log *logrus.Logger,
	opts ReportOptions,
) ReportService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	registry := report.NewRegistry(opts.TopLimit)
	return &reportService{
		agencyRepo: agencyRepo,
		agentRepo:  agentRepo,
		registry:   registry,
		resolver: &report.Resolver{
			Registry:     registry,
			Source:       &reportData{txRepo: txRepo, agentRepo: agentRepo, policy: policy},
			FetchTimeout: opts.FetchTimeout,
		},
		renderer: renderer,
		log:      log,
		opts:     opts,
	}
}

func (s *reportService) Catalogue() []report.Descriptor {
	return s.registry.Catalogue()
}

func (s *reportService) Compose(ctx context.Context, agencyID uuid.UUID, cfg *report.Configuration) (*report.Document, error) {
	if err := cfg.Validate(s.opts.MaxWidgets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	agency, err := s.agencyRepo.FindByID(agencyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAgencyNotFound
	}
	if err != nil {
		return nil, err
	}
	if cfg.AgentID != nil {
		if _, err := s.agentRepo.FindByID(agencyID, *cfg.AgentID); err != nil {
			return nil, ErrAgentNotInAgency
		}
	}

	now := s.opts.Now()
	window, err := period.Parse(cfg.PeriodCode(), now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}

	scope := report.Scope{AgencyID: agencyID, AgentID: cfg.AgentID, Window: window}
	contents := s.resolver.Resolve(ctx, cfg.Widgets, scope)

	return report.NewDocument(s.registry, cfg, report.Header{
		AgencyName:  agency.Name,
		PeriodLabel: report.PeriodLabel(window.Code),
		GeneratedAt: now,
	}, contents), nil
}

// Export composes and prints the report. Any rendering failure is reported
// as report.ErrExportFailed with no partial output.
func (s *reportService) Export(ctx context.Context, agencyID uuid.UUID, cfg *report.Configuration) ([]byte, error) {
	doc, err := s.Compose(ctx, agencyID, cfg)
	if err != nil {
		return nil, err
	}

	logger := s.log.WithFields(logrus.Fields{"agency_id": agencyID, "widgets": len(cfg.Widgets)})
	html, err := report.RenderHTML(doc)
	if err != nil {
		logger.WithError(err).Error("report html failed")
		return nil, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}

	pdf, err := s.renderer.Render(ctx, html)
	if err != nil {
		logger.WithError(err).Error("report export failed")
		if errors.Is(err, report.ErrExportFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", report.ErrExportFailed, err)
	}
	logger.WithField("bytes", len(pdf)).Info("report exported")
	return pdf, nil
}

// reportData answers widget data requests from the repositories.
type reportData struct {
	txRepo    repository.TransactionRepository
	agentRepo repository.AgentRepository
	policy    stats.Policy
}

func (d *reportData) load(ctx context.Context, scope report.Scope) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if scope.AgentID != nil {
		return d.txRepo.FindByAgent(scope.AgencyID, *scope.AgentID)
	}
	return d.txRepo.FindByAgency(scope.AgencyID)
}

func (d *reportData) Snapshot(ctx context.Context, scope report.Scope) (stats.Snapshot, error) {
	txs, err := d.load(ctx, scope)
	if err != nil {
		return stats.Snapshot{}, err
	}
	snap := stats.Compute(InWindow(txs, scope.Window), d.policy)
	snap.PeriodStart, snap.PeriodEnd = scope.Window.Start, scope.Window.End
	return snap, nil
}

func (d *reportData) TopTransactions(ctx context.Context, scope report.Scope, limit int) ([]model.Transaction, error) {
	txs, err := d.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	return stats.TopByPrice(InWindow(txs, scope.Window), limit, d.policy), nil
}

func (d *reportData) MonthlySeries(ctx context.Context, scope report.Scope) ([]stats.MonthlyPoint, error) {
	txs, err := d.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	return stats.MonthlySeries(txs, scope.Window, d.policy), nil
}

func (d *reportData) AgentSeries(ctx context.Context, scope report.Scope) ([]stats.AgentPerformance, error) {
	txs, err := d.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	agents, err := d.agentRepo.FindByAgency(scope.AgencyID)
	if err != nil {
		return nil, err
	}
	if scope.AgentID != nil {
		picked := agents[:0]
		for _, a := range agents {
			if a.ID == *scope.AgentID {
				picked = append(picked, a)
			}
		}
		agents = picked
	}
	return stats.AgentSeries(InWindow(txs, scope.Window), agents, d.policy), nil
}
