package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/period"
	"realty-dashboard/internal/repository"
	"realty-dashboard/internal/stats"
	"realty-dashboard/internal/ws"
)

var ErrStatsRefreshFailed = errors.New("stats refresh failed")

type StatsService interface {
	// Current returns the persisted snapshot, or a zero snapshot when the
	// agency has never been refreshed.
	Current(agencyID uuid.UUID) (*model.SalesStats, error)
	Refresh(ctx context.Context, agencyID uuid.UUID) (*model.SalesStats, error)
	RefreshAll(ctx context.Context) error
	Monthly(agencyID uuid.UUID, periodCode string) ([]stats.MonthlyPoint, error)
	AgentPerformance(agencyID uuid.UUID, periodCode string) ([]stats.AgentPerformance, error)
	Policy() stats.Policy
}

type StatsOptions struct {
	Period string
	Policy stats.Policy
	// Strict runs load, compute and upsert in one serializable transaction.
	// Otherwise concurrent refreshes race and the last writer wins.
	Strict bool
	Now    func() time.Time
}

type statsService struct {
	db         *gorm.DB
	txRepo     repository.TransactionRepository
	agentRepo  repository.AgentRepository
	agencyRepo repository.AgencyRepository
	statsRepo  repository.StatsRepository
	publisher  ws.Publisher
	log        *logrus.Logger
	opts       StatsOptions
}

func NewStatsService(
	db *gorm.DB,
	txRepo repository.TransactionRepository,
	agentRepo repository.AgentRepository,
	agencyRepo repository.AgencyRepository,
	statsRepo repository.StatsRepository,
	publisher ws.Publisher,
	log *logrus.Logger,
	opts StatsOptions,
) StatsService {
	if opts.Period == "" {
		opts.Period = "12m"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &statsService{
		db:         db,
		txRepo:     txRepo,
		agentRepo:  agentRepo,
		agencyRepo: agencyRepo,
		statsRepo:  statsRepo,
		publisher:  publisher,
		log:        log,
		opts:       opts,
	}
}

func (s *statsService) Policy() stats.Policy {
	return s.opts.Policy
}

func (s *statsService) Current(agencyID uuid.UUID) (*model.SalesStats, error) {
	row, err := s.statsRepo.Find(agencyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.SalesStats{AgencyID: agencyID, TotalRevenue: "0", AvgPrice: "0"}, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Refresh recomputes and stores the agency's snapshot. A period that cannot
// be resolved stores a zeroed snapshot; only load or persistence failures
// are errors, and those keep the previous row.
func (s *statsService) Refresh(ctx context.Context, agencyID uuid.UUID) (*model.SalesStats, error) {
	logger := s.log.WithFields(logrus.Fields{"agency_id": agencyID, "period": s.opts.Period})
	window, windowErr := period.Parse(s.opts.Period, s.opts.Now())
	if windowErr != nil {
		logger.WithError(windowErr).Warn("stats period unresolved, storing zeroed snapshot")
	}

	var row *model.SalesStats
	recompute := func(db *gorm.DB) error {
		var snap stats.Snapshot
		if windowErr == nil {
			txs, err := s.txRepo.WithTx(db).FindByAgency(agencyID)
			if err != nil {
				return err
			}
			snap = stats.Compute(InWindow(txs, window), s.opts.Policy)
		}
		row = &model.SalesStats{
			AgencyID:        agencyID,
			TotalSold:       snap.TotalSold,
			TotalRevenue:    snap.TotalRevenue.String(),
			AvgPrice:        snap.AvgPrice.String(),
			AvgDaysOnMarket: snap.AvgDaysOnMarket,
			PeriodStart:     window.Start,
			PeriodEnd:       window.End,
			ComputedAt:      s.opts.Now(),
		}
		return s.statsRepo.WithTx(db).Upsert(row)
	}

	var err error
	db := s.db.WithContext(ctx)
	if s.opts.Strict {
		err = db.Transaction(recompute, &sql.TxOptions{Isolation: sql.LevelSerializable})
	} else {
		err = recompute(db)
	}
	if err != nil {
		logger.WithError(err).Error("stats refresh failed")
		return nil, fmt.Errorf("%w: %v", ErrStatsRefreshFailed, err)
	}

	logger.WithField("total_sold", row.TotalSold).Info("stats refreshed")
	s.publisher.Publish(ws.EventStatsUpdated, &agencyID, row)
	return row, nil
}

// RefreshAll refreshes every active agency. One failing agency does not stop
// the others; their errors are joined.
func (s *statsService) RefreshAll(ctx context.Context) error {
	agencies, err := s.agencyRepo.FindActive()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStatsRefreshFailed, err)
	}

	var errs []error
	for _, a := range agencies {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if _, err := s.Refresh(ctx, a.ID); err != nil {
			errs = append(errs, fmt.Errorf("agency %s: %w", a.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *statsService) Monthly(agencyID uuid.UUID, periodCode string) ([]stats.MonthlyPoint, error) {
	window, err := s.window(periodCode)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.FindByAgency(agencyID)
	if err != nil {
		return nil, err
	}
	return stats.MonthlySeries(txs, window, s.opts.Policy), nil
}

func (s *statsService) AgentPerformance(agencyID uuid.UUID, periodCode string) ([]stats.AgentPerformance, error) {
	window, err := s.window(periodCode)
	if err != nil {
		return nil, err
	}
	txs, err := s.txRepo.FindByAgency(agencyID)
	if err != nil {
		return nil, err
	}
	agents, err := s.agentRepo.FindByAgency(agencyID)
	if err != nil {
		return nil, err
	}
	return stats.AgentSeries(InWindow(txs, window), agents, s.opts.Policy), nil
}

func (s *statsService) window(code string) (period.Window, error) {
	if code == "" {
		code = s.opts.Period
	}
	return period.Parse(code, s.opts.Now())
}

// InWindow keeps the transactions whose effective date falls in w.
func InWindow(txs []model.Transaction, w period.Window) []model.Transaction {
	out := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if w.Contains(tx.EffectiveDate()) {
			out = append(out, tx)
		}
	}
	return out
}
