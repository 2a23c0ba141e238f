package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"realty-dashboard/internal/model"
)

type StatsRepository interface {
	Find(agencyID uuid.UUID) (*model.SalesStats, error)
	Upsert(stats *model.SalesStats) error
	WithTx(tx *gorm.DB) StatsRepository
}

type statsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) StatsRepository {
	return &statsRepo{db}
}

func (r *statsRepo) WithTx(tx *gorm.DB) StatsRepository {
	return &statsRepo{tx}
}

func (r *statsRepo) Find(agencyID uuid.UUID) (*model.SalesStats, error) {
	var stats model.SalesStats
	if err := r.db.First(&stats, "agency_id = ?", agencyID).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Upsert replaces the agency's snapshot row.
func (r *statsRepo) Upsert(stats *model.SalesStats) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "agency_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_sold", "total_revenue", "avg_price", "avg_days_on_market",
			"period_start", "period_end", "computed_at",
		}),
	}).Create(stats).Error
}
