package model

import (
	"time"

	"github.com/google/uuid"
)

// SalesStats is the cached stats snapshot; at most one row per agency,
// overwritten on every refresh.
type SalesStats struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	AgencyID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"agency_id"`
	TotalSold       int64     `gorm:"not null;default:0" json:"total_sold"`
	TotalRevenue    string    `gorm:"type:varchar(32);not null;default:'0'" json:"total_revenue"`
	AvgPrice        string    `gorm:"type:varchar(32);not null;default:'0'" json:"avg_price"`
	AvgDaysOnMarket int64     `gorm:"not null;default:0" json:"avg_days_on_market"`
	PeriodStart     time.Time `json:"period_start"`
	PeriodEnd       time.Time `json:"period_end"`
	ComputedAt      time.Time `json:"computed_at"`
}

func (SalesStats) TableName() string {
	return "sales_stats"
}
