// Package stats aggregates property transactions into dashboard figures.
// Everything here is pure; persistence lives in the service layer.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"realty-dashboard/internal/model"
)

// Policy decides which transactions count as sales.
type Policy struct {
	// CountStatuses restricts the transactions in scope. Empty means every
	// transaction counts, whatever its status.
	CountStatuses []model.TransactionStatus
}

// NewPolicy builds a policy from configured status names.
func NewPolicy(statuses []string) (Policy, error) {
	var p Policy
	for _, s := range statuses {
		status := model.TransactionStatus(strings.TrimSpace(s))
		if !status.IsValid() {
			return Policy{}, fmt.Errorf("unknown transaction status %q", s)
		}
		p.CountStatuses = append(p.CountStatuses, status)
	}
	return p, nil
}

// Counts reports whether a transaction with status s is in scope.
func (p Policy) Counts(s model.TransactionStatus) bool {
	if len(p.CountStatuses) == 0 {
		return true
	}
	for _, allowed := range p.CountStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// Snapshot is one computed set of headline figures.
type Snapshot struct {
	TotalSold       int64           `json:"total_sold"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	AvgPrice        decimal.Decimal `json:"avg_price"`
	AvgDaysOnMarket int64           `json:"avg_days_on_market"`
	PeriodStart     time.Time       `json:"period_start"`
	PeriodEnd       time.Time       `json:"period_end"`
}

// Compute aggregates txs. It never fails: malformed prices count as zero and
// transactions without a usable listed/sale date pair are left out of the
// days-on-market average.
func Compute(txs []model.Transaction, policy Policy) Snapshot {
	var (
		snap    Snapshot
		domSum  int64
		domSeen int64
	)
	snap.TotalRevenue = decimal.Zero
	snap.AvgPrice = decimal.Zero

	for i := range txs {
		tx := &txs[i]
		if !policy.Counts(tx.Status) {
			continue
		}

		snap.TotalSold++
		snap.TotalRevenue = snap.TotalRevenue.Add(ParsePrice(tx.Price))

		if days, ok := DaysOnMarket(tx); ok {
			domSum += days
			domSeen++
		}
	}

	if snap.TotalSold > 0 {
		snap.AvgPrice = snap.TotalRevenue.Div(decimal.NewFromInt(snap.TotalSold))
	}
	if domSeen > 0 {
		snap.AvgDaysOnMarket = int64(math.Round(float64(domSum) / float64(domSeen)))
	}

	return snap
}

// ParsePrice reads a decimal price string; anything unparseable is zero.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DaysOnMarket returns whole calendar days from listing to sale. ok is false
// when either date is missing, zero, or the sale precedes the listing.
func DaysOnMarket(tx *model.Transaction) (int64, bool) {
	if tx.ListedDate == nil || tx.SaleDate == nil {
		return 0, false
	}
	if tx.ListedDate.IsZero() || tx.SaleDate.IsZero() {
		return 0, false
	}

	listed := civilDay(*tx.ListedDate)
	sold := civilDay(*tx.SaleDate)
	if sold.Before(listed) {
		return 0, false
	}
	return int64(sold.Sub(listed).Hours() / 24), true
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
