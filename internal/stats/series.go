package stats

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/period"
)

// MonthlyPoint is one month of the sales series.
type MonthlyPoint struct {
	Month   string          `json:"month"` // YYYY-MM
	Sold    int64           `json:"sold"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlySeries buckets in-scope transactions by the month of their effective
// date. Months inside the window without sales are present with zeros.
func MonthlySeries(txs []model.Transaction, w period.Window, policy Policy) []MonthlyPoint {
	buckets := map[string]*MonthlyPoint{}
	var earliest time.Time

	for i := range txs {
		tx := &txs[i]
		if !policy.Counts(tx.Status) {
			continue
		}
		when := tx.EffectiveDate()
		if !w.Contains(when) {
			continue
		}
		if earliest.IsZero() || when.Before(earliest) {
			earliest = when
		}

		key := when.Format("2006-01")
		p, ok := buckets[key]
		if !ok {
			p = &MonthlyPoint{Month: key, Revenue: decimal.Zero}
			buckets[key] = p
		}
		p.Sold++
		p.Revenue = p.Revenue.Add(ParsePrice(tx.Price))
	}

	start := w.Start
	if !w.Bounded() {
		if earliest.IsZero() {
			return []MonthlyPoint{}
		}
		start = earliest
	}

	series := []MonthlyPoint{}
	for m := firstOfMonth(start); !m.After(w.End); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		if p, ok := buckets[key]; ok {
			series = append(series, *p)
			continue
		}
		series = append(series, MonthlyPoint{Month: key, Revenue: decimal.Zero})
	}
	return series
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AgentPerformance is one agent's share of the sales.
type AgentPerformance struct {
	AgentID         uuid.UUID       `json:"agent_id"`
	Name            string          `json:"name"`
	Sales           int64           `json:"sales"`
	Revenue         decimal.Decimal `json:"revenue"`
	Commission      decimal.Decimal `json:"commission"`
	AvgDaysOnMarket int64           `json:"avg_days_on_market"`
}

// AgentSeries aggregates in-scope transactions per agent. Every listed agent
// appears, including those without sales; unassigned transactions are skipped.
// Ordered by commission, then revenue, descending.
func AgentSeries(txs []model.Transaction, agents []model.Agent, policy Policy) []AgentPerformance {
	type acc struct {
		perf    AgentPerformance
		domSum  int64
		domSeen int64
	}

	byID := make(map[uuid.UUID]*acc, len(agents))
	order := make([]uuid.UUID, 0, len(agents))
	for _, a := range agents {
		byID[a.ID] = &acc{perf: AgentPerformance{
			AgentID:    a.ID,
			Name:       a.Name,
			Revenue:    decimal.Zero,
			Commission: decimal.Zero,
		}}
		order = append(order, a.ID)
	}

	for i := range txs {
		tx := &txs[i]
		if tx.AgentID == nil || !policy.Counts(tx.Status) {
			continue
		}
		a, ok := byID[*tx.AgentID]
		if !ok {
			continue
		}
		a.perf.Sales++
		a.perf.Revenue = a.perf.Revenue.Add(ParsePrice(tx.Price))
		a.perf.Commission = a.perf.Commission.Add(ParsePrice(tx.Commission))
		if days, ok := DaysOnMarket(tx); ok {
			a.domSum += days
			a.domSeen++
		}
	}

	out := make([]AgentPerformance, 0, len(order))
	for _, id := range order {
		a := byID[id]
		if a.domSeen > 0 {
			a.perf.AvgDaysOnMarket = int64(math.Round(float64(a.domSum) / float64(a.domSeen)))
		}
		out = append(out, a.perf)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Commission.Cmp(out[j].Commission); c != 0 {
			return c > 0
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}

// TopByPrice returns at most limit in-scope transactions, highest price first.
func TopByPrice(txs []model.Transaction, limit int, policy Policy) []model.Transaction {
	picked := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if policy.Counts(tx.Status) {
			picked = append(picked, tx)
		}
	}

	sort.SliceStable(picked, func(i, j int) bool {
		return ParsePrice(picked[i].Price).GreaterThan(ParsePrice(picked[j].Price))
	})

	if limit > 0 && len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}
