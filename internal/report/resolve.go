package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"realty-dashboard/internal/model"
	"realty-dashboard/internal/period"
	"realty-dashboard/internal/stats"
)

// Scope is what a report covers: one tenant, optionally one agent, one window.
type Scope struct {
	AgencyID uuid.UUID
	AgentID  *uuid.UUID
	Window   period.Window
}

// DataSource fetches widget data for a scope.
type DataSource interface {
	Snapshot(ctx context.Context, scope Scope) (stats.Snapshot, error)
	TopTransactions(ctx context.Context, scope Scope, limit int) ([]model.Transaction, error)
	MonthlySeries(ctx context.Context, scope Scope) ([]stats.MonthlyPoint, error)
	AgentSeries(ctx context.Context, scope Scope) ([]stats.AgentPerformance, error)
}

type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateEmpty   State = "empty"
	StateError   State = "error"
	StateUnknown State = "unknown"
)

// Content is the resolved data of one widget.
type Content struct {
	State State  `json:"state"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// StatValue is the payload of a stat card.
type StatValue struct {
	Metric Metric `json:"metric"`
	Value  string `json:"value"`
	Raw    string `json:"raw"`
}

// TransactionRow is one line of the top transactions table.
type TransactionRow struct {
	Address  string `json:"address"`
	Suburb   string `json:"suburb"`
	Agent    string `json:"agent"`
	Price    string `json:"price"`
	SaleDate string `json:"sale_date"`
}

const loadFailed = "failed to load data"

// Resolver fetches the data every widget of a report needs. Widgets sharing a
// requirement share one fetch; a failed or unfinished fetch only affects the
// widgets depending on it.
type Resolver struct {
	Registry    *Registry
	Source      DataSource
	Concurrency int
	// FetchTimeout bounds each fetch. A fetch still running at the deadline
	// leaves its widgets in the loading state.
	FetchTimeout time.Duration
}

type fetchResult struct {
	value any
	err   error
}

// Resolve returns content keyed by widget id. It never fails as a whole.
func (r *Resolver) Resolve(ctx context.Context, widgets []Widget, scope Scope) map[string]Content {
	reqs := map[string]Requirement{}
	for _, w := range widgets {
		req := r.Registry.Describe(w).Requirement
		if req.Kind != NeedNothing {
			reqs[req.key()] = req
		}
	}

	var (
		mu      sync.Mutex
		results = make(map[string]fetchResult, len(reqs))
	)

	limit := r.Concurrency
	if limit <= 0 {
		limit = 4
	}
	var g errgroup.Group
	g.SetLimit(limit)

	for key, req := range reqs {
		key, req := key, req
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fctx := ctx
			if r.FetchTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(ctx, r.FetchTimeout)
				defer cancel()
			}
			v, err := r.fetch(fctx, req, scope)
			mu.Lock()
			results[key] = fetchResult{value: v, err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]Content, len(widgets))
	for _, w := range widgets {
		req := r.Registry.Describe(w).Requirement
		res, done := results[req.key()]
		b := &binder{result: res, pending: req.Kind != NeedNothing && !done}
		w.Accept(b)
		out[w.ID()] = b.out
	}
	return out
}

func (r *Resolver) fetch(ctx context.Context, req Requirement, scope Scope) (any, error) {
	switch req.Kind {
	case NeedSnapshot:
		return r.Source.Snapshot(ctx, scope)
	case NeedTopTransactions:
		return r.Source.TopTransactions(ctx, scope, req.Limit)
	case NeedMonthlySeries:
		return r.Source.MonthlySeries(ctx, scope)
	case NeedAgentSeries:
		return r.Source.AgentSeries(ctx, scope)
	}
	return nil, nil
}

// binder turns a fetch result into the content of one widget.
type binder struct {
	result  fetchResult
	pending bool
	out     Content
}

func (b *binder) failed() bool {
	switch {
	case b.pending:
		b.out = Content{State: StateLoading}
	case errors.Is(b.result.err, context.DeadlineExceeded), errors.Is(b.result.err, context.Canceled):
		b.out = Content{State: StateLoading}
	case b.result.err != nil:
		b.out = Content{State: StateError, Error: loadFailed}
	default:
		return false
	}
	return true
}

func (b *binder) VisitStatCard(w *StatCard) {
	if b.failed() {
		return
	}
	snap, _ := b.result.value.(stats.Snapshot)
	b.out = Content{State: StateReady, Data: statValue(w.Metric, snap)}
}

func (b *binder) VisitChart(w *Chart) {
	if b.failed() {
		return
	}
	switch v := b.result.value.(type) {
	case []stats.MonthlyPoint:
		b.out = listContent(v)
	case []stats.AgentPerformance:
		b.out = listContent(v)
	default:
		b.out = Content{State: StateEmpty}
	}
}

func (b *binder) VisitTable(w *Table) {
	if b.failed() {
		return
	}
	switch v := b.result.value.(type) {
	case []model.Transaction:
		rows := make([]TransactionRow, 0, len(v))
		for i := range v {
			rows = append(rows, transactionRow(&v[i]))
		}
		b.out = listContent(rows)
	case []stats.AgentPerformance:
		b.out = listContent(v)
	default:
		b.out = Content{State: StateEmpty}
	}
}

func (b *binder) VisitTextBlock(w *TextBlock) {
	b.out = textContent(w.Text)
}

func (b *binder) VisitSectionTitle(w *SectionTitle) {
	b.out = textContent(w.Text)
}

func (b *binder) VisitPageBreak(w *PageBreak) {
	b.out = Content{State: StateReady}
}

func (b *binder) VisitColorSettings(w *ColorSettings) {
	b.out = Content{State: StateReady, Data: w.Palette}
}

func (b *binder) VisitUnknown(w *Unknown) {
	b.out = Content{State: StateUnknown, Error: UnknownWidgetTitle}
}

func listContent[T any](items []T) Content {
	if len(items) == 0 {
		return Content{State: StateEmpty}
	}
	return Content{State: StateReady, Data: items}
}

func textContent(s string) Content {
	if s == "" {
		return Content{State: StateEmpty}
	}
	return Content{State: StateReady, Data: s}
}

var printer = message.NewPrinter(language.English)

// FormatMoney renders a whole-dollar amount with thousands separators.
func FormatMoney(d decimal.Decimal) string {
	return printer.Sprintf("$%d", d.Round(0).IntPart())
}

func statValue(m Metric, snap stats.Snapshot) StatValue {
	switch m {
	case MetricTotalRevenue:
		return StatValue{Metric: m, Value: FormatMoney(snap.TotalRevenue), Raw: snap.TotalRevenue.String()}
	case MetricAvgPrice:
		return StatValue{Metric: m, Value: FormatMoney(snap.AvgPrice), Raw: snap.AvgPrice.String()}
	case MetricAvgDaysOnMarket:
		return StatValue{Metric: m, Value: printer.Sprintf("%d days", snap.AvgDaysOnMarket), Raw: decimal.NewFromInt(snap.AvgDaysOnMarket).String()}
	}
	return StatValue{Metric: MetricTotalSold, Value: printer.Sprintf("%d", snap.TotalSold), Raw: decimal.NewFromInt(snap.TotalSold).String()}
}

func transactionRow(tx *model.Transaction) TransactionRow {
	row := TransactionRow{
		Address: tx.Address,
		Suburb:  tx.Suburb,
		Agent:   tx.AgentName(),
		Price:   FormatMoney(stats.ParsePrice(tx.Price)),
	}
	if tx.SaleDate != nil && !tx.SaleDate.IsZero() {
		row.SaleDate = tx.SaleDate.Format("02 Jan 2006")
	}
	return row
}
