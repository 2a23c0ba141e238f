// Package report builds sales reports from typed widgets: it describes each
// widget, resolves the data it needs, lays widgets out in a two-column page
// flow and hands the finished document to a renderer.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the wire identifier of a widget type.
type Kind string

const (
	KindTotalSold             Kind = "total_sold"
	KindTotalRevenue          Kind = "total_revenue"
	KindAvgPrice              Kind = "avg_price"
	KindAvgDaysOnMarket       Kind = "avg_days_on_market"
	KindMonthlySalesChart     Kind = "monthly_sales_chart"
	KindAgentPerformanceChart Kind = "agent_performance_chart"
	KindTopTransactionsTable  Kind = "top_transactions_table"
	KindAgentLeaderboardTable Kind = "agent_leaderboard_table"
	KindTextBlock             Kind = "text_block"
	KindSectionTitle          Kind = "section_title"
	KindPageBreak             Kind = "page_break"
	KindColorSettings         Kind = "color_settings"
)

// Kinds lists every known widget type in catalogue order.
var Kinds = []Kind{
	KindTotalSold, KindTotalRevenue, KindAvgPrice, KindAvgDaysOnMarket,
	KindMonthlySalesChart, KindAgentPerformanceChart,
	KindTopTransactionsTable, KindAgentLeaderboardTable,
	KindSectionTitle, KindTextBlock, KindPageBreak, KindColorSettings,
}

// Widget is a closed union: only the types in this file implement it.
type Widget interface {
	ID() string
	Kind() Kind
	Accept(v Visitor)
	sealed()
}

// Visitor has one method per widget variant, so adding a variant breaks every
// visitor until it handles the new case.
type Visitor interface {
	VisitStatCard(w *StatCard)
	VisitChart(w *Chart)
	VisitTable(w *Table)
	VisitTextBlock(w *TextBlock)
	VisitSectionTitle(w *SectionTitle)
	VisitPageBreak(w *PageBreak)
	VisitColorSettings(w *ColorSettings)
	VisitUnknown(w *Unknown)
}

type Metric string

const (
	MetricTotalSold       Metric = "total_sold"
	MetricTotalRevenue    Metric = "total_revenue"
	MetricAvgPrice        Metric = "avg_price"
	MetricAvgDaysOnMarket Metric = "avg_days_on_market"
)

type Series string

const (
	SeriesMonthlySales     Series = "monthly_sales"
	SeriesAgentPerformance Series = "agent_performance"
)

type TableSource string

const (
	SourceTopTransactions  TableSource = "top_transactions"
	SourceAgentLeaderboard TableSource = "agent_leaderboard"
)

// StatCard shows one headline figure from the stats snapshot.
type StatCard struct {
	WidgetID string
	Metric   Metric
}

type Chart struct {
	WidgetID string
	Series   Series
}

// Table lists records. Limit applies to the top-transactions source; zero
// means the report default.
type Table struct {
	WidgetID string
	Source   TableSource
	Limit    int
}

type TextBlock struct {
	WidgetID string
	Text     string
}

type SectionTitle struct {
	WidgetID string
	Text     string
}

// PageBreak forces the next row onto a new page and shows nothing itself.
type PageBreak struct {
	WidgetID string
}

// ColorSettings overrides chart palette slots from its position onward.
type ColorSettings struct {
	WidgetID string
	Palette  Palette
}

// Unknown keeps a widget of an unrecognised type so the report still renders.
type Unknown struct {
	WidgetID string
	Type     string
}

func (w *StatCard) ID() string      { return w.WidgetID }
func (w *Chart) ID() string         { return w.WidgetID }
func (w *Table) ID() string         { return w.WidgetID }
func (w *TextBlock) ID() string     { return w.WidgetID }
func (w *SectionTitle) ID() string  { return w.WidgetID }
func (w *PageBreak) ID() string     { return w.WidgetID }
func (w *ColorSettings) ID() string { return w.WidgetID }
func (w *Unknown) ID() string       { return w.WidgetID }

func (w *StatCard) Kind() Kind {
	switch w.Metric {
	case MetricTotalRevenue:
		return KindTotalRevenue
	case MetricAvgPrice:
		return KindAvgPrice
	case MetricAvgDaysOnMarket:
		return KindAvgDaysOnMarket
	}
	return KindTotalSold
}

func (w *Chart) Kind() Kind {
	if w.Series == SeriesAgentPerformance {
		return KindAgentPerformanceChart
	}
	return KindMonthlySalesChart
}

func (w *Table) Kind() Kind {
	if w.Source == SourceAgentLeaderboard {
		return KindAgentLeaderboardTable
	}
	return KindTopTransactionsTable
}

func (w *TextBlock) Kind() Kind     { return KindTextBlock }
func (w *SectionTitle) Kind() Kind  { return KindSectionTitle }
func (w *PageBreak) Kind() Kind     { return KindPageBreak }
func (w *ColorSettings) Kind() Kind { return KindColorSettings }
func (w *Unknown) Kind() Kind       { return Kind(w.Type) }

func (w *StatCard) Accept(v Visitor)      { v.VisitStatCard(w) }
func (w *Chart) Accept(v Visitor)         { v.VisitChart(w) }
func (w *Table) Accept(v Visitor)         { v.VisitTable(w) }
func (w *TextBlock) Accept(v Visitor)     { v.VisitTextBlock(w) }
func (w *SectionTitle) Accept(v Visitor)  { v.VisitSectionTitle(w) }
func (w *PageBreak) Accept(v Visitor)     { v.VisitPageBreak(w) }
func (w *ColorSettings) Accept(v Visitor) { v.VisitColorSettings(w) }
func (w *Unknown) Accept(v Visitor)       { v.VisitUnknown(w) }

func (*StatCard) sealed()      {}
func (*Chart) sealed()         {}
func (*Table) sealed()         {}
func (*TextBlock) sealed()     {}
func (*SectionTitle) sealed()  {}
func (*PageBreak) sealed()     {}
func (*ColorSettings) sealed() {}
func (*Unknown) sealed()       {}

// wireWidget is the JSON shape of a widget in a report configuration.
type wireWidget struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Text    string   `json:"text,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Palette *Palette `json:"palette,omitempty"`
}

// NewWidget builds the variant for a wire type. Unrecognised types become
// *Unknown rather than an error.
func NewWidget(id, typ string) Widget {
	switch Kind(strings.TrimSpace(typ)) {
	case KindTotalSold:
		return &StatCard{WidgetID: id, Metric: MetricTotalSold}
	case KindTotalRevenue:
		return &StatCard{WidgetID: id, Metric: MetricTotalRevenue}
	case KindAvgPrice:
		return &StatCard{WidgetID: id, Metric: MetricAvgPrice}
	case KindAvgDaysOnMarket:
		return &StatCard{WidgetID: id, Metric: MetricAvgDaysOnMarket}
	case KindMonthlySalesChart:
		return &Chart{WidgetID: id, Series: SeriesMonthlySales}
	case KindAgentPerformanceChart:
		return &Chart{WidgetID: id, Series: SeriesAgentPerformance}
	case KindTopTransactionsTable:
		return &Table{WidgetID: id, Source: SourceTopTransactions}
	case KindAgentLeaderboardTable:
		return &Table{WidgetID: id, Source: SourceAgentLeaderboard}
	case KindTextBlock:
		return &TextBlock{WidgetID: id}
	case KindSectionTitle:
		return &SectionTitle{WidgetID: id}
	case KindPageBreak:
		return &PageBreak{WidgetID: id}
	case KindColorSettings:
		return &ColorSettings{WidgetID: id}
	}
	return &Unknown{WidgetID: id, Type: typ}
}

func decodeWidget(raw json.RawMessage) (Widget, error) {
	var ww wireWidget
	if err := json.Unmarshal(raw, &ww); err != nil {
		return nil, fmt.Errorf("decode widget: %w", err)
	}

	w := NewWidget(ww.ID, ww.Type)
	switch v := w.(type) {
	case *Table:
		v.Limit = ww.Limit
	case *TextBlock:
		v.Text = ww.Text
	case *SectionTitle:
		v.Text = ww.Text
	case *ColorSettings:
		if ww.Palette != nil {
			v.Palette = *ww.Palette
		}
	}
	return w, nil
}

func encodeWidget(w Widget) wireWidget {
	ww := wireWidget{ID: w.ID(), Type: string(w.Kind())}
	switch v := w.(type) {
	case *Table:
		ww.Limit = v.Limit
	case *TextBlock:
		ww.Text = v.Text
	case *SectionTitle:
		ww.Text = v.Text
	case *ColorSettings:
		p := v.Palette
		ww.Palette = &p
	}
	return ww
}

// WidgetList is an ordered widget list with a JSON representation.
type WidgetList []Widget

func (l *WidgetList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(WidgetList, 0, len(raws))
	for i, raw := range raws {
		w, err := decodeWidget(raw)
		if err != nil {
			return fmt.Errorf("widget %d: %w", i, err)
		}
		out = append(out, w)
	}
	*l = out
	return nil
}

func (l WidgetList) MarshalJSON() ([]byte, error) {
	out := make([]wireWidget, len(l))
	for i, w := range l {
		out[i] = encodeWidget(w)
	}
	return json.Marshal(out)
}
