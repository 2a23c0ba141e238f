package report

import "fmt"

type Layout string

const (
	LayoutStandard  Layout = "standard"
	LayoutFullWidth Layout = "full_width"
)

type RequirementKind string

const (
	NeedNothing         RequirementKind = "none"
	NeedSnapshot        RequirementKind = "stats_snapshot"
	NeedTopTransactions RequirementKind = "top_transactions"
	NeedMonthlySeries   RequirementKind = "monthly_series"
	NeedAgentSeries     RequirementKind = "agent_series"
)

// Requirement names the data a widget needs. Widgets sharing a requirement
// share one fetch.
type Requirement struct {
	Kind  RequirementKind `json:"kind"`
	Limit int             `json:"limit,omitempty"`
}

func (r Requirement) key() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.Limit)
}

// Descriptor is what the registry knows about a widget.
type Descriptor struct {
	Kind        Kind        `json:"type"`
	Title       string      `json:"title"`
	Layout      Layout      `json:"layout"`
	Requirement Requirement `json:"requirement"`
}

const UnknownWidgetTitle = "Unknown widget type"

var statTitles = map[Metric]string{
	MetricTotalSold:       "Properties Sold",
	MetricTotalRevenue:    "Total Revenue",
	MetricAvgPrice:        "Average Sale Price",
	MetricAvgDaysOnMarket: "Average Days on Market",
}

// describer maps each variant to its descriptor.
type describer struct {
	topLimit int
	out      Descriptor
}

func (d *describer) VisitStatCard(w *StatCard) {
	d.out = Descriptor{Title: statTitles[w.Metric], Layout: LayoutStandard, Requirement: Requirement{Kind: NeedSnapshot}}
}

func (d *describer) VisitChart(w *Chart) {
	switch w.Series {
	case SeriesAgentPerformance:
		d.out = Descriptor{Title: "Agent Performance", Layout: LayoutStandard, Requirement: Requirement{Kind: NeedAgentSeries}}
	default:
		d.out = Descriptor{Title: "Monthly Sales", Layout: LayoutStandard, Requirement: Requirement{Kind: NeedMonthlySeries}}
	}
}

func (d *describer) VisitTable(w *Table) {
	switch w.Source {
	case SourceAgentLeaderboard:
		d.out = Descriptor{Title: "Agent Leaderboard", Layout: LayoutStandard, Requirement: Requirement{Kind: NeedAgentSeries}}
	default:
		limit := w.Limit
		if limit <= 0 {
			limit = d.topLimit
		}
		d.out = Descriptor{Title: "Top Sales", Layout: LayoutStandard, Requirement: Requirement{Kind: NeedTopTransactions, Limit: limit}}
	}
}

func (d *describer) VisitTextBlock(w *TextBlock) {
	d.out = Descriptor{Title: "Notes", Layout: LayoutFullWidth, Requirement: Requirement{Kind: NeedNothing}}
}

func (d *describer) VisitSectionTitle(w *SectionTitle) {
	d.out = Descriptor{Title: "Section Title", Layout: LayoutFullWidth, Requirement: Requirement{Kind: NeedNothing}}
}

func (d *describer) VisitPageBreak(w *PageBreak) {
	d.out = Descriptor{Title: "Page Break", Layout: LayoutFullWidth, Requirement: Requirement{Kind: NeedNothing}}
}

func (d *describer) VisitColorSettings(w *ColorSettings) {
	d.out = Descriptor{Title: "Chart Colours", Layout: LayoutFullWidth, Requirement: Requirement{Kind: NeedNothing}}
}

func (d *describer) VisitUnknown(w *Unknown) {
	d.out = Descriptor{Title: UnknownWidgetTitle, Layout: LayoutStandard, Requirement: Requirement{Kind: NeedNothing}}
}

// Registry describes widgets. TopLimit is the default row count for
// top-transaction tables.
type Registry struct {
	TopLimit int
}

func NewRegistry(topLimit int) *Registry {
	if topLimit <= 0 {
		topLimit = 10
	}
	return &Registry{TopLimit: topLimit}
}

// Describe returns title, layout and data requirement for w.
func (r *Registry) Describe(w Widget) Descriptor {
	d := &describer{topLimit: r.TopLimit}
	w.Accept(d)
	d.out.Kind = w.Kind()
	return d.out
}

// Catalogue lists a descriptor for every known widget type.
func (r *Registry) Catalogue() []Descriptor {
	out := make([]Descriptor, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, r.Describe(NewWidget("", string(k))))
	}
	return out
}
