package report

import "time"

type RowKind string

const (
	RowPair      RowKind = "pair"
	RowFull      RowKind = "full"
	RowPageBreak RowKind = "page_break"
)

// Cell is one grid slot. A filler cell pads a pair row holding a single
// standard widget.
type Cell struct {
	WidgetID string  `json:"widget_id,omitempty"`
	Kind     Kind    `json:"type,omitempty"`
	Title    string  `json:"title,omitempty"`
	Layout   Layout  `json:"layout"`
	Filler   bool    `json:"filler,omitempty"`
	Content  Content `json:"content"`
	Palette  Palette `json:"-"`
	Widget   Widget  `json:"-"`
}

// Row is a grid row. Page-break rows have no cells; BreakBefore marks the row
// that must start a new page.
type Row struct {
	Kind        RowKind `json:"kind"`
	Cells       []Cell  `json:"cells"`
	BreakBefore bool    `json:"break_before,omitempty"`
}

// Compose lays widgets out in list order. Standard widgets pair up left to
// right, full-width widgets take a row of their own and a page break forces
// the following row onto a new page. Widgets missing from contents render as
// loading.
func Compose(reg *Registry, widgets []Widget, contents map[string]Content, base Palette) []Row {
	rows := []Row{}
	palette := base
	var pending *Cell
	breakNext := false

	emit := func(r Row) {
		if breakNext && r.Kind != RowPageBreak {
			r.BreakBefore = true
			breakNext = false
		}
		rows = append(rows, r)
	}
	flush := func() {
		if pending == nil {
			return
		}
		emit(Row{Kind: RowPair, Cells: []Cell{*pending, {Layout: LayoutStandard, Filler: true}}})
		pending = nil
	}

	for _, w := range widgets {
		d := reg.Describe(w)
		if cs, ok := w.(*ColorSettings); ok {
			palette = palette.Merge(cs.Palette)
		}

		content, ok := contents[w.ID()]
		if !ok {
			content = Content{State: StateLoading}
		}
		cell := Cell{
			WidgetID: w.ID(),
			Kind:     d.Kind,
			Title:    d.Title,
			Layout:   d.Layout,
			Content:  content,
			Palette:  palette,
			Widget:   w,
		}

		switch {
		case d.Kind == KindPageBreak:
			flush()
			emit(Row{Kind: RowPageBreak, Cells: []Cell{}})
			breakNext = true
		case d.Layout == LayoutFullWidth:
			flush()
			emit(Row{Kind: RowFull, Cells: []Cell{cell}})
		case pending == nil:
			pending = &cell
		default:
			emit(Row{Kind: RowPair, Cells: []Cell{*pending, cell}})
			pending = nil
		}
	}
	flush()
	return rows
}

// Document is a composed report: title page, content rows, closing page.
type Document struct {
	Title       string    `json:"title"`
	AgencyName  string    `json:"agency_name"`
	PeriodLabel string    `json:"period_label"`
	Notes       string    `json:"notes,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	ClosingText string    `json:"closing_text,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Palette     Palette   `json:"palette"`
	Rows        []Row     `json:"rows"`
}

// Header carries the document facts that do not come from the configuration.
type Header struct {
	AgencyName  string
	PeriodLabel string
	GeneratedAt time.Time
}

const defaultClosingText = "Thank you for reviewing this report."

func NewDocument(reg *Registry, cfg *Configuration, h Header, contents map[string]Content) *Document {
	palette := DefaultPalette.Merge(cfg.Palette)
	closing := cfg.ClosingText
	if closing == "" {
		closing = defaultClosingText
	}
	return &Document{
		Title:       cfg.Title,
		AgencyName:  h.AgencyName,
		PeriodLabel: h.PeriodLabel,
		Notes:       cfg.Notes,
		CoverImage:  cfg.CoverImage,
		ClosingText: closing,
		GeneratedAt: h.GeneratedAt,
		Palette:     palette,
		Rows:        Compose(reg, cfg.Widgets, contents, palette),
	}
}

// PeriodLabel is the human label of a period code.
func PeriodLabel(code string) string {
	switch code {
	case "7d":
		return "Last 7 days"
	case "30d":
		return "Last 30 days"
	case "90d":
		return "Last 90 days"
	case "6m":
		return "Last 6 months"
	case "12m":
		return "Last 12 months"
	case "ytd":
		return "Year to date"
	case "all":
		return "All time"
	}
	return code
}
