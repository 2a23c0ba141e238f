package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"realty-dashboard/internal/stats"
)

type bar struct {
	Label   string
	Value   string
	Percent int
	Color   string
}

// cellView is the template-facing shape of a cell.
type cellView struct {
	Title    string
	Layout   Layout
	Filler   bool
	State    State
	Message  string
	Heading  string
	Text     string
	Stat     *StatValue
	Bars     []bar
	Headers  []string
	Rows     [][]string
	Swatches []string
}

type rowView struct {
	Kind        RowKind
	BreakBefore bool
	Cells       []cellView
}

type documentView struct {
	*Document
	Generated string
	RowViews  []rowView
}

// viewBuilder fills a cellView from ready content.
type viewBuilder struct {
	cell Cell
	out  *cellView
}

func (v *viewBuilder) VisitStatCard(w *StatCard) {
	if s, ok := v.cell.Content.Data.(StatValue); ok {
		v.out.Stat = &s
	}
}

func (v *viewBuilder) VisitChart(w *Chart) {
	colors := v.cell.Palette.Slots()
	switch data := v.cell.Content.Data.(type) {
	case []stats.MonthlyPoint:
		values := make([]decimal.Decimal, len(data))
		for i, p := range data {
			values[i] = p.Revenue
		}
		for i, p := range data {
			v.out.Bars = append(v.out.Bars, bar{
				Label:   p.Month,
				Value:   fmt.Sprintf("%s (%d sold)", FormatMoney(p.Revenue), p.Sold),
				Percent: percentOf(values, i),
				Color:   colors[0],
			})
		}
	case []stats.AgentPerformance:
		values := make([]decimal.Decimal, len(data))
		for i, p := range data {
			values[i] = p.Revenue
		}
		for i, p := range data {
			v.out.Bars = append(v.out.Bars, bar{
				Label:   p.Name,
				Value:   FormatMoney(p.Revenue),
				Percent: percentOf(values, i),
				Color:   colors[i%len(colors)],
			})
		}
	}
}

func (v *viewBuilder) VisitTable(w *Table) {
	switch data := v.cell.Content.Data.(type) {
	case []TransactionRow:
		v.out.Headers = []string{"Address", "Suburb", "Agent", "Price", "Sold"}
		for _, r := range data {
			v.out.Rows = append(v.out.Rows, []string{r.Address, r.Suburb, r.Agent, r.Price, r.SaleDate})
		}
	case []stats.AgentPerformance:
		v.out.Headers = []string{"Agent", "Sales", "Revenue", "Commission", "Avg DOM"}
		for _, p := range data {
			v.out.Rows = append(v.out.Rows, []string{
				p.Name,
				fmt.Sprint(p.Sales),
				FormatMoney(p.Revenue),
				FormatMoney(p.Commission),
				fmt.Sprint(p.AvgDaysOnMarket),
			})
		}
	}
}

func (v *viewBuilder) VisitTextBlock(w *TextBlock) {
	v.out.Text = w.Text
}

func (v *viewBuilder) VisitSectionTitle(w *SectionTitle) {
	v.out.Heading = w.Text
}

func (v *viewBuilder) VisitPageBreak(w *PageBreak) {}

func (v *viewBuilder) VisitColorSettings(w *ColorSettings) {
	v.out.Swatches = v.cell.Palette.Slots()
}

func (v *viewBuilder) VisitUnknown(w *Unknown) {
	v.out.Message = UnknownWidgetTitle
}

func percentOf(values []decimal.Decimal, i int) int {
	top := decimal.Zero
	for _, v := range values {
		if v.GreaterThan(top) {
			top = v
		}
	}
	if top.IsZero() {
		return 0
	}
	return int(values[i].Mul(decimal.NewFromInt(100)).Div(top).Round(0).IntPart())
}

func viewCell(c Cell) cellView {
	out := cellView{Title: c.Title, Layout: c.Layout, Filler: c.Filler, State: c.Content.State}
	if c.Filler || c.Widget == nil {
		return out
	}
	switch c.Content.State {
	case StateLoading:
		out.Message = "Loading…"
		return out
	case StateError:
		out.Message = c.Content.Error
		return out
	case StateEmpty:
		out.Message = "No data for this period"
		return out
	}
	c.Widget.Accept(&viewBuilder{cell: c, out: &out})
	return out
}

var documentTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 16mm; }
body { font-family: Helvetica, Arial, sans-serif; color: #222; margin: 0; }
.page { break-after: page; }
.title-page { text-align: center; padding-top: 60mm; }
.title-page h1 { color: {{.Palette.Primary}}; font-size: 32px; }
.title-page img { max-width: 100%; max-height: 80mm; }
.row { display: grid; grid-template-columns: 1fr 1fr; gap: 12px; margin-bottom: 12px; }
.row.full { grid-template-columns: 1fr; break-inside: avoid; page-break-inside: avoid; }
.row.break-before { break-before: page; page-break-before: always; }
.page-break { height: 0; }
.cell { border: 1px solid #ddd; border-radius: 6px; padding: 10px; break-inside: avoid; }
.cell.filler, .cell.section { border: none; }
.cell h3 { margin: 0 0 8px; font-size: 14px; color: {{.Palette.Secondary}}; }
.stat { font-size: 28px; font-weight: bold; color: {{.Palette.Primary}}; }
.bar-line { display: flex; align-items: center; font-size: 11px; margin: 2px 0; }
.bar-line .label { width: 90px; }
.bar-line .bar { height: 10px; margin-right: 6px; }
table { width: 100%; border-collapse: collapse; font-size: 11px; }
th, td { text-align: left; padding: 3px 4px; border-bottom: 1px solid #eee; }
.placeholder { color: #888; font-style: italic; }
.placeholder.unknown { color: #b00; }
.swatch { display: inline-block; width: 24px; height: 24px; margin-right: 6px; }
.closing-page { text-align: center; padding-top: 80mm; }
</style>
</head>
<body>
<section class="page title-page">
{{if .CoverImage}}<img src="{{.CoverImage}}" alt="">{{end}}
<h1>{{.Title}}</h1>
<p>{{.AgencyName}}</p>
<p>{{.PeriodLabel}}</p>
<p>Generated {{.Generated}}</p>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
</section>
<section class="page content">
{{range .RowViews}}{{if eq .Kind "page_break"}}<div class="page-break" data-page-break="true"></div>
{{else}}<div class="row{{if eq .Kind "full"}} full{{end}}{{if .BreakBefore}} break-before{{end}}">
{{range .Cells}}{{template "cell" .}}{{end}}</div>
{{end}}{{end}}</section>
<section class="closing-page">
<p>{{.ClosingText}}</p>
</section>
</body>
</html>
{{define "cell"}}<div class="cell{{if .Filler}} filler{{end}}{{if .Heading}} section{{end}}">
{{- if .Filler}}
{{- else if eq .State "unknown"}}<div class="placeholder unknown">{{.Message}}</div>
{{- else if .Message}}<h3>{{.Title}}</h3><div class="placeholder">{{.Message}}</div>
{{- else if .Heading}}<h2>{{.Heading}}</h2>
{{- else if .Text}}<p>{{.Text}}</p>
{{- else if .Stat}}<h3>{{.Title}}</h3><div class="stat">{{.Stat.Value}}</div>
{{- else if .Bars}}<h3>{{.Title}}</h3>{{range .Bars}}<div class="bar-line"><span class="label">{{.Label}}</span><span class="bar" style="width: {{.Percent}}%; background: {{.Color}}"></span><span>{{.Value}}</span></div>{{end}}
{{- else if .Rows}}<h3>{{.Title}}</h3><table><thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead><tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>
{{- else if .Swatches}}<h3>{{.Title}}</h3>{{range .Swatches}}<span class="swatch" style="background: {{.}}"></span>{{end}}
{{- end}}</div>
{{end}}`))

// RenderHTML produces the print document handed to the export renderer.
func RenderHTML(doc *Document) ([]byte, error) {
	view := documentView{Document: doc, Generated: doc.GeneratedAt.Format("02 Jan 2006")}
	for _, r := range doc.Rows {
		rv := rowView{Kind: r.Kind, BreakBefore: r.BreakBefore}
		for _, c := range r.Cells {
			rv.Cells = append(rv.Cells, viewCell(c))
		}
		view.RowViews = append(view.RowViews, rv)
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render report html: %w", err)
	}
	return buf.Bytes(), nil
}
