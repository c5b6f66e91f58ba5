// Package report turns reshaped tables into a self-contained interactive
// HTML dashboard. Figures are described as JSON payloads embedded in the
// document and drawn client-side by ECharts; tables are rendered directly
// into the markup.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/covidash/covidash/internal/dataset"
)

// SeriesData is one named line or bar series.
type SeriesData struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// Chart is the renderable payload for one figure.
type Chart struct {
	ID        string       `json:"id"`
	Kind      string       `json:"kind"` // "line" or "bar"
	Title     string       `json:"title"`
	XAxis     []string     `json:"xAxis"`
	Series    []SeriesData `json:"series"`
	Scale     string       `json:"scale"`
	LogToggle bool         `json:"logToggle"`
	YLabel    string       `json:"yLabel"`
}

// TableData is a server-rendered table.
type TableData struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Tab groups figures and tables under one pane.
type Tab struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Charts []Chart     `json:"charts"`
	Tables []TableData `json:"-"`
}

// SelectorDetail carries the per-country values behind the region dropdown.
// IncidentRate and CFR are source strings passed through untouched.
type SelectorDetail struct {
	Counts       []float64 `json:"counts"`
	IncidentRate string    `json:"incidentRate"`
	CFR          string    `json:"cfr"`
}

// Selector wires a dropdown to one chart, switching its data client-side.
type Selector struct {
	ChartID string                    `json:"chartId"`
	Options []string                  `json:"options"`
	Default string                    `json:"default"`
	Details map[string]SelectorDetail `json:"details"`
}

// Dashboard is everything one HTML artifact embeds.
type Dashboard struct {
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	DataDate  string    `json:"dataDate"`
	Generated string    `json:"generated"`
	RunID     string    `json:"runId"`
	Tabs      []Tab     `json:"tabs"`
	Selector  *Selector `json:"selector,omitempty"`
}

// Builder resolves ViewSpecs against one pipeline invocation's data. It is
// the explicit per-call context that stands in for any global figure
// registry: create one, build the dashboard, let it go.
type Builder struct {
	table     *dataset.Table
	worldwide *dataset.CountrySeries
	pop       dataset.Population
	trim      int
	seq       int
	tables    int
}

// NewBuilder creates a chart builder over a joined time-series table.
// trim drops that many leading dates from plotted axes (the early flat weeks
// of the global series); it never affects derived-column computation, which
// always runs on the full series.
func NewBuilder(table *dataset.Table, pop dataset.Population, trim int) *Builder {
	if trim < 0 || trim >= len(table.Dates) {
		trim = 0
	}
	return &Builder{
		table:     table,
		worldwide: table.Worldwide(),
		pop:       pop,
		trim:      trim,
	}
}

func (b *Builder) nextID() string {
	b.seq++
	return fmt.Sprintf("chart-%d", b.seq)
}

func (b *Builder) countrySeries(country string) *dataset.CountrySeries {
	if country == "Worldwide" {
		return b.worldwide
	}
	return b.table.Data[country]
}

// metricSeries computes the full-length series for one metric and country.
// A nil result means the metric is undefined for that country.
func (b *Builder) metricSeries(m Metric, country string) []float64 {
	cs := b.countrySeries(country)
	if cs == nil {
		return nil
	}
	switch m {
	case MetricConfirmed:
		return cs.Confirmed
	case MetricDailyCases:
		return dataset.Delta(cs.Confirmed)
	case MetricSevenDayAvg:
		return dataset.MovingAverage(dataset.Delta(cs.Confirmed), 7)
	case MetricRecovered:
		return cs.Recovered
	case MetricDeaths:
		return cs.Deaths
	case MetricActive:
		return cs.Active
	case MetricIncidentRate:
		return dataset.IncidentRate(cs.Confirmed, b.pop.Lookup(country))
	}
	return nil
}

// Chart materializes a line or bar ViewSpec into its payload. Series appear
// in spec.Regions order, so the caller's ordering fixes the palette.
func (b *Builder) Chart(spec ViewSpec) Chart {
	if spec.Kind == Bar {
		return b.barChart(spec)
	}
	return b.lineChart(spec)
}

func (b *Builder) lineChart(spec ViewSpec) Chart {
	c := Chart{
		ID:        b.nextID(),
		Kind:      "line",
		Title:     spec.Title,
		XAxis:     b.dateAxis(),
		Scale:     string(normalizeScale(spec.Scale)),
		LogToggle: true,
		YLabel:    "COVID-19 cases",
	}
	if len(spec.Metrics) == 0 {
		return c
	}
	for _, region := range spec.Regions {
		vals := b.metricSeries(spec.Metrics[0], region)
		if vals == nil {
			continue
		}
		c.Series = append(c.Series, SeriesData{Name: region, Data: vals[b.trim:]})
	}
	return c
}

func (b *Builder) barChart(spec ViewSpec) Chart {
	last := len(b.table.Dates) - 1
	return barPayload(b.nextID(), spec, func(m Metric, region string) float64 {
		if last < 0 {
			return 0
		}
		if vals := b.metricSeries(m, region); vals != nil {
			return vals[last]
		}
		return 0
	})
}

// Table materializes a TableView ViewSpec: one row per region, one column per
// metric, latest values formatted for display.
func (b *Builder) Table(spec ViewSpec) TableData {
	b.tables++
	td := TableData{
		ID:      fmt.Sprintf("table-%d", b.tables),
		Title:   spec.Title,
		Columns: append([]string{"Country"}, metricNames(spec.Metrics)...),
	}
	last := len(b.table.Dates) - 1
	if last < 0 {
		return td
	}
	for _, region := range spec.Regions {
		row := []string{region}
		for _, m := range spec.Metrics {
			var v float64
			if vals := b.metricSeries(m, region); vals != nil {
				v = vals[last]
			}
			row = append(row, formatCount(v))
		}
		td.Rows = append(td.Rows, row)
	}
	return td
}

// barPayload lays out latest-value bars. A single-region spec puts the
// metrics on the category axis; multiple regions group one series per metric.
func barPayload(id string, spec ViewSpec, value func(Metric, string) float64) Chart {
	c := Chart{
		ID:     id,
		Kind:   "bar",
		Title:  spec.Title,
		Scale:  string(normalizeScale(spec.Scale)),
		YLabel: "COVID-19 cases",
	}
	if len(spec.Regions) == 1 {
		region := spec.Regions[0]
		s := SeriesData{Name: region}
		for _, m := range spec.Metrics {
			c.XAxis = append(c.XAxis, string(m))
			s.Data = append(s.Data, value(m, region))
		}
		c.Series = []SeriesData{s}
		return c
	}
	c.XAxis = spec.Regions
	for _, m := range spec.Metrics {
		s := SeriesData{Name: string(m)}
		for _, region := range spec.Regions {
			s.Data = append(s.Data, value(m, region))
		}
		c.Series = append(c.Series, s)
	}
	return c
}

func normalizeScale(s Scale) Scale {
	if s == Log {
		return Log
	}
	return Linear
}

func metricNames(ms []Metric) []string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = string(m)
	}
	return names
}

func (b *Builder) dateAxis() []string {
	dates := b.table.Dates[b.trim:]
	axis := make([]string, len(dates))
	for i, d := range dates {
		axis[i] = d.Format("2006-01-02")
	}
	return axis
}

// BuildTrends assembles the trends dashboard: per-metric comparison lines for
// the top countries, a grouped top-N bar with its table, and the worldwide
// totals view.
func BuildTrends(table *dataset.Table, pop dataset.Population, topN, trim int) *Dashboard {
	b := NewBuilder(table, pop, trim)
	top := table.TopCountries(topN)

	d := &Dashboard{
		Title:     "COVID-19 Trends",
		Subtitle:  fmt.Sprintf("Top %d countries by cumulative confirmed cases", len(top)),
		DataDate:  table.LastDate().Format("Monday, Jan 02, 2006"),
		Generated: time.Now().UTC().Format(time.RFC3339),
		RunID:     uuid.NewString(),
	}

	trendTab := Tab{ID: "tab-trends", Label: "Trends"}
	for _, m := range []Metric{MetricConfirmed, MetricDailyCases, MetricSevenDayAvg, MetricRecovered, MetricDeaths, MetricActive} {
		trendTab.Charts = append(trendTab.Charts, b.Chart(ViewSpec{
			Kind:    Line,
			Title:   fmt.Sprintf("%s trends for top %d countries", m, len(top)),
			Metrics: []Metric{m},
			Scale:   Linear,
			Regions: top,
		}))
	}
	if len(pop) > 0 {
		trendTab.Charts = append(trendTab.Charts, b.Chart(ViewSpec{
			Kind:    Line,
			Title:   fmt.Sprintf("Incident rate (cases per 100,000) for top %d countries", len(top)),
			Metrics: []Metric{MetricIncidentRate},
			Scale:   Linear,
			Regions: top,
		}))
	}
	d.Tabs = append(d.Tabs, trendTab)

	compare := Tab{ID: "tab-compare", Label: "Top 10 Comparison"}
	compare.Charts = append(compare.Charts, b.Chart(ViewSpec{
		Kind:    Bar,
		Title:   fmt.Sprintf("Latest totals for top %d countries", len(top)),
		Metrics: countMetrics,
		Scale:   Linear,
		Regions: top,
	}))
	compare.Tables = append(compare.Tables, b.Table(ViewSpec{
		Kind:    TableView,
		Title:   "Top countries",
		Metrics: countMetrics,
		Regions: top,
	}))
	d.Tabs = append(d.Tabs, compare)

	world := Tab{ID: "tab-worldwide", Label: "Worldwide"}
	world.Charts = append(world.Charts, b.Chart(ViewSpec{
		Kind:    Bar,
		Title:   "Worldwide totals",
		Metrics: countMetrics,
		Scale:   Linear,
		Regions: []string{"Worldwide"},
	}))
	world.Tables = append(world.Tables, b.Table(ViewSpec{
		Kind:    TableView,
		Title:   "Worldwide",
		Metrics: countMetrics,
		Regions: []string{"Worldwide"},
	}))
	d.Tabs = append(d.Tabs, world)

	return d
}

// countMetrics is the fixed metric set of the latest-totals bar and table views.
var countMetrics = []Metric{MetricConfirmed, MetricRecovered, MetricDeaths, MetricActive}

// snapshotBuilder resolves bar ViewSpecs against one daily snapshot's
// country totals.
type snapshotBuilder struct {
	totals map[string]dataset.CountryTotal
}

func newSnapshotBuilder(totals []dataset.CountryTotal) *snapshotBuilder {
	byCountry := make(map[string]dataset.CountryTotal, len(totals))
	for _, ct := range totals {
		byCountry[ct.Country] = ct
	}
	return &snapshotBuilder{totals: byCountry}
}

func (b *snapshotBuilder) metricValue(m Metric, country string) float64 {
	ct := b.totals[country]
	switch m {
	case MetricConfirmed:
		return ct.Confirmed
	case MetricRecovered:
		return ct.Recovered
	case MetricDeaths:
		return ct.Deaths
	case MetricActive:
		return ct.Active
	}
	return 0
}

// Chart materializes a bar ViewSpec under the given element id. Daily charts
// carry fixed ids because the selector script targets them.
func (b *snapshotBuilder) Chart(id string, spec ViewSpec) Chart {
	return barPayload(id, spec, b.metricValue)
}

// BuildDaily assembles the daily-report dashboard: a top-N country bar, a
// per-country detail view driven by a dropdown, and the raw snapshot table
// with incident rate and case fatality ratio passed through.
func BuildDaily(snap *dataset.DailySnapshot, topN int, defaultCountry string) *Dashboard {
	totals := snap.CountryTotals()
	top := dataset.TopTotals(totals, topN)
	sb := newSnapshotBuilder(totals)

	d := &Dashboard{
		Title:     "COVID-19 Daily Report",
		Subtitle:  fmt.Sprintf("Last update: %s", snap.LastUpdate),
		DataDate:  snap.LastUpdate,
		Generated: time.Now().UTC().Format(time.RFC3339),
		RunID:     uuid.NewString(),
	}

	topNames := make([]string, len(top))
	for i, ct := range top {
		topNames[i] = ct.Country
	}
	topTab := Tab{ID: "tab-top", Label: "Top Countries"}
	topTab.Charts = append(topTab.Charts, sb.Chart("chart-daily-top", ViewSpec{
		Kind:    Bar,
		Title:   fmt.Sprintf("Top %d countries", len(top)),
		Metrics: countMetrics,
		Scale:   Linear,
		Regions: topNames,
	}))
	d.Tabs = append(d.Tabs, topTab)

	countryTab := Tab{ID: "tab-country", Label: "By Country"}
	sel := &Selector{
		ChartID: "chart-daily-country",
		Details: make(map[string]SelectorDetail, len(totals)),
	}
	for _, ct := range totals {
		sel.Options = append(sel.Options, ct.Country)
		sel.Details[ct.Country] = SelectorDetail{
			Counts:       []float64{ct.Confirmed, ct.Recovered, ct.Deaths, ct.Active},
			IncidentRate: countryRate(snap, ct.Country, func(r dataset.DailyRow) string { return r.IncidentRate }),
			CFR:          countryRate(snap, ct.Country, func(r dataset.DailyRow) string { return r.CaseFatalityRatio }),
		}
	}
	sel.Default = defaultCountry
	if _, ok := sel.Details[sel.Default]; !ok && len(sel.Options) > 0 {
		sel.Default = sel.Options[0]
	}
	countryTab.Charts = append(countryTab.Charts, sb.Chart(sel.ChartID, ViewSpec{
		Kind:    Bar,
		Title:   fmt.Sprintf("Daily report: %s", sel.Default),
		Metrics: countMetrics,
		Scale:   Linear,
		Regions: []string{sel.Default},
	}))
	d.Selector = sel
	d.Tabs = append(d.Tabs, countryTab)

	snapTab := Tab{ID: "tab-snapshot", Label: "Snapshot Table"}
	snapTable := TableData{
		ID:      "table-snapshot",
		Title:   "Daily snapshot",
		Columns: []string{"Admin2", "Province/State", "Country/Region", "Confirmed", "Deaths", "Recovered", "Active", "Incident Rate", "Case Fatality Ratio"},
	}
	for _, r := range snap.Rows {
		snapTable.Rows = append(snapTable.Rows, []string{
			r.Admin2,
			r.Province,
			r.Country,
			formatCount(r.Confirmed),
			formatCount(r.Deaths),
			formatCount(r.Recovered),
			formatCount(r.Active),
			r.IncidentRate,
			r.CaseFatalityRatio,
		})
	}
	snapTab.Tables = append(snapTab.Tables, snapTable)
	d.Tabs = append(d.Tabs, snapTab)

	return d
}

// countryRate finds the pass-through rate string on a country-level row, if
// the snapshot has one. Sub-region rows do not represent the whole country.
func countryRate(snap *dataset.DailySnapshot, country string, pick func(dataset.DailyRow) string) string {
	for _, r := range snap.Rows {
		if dataset.CanonicalCountry(r.Country) == country && r.Province == "" && r.Admin2 == "" {
			return pick(r)
		}
	}
	return ""
}

// formatCount renders a case count with thousands separators.
func formatCount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
