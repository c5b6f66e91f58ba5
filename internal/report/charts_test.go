package report

import (
	"testing"
	"time"

	"github.com/covidash/covidash/internal/dataset"
)

func trendsTable(t *testing.T) *dataset.Table {
	t.Helper()
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := &dataset.Table{
		Dates: []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2)},
		Data:  map[string]*dataset.CountrySeries{},
	}
	add := func(name string, confirmed, recovered, deaths []float64) {
		cs := &dataset.CountrySeries{Confirmed: confirmed, Recovered: recovered, Deaths: deaths}
		cs.Active = make([]float64, len(confirmed))
		for i := range confirmed {
			cs.Active[i] = confirmed[i] - recovered[i] - deaths[i]
		}
		tbl.Countries = append(tbl.Countries, name)
		tbl.Data[name] = cs
	}
	add("Arland", []float64{1, 3, 6}, []float64{0, 1, 2}, []float64{0, 0, 1})
	add("Borland", []float64{10, 20, 40}, []float64{2, 4, 8}, []float64{1, 1, 2})
	add("Cydonia", []float64{5, 9, 12}, []float64{1, 2, 3}, []float64{0, 1, 1})
	return tbl
}

func TestBuildTrendsStructure(t *testing.T) {
	tbl := trendsTable(t)
	pop := dataset.Population{"Arland": 1000, "Borland": 2000, "Cydonia": 3000, "Worldwide": 6000}

	d := BuildTrends(tbl, pop, 2, 0)
	if len(d.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(d.Tabs))
	}
	if d.Tabs[0].ID != "tab-trends" || d.Tabs[1].ID != "tab-compare" || d.Tabs[2].ID != "tab-worldwide" {
		t.Fatalf("tab ids = %q %q %q", d.Tabs[0].ID, d.Tabs[1].ID, d.Tabs[2].ID)
	}
	// Six metric charts plus the incident-rate chart when populations exist.
	if got := len(d.Tabs[0].Charts); got != 7 {
		t.Fatalf("trend charts = %d", got)
	}
	for _, c := range d.Tabs[0].Charts {
		if c.Kind != "line" {
			t.Fatalf("chart %s kind = %q", c.ID, c.Kind)
		}
		// topN=2 picks Borland then Cydonia by latest confirmed.
		if len(c.Series) != 2 || c.Series[0].Name != "Borland" || c.Series[1].Name != "Cydonia" {
			t.Fatalf("chart %s series = %+v", c.Title, c.Series)
		}
	}
	if d.RunID == "" || d.Generated == "" {
		t.Fatal("run metadata missing")
	}

	bar := d.Tabs[1].Charts[0]
	if bar.Kind != "bar" || len(bar.XAxis) != 2 || len(bar.Series) != 4 {
		t.Fatalf("compare bar shape: %+v", bar)
	}
	if bar.Series[0].Data[0] != 40 {
		t.Fatalf("latest confirmed for Borland = %v", bar.Series[0].Data[0])
	}
	if len(d.Tabs[1].Tables) != 1 || len(d.Tabs[1].Tables[0].Rows) != 2 {
		t.Fatalf("compare table shape: %+v", d.Tabs[1].Tables)
	}

	ww := d.Tabs[2].Charts[0]
	// Worldwide confirmed is the sum of all three countries on the last date.
	if ww.Series[0].Data[0] != 58 {
		t.Fatalf("worldwide confirmed = %v", ww.Series[0].Data[0])
	}
}

func TestChartKindRouting(t *testing.T) {
	b := NewBuilder(trendsTable(t), nil, 0)

	line := b.Chart(ViewSpec{Kind: Line, Metrics: []Metric{MetricConfirmed}, Scale: Log, Regions: []string{"Arland"}})
	if line.Kind != "line" || line.Scale != string(Log) || !line.LogToggle {
		t.Fatalf("line chart = %+v", line)
	}

	bar := b.Chart(ViewSpec{Kind: Bar, Metrics: countMetrics, Regions: []string{"Arland", "Borland"}})
	if bar.Kind != "bar" || len(bar.XAxis) != 2 || len(bar.Series) != 4 {
		t.Fatalf("grouped bar = %+v", bar)
	}
	// Latest confirmed for Arland lands in the first series, first category.
	if bar.Series[0].Name != "Confirmed" || bar.Series[0].Data[0] != 6 {
		t.Fatalf("bar values = %+v", bar.Series[0])
	}

	// A single region flips the metrics onto the category axis.
	single := b.Chart(ViewSpec{Kind: Bar, Metrics: countMetrics, Regions: []string{"Worldwide"}})
	if len(single.XAxis) != 4 || single.XAxis[0] != "Confirmed" {
		t.Fatalf("single-region bar axis = %v", single.XAxis)
	}
	if len(single.Series) != 1 || single.Series[0].Name != "Worldwide" || single.Series[0].Data[0] != 58 {
		t.Fatalf("single-region bar series = %+v", single.Series)
	}

	// An unrecognized scale normalizes to linear.
	plain := b.Chart(ViewSpec{Kind: Line, Metrics: []Metric{MetricDeaths}, Regions: []string{"Arland"}})
	if plain.Scale != string(Linear) {
		t.Fatalf("default scale = %q", plain.Scale)
	}
}

func TestTableView(t *testing.T) {
	b := NewBuilder(trendsTable(t), nil, 0)
	td := b.Table(ViewSpec{Kind: TableView, Title: "Top countries", Metrics: countMetrics, Regions: []string{"Borland", "Arland"}})
	want := []string{"Country", "Confirmed", "Recovered", "Deaths", "Active"}
	if len(td.Columns) != len(want) || td.Columns[1] != "Confirmed" || td.Columns[4] != "Active" {
		t.Fatalf("table columns = %v", td.Columns)
	}
	if len(td.Rows) != 2 || td.Rows[0][0] != "Borland" || td.Rows[0][1] != "40" {
		t.Fatalf("table rows = %v", td.Rows)
	}
}

func TestBuildTrendsNoPopulationSkipsIncidentRate(t *testing.T) {
	d := BuildTrends(trendsTable(t), nil, 2, 0)
	if got := len(d.Tabs[0].Charts); got != 6 {
		t.Fatalf("trend charts without population = %d", got)
	}
}

func TestBuilderTrimsAxesOnly(t *testing.T) {
	tbl := trendsTable(t)
	b := NewBuilder(tbl, nil, 1)
	c := b.Chart(ViewSpec{Kind: Line, Title: "t", Metrics: []Metric{MetricDailyCases}, Regions: []string{"Arland"}})
	if len(c.XAxis) != 2 {
		t.Fatalf("trimmed axis len = %d", len(c.XAxis))
	}
	// Delta runs on the full series before trimming: day 2 delta is 3-1=2.
	if c.Series[0].Data[0] != 2 {
		t.Fatalf("first trimmed delta = %v", c.Series[0].Data[0])
	}
}

func TestBuilderTrimOutOfRangeDisabled(t *testing.T) {
	tbl := trendsTable(t)
	b := NewBuilder(tbl, nil, 99)
	c := b.Chart(ViewSpec{Kind: Line, Metrics: []Metric{MetricConfirmed}, Regions: []string{"Arland"}})
	if len(c.XAxis) != 3 {
		t.Fatalf("axis len with oversized trim = %d", len(c.XAxis))
	}
}

func dailySnapshot() *dataset.DailySnapshot {
	return &dataset.DailySnapshot{
		LastUpdate: "2021-03-01 05:22:41",
		Rows: []dataset.DailyRow{
			{Country: "Arland", Confirmed: 100, Recovered: 40, Deaths: 5, Active: 55, IncidentRate: "812.5", CaseFatalityRatio: "5.0"},
			{Country: "Borland", Confirmed: 500, Recovered: 100, Deaths: 20, Active: 380, IncidentRate: "300.1", CaseFatalityRatio: "4.0"},
			{Country: "Cydonia", Confirmed: 50, Recovered: 10, Deaths: 1, Active: 39, IncidentRate: "99.9", CaseFatalityRatio: "2.0"},
			{Country: "Duria", Confirmed: 20, Recovered: 5, Deaths: 0, Active: 15, IncidentRate: "10.0", CaseFatalityRatio: "0.0"},
			{Country: "Elandia", Confirmed: 10, Recovered: 2, Deaths: 0, Active: 8, IncidentRate: "4.2", CaseFatalityRatio: "0.0"},
		},
	}
}

func TestBuildDaily(t *testing.T) {
	d := BuildDaily(dailySnapshot(), 5, "Cydonia")
	if len(d.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(d.Tabs))
	}

	bar := d.Tabs[0].Charts[0]
	// Five regions produce exactly five bar categories.
	if len(bar.XAxis) != 5 {
		t.Fatalf("bar categories = %v", bar.XAxis)
	}
	if bar.XAxis[0] != "Borland" || bar.XAxis[1] != "Arland" {
		t.Fatalf("bar order = %v", bar.XAxis)
	}
	if len(bar.Series) != 4 || bar.Series[0].Name != "Confirmed" {
		t.Fatalf("bar series = %+v", bar.Series)
	}

	if d.Selector == nil || d.Selector.Default != "Cydonia" {
		t.Fatalf("selector = %+v", d.Selector)
	}
	det := d.Selector.Details["Arland"]
	if det.IncidentRate != "812.5" || det.CFR != "5.0" {
		t.Fatalf("selector rates modified: %+v", det)
	}

	snapTable := d.Tabs[2].Tables[0]
	if len(snapTable.Rows) != 5 {
		t.Fatalf("snapshot rows = %d", len(snapTable.Rows))
	}
	// Rate columns land in the table exactly as the source strings.
	if snapTable.Rows[0][7] != "812.5" || snapTable.Rows[0][8] != "5.0" {
		t.Fatalf("snapshot rate columns = %v", snapTable.Rows[0])
	}
}

func TestBuildDailyUnknownDefaultFallsBack(t *testing.T) {
	d := BuildDaily(dailySnapshot(), 3, "Atlantis")
	if d.Selector.Default != "Arland" {
		t.Fatalf("fallback default = %q", d.Selector.Default)
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		if got := formatCount(in); got != want {
			t.Errorf("formatCount(%v) = %q, want %q", in, got, want)
		}
	}
}
