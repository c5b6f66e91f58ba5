// Package dataset reshapes the wide upstream CSV layouts into tidy tables
// keyed by (country, date) and computes the derived series the dashboards
// plot. Parsing is permissive: malformed numeric cells coerce to zero so a
// single bad row never sinks a whole pipeline.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
)

// Upstream time-series date headers use m/d/yy.
const headerDateLayout = "1/2/06"

// MetricSeries holds one cumulative metric per country after sub-region rows
// have been summed into their country.
type MetricSeries struct {
	Dates     []time.Time
	Countries []string // first-appearance order of the source rows
	Values    map[string][]float64
}

// ReshapeTimeSeries converts a wide time-series frame (one row per region,
// one column per day) into per-country cumulative series. Sub-region rows of
// the same country are summed. Headers that do not parse as m/d/yy dates are
// skipped.
func ReshapeTimeSeries(df dataframe.DataFrame) (*MetricSeries, error) {
	names := df.Names()
	countryIdx := -1
	for i, n := range names {
		if n == "Country/Region" || n == "Country_Region" {
			countryIdx = i
			break
		}
	}
	if countryIdx < 0 {
		return nil, fmt.Errorf("reshape: no Country/Region column in %v", names)
	}

	type dateCol struct {
		idx  int
		date time.Time
	}
	var dateCols []dateCol
	for i, n := range names {
		d, err := time.Parse(headerDateLayout, strings.TrimSpace(n))
		if err != nil {
			continue
		}
		dateCols = append(dateCols, dateCol{idx: i, date: d})
	}
	sort.SliceStable(dateCols, func(i, j int) bool { return dateCols[i].date.Before(dateCols[j].date) })

	ms := &MetricSeries{
		Dates:  make([]time.Time, len(dateCols)),
		Values: make(map[string][]float64),
	}
	for i, dc := range dateCols {
		ms.Dates[i] = dc.date
	}

	records := df.Records()
	for _, row := range records[1:] { // records[0] is the header
		if countryIdx >= len(row) {
			continue
		}
		country := CanonicalCountry(row[countryIdx])
		if country == "" {
			continue
		}
		vals, ok := ms.Values[country]
		if !ok {
			vals = make([]float64, len(dateCols))
			ms.Values[country] = vals
			ms.Countries = append(ms.Countries, country)
		}
		for i, dc := range dateCols {
			if dc.idx < len(row) {
				vals[i] += parseCount(row[dc.idx])
			}
		}
	}
	return ms, nil
}

// parseCount coerces a numeric cell to a float. Thousands separators are
// tolerated; anything else malformed becomes zero.
func parseCount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != v { // reject NaN as well
		return 0
	}
	return v
}

// CountrySeries carries the per-date metric columns for one country.
type CountrySeries struct {
	Confirmed []float64
	Recovered []float64
	Deaths    []float64
	Active    []float64
}

// Table is the joined tidy time-series: every country of the confirmed file,
// with recovered and deaths aligned on the confirmed date axis and active
// computed per date.
type Table struct {
	Dates     []time.Time
	Countries []string
	Data      map[string]*CountrySeries
	Warnings  []string
}

// Row is one (country, date) observation in long form.
type Row struct {
	Country   string
	Date      time.Time
	Confirmed float64
	Recovered float64
	Deaths    float64
	Active    float64
}

// Join outer-joins the three metric series on (country, date). The confirmed
// table defines the country set and the date axis; countries missing from
// recovered or deaths are zero-filled and reported in Warnings, never
// dropped. Active is computed after the join.
func Join(confirmed, recovered, deaths *MetricSeries) *Table {
	t := &Table{
		Dates:     confirmed.Dates,
		Countries: confirmed.Countries,
		Data:      make(map[string]*CountrySeries, len(confirmed.Countries)),
	}

	recIdx := dateIndex(recovered.Dates)
	deaIdx := dateIndex(deaths.Dates)

	for _, country := range confirmed.Countries {
		cs := &CountrySeries{
			Confirmed: confirmed.Values[country],
			Recovered: alignSeries(t.Dates, recovered.Values[country], recIdx),
			Deaths:    alignSeries(t.Dates, deaths.Values[country], deaIdx),
		}
		if _, ok := recovered.Values[country]; !ok {
			t.Warnings = append(t.Warnings, fmt.Sprintf("region %q missing from recovered; zero-filled", country))
		}
		if _, ok := deaths.Values[country]; !ok {
			t.Warnings = append(t.Warnings, fmt.Sprintf("region %q missing from deaths; zero-filled", country))
		}
		cs.Active = make([]float64, len(cs.Confirmed))
		for i := range cs.Confirmed {
			cs.Active[i] = cs.Confirmed[i] - cs.Recovered[i] - cs.Deaths[i]
		}
		t.Data[country] = cs
	}

	confirmedSet := make(map[string]bool, len(confirmed.Countries))
	for _, c := range confirmed.Countries {
		confirmedSet[c] = true
	}
	for _, src := range []struct {
		name string
		ms   *MetricSeries
	}{{"recovered", recovered}, {"deaths", deaths}} {
		for _, c := range src.ms.Countries {
			if !confirmedSet[c] {
				t.Warnings = append(t.Warnings, fmt.Sprintf("region %q present in %s but not in confirmed; ignored", c, src.name))
			}
		}
	}
	return t
}

func dateIndex(dates []time.Time) map[time.Time]int {
	idx := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		idx[d] = i
	}
	return idx
}

// alignSeries re-indexes vals (ordered by its own date axis) onto the target
// axis, zero-filling dates the source never saw.
func alignSeries(axis []time.Time, vals []float64, srcIdx map[time.Time]int) []float64 {
	out := make([]float64, len(axis))
	if vals == nil {
		return out
	}
	for i, d := range axis {
		if j, ok := srcIdx[d]; ok && j < len(vals) {
			out[i] = vals[j]
		}
	}
	return out
}

// Rows materializes the table in long form, country-major with dates
// ascending.
func (t *Table) Rows() []Row {
	rows := make([]Row, 0, len(t.Countries)*len(t.Dates))
	for _, country := range t.Countries {
		cs := t.Data[country]
		for i, d := range t.Dates {
			rows = append(rows, Row{
				Country:   country,
				Date:      d,
				Confirmed: cs.Confirmed[i],
				Recovered: cs.Recovered[i],
				Deaths:    cs.Deaths[i],
				Active:    cs.Active[i],
			})
		}
	}
	return rows
}

// Frame exposes the tidy rows as a dataframe, for CSV export.
func (t *Table) Frame() dataframe.DataFrame {
	records := make([][]string, 0, len(t.Countries)*len(t.Dates)+1)
	records = append(records, []string{"country", "date", "confirmed", "recovered", "deaths", "active"})
	for _, r := range t.Rows() {
		records = append(records, []string{
			r.Country,
			r.Date.Format("2006-01-02"),
			strconv.FormatFloat(r.Confirmed, 'f', -1, 64),
			strconv.FormatFloat(r.Recovered, 'f', -1, 64),
			strconv.FormatFloat(r.Deaths, 'f', -1, 64),
			strconv.FormatFloat(r.Active, 'f', -1, 64),
		})
	}
	return dataframe.LoadRecords(records)
}

// LastDate returns the newest date on the axis, or the zero time for an
// empty table.
func (t *Table) LastDate() time.Time {
	if len(t.Dates) == 0 {
		return time.Time{}
	}
	return t.Dates[len(t.Dates)-1]
}
