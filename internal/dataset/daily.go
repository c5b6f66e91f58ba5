package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// DailyRow is one region row from a daily report file. IncidentRate and
// CaseFatalityRatio are kept as the source strings: they are pass-through
// metrics, never recomputed here.
type DailyRow struct {
	Admin2            string
	Province          string
	Country           string
	Confirmed         float64
	Deaths            float64
	Recovered         float64
	Active            float64
	IncidentRate      string
	CaseFatalityRatio string
}

// DailySnapshot is a single date's report in row form.
type DailySnapshot struct {
	LastUpdate string
	Rows       []DailyRow
}

// normalizeHeader folds the column-name variants the daily files have used
// over time (Country/Region vs Country_Region, Incidence_Rate vs
// Incident_Rate, Case-Fatality_Ratio vs Case_Fatality_Ratio).
func normalizeHeader(name string) string {
	n := strings.TrimSpace(name)
	n = strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(n)
	if n == "Incidence_Rate" {
		n = "Incident_Rate"
	}
	return n
}

// ReshapeDaily converts a daily report frame into snapshot rows. Column order
// and optional columns vary between dates, so columns are resolved by
// normalized name; only Country_Region and Confirmed are required.
func ReshapeDaily(df dataframe.DataFrame) (*DailySnapshot, error) {
	idx := make(map[string]int)
	for i, n := range df.Names() {
		idx[normalizeHeader(n)] = i
	}
	if _, ok := idx["Country_Region"]; !ok {
		return nil, fmt.Errorf("daily report: no Country_Region column in %v", df.Names())
	}
	if _, ok := idx["Confirmed"]; !ok {
		return nil, fmt.Errorf("daily report: no Confirmed column in %v", df.Names())
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	snap := &DailySnapshot{}
	for _, row := range df.Records()[1:] {
		r := DailyRow{
			Admin2:            cell(row, "Admin2"),
			Province:          cell(row, "Province_State"),
			Country:           cell(row, "Country_Region"),
			Confirmed:         parseCount(cell(row, "Confirmed")),
			Deaths:            parseCount(cell(row, "Deaths")),
			Recovered:         parseCount(cell(row, "Recovered")),
			Active:            parseCount(cell(row, "Active")),
			IncidentRate:      cell(row, "Incident_Rate"),
			CaseFatalityRatio: cell(row, "Case_Fatality_Ratio"),
		}
		if r.Country == "" {
			continue
		}
		snap.Rows = append(snap.Rows, r)
		if snap.LastUpdate == "" {
			snap.LastUpdate = cell(row, "Last_Update")
		}
	}
	return snap, nil
}

// CountryTotal aggregates one country's counts across its sub-region rows.
type CountryTotal struct {
	Country   string
	Confirmed float64
	Recovered float64
	Deaths    float64
	Active    float64
}

// CountryTotals rolls sub-region rows up to canonical countries, preserving
// first-appearance order. The rate columns are intentionally absent: they
// cannot be summed and stay pass-through on the raw rows.
func (s *DailySnapshot) CountryTotals() []CountryTotal {
	byCountry := make(map[string]*CountryTotal)
	var order []string
	for _, r := range s.Rows {
		country := CanonicalCountry(r.Country)
		ct, ok := byCountry[country]
		if !ok {
			ct = &CountryTotal{Country: country}
			byCountry[country] = ct
			order = append(order, country)
		}
		ct.Confirmed += r.Confirmed
		ct.Recovered += r.Recovered
		ct.Deaths += r.Deaths
		ct.Active += r.Active
	}
	totals := make([]CountryTotal, len(order))
	for i, c := range order {
		totals[i] = *byCountry[c]
	}
	return totals
}

// TopTotals returns the n countries with the most confirmed cases,
// descending, ties stable on input order.
func TopTotals(totals []CountryTotal, n int) []CountryTotal {
	ranked := make([]CountryTotal, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Confirmed > ranked[j].Confirmed })
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}
