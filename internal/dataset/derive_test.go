package dataset

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDelta(t *testing.T) {
	got := Delta([]float64{5, 7, 7, 12})
	want := []float64{0, 2, 0, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delta[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDeltaSinglePoint(t *testing.T) {
	got := Delta([]float64{42})
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("single-point delta = %v, want [0]", got)
	}
}

func TestMovingAveragePartialWindows(t *testing.T) {
	vals := []float64{2, 4, 6, 8, 10, 12, 14, 16}
	got := MovingAverage(vals, 7)
	// First positions average everything available so far.
	if !almostEqual(got[0], 2) {
		t.Fatalf("ma[0] = %v, want 2", got[0])
	}
	if !almostEqual(got[2], 4) { // (2+4+6)/3
		t.Fatalf("ma[2] = %v, want 4", got[2])
	}
	if !almostEqual(got[6], 8) { // mean of 2..14
		t.Fatalf("ma[6] = %v, want 8", got[6])
	}
	if !almostEqual(got[7], 10) { // full window 4..16
		t.Fatalf("ma[7] = %v, want 10", got[7])
	}
}

func TestMovingAverageSinglePoint(t *testing.T) {
	got := MovingAverage([]float64{9}, 7)
	if len(got) != 1 || !almostEqual(got[0], 9) {
		t.Fatalf("single-point ma = %v, want [9]", got)
	}
}

func tableFor(t *testing.T, days int) *Table {
	t.Helper()
	dates := make([]time.Time, days)
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return &Table{Dates: dates, Data: make(map[string]*CountrySeries)}
}

func addCountry(tab *Table, name string, confirmed []float64) {
	n := len(confirmed)
	tab.Countries = append(tab.Countries, name)
	tab.Data[name] = &CountrySeries{
		Confirmed: confirmed,
		Recovered: make([]float64, n),
		Deaths:    make([]float64, n),
		Active:    append([]float64(nil), confirmed...),
	}
}

func TestTopCountriesOrderAndTies(t *testing.T) {
	tab := tableFor(t, 2)
	addCountry(tab, "Arland", []float64{1, 50})
	addCountry(tab, "Borland", []float64{2, 100})
	addCountry(tab, "Cydonia", []float64{3, 100})
	addCountry(tab, "Dorne", []float64{4, 10})

	top := tab.TopCountries(3)
	want := []string{"Borland", "Cydonia", "Arland"}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("top = %v, want %v", top, want)
		}
	}
}

func TestTopCountriesFewerThanN(t *testing.T) {
	tab := tableFor(t, 1)
	addCountry(tab, "Arland", []float64{5})
	top := tab.TopCountries(10)
	if len(top) != 1 || top[0] != "Arland" {
		t.Fatalf("top = %v, want [Arland]", top)
	}
}

func TestWorldwideSums(t *testing.T) {
	tab := tableFor(t, 3)
	addCountry(tab, "Arland", []float64{1, 2, 3})
	addCountry(tab, "Borland", []float64{10, 20, 30})

	ww := tab.Worldwide()
	want := []float64{11, 22, 33}
	for i := range want {
		if ww.Confirmed[i] != want[i] {
			t.Fatalf("worldwide confirmed[%d] = %v, want %v", i, ww.Confirmed[i], want[i])
		}
	}
}

func TestIncidentRate(t *testing.T) {
	got := IncidentRate([]float64{1000, 2000}, 100000)
	if got[0] != 1000 || got[1] != 2000 {
		t.Fatalf("incident rate = %v", got)
	}
	if IncidentRate([]float64{1}, 0) != nil {
		t.Fatal("zero population must yield nil")
	}
}
