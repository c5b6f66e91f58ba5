package dataset

import "sort"

// Delta returns day-over-day differences of a cumulative series. The first
// point has no predecessor and yields zero.
func Delta(cum []float64) []float64 {
	out := make([]float64, len(cum))
	for i := 1; i < len(cum); i++ {
		out[i] = cum[i] - cum[i-1]
	}
	return out
}

// MovingAverage returns the simple rolling mean over the given window.
// Positions with fewer than window prior points average whatever is
// available, so a single-point series averages to itself.
func MovingAverage(vals []float64, window int) []float64 {
	out := make([]float64, len(vals))
	if window <= 0 {
		window = 1
	}
	var sum float64
	for i, v := range vals {
		sum += v
		if i >= window {
			sum -= vals[i-window]
			out[i] = sum / float64(window)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}

// TopCountries returns the n countries with the highest latest cumulative
// confirmed count, descending. Ties keep the table's input order.
func (t *Table) TopCountries(n int) []string {
	last := len(t.Dates) - 1
	if last < 0 {
		return nil
	}
	ranked := make([]string, len(t.Countries))
	copy(ranked, t.Countries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return t.Data[ranked[i]].Confirmed[last] > t.Data[ranked[j]].Confirmed[last]
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Worldwide sums every country's series per date.
func (t *Table) Worldwide() *CountrySeries {
	n := len(t.Dates)
	ww := &CountrySeries{
		Confirmed: make([]float64, n),
		Recovered: make([]float64, n),
		Deaths:    make([]float64, n),
		Active:    make([]float64, n),
	}
	for _, cs := range t.Data {
		for i := 0; i < n; i++ {
			ww.Confirmed[i] += cs.Confirmed[i]
			ww.Recovered[i] += cs.Recovered[i]
			ww.Deaths[i] += cs.Deaths[i]
			ww.Active[i] += cs.Active[i]
		}
	}
	return ww
}

// IncidentRate converts a cumulative confirmed series to cases per 100,000
// population, rounded to whole numbers. A non-positive population yields nil,
// which callers treat as "population unknown".
func IncidentRate(confirmed []float64, population float64) []float64 {
	if population <= 0 {
		return nil
	}
	out := make([]float64, len(confirmed))
	for i, v := range confirmed {
		r := v * 100000 / population
		out[i] = float64(int64(r + 0.5))
	}
	return out
}
