package report

// Kind selects the renderable a ViewSpec produces.
type Kind int

const (
	Line Kind = iota
	Bar
	TableView
)

// Scale is the initial y-axis scale of a chart. Line charts additionally
// carry a client-side log/linear toggle that re-renders the embedded data.
type Scale string

const (
	Linear Scale = "linear"
	Log    Scale = "log"
)

// Metric names a plottable series derived from the joined time-series table.
type Metric string

const (
	MetricConfirmed    Metric = "Confirmed"
	MetricDailyCases   Metric = "Daily Cases"
	MetricSevenDayAvg  Metric = "Seven Day Moving Average"
	MetricRecovered    Metric = "Recovered"
	MetricDeaths       Metric = "Deaths"
	MetricActive       Metric = "Active"
	MetricIncidentRate Metric = "Incident Rate"
)

// ViewSpec is the declarative description of one figure or table: what to
// draw, from which metrics, at which scale, for which regions. Line views
// plot the first metric over time; bar and table views take the latest value
// of every listed metric. Region order is meaningful; it fixes series colors
// across runs.
type ViewSpec struct {
	Kind    Kind
	Title   string
	Metrics []Metric
	Scale   Scale
	Regions []string
}
