// Package fetch retrieves the upstream CSSE COVID-19 CSV files and decodes
// them into dataframes. Every resource is fetched exactly once per call; a
// failure surfaces as a typed error instead of a retry.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	timeSeriesDir   = "csse_covid_19_time_series"
	dailyReportsDir = "csse_covid_19_daily_reports"
	lookupTableFile = "UID_ISO_FIPS_LookUp_Table.csv"

	confirmedFile = "time_series_covid19_confirmed_global.csv"
	recoveredFile = "time_series_covid19_recovered_global.csv"
	deathsFile    = "time_series_covid19_deaths_global.csv"

	// Upstream daily report files are named mm-dd-yyyy.csv.
	dailyDateLayout = "01-02-2006"

	// How many days back from today the latest-report probe reaches.
	dailyProbeDepth = 3
)

// Client fetches CSV resources from the CSSE data repository.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL with an explicit request
// timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TimeSeries bundles the three per-metric global time-series frames.
type TimeSeries struct {
	Confirmed dataframe.DataFrame
	Recovered dataframe.DataFrame
	Deaths    dataframe.DataFrame
}

// FetchTimeSeries downloads the confirmed, recovered and deaths global
// time-series files. Three requests, one per metric.
func (c *Client) FetchTimeSeries(ctx context.Context) (*TimeSeries, error) {
	confirmed, err := c.fetchCSV(ctx, c.url(timeSeriesDir, confirmedFile))
	if err != nil {
		return nil, err
	}
	recovered, err := c.fetchCSV(ctx, c.url(timeSeriesDir, recoveredFile))
	if err != nil {
		return nil, err
	}
	deaths, err := c.fetchCSV(ctx, c.url(timeSeriesDir, deathsFile))
	if err != nil {
		return nil, err
	}
	return &TimeSeries{Confirmed: confirmed, Recovered: recovered, Deaths: deaths}, nil
}

// FetchLatestDailyReport probes for the most recent daily report, starting at
// now (UTC) and walking back one day at a time. It returns the decoded frame
// and the mm-dd-yyyy stamp of the file that was found.
func (c *Client) FetchLatestDailyReport(ctx context.Context, now time.Time) (dataframe.DataFrame, string, error) {
	var lastErr error
	day := now.UTC()
	for i := 0; i < dailyProbeDepth; i++ {
		stamp := day.AddDate(0, 0, -i).Format(dailyDateLayout)
		df, err := c.fetchCSV(ctx, c.url(dailyReportsDir, stamp+".csv"))
		if err == nil {
			return df, stamp, nil
		}
		lastErr = err
	}
	return dataframe.DataFrame{}, "", lastErr
}

// FetchDailyReport downloads the daily report for an explicit mm-dd-yyyy stamp.
func (c *Client) FetchDailyReport(ctx context.Context, stamp string) (dataframe.DataFrame, error) {
	return c.fetchCSV(ctx, c.url(dailyReportsDir, stamp+".csv"))
}

// FetchPopulationLookup downloads the UID/ISO/FIPS lookup table that carries
// per-country population figures.
func (c *Client) FetchPopulationLookup(ctx context.Context) (dataframe.DataFrame, error) {
	return c.fetchCSV(ctx, c.baseURL+"/"+lookupTableFile)
}

// FetchAsset performs a single GET of an absolute URL and returns the raw
// body. Used for the chart runtime script that gets inlined into dashboards.
func (c *Client) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RetrievalError{URL: url, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RetrievalError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &RetrievalError{URL: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetrievalError{URL: url, Err: err}
	}
	return body, nil
}

func (c *Client) url(dir, file string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, dir, file)
}

// fetchCSV performs a single GET and decodes the body as CSV. All columns are
// loaded as strings; numeric coercion is the reshaper's concern.
func (c *Client) fetchCSV(ctx context.Context, url string) (dataframe.DataFrame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dataframe.DataFrame{}, &RetrievalError{URL: url, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dataframe.DataFrame{}, &RetrievalError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return dataframe.DataFrame{}, &RetrievalError{URL: url, StatusCode: resp.StatusCode}
	}
	df := dataframe.ReadCSV(resp.Body,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &RetrievalError{URL: url, Err: df.Err}
	}
	return df, nil
}

// ReadLocalCSV decodes a CSV file from disk. No network access occurs.
func ReadLocalCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, &LocalFileError{Path: path, Err: err}
	}
	defer f.Close()
	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, &LocalFileError{Path: path, Err: df.Err}
	}
	return df, nil
}
