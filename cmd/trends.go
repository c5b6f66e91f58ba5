package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	cfgpkg "github.com/covidash/covidash/internal/config"
	"github.com/covidash/covidash/internal/dataset"
	"github.com/covidash/covidash/internal/fetch"
	"github.com/covidash/covidash/internal/report"
	"github.com/covidash/covidash/internal/utils"
)

var (
	trendsTopN      int
	trendsCSVExport string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Build the global trends dashboard from the time-series files",
	Long: `Downloads the confirmed, recovered and deaths global time-series CSV
files, joins them into one tidy table, and writes a standalone HTML dashboard
with comparison trends for the top countries, the top-10 totals and the
worldwide aggregate.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("top") && trendsTopN > 0 {
			c.TopN = trendsTopN
		}
		path, err := runTrendsPipeline(cmd.Context(), c, trendsCSVExport)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trendsCmd.Flags().IntVar(&trendsTopN, "top", 0, "number of top countries to highlight (overrides config)")
	trendsCmd.Flags().StringVar(&trendsCSVExport, "export-csv", "", "also write the tidy joined table as CSV to this path")
}

// runTrendsPipeline is the whole trends flow: fetch, reshape, join, build,
// render. It returns the path of the written dashboard.
func runTrendsPipeline(ctx context.Context, c *cfgpkg.Global, csvExport string) (string, error) {
	bar := newStageBar(6, "building trends dashboard")
	client := fetch.NewClient(c.BaseURL, time.Duration(c.FetchTimeoutSec)*time.Second)

	runtime, err := loadChartRuntime(ctx, c)
	if err != nil {
		return "", err
	}

	ts, err := client.FetchTimeSeries(ctx)
	if err != nil {
		return "", err
	}
	_ = bar.Add(1)

	pop := loadPopulation(ctx, client)
	_ = bar.Add(1)

	confirmed, err := dataset.ReshapeTimeSeries(ts.Confirmed)
	if err != nil {
		return "", err
	}
	recovered, err := dataset.ReshapeTimeSeries(ts.Recovered)
	if err != nil {
		return "", err
	}
	deaths, err := dataset.ReshapeTimeSeries(ts.Deaths)
	if err != nil {
		return "", err
	}
	_ = bar.Add(1)

	table := dataset.Join(confirmed, recovered, deaths)
	for _, w := range table.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
	if len(table.Dates) == 0 {
		return "", fmt.Errorf("time-series files contained no parseable date columns")
	}
	_ = bar.Add(1)

	if csvExport != "" {
		if err := writeTidyCSV(table, csvExport); err != nil {
			return "", err
		}
		fmt.Printf("✓ Wrote tidy table to %s\n", csvExport)
	}

	d := report.BuildTrends(table, pop, c.TopN, c.TrimLeadingDays)
	_ = bar.Add(1)

	if err := utils.EnsureDir(c.OutputDir); err != nil {
		return "", fmt.Errorf("ensure output dir: %w", err)
	}
	path := filepath.Join(c.OutputDir, fmt.Sprintf("covid19-trends-%s.html", table.LastDate().Format("2006-01-02")))
	if err := report.Render(d, runtime, path); err != nil {
		return "", err
	}
	_ = bar.Add(1)
	_ = bar.Finish()
	return path, nil
}

// loadPopulation fetches the upstream population lookup and falls back to the
// embedded table when the fetch or the extraction fails. Population is
// optional data: failures degrade, never abort.
func loadPopulation(ctx context.Context, client *fetch.Client) dataset.Population {
	df, err := client.FetchPopulationLookup(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: population lookup unavailable, using embedded table: %v\n", err)
		return dataset.EmbeddedPopulation()
	}
	pop, err := dataset.PopulationFromLookup(df)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: population lookup unusable, using embedded table: %v\n", err)
		return dataset.EmbeddedPopulation()
	}
	return pop
}

func writeTidyCSV(table *dataset.Table, path string) error {
	var buf bytes.Buffer
	if err := table.Frame().WriteCSV(&buf); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}

func newStageBar(stages int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(stages,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
