package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	cfgpkg "github.com/covidash/covidash/internal/config"
	"github.com/covidash/covidash/internal/dataset"
	"github.com/covidash/covidash/internal/fetch"
	"github.com/covidash/covidash/internal/report"
	"github.com/covidash/covidash/internal/utils"
)

var dailyFile string

var dailyCmd = &cobra.Command{
	Use:   "daily-report",
	Short: "Build the daily report dashboard from a dated snapshot CSV",
	Long: `Builds a dashboard from a single daily report file. With --file the
given local CSV is used and no network access occurs; without it, the most
recent remote mm-dd-yyyy.csv is located and downloaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		path, err := runDailyPipeline(cmd.Context(), c, dailyFile)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	dailyCmd.Flags().StringVar(&dailyFile, "file", "", "local daily report CSV; empty fetches the latest remote file")
}

// runDailyPipeline is the whole daily-report flow. An empty file argument
// means "fetch the latest remote daily file"; otherwise file is a local path
// and exactly zero network requests happen.
func runDailyPipeline(ctx context.Context, c *cfgpkg.Global, file string) (string, error) {
	bar := newStageBar(4, "building daily report")

	runtime, err := loadChartRuntime(ctx, c)
	if err != nil {
		return "", err
	}

	var (
		df    dataframe.DataFrame
		stamp string
	)
	if file == "" {
		client := fetch.NewClient(c.BaseURL, time.Duration(c.FetchTimeoutSec)*time.Second)
		df, stamp, err = client.FetchLatestDailyReport(ctx, time.Now())
		if err != nil {
			return "", err
		}
	} else {
		df, err = fetch.ReadLocalCSV(file)
		if err != nil {
			return "", err
		}
		stamp = stampFromFilename(file)
	}
	_ = bar.Add(1)

	snap, err := dataset.ReshapeDaily(df)
	if err != nil {
		return "", err
	}
	if len(snap.Rows) == 0 {
		return "", fmt.Errorf("daily report %s contained no region rows", stamp)
	}
	_ = bar.Add(1)

	d := report.BuildDaily(snap, c.TopN, c.DefaultCountry)
	_ = bar.Add(1)

	if err := utils.EnsureDir(c.OutputDir); err != nil {
		return "", fmt.Errorf("ensure output dir: %w", err)
	}
	path := filepath.Join(c.OutputDir, fmt.Sprintf("covid19-daily-report-%s.html", stamp))
	if err := report.Render(d, runtime, path); err != nil {
		return "", err
	}
	_ = bar.Add(1)
	_ = bar.Finish()
	return path, nil
}

// stampFromFilename recovers the mm-dd-yyyy stamp from a local file name, or
// falls back to today so the output name stays well-formed.
func stampFromFilename(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if _, err := time.Parse("01-02-2006", base); err == nil {
		return base
	}
	return time.Now().UTC().Format("01-02-2006")
}
