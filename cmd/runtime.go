package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cfgpkg "github.com/covidash/covidash/internal/config"
	"github.com/covidash/covidash/internal/fetch"
	"github.com/covidash/covidash/internal/utils"
)

// chartRuntimeFile is the cached name of the inlined chart runtime.
const chartRuntimeFile = "chart-runtime.js"

// loadChartRuntime returns the chart runtime script that gets inlined into
// every dashboard. A cached copy is used when present; otherwise the runtime
// is fetched once and cached, so later runs need no network for it.
func loadChartRuntime(ctx context.Context, c *cfgpkg.Global) ([]byte, error) {
	dir := c.AssetCacheDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".covidash", "assets")
	}
	path := filepath.Join(dir, chartRuntimeFile)
	if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
		return b, nil
	}

	client := fetch.NewClient(c.BaseURL, time.Duration(c.FetchTimeoutSec)*time.Second)
	b, err := client.FetchAsset(ctx, c.ChartRuntimeURL)
	if err != nil {
		return nil, fmt.Errorf("chart runtime: %w", err)
	}
	if err := utils.EnsureDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: could not cache chart runtime: %v\n", err)
		return b, nil
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: could not cache chart runtime: %v\n", err)
	}
	return b, nil
}
