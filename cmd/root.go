package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/covidash/covidash/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags (wired to config/viper)
	cfgFile string
	debug   bool
	// Fetch flags (override config if set)
	flagFetchTimeoutSec int
	flagOutputDir       string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "covidash",
	Short: "covidash: interactive COVID-19 dashboards from the CSSE data repository",
	Long: `covidash downloads the public COVID-19 time-series and daily-report CSV
files published by the Center for Systems Science and Engineering (JHU),
reshapes them, and renders standalone interactive HTML dashboards.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.covidash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagFetchTimeoutSec, "fetch-timeout", 0, "HTTP fetch timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "out", "", "output directory for dashboards (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("fetch-timeout") && flagFetchTimeoutSec > 0 {
		cfg.FetchTimeoutSec = flagFetchTimeoutSec
	}
	if f.Changed("out") && flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
}

// ensureConfig loads the defaults when the OnInitialize hook failed.
func ensureConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
