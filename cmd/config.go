package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/covidash/covidash/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set covidash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		fmt.Printf("base_url: %s\n", c.BaseURL)
		fmt.Printf("fetch_timeout_sec: %d\n", c.FetchTimeoutSec)
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		fmt.Printf("top_n: %d\n", c.TopN)
		fmt.Printf("trim_leading_days: %d\n", c.TrimLeadingDays)
		fmt.Printf("default_country: %s\n", c.DefaultCountry)
		fmt.Printf("chart_runtime_url: %s\n", c.ChartRuntimeURL)
		fmt.Printf("asset_cache_dir: %s\n", c.AssetCacheDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := ensureConfig()
		if err != nil {
			return err
		}
		switch key {
		case "base_url":
			c.BaseURL = val
		case "output_dir":
			c.OutputDir = val
		case "default_country":
			c.DefaultCountry = val
		case "chart_runtime_url":
			c.ChartRuntimeURL = val
		case "asset_cache_dir":
			c.AssetCacheDir = val
		case "fetch_timeout_sec", "top_n", "trim_leading_days":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("value for %s must be an integer: %w", key, err)
			}
			switch key {
			case "fetch_timeout_sec":
				c.FetchTimeoutSec = n
			case "top_n":
				c.TopN = n
			case "trim_leading_days":
				c.TrimLeadingDays = n
			}
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
