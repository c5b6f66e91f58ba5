package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// BaseURL is the root of the upstream CSSE COVID-19 data repository.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// FetchTimeoutSec bounds every HTTP request; the upstream host applies
	// no limit of its own.
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`

	// OutputDir is where generated dashboards are written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// TopN is the number of highest-confirmed countries highlighted in
	// comparison views.
	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// TrimLeadingDays drops the flat early weeks of the global series from
	// plotted views. Derived columns are always computed on the full series.
	TrimLeadingDays int `mapstructure:"trim_leading_days" yaml:"trim_leading_days"`

	// DefaultCountry preselects a region in the daily report views.
	DefaultCountry string `mapstructure:"default_country" yaml:"default_country"`

	// ChartRuntimeURL is where the chart runtime script is fetched from
	// before being inlined into generated dashboards.
	ChartRuntimeURL string `mapstructure:"chart_runtime_url" yaml:"chart_runtime_url"`

	// AssetCacheDir caches fetched assets (the chart runtime) between runs.
	// Empty means ~/.covidash/assets.
	AssetCacheDir string `mapstructure:"asset_cache_dir" yaml:"asset_cache_dir"`
}

// DefaultBaseURL points at the CSSEGISandData repository on GitHub.
const DefaultBaseURL = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data"

// DefaultChartRuntimeURL is the pinned ECharts build inlined into dashboards.
const DefaultChartRuntimeURL = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/echarts.min.js"

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.covidash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".covidash")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("COVIDASH")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("fetch_timeout_sec", 60)
	v.SetDefault("output_dir", ".")
	v.SetDefault("top_n", 10)
	v.SetDefault("trim_leading_days", 70)
	v.SetDefault("default_country", "India")
	v.SetDefault("chart_runtime_url", DefaultChartRuntimeURL)
	v.SetDefault("asset_cache_dir", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".covidash")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.TopN <= 0 {
		c.TopN = 10
	}
	if c.TrimLeadingDays < 0 {
		c.TrimLeadingDays = 0
	}
	return &c, nil
}
