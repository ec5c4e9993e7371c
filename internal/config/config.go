// Package config defines the dashboard configuration and how it is loaded.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// NationalCSV is the national impact table (.csv, .tsv or .xlsx).
	NationalCSV string `koanf:"national_csv"`

	// StateCSV is the state impact table (.csv, .tsv or .xlsx).
	StateCSV string `koanf:"state_csv"`

	// AssetsDir holds the map images served under /assets/.
	AssetsDir string `koanf:"assets_dir"`

	// DefaultState is preselected on the state page.
	DefaultState string `koanf:"default_state"`

	// DefaultMetric is preselected on the state page and the chart routes.
	DefaultMetric string `koanf:"default_metric"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		NationalCSV:   "data/national.csv",
		StateCSV:      "data/states.csv",
		AssetsDir:     "assets",
		DefaultState:  "All",
		DefaultMetric: "WageAndSalaryEmployment",
	}
}
