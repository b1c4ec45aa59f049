package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

const (
	flagConfig   = "config"
	flagAPI      = "api"
	flagDB       = "db"
	flagTimeout  = "timeout"
	flagDebounce = "debounce"
	flagLogLevel = "log-level"
)

// RegisterFlags declares the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.StringP(flagConfig, "c", "", "path to a JSON or YAML config file")
	fs.StringP(flagAPI, "a", d.APIBaseURL, "base URL of the recipe API")
	fs.String(flagDB, d.DBPath, "SQLite file for local state (default: per-user config dir)")
	fs.Duration(flagTimeout, d.RequestTimeout, "timeout for each API request")
	fs.Duration(flagDebounce, d.SearchDebounce, "quiet period before a live search is sent")
	fs.String(flagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
}

// applyFlags copies the flags the user set onto cfg. Unset flags keep the
// value from defaults or the config file.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	str := func(name string, dst *string) {
		if err != nil || !fs.Changed(name) {
			return
		}
		*dst, err = fs.GetString(name)
	}
	str(flagAPI, &cfg.APIBaseURL)
	str(flagDB, &cfg.DBPath)
	str(flagLogLevel, &cfg.LogLevel)

	if err == nil && fs.Changed(flagTimeout) {
		cfg.RequestTimeout, err = fs.GetDuration(flagTimeout)
	}
	if err == nil && fs.Changed(flagDebounce) {
		cfg.SearchDebounce, err = fs.GetDuration(flagDebounce)
	}
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}
