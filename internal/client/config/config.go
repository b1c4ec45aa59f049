package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/filex"
)

// Config holds runtime settings for the recipe CLI.
//
// Fields:
//   - APIBaseURL: absolute URL of the recipe API.
//   - DBPath: SQLite file for local state; empty means the per-user default.
//   - RequestTimeout: bound on every HTTP request.
//   - SearchDebounce: quiet period before a live search is sent.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL     string
	DBPath         string
	RequestTimeout time.Duration
	SearchDebounce time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000"
	c.DBPath = ""
	c.RequestTimeout = 10 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.LogLevel = "warn"
}

// Default returns a Config with defaults applied.
func Default() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

// Load builds a Config from defaults, then the file named by --config (if
// any), then flags the user actually set. Later sources win. fs must have
// been populated by RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	path, err := fs.GetString(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("read --%s: %w", flagConfig, err)
	}
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api base url is empty")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api base url %q is not absolute", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.SearchDebounce <= 0 {
		return fmt.Errorf("search debounce must be positive, got %s", c.SearchDebounce)
	}
	return nil
}

// ResolveDBPath returns DBPath, or the per-user default location when it
// is empty. Parent directories are created.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath == "" {
		return filex.DefaultDBPath(common.AppName)
	}
	if err := filex.EnsureParent(c.DBPath); err != nil {
		return "", err
	}
	return c.DBPath, nil
}
