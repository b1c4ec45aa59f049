package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/recipebook/internal/timex"
)

// fileConfig is the on-disk shape. Pointers tell "absent" from "zero" so a
// file may set only some keys.
type fileConfig struct {
	APIBaseURL     *string         `json:"api_base_url" yaml:"api_base_url"`
	DBPath         *string         `json:"db_path" yaml:"db_path"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	SearchDebounce *timex.Duration `json:"search_debounce" yaml:"search_debounce"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the keys present in path. Files ending in
// .yaml or .yml are YAML, anything else JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.APIBaseURL != nil {
		cfg.APIBaseURL = *fc.APIBaseURL
	}
	if fc.DBPath != nil {
		cfg.DBPath = *fc.DBPath
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.SearchDebounce != nil {
		cfg.SearchDebounce = fc.SearchDebounce.Duration
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	return nil
}
