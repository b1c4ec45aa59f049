// Package config loads runtime configuration for the recipe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional file selected with -c/--config: YAML when the name ends in
//     .yaml or .yml, JSON otherwise.
//  3. Command-line flags the user set explicitly.
//
// Supported flags
//
//	-a, --api string       base URL of the recipe API
//	    --db string        SQLite file for local state
//	    --timeout dur      per-request timeout
//	    --debounce dur     live-search quiet period
//	    --log-level level  debug, info, warn or error
//
// # File schema
//
// Durations may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000",
//	  "db_path": "/tmp/recipebook.db",
//	  "request_timeout": "10s",
//	  "search_debounce": "300ms",
//	  "log_level": "info"
//	}
package config
