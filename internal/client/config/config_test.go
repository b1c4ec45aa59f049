package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 300*time.Millisecond, c.SearchDebounce)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Empty(t, c.DBPath)
}

func TestLoad_NoArgsGivesDefaults(t *testing.T) {
	cfg, err := Load(parse(t))
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(Default(), cfg))
}

func TestLoad_Precedence(t *testing.T) {
	jsonPath := writeFile(t, "cfg.json", `{
		"api_base_url": "http://file.example:8080",
		"request_timeout": "4s",
		"search_debounce": 200000000,
		"log_level": "info"
	}`)

	tests := []struct {
		name string
		args []string
		want *Config
	}{
		{
			name: "flags only",
			args: []string{"-a", "https://api.example", "--timeout", "2s", "--db", "/tmp/x.db"},
			want: &Config{APIBaseURL: "https://api.example", DBPath: "/tmp/x.db", RequestTimeout: 2 * time.Second,
				SearchDebounce: 300 * time.Millisecond, LogLevel: "warn"},
		},
		{
			name: "file overlays defaults",
			args: []string{"-c", jsonPath},
			want: &Config{APIBaseURL: "http://file.example:8080", RequestTimeout: 4 * time.Second,
				SearchDebounce: 200 * time.Millisecond, LogLevel: "info"},
		},
		{
			name: "flags beat file",
			args: []string{"--config", jsonPath, "--debounce", "1s", "--log-level", "debug"},
			want: &Config{APIBaseURL: "http://file.example:8080", RequestTimeout: 4 * time.Second,
				SearchDebounce: time.Second, LogLevel: "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(parse(t, tt.args...))
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, cfg))
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "cfg.yaml", "api_base_url: http://yaml.example\nsearch_debounce: 150ms\n")

	cfg, err := Load(parse(t, "-c", p))
	require.NoError(t, err)
	assert.Equal(t, "http://yaml.example", cfg.APIBaseURL)
	assert.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoad_Errors(t *testing.T) {
	bad := writeFile(t, "bad.json", `{ not json`)
	badDur := writeFile(t, "dur.yml", "request_timeout: whenever\n")
	relative := writeFile(t, "rel.json", `{"api_base_url": "/api"}`)

	for _, args := range [][]string{
		{"-c", bad},
		{"-c", badDur},
		{"-c", relative},
		{"-c", filepath.Join(t.TempDir(), "missing.json")},
		{"--timeout", "0s"},
		{"--debounce", "-1s"},
		{"-a", ""},
	} {
		_, err := Load(parse(t, args...))
		assert.Error(t, err, "%v", args)
	}
}

func TestResolveDBPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "r.db")
	c := &Config{DBPath: p}

	got, err := c.ResolveDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}
