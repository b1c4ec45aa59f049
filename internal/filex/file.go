// Package filex resolves where the client keeps its files on disk.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// DataDir returns the per-user directory for app, creating it on demand.
// It falls back to a dot-directory under the working directory when the
// platform has no config dir.
func DataDir(app string) (string, error) {
	base, err := userConfigDir()
	if err != nil || base == "" {
		cwd, werr := os.Getwd()
		if werr != nil {
			return "", fmt.Errorf("getwd: %w", werr)
		}
		return EnsureDir(filepath.Join(cwd, "."+app))
	}
	return EnsureDir(filepath.Join(base, app))
}

// DefaultDBPath is the SQLite file used when no path is configured.
func DefaultDBPath(app string) (string, error) {
	dir, err := DataDir(app)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, app+".db"), nil
}

// EnsureParent creates the directory that will hold path.
func EnsureParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	_, err := EnsureDir(dir)
	return err
}
