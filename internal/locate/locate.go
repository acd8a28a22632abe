// Package locate resolves artifact paths against an explicit base directory.
package locate

import (
	"fmt"
	"path/filepath"
)

// Locator resolves artifact file names inside directories given relative to a base directory.
type Locator struct {
	baseDir string
}

// New constructs a Locator. The base directory must be absolute; callers resolve it once,
// typically from the process working directory, and pass it in.
func New(baseDir string) (*Locator, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if !filepath.IsAbs(baseDir) {
		return nil, fmt.Errorf("base directory must be absolute: %q", baseDir)
	}
	return &Locator{baseDir: filepath.Clean(baseDir)}, nil
}

// BaseDir returns the absolute base directory.
func (l *Locator) BaseDir() string {
	return l.baseDir
}

// Resolve returns the absolute path of name inside dir.
// An absolute dir is used as is, a relative one is joined onto the base directory.
// The file is not required to exist.
func (l *Locator) Resolve(dir, name string) string {
	if filepath.IsAbs(dir) {
		return filepath.Join(dir, name)
	}
	return filepath.Join(l.baseDir, dir, name)
}

// ResolveFile resolves a single path, which may itself be absolute.
func (l *Locator) ResolveFile(path string) string {
	return l.Resolve(filepath.Dir(path), filepath.Base(path))
}
