package strategy

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoMatch is returned by strategies that found nothing to update.
// The content is returned unchanged alongside it.
var ErrNoMatch = errors.New("no version location found")

// VersionStrategy writes a version into the content of one artifact format.
type VersionStrategy interface {
	// Name returns a human-friendly strategy name for logging.
	Name() string

	// Apply sets field to version in content and returns the new content.
	// Strategies do no I/O; reading and writing the artifact is the caller's job.
	Apply(ctx context.Context, content []byte, field, version string) ([]byte, error)
}

// Registry maps file extensions to strategies.
type Registry struct {
	byExtension map[string]VersionStrategy
	// fallback is used if no strategy matches the file extension. May be nil.
	fallback VersionStrategy
}

// NewRegistry constructs a registry.
func NewRegistry(fallback VersionStrategy, mappings map[string]VersionStrategy) (*Registry, error) {
	byExt := make(map[string]VersionStrategy)
	for ext, s := range mappings {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || !strings.HasPrefix(ext, ".") {
			return nil, fmt.Errorf("invalid extension key for strategy: %q", ext)
		}
		if s == nil {
			return nil, fmt.Errorf("strategy for %q cannot be nil", ext)
		}
		byExt[ext] = s
	}
	return &Registry{
		byExtension: byExt,
		fallback:    fallback,
	}, nil
}

// NewDefaultRegistry returns a registry for the structured formats ftctl can edit.
func NewDefaultRegistry(preserveFormat bool) *Registry {
	yamlStrategy := &YAMLFieldStrategy{PreserveFormat: preserveFormat}
	registry, _ := NewRegistry(nil, map[string]VersionStrategy{
		".yaml":       yamlStrategy,
		".yml":        yamlStrategy,
		".json":       &JSONFieldStrategy{},
		".toml":       &TOMLFieldStrategy{},
		".properties": &PropertiesKeyStrategy{},
	})
	return registry
}

// For returns the strategy for a given filename.
func (r *Registry) For(filename string) (VersionStrategy, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	if s, ok := r.byExtension[ext]; ok {
		return s, true
	}
	return r.fallback, r.fallback != nil
}

// setPath sets a dotted path in a generic decoded document.
// Intermediate tables must exist, the leaf is created if missing.
func setPath(root map[string]any, path string, value any) error {
	keys := strings.Split(path, ".")
	current := root
	for i, key := range keys[:len(keys)-1] {
		next, ok := current[key]
		if !ok {
			return fmt.Errorf("path %q: key %q does not exist", path, strings.Join(keys[:i+1], "."))
		}
		m, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("path %q: key %q is not a table", path, strings.Join(keys[:i+1], "."))
		}
		current = m
	}
	current[keys[len(keys)-1]] = value
	return nil
}
