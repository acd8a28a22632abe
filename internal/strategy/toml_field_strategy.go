package strategy

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

var _ VersionStrategy = (*TOMLFieldStrategy)(nil)

// TOMLFieldStrategy sets a dotted field of a TOML document, e.g. "package.version" in Cargo.toml.
type TOMLFieldStrategy struct{}

// Name returns the name of the strategy.
func (s *TOMLFieldStrategy) Name() string {
	return "toml-field"
}

// Apply decodes content, sets field to version and encodes the document again.
func (s *TOMLFieldStrategy) Apply(_ context.Context, content []byte, field, version string) ([]byte, error) {
	log.Debug().Msgf("[toml-field] setting %q", field)

	var data map[string]any
	if err := toml.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("unmarshal TOML: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}

	if err := setPath(data, field, version); err != nil {
		return nil, err
	}

	out, err := toml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal TOML: %w", err)
	}
	return out, nil
}
