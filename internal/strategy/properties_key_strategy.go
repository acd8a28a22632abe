package strategy

import (
	"bytes"
	"context"
	"fmt"

	"github.com/magiconair/properties"
	"github.com/rs/zerolog/log"
)

var _ VersionStrategy = (*PropertiesKeyStrategy)(nil)

// PropertiesKeyStrategy sets a key of a Java properties file, e.g. "version" in gradle.properties.
// The field is used as the key verbatim; dots do not denote nesting.
type PropertiesKeyStrategy struct{}

func (s *PropertiesKeyStrategy) Name() string {
	return "properties-key"
}

func (s *PropertiesKeyStrategy) Apply(_ context.Context, content []byte, field, version string) ([]byte, error) {
	log.Debug().Msgf("[properties-key] setting %q", field)

	loader := &properties.Loader{
		Encoding:         properties.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(content)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	if _, _, err := p.Set(field, version); err != nil {
		return nil, fmt.Errorf("set property %q: %w", field, err)
	}

	var buf bytes.Buffer
	if _, err := p.WriteComment(&buf, "# ", properties.UTF8); err != nil {
		return nil, fmt.Errorf("writing properties: %w", err)
	}
	return buf.Bytes(), nil
}
