package strategy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

var _ VersionStrategy = (*JSONFieldStrategy)(nil)

// JSONFieldStrategy sets a dotted field of a JSON document, e.g. "version" in package.json.
// Object keys are written in sorted order.
type JSONFieldStrategy struct{}

// Name returns the name of the strategy.
func (s *JSONFieldStrategy) Name() string {
	return "json-field"
}

// Apply decodes content, sets field to version and encodes the document with two-space indentation.
func (s *JSONFieldStrategy) Apply(_ context.Context, content []byte, field, version string) ([]byte, error) {
	log.Debug().Msgf("[json-field] setting %q", field)

	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if data == nil {
		return nil, fmt.Errorf("unmarshal JSON: document is not an object")
	}

	if err := setPath(data, field, version); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return buf.Bytes(), nil
}
