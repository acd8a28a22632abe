package strategy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/sap-gg/ftctl/internal/document"
)

var _ VersionStrategy = (*YAMLFieldStrategy)(nil)

// YAMLFieldStrategy sets a dotted field of a YAML document.
type YAMLFieldStrategy struct {
	// PreserveFormat edits an existing field in the source text instead of re-encoding the
	// whole document, which keeps comments and layout.
	PreserveFormat bool
}

// Name returns the name of the strategy.
func (s *YAMLFieldStrategy) Name() string {
	return "yaml-field"
}

// Apply sets field to version. In format-preserving mode an existing field is edited in
// place; anything Patch cannot edit safely falls back to decoding and encoding the document.
func (s *YAMLFieldStrategy) Apply(ctx context.Context, content []byte, field, version string) ([]byte, error) {
	log.Debug().Msgf("[yaml-field] setting %q", field)

	if s.PreserveFormat {
		out, err := document.Patch(ctx, content, field, version)
		if err == nil {
			return out, nil
		}
		if !errors.Is(err, document.ErrNotPatchable) {
			return nil, fmt.Errorf("patch YAML field %q: %w", field, err)
		}
		log.Debug().Err(err).Msgf("[yaml-field] falling back to re-encoding")
	}

	doc, err := document.Decode(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if err := doc.Set(field, version); err != nil {
		return nil, err
	}

	out, err := doc.Encode(ctx)
	if err != nil {
		return nil, err
	}
	return out, nil
}
