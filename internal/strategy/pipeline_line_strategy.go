package strategy

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/sap-gg/ftctl/internal/pipeline"
)

var _ VersionStrategy = (*PipelineLineStrategy)(nil)

// PipelineLineStrategy rewrites the tag line of a CI pipeline descriptor as text.
// The field argument is ignored; a descriptor has exactly one version location.
type PipelineLineStrategy struct{}

// Name returns the name of the strategy.
func (s *PipelineLineStrategy) Name() string {
	return "pipeline-line"
}

// Apply rewrites the tag line. If there is none, content is returned together with ErrNoMatch.
func (s *PipelineLineStrategy) Apply(_ context.Context, content []byte, _, version string) ([]byte, error) {
	out, ok := pipeline.Patch(string(content), version)
	if !ok {
		log.Debug().Msgf("[pipeline-line] no %s line found", pipeline.TagsFileName)
		return content, ErrNoMatch
	}
	return []byte(out), nil
}
