// Package release propagates a release version into the artifacts of one deployable unit:
// the CI pipeline descriptor, the chart manifest, the values document and optional extra
// version files.
package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/sap-gg/ftctl/internal"
	"github.com/sap-gg/ftctl/internal/locate"
	"github.com/sap-gg/ftctl/internal/strategy"
)

// Defaults are the conventional artifact file names.
type Defaults struct {
	ChartFile    string
	ValuesFile   string
	PipelineFile string
}

// DefaultNames returns the conventional Helm chart and Drone file names.
func DefaultNames() Defaults {
	return Defaults{
		ChartFile:    internal.ChartFileName,
		ValuesFile:   internal.ValuesFileName,
		PipelineFile: internal.PipelineFileName,
	}
}

// Options configure an Orchestrator.
type Options struct {
	// BaseDir is the absolute directory relative paths in a Request are resolved against.
	BaseDir string
	// Fs is the filesystem artifacts are read from and written to. Defaults to the OS filesystem.
	Fs afero.Fs
	// Names overrides the conventional file names. Empty fields keep their default.
	Names Defaults
	// PreserveFormat keeps comments and layout of YAML documents where possible.
	PreserveFormat bool
	// DryRun computes every change without writing it.
	DryRun bool
}

// Orchestrator runs release requests.
type Orchestrator struct {
	fs       afero.Fs
	locator  *locate.Locator
	names    Defaults
	dryRun   bool
	validate *validator.Validate

	yaml     strategy.VersionStrategy
	pipeline strategy.VersionStrategy
	registry *strategy.Registry
}

// New creates an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	locator, err := locate.New(opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("create locator: %w", err)
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	names := DefaultNames()
	if opts.Names.ChartFile != "" {
		names.ChartFile = opts.Names.ChartFile
	}
	if opts.Names.ValuesFile != "" {
		names.ValuesFile = opts.Names.ValuesFile
	}
	if opts.Names.PipelineFile != "" {
		names.PipelineFile = opts.Names.PipelineFile
	}

	return &Orchestrator{
		fs:       fs,
		locator:  locator,
		names:    names,
		dryRun:   opts.DryRun,
		validate: validator.New(),

		yaml:     &strategy.YAMLFieldStrategy{PreserveFormat: opts.PreserveFormat},
		pipeline: &strategy.PipelineLineStrategy{},
		registry: strategy.NewDefaultRegistry(opts.PreserveFormat),
	}, nil
}

// Run validates req and updates the artifacts of the given variant in a fixed order:
// pipeline descriptor (VariantRelease only), manifest, values document, extra targets.
//
// The returned Outcome is never nil. When the run aborts, the Outcome is in StateAborted
// and the error is a *MissingInputError, *ParseError or *IOError. A pipeline descriptor
// that cannot be written or has no tag line is reported as a warning and does not abort.
func (o *Orchestrator) Run(ctx context.Context, variant Variant, req Request) (*Outcome, error) {
	out := &Outcome{
		Variant: variant,
		DryRun:  o.dryRun,
		State:   StateValidating,
	}

	warnings, err := req.validate(variant, &o.names, o.validate)
	for _, w := range warnings {
		log.Warn().Msg(w)
		out.warn(w)
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid release request")
		return out.abort(err)
	}
	out.Version = req.Version

	l := log.With().
		Str("variant", variant.String()).
		Str("version", req.Version).
		Logger()

	if variant == VariantRelease {
		out.State = StateUpdatingPipeline
		l.Info().Msgf("updating %s...", o.names.PipelineFile)

		path := o.locator.Resolve(req.PipelineDir, o.names.PipelineFile)
		step, err := o.update(ctx, out, "pipeline", path, "", req.Version, o.pipeline)
		switch {
		case step.Status == StatusWriteFailed:
			l.Warn().Err(err).Msgf("could not write %s, continuing", path)
			out.warn(err.Error())
		case err != nil:
			return out.abort(err)
		case step.Status == StatusNoMatch:
			msg := fmt.Sprintf("%s: no tag line found, file left unchanged", path)
			l.Warn().Msg(msg)
			out.warn(msg)
		}
	}

	l.Info().Msg("updating charts...")

	out.State = StateUpdatingManifest
	manifestPath := o.locator.Resolve(req.ChartDir, o.names.ChartFile)
	if _, err := o.update(ctx, out, "manifest", manifestPath,
		internal.ManifestVersionField, req.Version, o.yaml); err != nil {
		return out.abort(err)
	}

	out.State = StateUpdatingValues
	valuesPath := o.locator.Resolve(req.ChartDir, req.ValuesFile)
	if _, err := o.update(ctx, out, "values", valuesPath,
		internal.ValuesVersionField, req.Version, o.yaml); err != nil {
		return out.abort(err)
	}

	if len(req.Extra) > 0 {
		out.State = StateUpdatingExtra
		for _, target := range req.Extra {
			path := o.locator.ResolveFile(target.File)
			s, ok := o.registry.For(path)
			if !ok {
				err := &ParseError{Path: path, Err: fmt.Errorf("no version strategy for file type %q", target.File)}
				return out.abort(err)
			}
			if _, err := o.update(ctx, out, "extra", path, target.Field, req.Version, s); err != nil {
				return out.abort(err)
			}
		}
	}

	out.State = StateDone
	l.Info().Msg(out.Message())
	return out, nil
}

// update reads path, applies s and writes the result back. The step is recorded in out
// and returned even when err is non-nil.
func (o *Orchestrator) update(
	ctx context.Context,
	out *Outcome,
	name, path, field, version string,
	s strategy.VersionStrategy,
) (*StepResult, error) {
	step := &StepResult{
		Name:     name,
		Path:     path,
		Field:    field,
		Strategy: s.Name(),
	}
	out.Steps = append(out.Steps, step)

	l := log.With().Str("step", name).Str("path", path).Logger()
	l.Debug().Msgf("[%s] applying", s.Name())

	before, err := afero.ReadFile(o.fs, path)
	if err != nil {
		return step.fail(StatusFailed, &IOError{Op: "read", Path: path, Err: err})
	}
	step.Before = before

	after, err := s.Apply(ctx, before, field, version)
	if errors.Is(err, strategy.ErrNoMatch) {
		step.Status = StatusNoMatch
		step.After = before
		return step, nil
	}
	if err != nil {
		return step.fail(StatusFailed, &ParseError{Path: path, Err: err})
	}
	step.After = after

	if bytes.Equal(before, after) {
		l.Info().Msg("already up to date")
		step.Status = StatusUnchanged
		return step, nil
	}

	if o.dryRun {
		l.Info().Msg("dry run, not writing")
		step.Status = StatusUpdated
		return step, nil
	}

	if err := o.write(path, after); err != nil {
		return step.fail(StatusWriteFailed, &IOError{Op: "write", Path: path, Err: err})
	}

	l.Info().Msgf("set %s", describeField(name, field))
	step.Status = StatusUpdated
	return step, nil
}

func (o *Orchestrator) write(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := o.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return afero.WriteFile(o.fs, path, data, perm)
}

func (s *StepResult) fail(status Status, err error) (*StepResult, error) {
	s.Status = status
	s.Err = err
	return s, err
}

func describeField(name, field string) string {
	if field == "" {
		return name + " tag line"
	}
	return field
}
