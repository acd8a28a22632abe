package release

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Variant selects which artifacts a release updates and how missing input is treated.
type Variant int

const (
	// VariantRelease updates the pipeline descriptor, the manifest and the values document.
	// Every missing required input aborts the run.
	VariantRelease Variant = iota
	// VariantStage updates the manifest and the values document only.
	// A missing version is reported as a warning and does not abort the run.
	VariantStage
)

func (v Variant) String() string {
	switch v {
	case VariantRelease:
		return "release"
	case VariantStage:
		return "release-stage"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ExtraTarget is an additional file whose version field is updated after the values document.
type ExtraTarget struct {
	// File is the path of the file, relative to the base directory.
	File string
	// Field is the dotted path of the version field, or the key for properties files.
	Field string
}

// ParseExtraTarget parses a "file:field" pair.
func ParseExtraTarget(s string) (ExtraTarget, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return ExtraTarget{}, fmt.Errorf("invalid target %q, expected <file>:<field>", s)
	}
	return ExtraTarget{File: s[:i], Field: s[i+1:]}, nil
}

func (t ExtraTarget) String() string {
	return t.File + ":" + t.Field
}

// Request holds the inputs of one release run.
type Request struct {
	// Version is written verbatim into every artifact.
	Version string
	// ChartDir is the directory holding the manifest and the values document.
	ChartDir string
	// ValuesFile is the values document file name inside ChartDir.
	ValuesFile string
	// PipelineDir is the directory holding the pipeline descriptor. Only used by VariantRelease.
	PipelineDir string
	// Extra lists additional version files.
	Extra []ExtraTarget
}

type requiredField struct {
	name  string
	flag  string
	value func(*Request) string
	// abort is false when a missing value only produces a warning
	abort func(Variant) bool
	// fallback is applied when the value is missing and the run continues
	fallback func(*Request, *Defaults)
	variants []Variant
}

var requiredFields = []requiredField{
	{
		name:     "version",
		flag:     "-v/--version",
		value:    func(r *Request) string { return r.Version },
		abort:    func(v Variant) bool { return v != VariantStage },
		variants: []Variant{VariantRelease, VariantStage},
	},
	{
		name:     "path",
		flag:     "-p/--path",
		value:    func(r *Request) string { return r.ChartDir },
		abort:    func(Variant) bool { return true },
		variants: []Variant{VariantRelease, VariantStage},
	},
	{
		name:     "file",
		flag:     "-f/--file",
		value:    func(r *Request) string { return r.ValuesFile },
		abort:    func(Variant) bool { return false },
		fallback: func(r *Request, d *Defaults) { r.ValuesFile = d.ValuesFile },
		variants: []Variant{VariantRelease},
	},
	{
		name:     "drone",
		flag:     "-d/--drone",
		value:    func(r *Request) string { return r.PipelineDir },
		abort:    func(Variant) bool { return true },
		variants: []Variant{VariantRelease},
	},
}

// validate checks the request fields in their fixed order and fills defaults.
// It returns the first missing field that aborts the run, and warnings for missing
// fields that do not. The request is modified in place.
func (r *Request) validate(variant Variant, defaults *Defaults, validate *validator.Validate) ([]string, error) {
	var warnings []string
	for _, f := range requiredFields {
		if !slices.Contains(f.variants, variant) {
			continue
		}
		if err := validate.Var(f.value(r), "required"); err == nil {
			continue
		}
		if f.abort(variant) {
			return warnings, &MissingInputError{Field: f.name, Flag: f.flag}
		}
		msg := fmt.Sprintf("argument %s (%s) not found", f.name, f.flag)
		if f.fallback != nil {
			f.fallback(r, defaults)
		}
		warnings = append(warnings, msg)
	}
	if r.ValuesFile == "" {
		r.ValuesFile = defaults.ValuesFile
	}
	for i, t := range r.Extra {
		if err := validate.Struct(extraTargetRules{File: t.File, Field: t.Field}); err != nil {
			return warnings, &MissingInputError{Field: fmt.Sprintf("extra target %d", i+1)}
		}
	}
	return warnings, nil
}

type extraTargetRules struct {
	File  string `validate:"required"`
	Field string `validate:"required"`
}
