package release

import "fmt"

// State is a stage of a release run.
type State string

const (
	StateValidating       State = "validating"
	StateUpdatingPipeline State = "updating-pipeline"
	StateUpdatingManifest State = "updating-manifest"
	StateUpdatingValues   State = "updating-values"
	StateUpdatingExtra    State = "updating-extra"
	StateDone             State = "done"
	StateAborted          State = "aborted"
)

// Status is the result of a single artifact update.
type Status string

const (
	StatusUpdated     Status = "updated"
	StatusUnchanged   Status = "unchanged"
	StatusNoMatch     Status = "no-match"
	StatusWriteFailed Status = "write-failed"
	StatusFailed      Status = "failed"
)

// StepResult describes what happened to one artifact.
type StepResult struct {
	Name     string
	Path     string
	Field    string
	Strategy string
	Status   Status

	// Before and After hold the artifact content read from and computed for disk.
	Before []byte
	After  []byte

	Err error
}

// Changed reports whether the step produced different content.
func (s *StepResult) Changed() bool {
	return s.Status == StatusUpdated || s.Status == StatusWriteFailed
}

// Outcome is the result of a release run.
type Outcome struct {
	Variant Variant
	Version string
	DryRun  bool

	// State is StateDone or StateAborted once Run returns.
	State State
	// AbortedIn is the state the run was in when it aborted.
	AbortedIn State
	Err       error

	Steps    []*StepResult
	Warnings []string
}

// Succeeded reports whether every step completed.
func (o *Outcome) Succeeded() bool {
	return o.State == StateDone
}

// Message returns the human-readable summary of the run.
func (o *Outcome) Message() string {
	switch {
	case o.State == StateDone && o.DryRun:
		return fmt.Sprintf("dry run: build and release %s", o.Version)
	case o.State == StateDone:
		return fmt.Sprintf("build and release %s", o.Version)
	case o.Err != nil:
		return fmt.Sprintf("aborted while %s: %v", o.AbortedIn, o.Err)
	default:
		return fmt.Sprintf("release %s", o.State)
	}
}

func (o *Outcome) warn(msg string) {
	o.Warnings = append(o.Warnings, msg)
}

func (o *Outcome) abort(err error) (*Outcome, error) {
	o.AbortedIn = o.State
	o.State = StateAborted
	o.Err = err
	return o, err
}
