package release

import "fmt"

// MissingInputError reports a required request field that was not provided.
type MissingInputError struct {
	Field string
	Flag  string
}

func (e *MissingInputError) Error() string {
	if e.Flag != "" {
		return fmt.Sprintf("argument %s (%s) not found, aborting build trigger", e.Field, e.Flag)
	}
	return fmt.Sprintf("argument %s not found, aborting build trigger", e.Field)
}

// ParseError reports an artifact whose content could not be decoded or edited.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError reports a failed read or write of an artifact.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
