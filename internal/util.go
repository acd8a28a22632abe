package internal

import (
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// NewYAMLDecoder creates a new YAML decoder with strict mode and validation enabled.
func NewYAMLDecoder(reader io.Reader, opts ...yaml.DecodeOption) *yaml.Decoder {
	validate := validator.New()
	return yaml.NewDecoder(reader,
		append(opts,
			yaml.Strict(),
			yaml.Validator(validate))...)
}

// NewYAMLEncoder creates a new YAML encoder with an indentation of 2 spaces.
func NewYAMLEncoder(writer io.Writer, opts ...yaml.EncodeOption) *yaml.Encoder {
	return yaml.NewEncoder(writer,
		append(opts, yaml.Indent(2))...)
}

// FormatDecodeError returns the source-annotated message of a YAML decoding error.
// The second return value is false if err does not carry a YAML error.
func FormatDecodeError(err error, colored bool) (string, bool) {
	var yamlError yaml.Error
	if errors.As(err, &yamlError) {
		return yamlError.FormatError(colored, true), true
	}
	return "", false
}
