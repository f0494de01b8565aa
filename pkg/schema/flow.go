package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the decoded form of a flow file.
type File struct {
	// MinLength overrides the minimum item length when positive.
	MinLength int        `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	Steps     []StepSpec `yaml:"steps" json:"steps"`
}

// StepSpec is one entry of the steps list.
type StepSpec struct {
	Kind string `yaml:"kind" json:"kind"`
	// Name overrides the step name shown in logs, metrics and graphs.
	Name   string         `yaml:"name,omitempty" json:"name,omitempty"`
	Params map[string]any `yaml:",inline" json:"-"`
}

// Load decodes and validates a flow file.
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidFlow)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFlow, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads the flow file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	f, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Validate checks the structure of the file. Step parameters are checked
// later, against the schema of their kind.
func (f *File) Validate() error {
	if f.MinLength < 0 {
		return fmt.Errorf("%w: min_length must not be negative", ErrInvalidFlow)
	}
	if len(f.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidFlow)
	}
	var errs []error
	for i, s := range f.Steps {
		if strings.TrimSpace(s.Kind) == "" {
			errs = append(errs, &StepError{Index: i, Err: errors.New("kind is required")})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
