// Package registry maps step kinds to the factories that build them, so flows
// can be assembled from flow files.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/taskgate/pkg/schema"
	"github.com/aretw0/taskgate/pkg/steps"
	"github.com/mitchellh/mapstructure"
)

// BuildFunc creates a step from already validated parameters.
type BuildFunc func(lib *steps.Library, params map[string]any) (steps.Step, error)

// Factory describes a step kind.
type Factory struct {
	Description string
	Params      schema.Schema
	Build       BuildFunc
}

// Registry manages the available step kinds.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a kind to the registry.
// If a kind with the same name exists, it is overwritten.
func (r *Registry) Register(kind string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = f
}

// Lookup returns the factory of kind.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds lists the registered kinds in alphabetical order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Check validates the steps of f against the registered kinds without building them.
func (r *Registry) Check(f *schema.File) error {
	var errs []error
	for i, spec := range f.Steps {
		if err := r.check(spec); err != nil {
			errs = append(errs, &schema.StepError{Index: i, Kind: spec.Kind, Err: err})
		}
	}
	if len(errs) > 0 {
		return &schema.AggregateError{Errors: errs}
	}
	return nil
}

func (r *Registry) check(spec schema.StepSpec) error {
	fac, ok := r.Lookup(spec.Kind)
	if !ok {
		return fmt.Errorf("unknown step kind %q", spec.Kind)
	}
	return schema.Validate(fac.Params, spec.Params)
}

// Build creates the step described by spec.
func (r *Registry) Build(lib *steps.Library, spec schema.StepSpec) (steps.Step, error) {
	if err := r.check(spec); err != nil {
		return steps.Step{}, err
	}
	fac, _ := r.Lookup(spec.Kind)
	step, err := fac.Build(lib, spec.Params)
	if err != nil {
		return steps.Step{}, err
	}
	if spec.Name != "" {
		step.Name = spec.Name
	}
	return step, nil
}

// BuildFlow creates every step of f, in order.
func (r *Registry) BuildFlow(lib *steps.Library, f *schema.File) ([]steps.Step, error) {
	if err := r.Check(f); err != nil {
		return nil, err
	}
	seq := make([]steps.Step, 0, len(f.Steps))
	for i, spec := range f.Steps {
		step, err := r.Build(lib, spec)
		if err != nil {
			return nil, &schema.StepError{Index: i, Kind: spec.Kind, Err: err}
		}
		seq = append(seq, step)
	}
	return seq, nil
}

// decode copies params into the struct pointed to by out. Duration strings are
// converted to time.Duration.
func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}
	return nil
}
