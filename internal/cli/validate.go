package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/taskgate/internal/presentation/graph"
	"github.com/aretw0/taskgate/pkg/flow"
	"github.com/aretw0/taskgate/pkg/registry"
	"github.com/aretw0/taskgate/pkg/schema"
)

// loadFlow reads the flow file at path, or the built-in flow when path is
// empty, and checks its steps against the registry.
func loadFlow(path string, reg *registry.Registry) (*schema.File, error) {
	if path == "" {
		return registry.DefaultFile(), nil
	}
	file, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := reg.Check(file); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return file, nil
}

func effectiveMinLength(file *schema.File, override int) int {
	switch {
	case override > 0:
		return override
	case file.MinLength > 0:
		return file.MinLength
	default:
		return flow.DefaultMinLength
	}
}

// Validate checks a flow file and prints its steps.
func Validate(w io.Writer, path string) error {
	file, err := loadFlow(path, registry.Default())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ %s: %d steps, min length %d\n", path, len(file.Steps), effectiveMinLength(file, 0))
	for i, st := range file.Steps {
		name := st.Kind
		if st.Name != "" {
			name = fmt.Sprintf("%s (%s)", st.Name, st.Kind)
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, name)
	}
	return nil
}

// Graph prints the Mermaid flowchart of a flow file (the built-in flow when
// path is empty).
func Graph(w io.Writer, path string, minLength int) error {
	file, err := loadFlow(path, registry.Default())
	if err != nil {
		return err
	}
	fmt.Fprint(w, graph.GenerateMermaid(file, effectiveMinLength(file, minLength), nil))
	return nil
}

// Kinds prints the step kinds a flow file can use, with their parameters.
func Kinds(w io.Writer) {
	reg := registry.Default()
	for _, kind := range reg.Kinds() {
		fac, _ := reg.Lookup(kind)
		fmt.Fprintf(w, "%-22s %s\n", kind, fac.Description)
		if params := schema.Describe(fac.Params); len(params) > 0 {
			fmt.Fprintf(w, "%-22s params: %s\n", "", strings.Join(params, ", "))
		}
	}
}
