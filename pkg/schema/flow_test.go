package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleFlow = `
min_length: 25
steps:
  - kind: confirm
    message: Are you sure you want to add task?
  - kind: challenge
    name: maths
  - kind: timed_review
    duration: 2s
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(sampleFlow))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.MinLength != 25 {
		t.Errorf("MinLength = %d, want 25", f.MinLength)
	}
	if len(f.Steps) != 3 {
		t.Fatalf("len(Steps) = %d, want 3", len(f.Steps))
	}
	if got := f.Steps[0].Params["message"]; got != "Are you sure you want to add task?" {
		t.Errorf("confirm message = %v", got)
	}
	if f.Steps[1].Name != "maths" || len(f.Steps[1].Params) != 0 {
		t.Errorf("challenge step = %+v, want name only", f.Steps[1])
	}
	if _, ok := f.Steps[0].Params["kind"]; ok {
		t.Error("kind must not leak into params")
	}
	if got := f.Steps[2].Params["duration"]; got != "2s" {
		t.Errorf("duration = %#v, want \"2s\"", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty document":   "",
		"not yaml":         "steps: [",
		"no steps":         "min_length: 3\n",
		"negative minimum": "min_length: -1\nsteps:\n  - kind: confirm\n",
		"missing kind":     "steps:\n  - kind: confirm\n  - message: hi\n",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !errors.Is(err, ErrInvalidFlow) {
				t.Errorf("error %v should match ErrInvalidFlow", err)
			}
		})
	}
}

func TestLoad_MissingKindLocatesStep(t *testing.T) {
	_, err := Load(strings.NewReader("steps:\n  - kind: confirm\n  - message: hi\n"))
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error should wrap *StepError, got %T", err)
	}
	if stepErr.Index != 1 {
		t.Errorf("Index = %d, want 1", stepErr.Index)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	if err := os.WriteFile(path, []byte(sampleFlow), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(f.Steps) != 3 {
		t.Errorf("len(Steps) = %d, want 3", len(f.Steps))
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}
