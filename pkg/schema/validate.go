package schema

import (
	"fmt"
	"sort"
)

// Schema is a map of parameter names to their expected types.
type Schema map[string]Type

// Validate checks that data conforms to schema. Keys unknown to the schema are
// rejected. All failures are reported at once in an *AggregateError.
func Validate(schema Schema, data map[string]any) error {
	var errs []error

	for _, key := range sortedKeys(schema) {
		typ := schema[key]
		value, exists := data[key]
		if !exists {
			if _, optional := typ.(*OptionalType); !optional {
				errs = append(errs, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	for _, key := range sortedKeys(data) {
		if _, known := schema[key]; !known {
			errs = append(errs, &ValidationError{Key: key, Reason: "unknown parameter", Value: data[key]})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Describe renders schema as "key:type" pairs, sorted by key.
func Describe(schema Schema) []string {
	out := make([]string, 0, len(schema))
	for _, key := range sortedKeys(schema) {
		out = append(out, fmt.Sprintf("%s:%s", key, schema[key].Name()))
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
