package schema

import (
	"fmt"
	"net/url"
	"time"
)

// Type defines the contract for parameter validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "duration").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// OptionalType wraps a Type whose key may be absent.
type OptionalType struct {
	Type
}

func (t *OptionalType) Name() string { return t.Type.Name() + "?" }

type stringType struct{}

func (stringType) Name() string { return "string" }

func (stringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

type intType struct{}

func (intType) Name() string { return "int" }

func (intType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		// JSON numbers decode as float64
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

type durationType struct{}

func (durationType) Name() string { return "duration" }

func (durationType) Validate(value any) error {
	switch v := value.(type) {
	case time.Duration:
		if v < 0 {
			return fmt.Errorf("must not be negative")
		}
		return nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("expected duration like \"3s\": %w", err)
		}
		if d < 0 {
			return fmt.Errorf("must not be negative")
		}
		return nil
	default:
		return fmt.Errorf("expected duration string, got %T", value)
	}
}

type urlType struct{}

func (urlType) Name() string { return "url" }

func (urlType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected url string, got %T", value)
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("expected absolute http(s) url")
	}
	return nil
}

// String creates a string type validator.
func String() Type { return stringType{} }

// Int creates an integer type validator.
func Int() Type { return intType{} }

// Duration accepts Go duration strings ("1.5s", "250ms").
func Duration() Type { return durationType{} }

// URL accepts absolute http and https URLs.
func URL() Type { return urlType{} }

// Optional lets the key be omitted.
func Optional(t Type) Type { return &OptionalType{Type: t} }
