package domain

import (
	"net/url"
	"strings"
)

// WidgetKind selects how a widget is rendered and what activating it yields.
type WidgetKind string

const (
	// WidgetButton resolves with its configured Value when pressed.
	WidgetButton WidgetKind = "button"
	// WidgetTextInput is a text field paired with a submit control (Label).
	// It resolves with the text typed at submission time.
	WidgetTextInput WidgetKind = "text_input"
	// WidgetLink navigates to Href and resolves with its configured Value.
	WidgetLink WidgetKind = "link"
	// WidgetScrollGatedButton shows Content in a scrollable region and a button
	// that stays disabled until the region has been scrolled to its end.
	WidgetScrollGatedButton WidgetKind = "scroll_gated_button"
)

// WidgetSpec is the declarative description of one control inside a dialog.
// Which fields are meaningful depends on Kind.
type WidgetSpec struct {
	Kind        WidgetKind `json:"kind" yaml:"kind"`
	Label       string     `json:"label" yaml:"label"`
	Value       any        `json:"value,omitempty" yaml:"value,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Href        string     `json:"href,omitempty" yaml:"href,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
}

// Button builds a button widget.
func Button(label string, value any) WidgetSpec {
	return WidgetSpec{Kind: WidgetButton, Label: label, Value: value}
}

// TextInput builds a text input whose submit control is labelled label.
func TextInput(label, placeholder string) WidgetSpec {
	return WidgetSpec{Kind: WidgetTextInput, Label: label, Placeholder: placeholder}
}

// Link builds an external link widget.
func Link(label, href string, value any) WidgetSpec {
	return WidgetSpec{Kind: WidgetLink, Label: label, Href: href, Value: value}
}

// ScrollGatedButton builds a scroll-to-unlock widget.
func ScrollGatedButton(label, content string, value any) WidgetSpec {
	return WidgetSpec{Kind: WidgetScrollGatedButton, Label: label, Content: content, Value: value}
}

// Validate checks that the fields required by Kind are present.
// index is reported back in the ConfigurationError.
func (w WidgetSpec) Validate(index int) error {
	fail := func(field, reason string) error {
		return &ConfigurationError{Widget: index, Kind: w.Kind, Field: field, Reason: reason}
	}

	switch w.Kind {
	case WidgetButton, WidgetTextInput, WidgetLink, WidgetScrollGatedButton:
	case "":
		return fail("kind", "is required")
	default:
		return fail("kind", "is unknown")
	}

	if strings.TrimSpace(w.Label) == "" {
		return fail("label", "is required")
	}

	switch w.Kind {
	case WidgetButton:
		if w.Value == nil {
			return fail("value", "is required")
		}
	case WidgetLink:
		if w.Value == nil {
			return fail("value", "is required")
		}
		if w.Href == "" {
			return fail("href", "is required")
		}
		u, err := url.Parse(w.Href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fail("href", "must be an absolute http(s) URL")
		}
	case WidgetScrollGatedButton:
		if w.Value == nil {
			return fail("value", "is required")
		}
		if strings.TrimSpace(w.Content) == "" {
			return fail("content", "is required")
		}
	}
	return nil
}
