package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/schema"
	"github.com/aretw0/taskgate/pkg/steps"
)

// GraphOverlay contains attempt state to visualize on the graph.
type GraphOverlay struct {
	// Current is the index of the running step.
	Current int
	// Status of the attempt; a rejected attempt marks Current as failed.
	Status domain.FlowStatus
}

// OverlayFrom builds the overlay of an attempt snapshot.
func OverlayFrom(st *domain.FlowState) *GraphOverlay {
	if st == nil {
		return nil
	}
	return &GraphOverlay{Current: st.CurrentStepIndex, Status: st.Status}
}

// GenerateMermaid produces a Mermaid flowchart of a flow file.
// It applies semantic styling:
// - Submit/Commit: ((Circle))
// - Answer steps (challenge, terms): [/Parallelogram/]
// - External link: [[Subroutine]]
// - Timed steps: ([Stadium]) annotated with their duration
// - Default: [Rectangle]
// Every step can reject; rejections converge on one node.
func GenerateMermaid(f *schema.File, minLength int, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    submit((\"submit\"))\n")

	prev := "submit"
	for i, st := range f.Steps {
		id := stepID(i)
		opener, closer := "[", "]"

		switch st.Kind {
		case steps.KindChallenge, steps.KindScrollToUnlock:
			opener, closer = "[/", "/]" // Parallelogram (Input)
		case steps.KindGatedLink:
			opener, closer = "[[", "]]" // Subroutine
		case steps.KindProgressiveSequence, steps.KindTimedReview:
			opener, closer = "([", "])" // Stadium
		}

		label := escape(stepLabel(st))
		if d, ok := st.Params["duration"]; ok {
			label = fmt.Sprintf("%s <br/> ⏱️ %v", label, d)
		} else if st.Kind == steps.KindProgressiveSequence {
			label = fmt.Sprintf("%s <br/> ⏱️ %s", label, steps.SequenceDuration)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		fmt.Fprintf(&sb, "    %s -. rejected .-> rejected\n", id)
		prev = id
	}

	fmt.Fprintf(&sb, "    length{\"length ≥ %d\"}\n", minLength)
	fmt.Fprintf(&sb, "    %s --> length\n", prev)
	sb.WriteString("    length -- ok --> commit((\"commit\"))\n")
	sb.WriteString("    length -. too short .-> rejected\n")
	sb.WriteString("    rejected[\"rejected\"]\n")

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		current := overlay.Current
		if current > len(f.Steps) {
			current = len(f.Steps)
		}
		for i := 0; i < current; i++ {
			fmt.Fprintf(&sb, "    class %s visited;\n", stepID(i))
		}
		target := "length"
		if current < len(f.Steps) {
			target = stepID(current)
		}
		switch overlay.Status {
		case domain.FlowRejected:
			fmt.Fprintf(&sb, "    class %s failed;\n", target)
		case domain.FlowCompleted:
			fmt.Fprintf(&sb, "    class %s visited;\n", target)
			sb.WriteString("    class commit current;\n")
		default:
			fmt.Fprintf(&sb, "    class %s current;\n", target)
		}
	}

	return sb.String()
}

func stepID(i int) string {
	return fmt.Sprintf("step%d", i)
}

func stepLabel(st schema.StepSpec) string {
	if st.Name != "" {
		return st.Name
	}
	return st.Kind
}

// escape replaces double quotes, which end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
