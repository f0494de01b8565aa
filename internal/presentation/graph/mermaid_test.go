package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/taskgate/internal/presentation/graph"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/registry"
	"github.com/aretw0/taskgate/pkg/schema"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		file     *schema.File
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Step Shapes",
			file: registry.DefaultFile(),
			contains: []string{
				"submit((\"submit\"))",
				"step0[\"confirm\"]",
				"step2[/\"challenge\"/]",
				"step4[[\"gated_link\"]]",
				"step6([\"progressive_sequence <br/> ⏱️ 10s\"])",
				"step7([\"timed_review <br/> ⏱️ 3s\"])",
				"length{\"length ≥ 20\"}",
			},
			excludes: []string{"classDef"},
		},
		{
			name: "Linear Edges And Rejections",
			file: &schema.File{Steps: []schema.StepSpec{{Kind: "confirm"}, {Kind: "robot_check"}}},
			contains: []string{
				"submit --> step0",
				"step0 --> step1",
				"step1 --> length",
				"step0 -. rejected .-> rejected",
				"length -- ok --> commit((\"commit\"))",
				"length -. too short .-> rejected",
			},
		},
		{
			name: "Names Escape Quotes",
			file: &schema.File{Steps: []schema.StepSpec{{Kind: "confirm", Name: `Say "yes"`}}},
			contains: []string{
				"step0[\"Say 'yes'\"]",
			},
		},
		{
			name:    "Running Overlay",
			file:    registry.DefaultFile(),
			overlay: &graph.GraphOverlay{Current: 2, Status: domain.FlowRunning},
			contains: []string{
				"class step0 visited;",
				"class step1 visited;",
				"class step2 current;",
			},
			excludes: []string{"class step3"},
		},
		{
			name:    "Rejected Overlay",
			file:    registry.DefaultFile(),
			overlay: &graph.GraphOverlay{Current: 8, Status: domain.FlowRejected},
			contains: []string{
				"class step7 visited;",
				"class length failed;",
			},
		},
		{
			name:    "Completed Overlay",
			file:    registry.DefaultFile(),
			overlay: &graph.GraphOverlay{Current: 8, Status: domain.FlowCompleted},
			contains: []string{
				"class length visited;",
				"class commit current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.file, 20, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\nGot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q\nGot:\n%s", unwanted, got)
				}
			}
		})
	}
}

func TestOverlayFrom(t *testing.T) {
	if graph.OverlayFrom(nil) != nil {
		t.Fatal("nil state must give nil overlay")
	}
	st := domain.NewFlowState("a", "text")
	st.CurrentStepIndex = 3
	o := graph.OverlayFrom(st)
	if o.Current != 3 || o.Status != domain.FlowRunning {
		t.Errorf("unexpected overlay %+v", o)
	}
}
