package registry

import (
	"time"

	"github.com/aretw0/taskgate/pkg/schema"
	"github.com/aretw0/taskgate/pkg/steps"
)

type confirmParams struct {
	Message string `mapstructure:"message"`
}

type linkParams struct {
	Label string `mapstructure:"label"`
	Href  string `mapstructure:"href"`
}

type scrollParams struct {
	Content string `mapstructure:"content"`
}

type reviewParams struct {
	Duration time.Duration `mapstructure:"duration"`
}

func noParams(build func(lib *steps.Library) steps.Step) BuildFunc {
	return func(lib *steps.Library, _ map[string]any) (steps.Step, error) {
		return build(lib), nil
	}
}

// Default returns a registry with every built-in step kind.
func Default() *Registry {
	r := NewRegistry()

	r.Register(steps.KindConfirmation, Factory{
		Description: "Yes/No question; No rejects silently",
		Params:      schema.Schema{"message": schema.Optional(schema.String())},
		Build: func(lib *steps.Library, params map[string]any) (steps.Step, error) {
			p := confirmParams{Message: steps.PromptAddTask}
			if err := decode(params, &p); err != nil {
				return steps.Step{}, err
			}
			return lib.Confirmation(p.Message), nil
		},
	})

	r.Register(steps.KindChallenge, Factory{
		Description: "arithmetic question; a wrong answer is reported",
		Params:      schema.Schema{},
		Build:       noParams((*steps.Library).ChallengeResponse),
	})

	r.Register(steps.KindRobotCheck, Factory{
		Description: "\"I'm not a robot\" check, retried once",
		Params:      schema.Schema{},
		Build:       noParams((*steps.Library).RobotCheck),
	})

	r.Register(steps.KindGatedLink, Factory{
		Description: "external link that must be clicked",
		Params: schema.Schema{
			"label": schema.Optional(schema.String()),
			"href":  schema.Optional(schema.URL()),
		},
		Build: func(lib *steps.Library, params map[string]any) (steps.Step, error) {
			var p linkParams
			if err := decode(params, &p); err != nil {
				return steps.Step{}, err
			}
			return lib.GatedLink(p.Label, p.Href), nil
		},
	})

	r.Register(steps.KindScrollToUnlock, Factory{
		Description: "terms that must be scrolled to the end before accepting",
		Params:      schema.Schema{"content": schema.Optional(schema.String())},
		Build: func(lib *steps.Library, params map[string]any) (steps.Step, error) {
			var p scrollParams
			if err := decode(params, &p); err != nil {
				return steps.Step{}, err
			}
			return lib.ScrollToUnlock(p.Content), nil
		},
	})

	r.Register(steps.KindProgressiveSequence, Factory{
		Description: "ten second fake loading screen",
		Params:      schema.Schema{},
		Build:       noParams((*steps.Library).ProgressiveSequence),
	})

	r.Register(steps.KindTimedReview, Factory{
		Description: "static review message shown for a while",
		Params:      schema.Schema{"duration": schema.Optional(schema.Duration())},
		Build: func(lib *steps.Library, params map[string]any) (steps.Step, error) {
			p := reviewParams{Duration: steps.DefaultReviewDuration}
			if err := decode(params, &p); err != nil {
				return steps.Step{}, err
			}
			return lib.TimedReview(p.Duration), nil
		},
	})

	return r
}

// DefaultFile is the flow file equivalent of steps.Library.DefaultFlow.
func DefaultFile() *schema.File {
	return &schema.File{
		Steps: []schema.StepSpec{
			{Kind: steps.KindConfirmation, Params: map[string]any{"message": steps.PromptAddTask}},
			{Kind: steps.KindConfirmation, Params: map[string]any{"message": steps.PromptReallySure}},
			{Kind: steps.KindChallenge},
			{Kind: steps.KindRobotCheck},
			{Kind: steps.KindGatedLink, Params: map[string]any{"label": steps.LabelVerifyMe, "href": steps.DefaultLinkURL}},
			{Kind: steps.KindScrollToUnlock},
			{Kind: steps.KindProgressiveSequence},
			{Kind: steps.KindTimedReview, Params: map[string]any{"duration": steps.DefaultReviewDuration.String()}},
		},
	}
}
