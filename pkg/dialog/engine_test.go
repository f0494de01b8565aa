package dialog_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/taskgate/internal/testutils"
	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yesNo(msg string) domain.DialogRequest {
	return domain.DialogRequest{
		Message: msg,
		Widgets: []domain.WidgetSpec{
			domain.Button("Yes", true),
			domain.Button("No", false),
		},
	}
}

func TestPresent_ButtonResolvesWithValue(t *testing.T) {
	surface := testutils.NewScriptedSurface(testutils.Answer{testutils.Press("No")})
	engine := dialog.NewEngine(surface)

	res, err := engine.Present(context.Background(), yesNo("Sure?"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Widget)
	assert.Equal(t, false, res.Value)
	assert.False(t, res.Bool())
	assert.Equal(t, 1, surface.Hidden())
	assert.Equal(t, 0, surface.Open())
}

func TestPresent_TextInputResolvesWithRawText(t *testing.T) {
	surface := testutils.NewScriptedSurface(testutils.Answer{testutils.Type("  not validated  ")})
	engine := dialog.NewEngine(surface)

	res, err := engine.Present(context.Background(), domain.DialogRequest{
		Message: "Solve this: 1 + 1",
		Widgets: []domain.WidgetSpec{domain.TextInput("Submit", "answer")},
	})
	require.NoError(t, err)
	assert.Equal(t, "  not validated  ", res.Text())
}

func TestPresent_LinkResolvesWithValue(t *testing.T) {
	surface := testutils.NewScriptedSurface(testutils.Answer{testutils.PressIndex(0)})
	engine := dialog.NewEngine(surface)

	res, err := engine.Present(context.Background(), domain.DialogRequest{
		Message: "Click",
		Widgets: []domain.WidgetSpec{domain.Link("Go", "https://example.com", "clicked")},
	})
	require.NoError(t, err)
	assert.Equal(t, "clicked", res.Value)
}

func TestPresent_OnlyFirstActivationIsHonored(t *testing.T) {
	surface := testutils.NewScriptedSurface(testutils.Answer{
		testutils.Press("Yes"),
		testutils.Press("No"),
		testutils.Dismiss(),
	})
	engine := dialog.NewEngine(surface)

	res, err := engine.Present(context.Background(), yesNo("Sure?"))
	require.NoError(t, err)
	assert.True(t, res.Bool())
	assert.Equal(t, 0, res.Widget)
}

func TestPresent_ScrollGatedButtonNeedsFullScroll(t *testing.T) {
	req := domain.DialogRequest{
		Message: "Terms",
		Widgets: []domain.WidgetSpec{domain.ScrollGatedButton("Accept", "a\nb\nc\nd", true)},
	}

	t.Run("pressing before scrolling is ignored", func(t *testing.T) {
		surface := testutils.NewScriptedSurface(testutils.Answer{
			testutils.Press("Accept"),   // disabled, ignored
			testutils.ScrollTo(1, 2, 4), // not at the end yet
			testutils.Press("Accept"),   // still disabled
			testutils.ScrollTo(2, 2, 4), // end reached
			testutils.ScrollTo(0, 2, 4), // scrolling back keeps it enabled
			testutils.Press("Accept"),
		})
		engine := dialog.NewEngine(surface)

		res, err := engine.Present(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, res.Bool())
	})

	t.Run("control starts disabled", func(t *testing.T) {
		surface := testutils.NewScriptedSurface(testutils.Answer{testutils.ScrollToEnd(), testutils.Press("Accept")})
		engine := dialog.NewEngine(surface)
		_, err := engine.Present(context.Background(), req)
		require.NoError(t, err)

		shown := surface.Shown()
		require.Len(t, shown, 1)
		assert.False(t, shown[0].Controls[0].Enabled)
	})
}

func TestPresent_Dismissal(t *testing.T) {
	t.Run("dismissible dialog resolves with the sentinel", func(t *testing.T) {
		surface := testutils.NewScriptedSurface(testutils.Answer{testutils.Dismiss()})
		engine := dialog.NewEngine(surface)
		req := yesNo("Sure?")
		req.Dismissible = true

		res, err := engine.Present(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, res.Dismissed)
		assert.Equal(t, -1, res.Widget)
		assert.False(t, res.Bool())
	})

	t.Run("non dismissible dialog ignores dismissal", func(t *testing.T) {
		surface := testutils.NewScriptedSurface(testutils.Answer{testutils.Dismiss(), testutils.Press("Yes")})
		engine := dialog.NewEngine(surface)

		res, err := engine.Present(context.Background(), yesNo("Sure?"))
		require.NoError(t, err)
		assert.False(t, res.Dismissed)
		assert.True(t, res.Bool())
	})
}

func TestPresent_ConfigurationErrorBeforeShow(t *testing.T) {
	surface := testutils.NewScriptedSurface()
	engine := dialog.NewEngine(surface)

	_, err := engine.Present(context.Background(), domain.DialogRequest{
		Message: "Broken",
		Widgets: []domain.WidgetSpec{{Kind: domain.WidgetLink, Label: "Go", Value: true}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "href", cfgErr.Field)
	assert.Empty(t, surface.Shown(), "nothing may be shown for an invalid request")
}

func TestPresent_ShowErrorStillHides(t *testing.T) {
	surface := testutils.NewScriptedSurface()
	boom := errors.New("terminal gone")
	surface.FailShow(boom)
	engine := dialog.NewEngine(surface)

	_, err := engine.Present(context.Background(), yesNo("Sure?"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, surface.Hidden())
	assert.Equal(t, 0, surface.Open())

	// The slot was released: the next dialog is not blocked.
	surface.FailShow(nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = engine.Present(ctx, yesNo("Again?"))
	assert.ErrorIs(t, err, testutils.ErrScriptExhausted)
}

func TestPresent_ContextCancelTearsDown(t *testing.T) {
	surface := testutils.NewScriptedSurface(testutils.Answer{}) // never answers
	engine := dialog.NewEngine(surface)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := engine.Present(ctx, yesNo("Sure?"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, surface.Open())
	assert.Equal(t, 1, surface.Hidden())
}

func TestPresent_NeverTwoSurfacesAtOnce(t *testing.T) {
	answers := make([]testutils.Answer, 10)
	for i := range answers {
		answers[i] = testutils.Answer{testutils.Press("Yes")}
	}
	surface := testutils.NewScriptedSurface(answers...)
	engine := dialog.NewEngine(surface)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Present(context.Background(), yesNo("Sure?"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, surface.MaxOpen())
	assert.Equal(t, 10, surface.Hidden())
}

func TestDisplay_StatusLifecycle(t *testing.T) {
	surface := testutils.NewScriptedSurface()
	engine := dialog.NewEngine(surface)

	st, err := engine.Display(context.Background(), "Initializing...")
	require.NoError(t, err)
	assert.False(t, st.Frame().Interactive())

	st.SetMessage("Reticulating splines...")
	st.SetProgress(1.7) // clamped
	assert.Equal(t, 1.0, st.Frame().Progress())

	st.Close()
	st.Close()
	assert.Equal(t, 1, surface.Hidden())
	assert.Equal(t, []string{"Initializing...", "Reticulating splines..."}, surface.Statuses())
	assert.True(t, st.Frame().Resolved())
}

func TestPresent_RejectsDeadEndDialog(t *testing.T) {
	engine := dialog.NewEngine(testutils.NewScriptedSurface())
	_, err := engine.Present(context.Background(), domain.DialogRequest{Message: "stuck"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestPresent_SurfaceFailureAborts(t *testing.T) {
	surface := testutils.NewScriptedSurface(testutils.Answer{testutils.Fail(domain.ErrSurfaceClosed)})
	engine := dialog.NewEngine(surface)

	_, err := engine.Present(context.Background(), yesNo("Sure?"))
	assert.ErrorIs(t, err, domain.ErrSurfaceClosed)
	assert.Equal(t, 1, surface.Hidden())
	assert.Equal(t, 0, surface.Open())
}
