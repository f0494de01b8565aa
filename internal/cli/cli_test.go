package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/taskgate"
	"github.com/aretw0/taskgate/internal/config"
	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/internal/testutils"
	"github.com/aretw0/taskgate/pkg/adapters/tui"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/schema"
)

const confirmFlow = `
min_length: 10
steps:
  - kind: confirm
    name: Ask
    message: Add it?
`

func writeFlow(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func options(t *testing.T, surface, input string) (Options, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return Options{
		Config: config.Config{
			Surface:  surface,
			FlowFile: writeFlow(t, confirmFlow),
		},
		Stdin:  strings.NewReader(input),
		Stdout: &out,
		Stderr: io.Discard,
		Extra: []taskgate.Option{
			taskgate.WithWaiter(&testutils.InstantWaiter{}),
			taskgate.WithRand(rand.New(rand.NewPCG(1, 1))),
		},
	}, &out
}

func TestRun_TextSession(t *testing.T) {
	opts, out := options(t, config.SurfaceText, "Water the plants\n1\nshort\n1\n1\n")
	require.NoError(t, Run(opts))

	o := out.String()
	assert.Contains(t, o, "No tasks yet.")
	assert.Contains(t, o, "Add it?\n  [1] Yes\n  [2] No\n")
	assert.Contains(t, o, "Tasks:\n  1. Water the plants\n")
	assert.Contains(t, o, taskgate.NoticeTooShort)
	assert.Contains(t, o, ">>> Bye!")
}

func TestRun_SkipsEmptyInput(t *testing.T) {
	opts, out := options(t, config.SurfaceText, "   \nWater the plants\n2\n")
	require.NoError(t, Run(opts))
	assert.Equal(t, 1, strings.Count(out.String(), "Add it?"))
	assert.NotContains(t, out.String(), "Tasks:")
}

func TestAdd_JSON(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		opts, out := options(t, config.SurfaceJSON, `{"action":"activate","control":0}`+"\n")
		require.NoError(t, Add(opts, "Water the plants"))
		assert.Contains(t, out.String(), `"event":"items","items":["Water the plants"]`)
		assert.True(t, strings.HasPrefix(out.String(), "{"), "only events in JSON mode")
	})

	t.Run("declined", func(t *testing.T) {
		opts, _ := options(t, config.SurfaceJSON, `{"action":"activate","control":1}`+"\n")
		err := Add(opts, "Water the plants")
		require.ErrorIs(t, err, ErrRejected)
		assert.EqualError(t, err, "task rejected: declined at Ask")
		assert.Equal(t, 2, ExitCode(err))
	})

	t.Run("too short", func(t *testing.T) {
		opts, _ := options(t, config.SurfaceJSON, `{"action":"activate","control":0}`+"\n"+`{"action":"dismiss"}`+"\n")
		err := Add(opts, "short")
		assert.EqualError(t, err, "task rejected: too short")
	})

	t.Run("empty", func(t *testing.T) {
		opts, _ := options(t, config.SurfaceJSON, "")
		assert.ErrorIs(t, Add(opts, "  "), domain.ErrEmptySubmission)
	})
}

func TestAdd_SharedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	opts, _ := options(t, config.SurfaceJSON, `{"action":"activate","control":0}`+"\n")
	opts.Config.Redis = config.RedisConfig{Addr: mr.Addr(), Prefix: "test:", TTL: time.Minute}

	require.NoError(t, Add(opts, "Water the plants"))
	assert.Empty(t, mr.Keys(), "the lock is released after the attempt")
}

func TestAdd_LockHeldElsewhere(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("test:lock:tasks", "someone-else"))
	opts, _ := options(t, config.SurfaceJSON, "")
	opts.Config.Redis = config.RedisConfig{Addr: mr.Addr(), Prefix: "test:", TTL: time.Minute}

	err := Add(opts, "Water the plants")
	assert.ErrorIs(t, err, domain.ErrLockHeld)
	assert.Equal(t, 1, ExitCode(err))
}

func TestNewApp_Errors(t *testing.T) {
	ctx := context.Background()

	opts, _ := options(t, "gui", "")
	_, err := newApp(ctx, opts)
	assert.ErrorContains(t, err, `unknown surface "gui"`)

	opts, _ = options(t, config.SurfaceText, "")
	opts.Config.FlowFile = writeFlow(t, "steps:\n  - kind: captcha\n")
	_, err = newApp(ctx, opts)
	assert.ErrorIs(t, err, schema.ErrInvalidFlow)

	opts, _ = options(t, config.SurfaceText, "")
	opts.Config.Debug = true
	opts.Config.LogFormat = "xml"
	_, err = newApp(ctx, opts)
	assert.ErrorContains(t, err, "unknown log format")
}

func TestSelectSurface_AutoWithoutTerminal(t *testing.T) {
	opts, _ := options(t, config.SurfaceAuto, "")
	_, _, name, err := selectSurface(config.SurfaceAuto, opts, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.SurfaceText, name)
}

func TestValidate(t *testing.T) {
	var out bytes.Buffer
	path := writeFlow(t, confirmFlow)
	require.NoError(t, Validate(&out, path))
	assert.Contains(t, out.String(), ": 1 steps, min length 10")
	assert.Contains(t, out.String(), "1. Ask (confirm)")

	bad := writeFlow(t, "steps:\n  - kind: timed_review\n    duration: soon\n")
	err := Validate(&out, bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrInvalidFlow)
	assert.Contains(t, err.Error(), "duration")
}

func TestGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Graph(&out, "", 0))
	assert.True(t, strings.HasPrefix(out.String(), "graph TD\n"))
	assert.Contains(t, out.String(), "length ≥ 20")

	out.Reset()
	require.NoError(t, Graph(&out, writeFlow(t, confirmFlow), 30))
	assert.Contains(t, out.String(), "step0[\"Ask\"]")
	assert.Contains(t, out.String(), "length ≥ 30")
}

func TestKinds(t *testing.T) {
	var out bytes.Buffer
	Kinds(&out)
	for _, k := range []string{"confirm", "challenge", "robot_check", "gated_link", "scroll_to_unlock", "progressive_sequence", "timed_review"} {
		assert.Contains(t, out.String(), k)
	}
	assert.Contains(t, out.String(), "params: duration:duration?")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 2, ExitCode(ErrRejected))
	assert.Equal(t, 130, ExitCode(context.Canceled))
	assert.Equal(t, 130, ExitCode(tui.ErrInterrupted))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, handleExecutionError(io.EOF))
	assert.NoError(t, handleExecutionError(domain.ErrSurfaceClosed))
	assert.Error(t, handleExecutionError(errors.New("boom")))
}
