package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/taskgate"
	"github.com/aretw0/taskgate/internal/config"
	"github.com/aretw0/taskgate/internal/presentation/tui"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/flow"
)

// ErrRejected is returned by Add when the item did not make it to the list.
var ErrRejected = errors.New("task rejected")

// busyNotice is shown when another attempt holds the list.
const busyNotice = "Another task is being approved. Try again in a moment."

// Run starts the interactive loop: read an item, run the gate, show the list.
// It ends cleanly when input ends or the user interrupts.
func Run(opts Options) error {
	opts.defaults()
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	err := run(sigCtx, opts)
	logCompletion(opts.Stdout, err, opts.Config.Surface == config.SurfaceJSON, sigCtx.Signal())
	return handleExecutionError(err)
}

func run(ctx context.Context, opts Options) error {
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	if a.surface != config.SurfaceJSON {
		tui.PrintBanner(opts.Stdout, taskgate.Version)
	}

	items, err := a.gate.Items(ctx)
	if err != nil {
		return err
	}
	a.console.ShowItems(items)

	for {
		select {
		case err := <-a.serveErr:
			return fmt.Errorf("status server: %w", err)
		default:
		}

		input, err := a.console.ReadItem(ctx)
		if err != nil {
			return err
		}

		res, err := a.gate.Submit(ctx, input)
		switch {
		case errors.Is(err, domain.ErrEmptySubmission):
			continue
		case errors.Is(err, domain.ErrAttemptInFlight), errors.Is(err, domain.ErrLockHeld):
			a.console.Notice(busyNotice)
			continue
		case err != nil:
			return err
		}

		if res.Committed() {
			items, err := a.gate.Items(ctx)
			if err != nil {
				return err
			}
			a.console.ShowItems(items)
		}
	}
}

// Add runs a single attempt for input and reports the result.
func Add(opts Options, input string) error {
	opts.defaults()
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	res, err := add(sigCtx, opts, input)
	if err != nil {
		if isInterrupted(err) {
			logCompletion(opts.Stdout, err, opts.Config.Surface == config.SurfaceJSON, sigCtx.Signal())
		}
		return err
	}
	if !res.Committed() {
		return rejection(res)
	}
	return nil
}

func add(ctx context.Context, opts Options, input string) (flow.Result, error) {
	a, err := newApp(ctx, opts)
	if err != nil {
		return flow.Result{}, err
	}
	defer a.close()

	res, err := a.gate.Submit(ctx, input)
	if err != nil {
		return res, err
	}
	if res.Committed() {
		items, err := a.gate.Items(ctx)
		if err != nil {
			return res, err
		}
		a.console.ShowItems(items)
	}
	return res, nil
}

func rejection(res flow.Result) error {
	switch {
	case res.Reason != "":
		return fmt.Errorf("%w: %s", ErrRejected, res.Reason)
	case res.FailedStep != "":
		return fmt.Errorf("%w: declined at %s", ErrRejected, res.FailedStep)
	default:
		return ErrRejected
	}
}

// ExitCode maps an error returned by Run or Add to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrRejected):
		return 2
	case isInterrupted(err):
		return 130
	default:
		return 1
	}
}
