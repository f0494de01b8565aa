package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/browser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/term"

	"github.com/aretw0/taskgate"
	"github.com/aretw0/taskgate/internal/config"
	"github.com/aretw0/taskgate/internal/lineio"
	"github.com/aretw0/taskgate/internal/presentation/tui"
	"github.com/aretw0/taskgate/pkg/adapters/http"
	"github.com/aretw0/taskgate/pkg/adapters/jsonl"
	"github.com/aretw0/taskgate/pkg/adapters/redis"
	"github.com/aretw0/taskgate/pkg/adapters/text"
	tuisurface "github.com/aretw0/taskgate/pkg/adapters/tui"
	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/observability"
	"github.com/aretw0/taskgate/pkg/schema"
	"github.com/aretw0/taskgate/pkg/session"
)

// Console is the part of a surface the run loop talks to outside dialogs.
type Console interface {
	ReadItem(ctx context.Context) (string, error)
	ShowItems(items []string)
	Notice(msg string)
}

// Options contains everything run and add need.
type Options struct {
	Config config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Gate options appended last (tests inject waiters and random sources).
	Extra []taskgate.Option
}

func (o *Options) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// app is a wired gate with its surface and side services.
type app struct {
	gate     *taskgate.Gate
	console  Console
	surface  string
	logger   *slog.Logger
	closers  []func() error
	serveErr chan error
}

func newApp(ctx context.Context, opts Options) (*app, error) {
	opts.defaults()
	cfg := opts.Config

	logger, err := createLogger(cfg.Debug, cfg.LogFormat, opts.Stderr)
	if err != nil {
		return nil, err
	}
	a := &app{logger: logger}

	// Browsers launched for links must not write over the dialogs.
	browser.Stdout = opts.Stderr

	surface, console, name, err := selectSurface(cfg.Surface, opts, logger)
	if err != nil {
		return nil, err
	}
	a.console = console
	a.surface = name

	gateOpts := []taskgate.Option{taskgate.WithLogger(logger)}
	if cfg.FlowFile != "" {
		file, err := schema.LoadFile(cfg.FlowFile)
		if err != nil {
			return nil, err
		}
		gateOpts = append(gateOpts, taskgate.WithFlow(file))
	}
	if cfg.MinLength > 0 {
		gateOpts = append(gateOpts, taskgate.WithMinLength(cfg.MinLength))
	}

	var hooks domain.LifecycleHooks
	if cfg.Debug {
		hooks = observability.LoggingHooks(logger)
	}

	var (
		registry *prometheus.Registry
		streams  *http.StreamManager
	)
	if cfg.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		streams = http.NewStreamManager(logger)
		hooks = hooks.Merge(observability.NewMetrics(registry).Hooks()).Merge(streams.Hooks())
	}
	gateOpts = append(gateOpts, taskgate.WithLifecycleHooks(hooks))

	if cfg.Redis.Addr != "" {
		client, err := redis.Dial(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		sessions := session.NewManager(
			session.WithLocker(redis.NewLocker(client, cfg.Redis.Prefix)),
			session.WithLockTTL(cfg.Redis.TTL),
			session.WithLogger(logger),
		)
		gateOpts = append(gateOpts, taskgate.WithSessions(sessions))
		logger.Debug("attempt lock shared through redis", "addr", cfg.Redis.Addr)
	}

	gate, err := taskgate.New(surface, append(gateOpts, opts.Extra...)...)
	if err != nil {
		a.close()
		return nil, err
	}
	a.gate = gate

	if cfg.MetricsAddr != "" {
		handler := http.NewHandler(&http.Server{
			Flow:     gate.Controller(),
			List:     gate.List(),
			Gatherer: registry,
			Streams:  streams,
			Version:  taskgate.Version,
			Logger:   logger,
		})
		a.serveErr = make(chan error, 1)
		go func() {
			a.serveErr <- http.Serve(ctx, cfg.MetricsAddr, handler, logger)
		}()
	}
	return a, nil
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Warn("close failed", "err", err)
		}
	}
}

// selectSurface builds the dialog surface named by name. "auto" picks the
// terminal UI when both stdin and stdout are terminals, and text otherwise.
func selectSurface(name string, opts Options, logger *slog.Logger) (dialog.Surface, Console, string, error) {
	tty := isTerminal(opts.Stdin) && isTerminal(opts.Stdout)
	if name == config.SurfaceAuto || name == "" {
		name = config.SurfaceText
		if tty {
			name = config.SurfaceTUI
		}
	}

	switch name {
	case config.SurfaceJSON:
		s := jsonl.NewSurface(lineio.NewReader(opts.Stdin), opts.Stdout, jsonl.WithLogger(logger))
		return s, s, name, nil

	case config.SurfaceText:
		textOpts := []text.Option{text.WithLogger(logger)}
		if tty {
			textOpts = append(textOpts, text.WithHyperlinks(true), text.WithOpener(browser.OpenURL))
		}
		s := text.NewSurface(lineio.NewReader(opts.Stdin), opts.Stdout, textOpts...)
		return s, s, name, nil

	case config.SurfaceTUI:
		tuiOpts := []tuisurface.Option{tuisurface.WithLogger(logger)}
		if render, err := tui.NewRenderer(tuisurface.DefaultWidth - 8); err == nil {
			tuiOpts = append(tuiOpts, tuisurface.WithRenderer(render))
		} else {
			logger.Warn("markdown rendering disabled", "err", err)
		}
		s := tuisurface.NewSurface(opts.Stdin, opts.Stdout, tuiOpts...)
		return s, s, name, nil

	default:
		return nil, nil, "", fmt.Errorf("unknown surface %q", name)
	}
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
