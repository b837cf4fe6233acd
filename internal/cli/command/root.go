package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/zfs-tool/internal/cli/config"
	"github.com/yndnr/zfs-tool/internal/core/service"
	"github.com/yndnr/zfs-tool/internal/infra/buildinfo"
	"github.com/yndnr/zfs-tool/internal/infra/shutdown"
	"github.com/yndnr/zfs-tool/internal/infra/zfs"
	"github.com/yndnr/zfs-tool/internal/telemetry/logger"
	"github.com/yndnr/zfs-tool/internal/telemetry/metric"
)

const (
	runtimeKey = "runtime"

	// shutdownTimeout bounds the exit hooks.
	shutdownTimeout = 5 * time.Second
)

// AppOption configures the application.
type AppOption func(*appOptions)

type appOptions struct {
	runner zfs.Runner
	now    func() time.Time
}

// WithRunner replaces the zfs executable runner.
func WithRunner(r zfs.Runner) AppOption {
	return func(o *appOptions) {
		o.runner = r
	}
}

// WithClock sets the clock used for age filters.
func WithClock(now func() time.Time) AppOption {
	return func(o *appOptions) {
		o.now = now
	}
}

// App creates the CLI application.
func App(opts ...AppOption) *cli.App {
	o := &appOptions{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	app := &cli.App{
		Name:                 "zfs-tool",
		Usage:                "List, filter and reclaim space from zfs snapshots",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Metadata:             map[string]any{},
		Commands: []*cli.Command{
			ListSnapshotsCommand(),
			CleanupCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			rt, err := newRuntime(c, o)
			if err != nil {
				return err
			}
			c.App.Metadata[runtimeKey] = rt
			return nil
		},
		After: func(c *cli.Context) error {
			if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
				return rt.Close()
			}
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file (default: " + config.DefaultConfigPath() + ")",
			EnvVars: []string{config.EnvPrefix + "CONFIG"},
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:  "zfs-binary",
			Usage: "Path of the zfs executable",
		},
		&cli.StringFlag{
			Name:  "snapshot-file",
			Usage: "Read the snapshot listing from a file instead of running zfs",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Datasets whose reclaim figures are loaded in parallel",
		},
		&cli.Float64Flag{
			Name:  "rate",
			Usage: "Maximum zfs calls per second, 0 for unlimited",
		},
		&cli.DurationFlag{
			Name:  "zfs-timeout",
			Usage: "Timeout of a single zfs call, 0 for none",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics of the run to this file",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, table, wide, json, yaml",
		},
		&cli.BoolFlag{
			Name:  "no-headers",
			Usage: "Omit the header row of table output",
		},
		&cli.BoolFlag{
			Name:  "progress",
			Usage: "Show dry-run progress on stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Config   string
	Debug    bool
	Progress bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Config:   c.String("config"),
		Debug:    c.Bool("debug"),
		Progress: c.Bool("progress"),
	}
}

// flagOverrides maps explicitly set global flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	overrides := make(map[string]any)
	stringFlags := map[string]string{
		"log-level":     "log.level",
		"log-format":    "log.format",
		"zfs-binary":    "zfs.binary",
		"snapshot-file": "snapshot.file",
		"metrics-file":  "metrics.file",
		"output":        "output.format",
	}
	for flag, key := range stringFlags {
		if c.IsSet(flag) {
			overrides[key] = c.String(flag)
		}
	}
	if c.IsSet("concurrency") {
		overrides["zfs.concurrency"] = c.Int("concurrency")
	}
	if c.IsSet("rate") {
		overrides["zfs.rate"] = c.Float64("rate")
	}
	if c.IsSet("zfs-timeout") {
		overrides["zfs.timeout"] = c.Duration("zfs-timeout")
	}
	if c.Bool("no-headers") {
		overrides["output.headers"] = false
	}
	return overrides
}

// Runtime holds what a command run needs.
type Runtime struct {
	Config  *config.CLIConfig
	Logger  logger.Logger
	Metrics *metric.Registry
	Client  *zfs.Client
	RunID   string

	ctx      context.Context
	stop     context.CancelFunc
	shutdown *shutdown.Handler
	now      func() time.Time
	stdout   io.Writer
	stderr   io.Writer
}

func newRuntime(c *cli.Context, o *appOptions) (*Runtime, error) {
	cfg, err := config.Load(c.String("config"), flagOverrides(c))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	stderr := c.App.ErrWriter
	if stderr == nil {
		stderr = os.Stderr
	}
	stdout := c.App.Writer
	if stdout == nil {
		stdout = os.Stdout
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
	})
	if err != nil {
		return nil, err
	}
	if ParseGlobalFlags(c).Debug {
		logger.SetLevel("debug")
	}

	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	runID := logger.NewRunID()
	parent = logger.WithRunID(logger.WithLogger(parent, log), runID)
	log = logger.L(parent)
	logger.SetDefault(log)

	registry := metric.NewRegistry()
	runner := o.runner
	if runner == nil {
		runner = zfs.NewExecRunner(cfg.ZFS.Binary,
			zfs.WithRateLimit(cfg.ZFS.Rate),
			zfs.WithTimeout(cfg.ZFS.Timeout),
			zfs.WithObserver(registry),
		)
	}
	client := zfs.NewClient(runner,
		zfs.WithLang(cfg.ZFS.Lang),
		zfs.WithSnapshotFile(cfg.Snapshot.File),
		zfs.WithLogger(log),
	)

	sh := shutdown.NewHandler(shutdownTimeout)
	ctx, stop := sh.Context(parent)
	if path := cfg.Metrics.File; path != "" {
		sh.OnShutdown(func(context.Context) error {
			if err := registry.WriteTextfile(path); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
			return nil
		})
	}

	log.Debug("run started", "config", c.String("config"), "zfs_binary", cfg.ZFS.Binary)
	return &Runtime{
		Config:   cfg,
		Logger:   log,
		Metrics:  registry,
		Client:   client,
		RunID:    runID,
		ctx:      ctx,
		stop:     stop,
		shutdown: sh,
		now:      o.now,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

// Context returns the run context, cancelled on SIGINT and SIGTERM.
func (rt *Runtime) Context() context.Context {
	return rt.ctx
}

// Service creates a snapshot service on the run's zfs client.
func (rt *Runtime) Service(opts ...service.LoaderOption) *service.SnapshotService {
	loaderOpts := append([]service.LoaderOption{
		service.WithConcurrency(rt.Config.ZFS.Concurrency),
		service.WithLoaderLogger(rt.Logger),
	}, opts...)
	return service.NewSnapshotService(rt.Client,
		service.NewReclaimLoader(rt.Client, loaderOpts...),
		service.WithClock(rt.now),
		service.WithServiceLogger(rt.Logger),
	)
}

// Record stores the outcome of a selecting command in the metrics.
func (rt *Runtime) Record(command string, sel *service.Selection, err error) {
	if sel != nil {
		rt.Metrics.RecordSelection(command, metric.Selection{
			Listed:       len(sel.Listed),
			Selected:     len(sel.Snapshots),
			Skipped:      sel.SkippedRows,
			ReclaimBytes: sel.SelectedReclaimBytes(),
		})
	}
	rt.Metrics.RecordRun(command, rt.now(), err)
}

// Close releases the signal handler and runs the exit hooks.
func (rt *Runtime) Close() error {
	rt.stop()
	return rt.shutdown.Shutdown()
}

// GetRuntime retrieves the run state prepared by the Before hook.
func GetRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}
	return nil, errors.New("runtime not initialized")
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
