package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/infra/zfs"
	"github.com/yndnr/zfs-tool/internal/telemetry/logger"
)

// DryRunner simulates snapshot destruction.
type DryRunner interface {
	// Available reports whether zfs can be called at all.
	Available(ctx context.Context) (bool, error)

	// DestroyDryRun returns the output of `zfs destroy -nv` for a single
	// snapshot (to == nil) or for the range from%to.
	DestroyDryRun(ctx context.Context, from, to *domain.Snapshot) (string, zfs.Result, error)
}

// LoadReport summarises the dry runs issued by a Load call.
type LoadReport struct {
	// Calls is the number of dry runs that reached zfs.
	Calls int
	// Failures counts dry runs that exited with an error.
	Failures int
	// Unknown counts dry runs whose output had no reclaim figure.
	Unknown int
	// Errors holds soft errors such as rejected ranges.
	Errors []error
}

func (r *LoadReport) merge(o LoadReport) {
	r.Calls += o.Calls
	r.Failures += o.Failures
	r.Unknown += o.Unknown
	r.Errors = append(r.Errors, o.Errors...)
}

// ProgressFunc receives the number of finished and planned dry runs.
// It may be called from several goroutines.
type ProgressFunc func(done, total int)

// ReclaimLoader fills ReclaimBytes and ReclaimSumBytes of snapshots.
type ReclaimLoader struct {
	client      DryRunner
	concurrency int
	progress    ProgressFunc
	logger      logger.Logger
}

// LoaderOption configures a ReclaimLoader.
type LoaderOption func(*ReclaimLoader)

// WithConcurrency sets how many datasets are processed in parallel.
// Calls for one dataset are always sequential.
func WithConcurrency(n int) LoaderOption {
	return func(l *ReclaimLoader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLoaderLogger sets the loader logger.
func WithLoaderLogger(lg logger.Logger) LoaderOption {
	return func(l *ReclaimLoader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithProgress reports dry-run progress to fn.
func WithProgress(fn ProgressFunc) LoaderOption {
	return func(l *ReclaimLoader) {
		l.progress = fn
	}
}

// NewReclaimLoader creates a loader.
func NewReclaimLoader(client DryRunner, opts ...LoaderOption) *ReclaimLoader {
	l := &ReclaimLoader{
		client:      client,
		concurrency: 1,
		logger:      logger.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load attaches the requested reclaim figures and reports whether any
// work was requested.
//
// Snapshots are grouped by dataset; the first snapshot of a group is the
// oldest. Every snapshot gets a single dry run. With ReclaimSum requested,
// every other snapshot also gets a range dry run from the oldest snapshot
// of its dataset, and the oldest one reuses its own reclaim figure.
// Figures missing from the zfs output leave the current value unchanged.
func (l *ReclaimLoader) Load(ctx context.Context, snaps []*domain.Snapshot, props domain.ExtraProperties) (bool, LoadReport, error) {
	var report LoadReport
	if !props.Any() {
		return false, report, nil
	}

	groups := GroupByPath(snaps)
	if len(groups) == 0 {
		return true, report, nil
	}

	// Resolve the probe before fanning out.
	if _, err := l.client.Available(ctx); err != nil {
		return true, report, err
	}

	total := plannedDryRuns(groups, props)
	l.logger.Debug("loading reclaim figures",
		"properties", props.String(),
		"datasets", len(groups),
		"dry_runs", total,
	)
	step := l.stepper(total)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, group := range groups {
		g.Go(func() error {
			r, err := l.loadGroup(gctx, group, props, step)
			mu.Lock()
			report.merge(r)
			mu.Unlock()
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return true, report, err
	}
	return true, report, nil
}

func plannedDryRuns(groups []Group, props domain.ExtraProperties) int {
	n := 0
	for _, g := range groups {
		n += len(g.Snapshots)
		if props.ReclaimSum {
			n += len(g.Snapshots) - 1
		}
	}
	return n
}

// stepper returns a func counting finished dry runs. Progress calls are
// serialised, so done never goes backwards across parallel groups.
func (l *ReclaimLoader) stepper(total int) func() {
	if l.progress == nil {
		return func() {}
	}
	var (
		mu   sync.Mutex
		done int
	)
	l.progress(0, total)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		l.progress(done, total)
	}
}

func (l *ReclaimLoader) loadGroup(ctx context.Context, group Group, props domain.ExtraProperties, step func()) (LoadReport, error) {
	var report LoadReport
	first := group.Snapshots[0]
	for _, s := range group.Snapshots {
		reclaim, err := l.dryRun(ctx, s, nil, &report)
		step()
		if err != nil {
			return report, err
		}
		if reclaim >= 0 {
			s.ReclaimBytes = reclaim
		}

		if s == first {
			s.ReclaimSumBytes = s.ReclaimBytes
			continue
		}
		if !props.ReclaimSum {
			continue
		}

		sum, err := l.dryRun(ctx, first, s, &report)
		step()
		if err != nil {
			return report, err
		}
		if sum >= 0 {
			s.ReclaimSumBytes = sum
		}
	}
	return report, nil
}

// dryRun returns the reclaim figure of one dry run or domain.ReclaimUnknown.
// Only context errors are returned; everything else is recorded in report.
func (l *ReclaimLoader) dryRun(ctx context.Context, from, to *domain.Snapshot, report *LoadReport) (int64, error) {
	out, res, err := l.client.DestroyDryRun(ctx, from, to)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return domain.ReclaimUnknown, ctx.Err()
	case errors.Is(err, domain.ErrRangeAcrossDatasets):
		report.Errors = append(report.Errors, err)
		l.logger.Warn("dry run rejected", "snapshot", from.FullName, "error", err)
		return domain.ReclaimUnknown, nil
	default:
		report.Calls++
		report.Failures++
		report.Errors = append(report.Errors, err)
		l.logger.Warn("dry run failed", "snapshot", from.FullName, "error", err)
		return domain.ReclaimUnknown, nil
	}

	if res.Skipped {
		return domain.ReclaimUnknown, nil
	}
	report.Calls++
	if !res.Success() {
		report.Failures++
		l.logger.Warn("dry run failed",
			"args", res.Args,
			"exit_code", res.ExitCode,
			"stderr", res.Stderr,
		)
		return domain.ReclaimUnknown, nil
	}

	bytes := zfs.ParseReclaimBytes(out)
	if bytes < 0 {
		report.Unknown++
		l.logger.Debug("dry run without reclaim figure", "args", res.Args)
	}
	return bytes, nil
}
