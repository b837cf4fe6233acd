package service

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/infra/zfs"
	"github.com/yndnr/zfs-tool/internal/telemetry/logger"
)

// Default command options.
const (
	DefaultListKeep     = 30 * 24 * time.Hour
	DefaultListOrder    = "path,creation,name"
	DefaultCleanupKeep  = 14 * 24 * time.Hour
	DefaultCleanupOrder = "creation,name"
)

// SnapshotSource provides the raw snapshot listing.
type SnapshotSource interface {
	ListSnapshots(ctx context.Context) (string, zfs.Result, error)
}

// Client is the zfs access SnapshotService needs.
type Client interface {
	SnapshotSource
	DryRunner
}

// ListOptions controls SnapshotService.List.
type ListOptions struct {
	// Keep excludes snapshots younger than this.
	Keep time.Duration
	// Contains filters on FullName.
	Contains string
	// Matches is a regular expression on Name.
	Matches string
	// Limit caps the snapshots per dataset, 0 disables.
	Limit int
	// RequiredSpace selects the oldest snapshots freeing at least this
	// many bytes, 0 disables. Implies every extra property.
	RequiredSpace int64
	// Properties selects reclaim figures to load.
	Properties domain.ExtraProperties
	// OrderBy sorts the result.
	OrderBy OrderBy
}

// DefaultListOptions returns the list-snapshots defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Keep:    DefaultListKeep,
		OrderBy: ParseOrderBy(DefaultListOrder),
	}
}

// CleanupOptions controls SnapshotService.Cleanup.
type CleanupOptions struct {
	// Keep excludes snapshots younger than this.
	Keep time.Duration
	// Contains filters on Name.
	Contains string
	// Matches is a regular expression on Name.
	Matches string
	// OrderBy sorts the result.
	OrderBy OrderBy
}

// DefaultCleanupOptions returns the cleanup defaults.
func DefaultCleanupOptions() CleanupOptions {
	return CleanupOptions{
		Keep:    DefaultCleanupKeep,
		OrderBy: ParseOrderBy(DefaultCleanupOrder),
	}
}

// Selection is the outcome of a workflow.
type Selection struct {
	// Listed holds every parsed snapshot in listing order.
	Listed []*domain.Snapshot
	// Snapshots holds the selected snapshots in output order.
	Snapshots []*domain.Snapshot
	// Properties are the extra properties that were loaded.
	Properties domain.ExtraProperties
	// SkippedRows counts listing rows that could not be parsed.
	SkippedRows int
	// Listing is the result of the listing call.
	Listing zfs.Result
	// Reclaim reports the dry runs issued.
	Reclaim LoadReport
}

// SelectedReclaimBytes sums the newest ReclaimSumBytes per dataset of the
// selection, which is what destroying the selection would free.
func (s *Selection) SelectedReclaimBytes() int64 {
	var total int64
	for _, g := range GroupByPath(s.Snapshots) {
		var newest *domain.Snapshot
		for _, snap := range g.Snapshots {
			if newest == nil || snap.Creation.After(newest.Creation) {
				newest = snap
			}
		}
		total += max(0, newest.ReclaimSumBytes)
	}
	return total
}

// SnapshotService lists and selects snapshots.
type SnapshotService struct {
	client Client
	loader *ReclaimLoader
	now    func() time.Time
	loc    *time.Location
	logger logger.Logger
}

// ServiceOption configures a SnapshotService.
type ServiceOption func(*SnapshotService)

// WithClock overrides the time source used by age filters.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *SnapshotService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone of listing timestamps.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *SnapshotService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(l logger.Logger) ServiceOption {
	return func(s *SnapshotService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSnapshotService creates a service. loader may be nil, in which case
// a sequential loader on client is used.
func NewSnapshotService(client Client, loader *ReclaimLoader, opts ...ServiceOption) *SnapshotService {
	s := &SnapshotService{
		client: client,
		loader: loader,
		now:    time.Now,
		loc:    time.Local,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = NewReclaimLoader(client, WithLoaderLogger(s.logger))
	}
	return s
}

func (s *SnapshotService) load(ctx context.Context, sel *Selection) error {
	out, res, err := s.client.ListSnapshots(ctx)
	sel.Listing = res
	if err != nil {
		return err
	}

	parser := zfs.NewParser(zfs.WithLocation(s.loc), zfs.WithParserLogger(s.logger))
	sel.Listed = slices.Collect(parser.ParseList(out))
	sel.SkippedRows = len(parser.Errors())
	if sel.SkippedRows > 0 {
		s.logger.Warn("listing rows skipped", "count", sel.SkippedRows)
	}
	if len(sel.Listed) == 0 {
		// A skipped zfs call, as opposed to a snapshot file, means zfs was unavailable.
		if res.Skipped && len(res.Args) > 0 {
			return domain.ErrNoSnapshots.WithCause(domain.ErrToolUnavailable)
		}
		return domain.ErrNoSnapshots
	}
	s.logger.Debug("snapshots listed", "count", len(sel.Listed))
	return nil
}

// List runs the list-snapshots workflow: age filter, substring filter on
// FullName, reclaim loading, pattern filter on Name, per-dataset limit,
// required-space selection and ordering, in that order.
func (s *SnapshotService) List(ctx context.Context, opts ListOptions) (*Selection, error) {
	re, err := compileOptional(opts.Matches)
	if err != nil {
		return nil, err
	}

	sel := &Selection{Properties: opts.Properties}
	if err := s.load(ctx, sel); err != nil {
		return sel, err
	}
	if opts.RequiredSpace > 0 {
		sel.Properties = domain.AllProperties()
	}

	snaps := FilterOlderThan(sel.Listed, s.now().Add(-opts.Keep))
	snaps = FilterContains(snaps, ByFullName, opts.Contains)

	_, report, err := s.loader.Load(ctx, snaps, sel.Properties)
	sel.Reclaim = report
	if err != nil {
		return sel, fmt.Errorf("load reclaim: %w", err)
	}

	snaps = FilterMatches(snaps, ByName, re)
	if snaps, err = LimitPerDataset(snaps, opts.Limit); err != nil {
		return sel, err
	}
	if opts.RequiredSpace > 0 {
		if snaps, err = SelectRequiredSpace(snaps, opts.RequiredSpace); err != nil {
			return sel, err
		}
	}

	sel.Snapshots = opts.OrderBy.Apply(snaps)
	return sel, nil
}

// Cleanup selects snapshots older than the keep duration. It only reads;
// nothing is destroyed.
func (s *SnapshotService) Cleanup(ctx context.Context, opts CleanupOptions) (*Selection, error) {
	re, err := compileOptional(opts.Matches)
	if err != nil {
		return nil, err
	}

	sel := &Selection{}
	if err := s.load(ctx, sel); err != nil {
		return sel, err
	}

	snaps := FilterOlderThan(sel.Listed, s.now().Add(-opts.Keep))
	snaps = FilterContains(snaps, ByName, opts.Contains)
	snaps = FilterMatches(snaps, ByName, re)

	sel.Snapshots = opts.OrderBy.Apply(snaps)
	return sel, nil
}

func compileOptional(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	return CompilePattern(pattern)
}
