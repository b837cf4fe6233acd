package metric

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/infra/zfs"
)

const namespace = "zfs_tool"

// Command results used as label values.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultError   = "error"
	ResultTimeout = "timeout"
)

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// zfs command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Selection metrics, labelled by tool command (list-snapshots, cleanup)
	SnapshotsListed      *prometheus.GaugeVec
	SnapshotsSelected    *prometheus.GaugeVec
	RowsSkipped          *prometheus.GaugeVec
	SelectedReclaimBytes *prometheus.GaugeVec

	// Run metrics
	LastRunTimestamp *prometheus.GaugeVec
	RunSuccess       *prometheus.GaugeVec
	RunFailures      *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "zfs_commands_total",
			Help:      "Number of zfs invocations by subcommand and result.",
		}, []string{"subcommand", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "zfs_command_duration_seconds",
			Help:      "Duration of zfs invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"subcommand"}),
		SnapshotsListed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots_listed",
			Help:      "Snapshots parsed from the listing.",
		}, []string{"command"}),
		SnapshotsSelected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots_selected",
			Help:      "Snapshots left after filtering and selection.",
		}, []string{"command"}),
		RowsSkipped: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "listing_rows_skipped",
			Help:      "Listing rows that could not be parsed.",
		}, []string{"command"}),
		SelectedReclaimBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_reclaim_bytes",
			Help:      "Bytes destroying the selected snapshots would free, if known.",
		}, []string{"command"}),
		LastRunTimestamp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the command finished.",
		}, []string{"command"}),
		RunSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run succeeded, 0 otherwise.",
		}, []string{"command"}),
		RunFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Failed runs by error code.",
		}, []string{"command", "code"}),
	}

	r.registry.MustRegister(
		r.CommandsTotal,
		r.CommandDuration,
		r.SnapshotsListed,
		r.SnapshotsSelected,
		r.RowsSkipped,
		r.SelectedReclaimBytes,
		r.LastRunTimestamp,
		r.RunSuccess,
		r.RunFailures,
	)
	return r
}

// ObserveCommand implements zfs.Observer.
func (r *Registry) ObserveCommand(subcommand string, res zfs.Result, err error) {
	if subcommand == "" {
		subcommand = "none"
	}
	r.CommandsTotal.WithLabelValues(subcommand, commandResult(res, err)).Inc()
	r.CommandDuration.WithLabelValues(subcommand).Observe(res.Duration.Seconds())
}

func commandResult(res zfs.Result, err error) string {
	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		return ResultTimeout
	case err != nil:
		return ResultError
	case !res.Success():
		return ResultFailed
	default:
		return ResultOK
	}
}

// Selection summarises one tool command for RecordSelection.
type Selection struct {
	Listed       int
	Selected     int
	Skipped      int
	ReclaimBytes int64
}

// RecordSelection sets the selection gauges of a tool command.
func (r *Registry) RecordSelection(command string, s Selection) {
	r.SnapshotsListed.WithLabelValues(command).Set(float64(s.Listed))
	r.SnapshotsSelected.WithLabelValues(command).Set(float64(s.Selected))
	r.RowsSkipped.WithLabelValues(command).Set(float64(s.Skipped))
	r.SelectedReclaimBytes.WithLabelValues(command).Set(float64(s.ReclaimBytes))
}

// RecordRun records the completion of a tool command. Failures are
// counted by domain error code, "unknown" for other errors.
func (r *Registry) RecordRun(command string, at time.Time, err error) {
	r.LastRunTimestamp.WithLabelValues(command).Set(float64(at.Unix()))
	r.RunSuccess.WithLabelValues(command).Set(boolValue(err == nil))
	if err == nil {
		return
	}
	code := domain.GetErrorCode(err)
	if code == "" {
		code = "unknown"
	}
	r.RunFailures.WithLabelValues(command, code).Inc()
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
