// Package metric provides Prometheus metrics for zfs-tool.
//
// zfs-tool is a short lived command, so metrics are not served over HTTP.
// Instead the registry is written once on exit in the text exposition
// format, suitable for the node_exporter textfile collector.
//
// Metrics include:
//
//   - zfs command counts and latencies by subcommand and result
//   - snapshots listed, selected and skipped per tool command
//   - bytes the selected snapshots would free
package metric
