// Package command provides CLI command definitions for zfs-tool.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: application, global flags, per-run setup and teardown
//   - snapshots.go: list-snapshots
//   - cleanup.go: cleanup
//   - config.go: config show
//   - version.go: version
//
// Commands follow a consistent pattern of parsing flags, calling the
// snapshot service and formatting output. Output goes to the app writer,
// diagnostics to the error writer.
package command
