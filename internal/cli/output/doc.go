// Package output provides output formatting for zfs-tool.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - template.go: line-per-snapshot text output driven by text/template
//   - table.go: aligned table rendering with wide mode
//   - json.go, yaml.go: machine readable output
//   - progress.go: dry-run progress on stderr
//
// Command output goes to stdout; progress and diagnostics go to stderr.
package output
