// Package units parses and formats the human-readable quantities used by
// the zfs command line.
//
// Sizes:
//
//   - ParseSize accepts the abbreviated form printed by zfs ("128K", "12.3G",
//     "0B") and returns a byte count. Suffixes k, m, g, t and p are powers
//     of ten (1e3..1e15).
//   - FormatSize renders a byte count in the same abbreviated form.
//
// Durations:
//
//   - ParseDuration accepts either a plain day count ("14") or a sequence of
//     <digits><unit> segments ("2d3h", "90m") with the units d, h, m, s,
//     f (milliseconds) and z (100ns ticks).
package units
