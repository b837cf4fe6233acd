// Package service implements the snapshot workflows of zfs-tool.
//
// Services hold the selection logic and depend on small interfaces for the
// zfs calls they need, so they can be tested with fakes.
//
// This package contains:
//
//   - ReclaimLoader: attaches reclaim figures using `zfs destroy -nv` dry runs
//   - Pipeline steps: substring, pattern and age filters, per-dataset limit,
//     required-space selection
//   - OrderBy: stable multi-key ordering parsed from "path,-creation,name"
//   - SnapshotService: the list-snapshots and cleanup workflows
package service
