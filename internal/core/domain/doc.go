// Package domain defines the core domain models for zfs-tool.
//
// Domain models are plain values without any IO dependencies. This
// package contains:
//
//   - Snapshot: one point-in-time copy of a dataset as listed by zfs
//   - ExtraProperties: which expensive snapshot properties to compute
//   - Errors: domain error catalogue with stable error codes
package domain
