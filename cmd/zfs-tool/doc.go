// Package main provides the entry point for zfs-tool.
//
// zfs-tool lists zfs snapshots, computes how much space deleting them
// would reclaim and prints destroy commands for the ones worth deleting.
// It never destroys anything itself.
//
// Usage:
//
//	zfs-tool list-snapshots --keep-time 30d --extra-properties all
//	zfs-tool ls --required-space 50G | sh
//	zfs-tool cleanup --keep 14d --matches '^autosnap_'
//	zfs-tool -o json ls --contains tank/vm
package main
