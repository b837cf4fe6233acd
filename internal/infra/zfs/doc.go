// Package zfs talks to the zfs command line tool.
//
// This package contains:
//
//   - runner.go: Runner abstraction over process execution (exec, rate limit, timeout)
//   - client.go: zfs commands used by zfs-tool (list, destroy -nv, --version)
//   - parser.go: fixed-width parser for `zfs list -t snapshot -o creation,name,written`
//   - reclaim.go: extraction of "would reclaim" figures from dry-run output
//
// Every call takes a context and is cancelled with it. zfs is always run
// with LANG=en so its output format is stable.
package zfs
