// Package config provides CLI configuration for zfs-tool.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct ($XDG_CONFIG_HOME/zfs-tool/config.yaml)
//   - loader.go: Configuration loading, merging and validation
//
// Configuration includes:
//
//   - zfs binary, locale, concurrency, rate limit and call timeout
//   - listing override file (ZFS_TOOL_SNAPSHOT_FILE)
//   - log level and format
//   - metrics textfile path
//   - default output format
package config
