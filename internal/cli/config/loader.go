package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/infra/confloader"
)

// EnvPrefix prefixes environment variables that override config keys,
// e.g. ZFS_TOOL_ZFS_BINARY for zfs.binary.
const EnvPrefix = "ZFS_TOOL_"

// Output formats accepted by output.format.
var OutputFormats = []string{"text", "table", "wide", "json", "yaml"}

var logFormats = []string{"text", "json"}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "zfs-tool", "config.yaml")
}

// Load merges defaults, the config file, ZFS_TOOL_* environment variables
// and overrides. An explicit path must exist; with an empty path the
// default location is used if present.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	fileOpt := confloader.WithConfigFile(path)
	if path == "" {
		fileOpt = confloader.WithOptionalConfigFile(DefaultConfigPath())
	}

	cfg := Default()
	loader := confloader.NewLoader(fileOpt,
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *CLIConfig) Validate() error {
	var problems []string
	if c.ZFS.Binary == "" {
		problems = append(problems, "zfs.binary must not be empty")
	}
	if c.ZFS.Concurrency < 1 {
		problems = append(problems, fmt.Sprintf("zfs.concurrency must be at least 1, got %d", c.ZFS.Concurrency))
	}
	if c.ZFS.Rate < 0 {
		problems = append(problems, fmt.Sprintf("zfs.rate must not be negative, got %v", c.ZFS.Rate))
	}
	if c.ZFS.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("zfs.timeout must not be negative, got %v", c.ZFS.Timeout))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		problems = append(problems, fmt.Sprintf("log.format must be one of %s, got %q", strings.Join(logFormats, ", "), c.Log.Format))
	}
	if !slices.Contains(OutputFormats, strings.ToLower(c.Output.Format)) {
		problems = append(problems, fmt.Sprintf("output.format must be one of %s, got %q", strings.Join(OutputFormats, ", "), c.Output.Format))
	}

	if len(problems) > 0 {
		return domain.ErrInvalidArgument.WithDetails(strings.Join(problems, "; "))
	}
	return nil
}
