package config

import "time"

// CLIConfig is the configuration for zfs-tool.
type CLIConfig struct {
	ZFS      ZFSConfig      `koanf:"zfs" yaml:"zfs" json:"zfs"`
	Snapshot SnapshotConfig `koanf:"snapshot" yaml:"snapshot" json:"snapshot"`
	Log      LogConfig      `koanf:"log" yaml:"log" json:"log"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics" json:"metrics"`
	Output   OutputConfig   `koanf:"output" yaml:"output" json:"output"`
}

// ZFSConfig controls how zfs is invoked.
type ZFSConfig struct {
	Binary      string        `koanf:"binary" yaml:"binary" json:"binary"`
	Lang        string        `koanf:"lang" yaml:"lang" json:"lang"`
	Concurrency int           `koanf:"concurrency" yaml:"concurrency" json:"concurrency"` // datasets loaded in parallel
	Rate        float64       `koanf:"rate" yaml:"rate" json:"rate"`                      // zfs calls per second, 0 = unlimited
	Timeout     time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout"`             // per call, 0 = none
}

// SnapshotConfig controls where the snapshot listing comes from.
type SnapshotConfig struct {
	// File replaces `zfs list` with a previously captured listing.
	File string `koanf:"file" yaml:"file" json:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"` // text, json
}

// MetricsConfig configures the metrics textfile.
type MetricsConfig struct {
	// File receives Prometheus metrics on exit when set.
	File string `koanf:"file" yaml:"file" json:"file"`
}

// OutputConfig configures command output.
type OutputConfig struct {
	Format  string `koanf:"format" yaml:"format" json:"format"`    // text, table, wide, json, yaml
	Headers bool   `koanf:"headers" yaml:"headers" json:"headers"` // table header row
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		ZFS: ZFSConfig{
			Binary:      "zfs",
			Lang:        "en",
			Concurrency: 1,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Output: OutputConfig{
			Format:  "text",
			Headers: true,
		},
	}
}
