package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	ZFS struct {
		Binary      string        `koanf:"binary"`
		Concurrency int           `koanf:"concurrency"`
		Timeout     time.Duration `koanf:"timeout"`
	} `koanf:"zfs"`
	Snapshot struct {
		File string `koanf:"file"`
	} `koanf:"snapshot"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func unmarshal(t *testing.T, l *Loader) testConfig {
	t.Helper()
	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return cfg
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" || l.fileOptional {
		t.Errorf("filePath = %q (optional %v)", l.filePath, l.fileOptional)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
zfs:
  binary: /usr/sbin/zfs
  concurrency: 4
snapshot:
  file: /tmp/snapshots.txt
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	cfg := unmarshal(t, l)
	if cfg.ZFS.Binary != "/usr/sbin/zfs" {
		t.Errorf("zfs.binary = %q, want %q", cfg.ZFS.Binary, "/usr/sbin/zfs")
	}
	if cfg.ZFS.Concurrency != 4 {
		t.Errorf("zfs.concurrency = %d, want 4", cfg.ZFS.Concurrency)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_Load_OptionalFile(t *testing.T) {
	var cfg testConfig
	if err := NewLoader(WithOptionalConfigFile("/nonexistent/config.yaml")).Load(&cfg); err != nil {
		t.Errorf("Load() with missing optional file error = %v", err)
	}
	if err := NewLoader(WithConfigFile("/nonexistent/config.yaml")).Load(&cfg); err == nil {
		t.Error("Load() with missing required file should fail")
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("ZFS_TOOL_SNAPSHOT_FILE", "/tmp/listing.txt")
	t.Setenv("ZFS_TOOL_ZFS_BINARY", "/sbin/zfs")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	cfg := unmarshal(t, l)
	if cfg.Snapshot.File != "/tmp/listing.txt" {
		t.Errorf("snapshot.file = %q, want %q", cfg.Snapshot.File, "/tmp/listing.txt")
	}
	if cfg.ZFS.Binary != "/sbin/zfs" {
		t.Errorf("zfs.binary = %q, want %q", cfg.ZFS.Binary, "/sbin/zfs")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_ZFS_BINARY", "zfs2")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if got := unmarshal(t, l).ZFS.Binary; got != "zfs2" {
		t.Errorf("zfs.binary = %q, want %q", got, "zfs2")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	if err := l.LoadMap(map[string]any{
		"zfs.binary":      "/opt/zfs",
		"zfs.concurrency": 3,
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	cfg := unmarshal(t, l)
	if cfg.ZFS.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.ZFS.Concurrency)
	}
	if cfg.ZFS.Binary != "/opt/zfs" {
		t.Errorf("Binary = %q, dotted map keys were not expanded", cfg.ZFS.Binary)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
zfs:
  binary: from-file
  concurrency: 2
  timeout: 10s
snapshot:
  file: from-file
`)
	t.Setenv("ZFS_TOOL_ZFS_BINARY", "from-env")
	t.Setenv("ZFS_TOOL_SNAPSHOT_FILE", "from-env")

	l := NewLoader(
		WithConfigFile(path),
		WithOverrides(map[string]any{"snapshot.file": "from-flag"}),
	)

	var cfg testConfig
	cfg.ZFS.Concurrency = 1
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ZFS.Binary != "from-env" {
		t.Errorf("Binary = %q, want env to override file", cfg.ZFS.Binary)
	}
	if cfg.Snapshot.File != "from-flag" {
		t.Errorf("File = %q, want overrides to win", cfg.Snapshot.File)
	}
	if cfg.ZFS.Concurrency != 2 {
		t.Errorf("Concurrency = %d, want file to override default", cfg.ZFS.Concurrency)
	}
	if cfg.ZFS.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.ZFS.Timeout)
	}
}

func TestLoader_Load_KeepsDefaults(t *testing.T) {
	var cfg testConfig
	cfg.ZFS.Binary = "zfs"
	cfg.ZFS.Concurrency = 1

	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ZFS.Binary != "zfs" || cfg.ZFS.Concurrency != 1 {
		t.Errorf("defaults lost: %+v", cfg.ZFS)
	}
}
