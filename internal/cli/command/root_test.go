package command

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/zfs-tool/internal/core/domain"
)

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "zfs-tool" {
		t.Errorf("Name = %q, want %q", app.Name, "zfs-tool")
	}

	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}
	for _, name := range []string{"list-snapshots", "cleanup", "config", "version"} {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, f := range App().Flags {
		flagNames[f.Names()[0]] = true
	}

	required := []string{
		"config", "debug", "log-level", "log-format", "zfs-binary", "snapshot-file",
		"concurrency", "rate", "zfs-timeout", "metrics-file", "output", "no-headers", "progress",
	}
	for _, name := range required {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func flagContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	for _, f := range globalFlags() {
		if err := f.Apply(set); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
	}
	if err := set.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return cli.NewContext(&cli.App{Flags: globalFlags()}, set, nil)
}

func TestFlagOverrides(t *testing.T) {
	c := flagContext(t,
		"--zfs-binary", "/sbin/zfs",
		"--concurrency", "4",
		"--rate", "2.5",
		"--zfs-timeout", "3s",
		"-o", "json",
		"--debug",
	)

	got := flagOverrides(c)
	want := map[string]any{
		"zfs.binary":      "/sbin/zfs",
		"zfs.concurrency": 4,
		"zfs.rate":        2.5,
		"zfs.timeout":     3 * time.Second,
		"output.format":   "json",
	}
	if len(got) != len(want) {
		t.Errorf("overrides = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("overrides[%q] = %v, want %v", k, got[k], v)
		}
	}
}

func TestFlagOverrides_OnlySetFlags(t *testing.T) {
	if got := flagOverrides(flagContext(t)); len(got) != 0 {
		t.Errorf("overrides = %v, want none", got)
	}
}

func TestApp_Debug(t *testing.T) {
	_, stderr, err := run(t, newFakeRunner(), "--debug", "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stderr, "run started") {
		t.Errorf("stderr = %q, want debug log", stderr)
	}

	_, stderr, err = run(t, newFakeRunner(), "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(stderr, "run started") {
		t.Errorf("stderr = %q, want no debug log without --debug", stderr)
	}
}

func TestApp_InvalidConfig(t *testing.T) {
	_, _, err := run(t, newFakeRunner(), "--concurrency", "0", "version")
	if err == nil || !strings.Contains(err.Error(), "zfs.concurrency") {
		t.Errorf("error = %v, want concurrency problem", err)
	}
}

func TestApp_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("zfs:\n  lang: de\noutput:\n  format: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, newFakeRunner(), "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stdout, `"lang": "de"`) {
		t.Errorf("config show did not pick up the file:\n%s", stdout)
	}
}

func TestApp_MissingConfigFile(t *testing.T) {
	_, _, err := run(t, newFakeRunner(), "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	if err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestApp_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zfs_tool.prom")

	if _, _, err := run(t, newFakeRunner(), "--metrics-file", path, "ls"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`zfs_tool_snapshots_listed{command="list-snapshots"} 3`,
		`zfs_tool_snapshots_selected{command="list-snapshots"} 2`,
		`zfs_tool_last_run_success{command="list-snapshots"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s:\n%s", want, data)
		}
	}
}

func TestApp_MetricsFileFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zfs_tool.prom")

	_, _, err := run(t, reclaimRunner(), "--metrics-file", path, "ls", "--required-space", "10k")
	if !errors.Is(err, domain.ErrInsufficientSpace) {
		t.Fatalf("Run() error = %v, want %v", err, domain.ErrInsufficientSpace)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`zfs_tool_last_run_success{command="list-snapshots"} 0`,
		`zfs_tool_run_failures_total{code="ZT-SEL-4090",command="list-snapshots"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %s:\n%s", want, data)
		}
	}
}

func TestApp_Version(t *testing.T) {
	stdout, _, err := run(t, newFakeRunner(), "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasPrefix(stdout, "zfs-tool ") || !strings.Contains(stdout, "commit:") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestApp_VersionJSON(t *testing.T) {
	stdout, _, err := run(t, newFakeRunner(), "-o", "json", "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(stdout, `"go_version"`) {
		t.Errorf("version output = %q", stdout)
	}
}
