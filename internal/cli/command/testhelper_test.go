package command

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/zfs-tool/internal/infra/zfs"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

// now is 45 days after base.
func now() time.Time {
	return base.AddDate(0, 0, 45)
}

type row struct {
	fullName string
	day      int
	written  int64
}

// listing renders rows the way `zfs list -o creation,name,written` does.
func listing(rows ...row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s%-31s%s\n", "CREATION", "NAME", "WRITTEN")
	for _, r := range rows {
		created := base.AddDate(0, 0, r.day).Format("Mon Jan _2 15:04 2006")
		fmt.Fprintf(&b, "%-24s%-31s%7d\n", created, r.fullName, r.written)
	}
	return b.String()
}

var defaultRows = []row{
	{"pool/data@a", 0, 1000},
	{"pool/data@b", 10, 2_000_000},
	{"pool/home@c", 20, 0},
}

// fakeRunner answers zfs calls from a table keyed by the joined arguments.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]zfs.Result
	calls   []string
}

func newFakeRunner(rows ...row) *fakeRunner {
	if len(rows) == 0 {
		rows = defaultRows
	}
	return &fakeRunner{
		outputs: map[string]zfs.Result{
			"--version": {Stdout: "zfs-2.2.2-1\n"},
			strings.Join(zfs.ListArgs, " "): {Stdout: listing(rows...)},
		},
	}
}

func (f *fakeRunner) on(args string, res zfs.Result) *fakeRunner {
	f.outputs[args] = res
	return f
}

func (f *fakeRunner) reclaim(target, size string) *fakeRunner {
	return f.on("destroy -nv "+target, zfs.Result{
		Stdout: fmt.Sprintf("would destroy %s\nwould reclaim %s\n", target, size),
	})
}

func (f *fakeRunner) Run(ctx context.Context, args []string, env map[string]string) (zfs.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err := ctx.Err(); err != nil {
		return zfs.Result{Args: args, ExitCode: -1}, err
	}
	res, ok := f.outputs[key]
	if !ok {
		return zfs.Result{Args: args, ExitCode: 1, Stderr: "unexpected call"}, nil
	}
	res.Args = args
	return res, nil
}

func (f *fakeRunner) called(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// isolate keeps user config files and ZFS_TOOL_ variables out of a test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
}

// run executes the app with args and returns what it wrote.
func run(t *testing.T, runner zfs.Runner, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	isolate(t)

	app := App(WithRunner(runner), WithClock(now))
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	err = app.Run(append([]string{"zfs-tool"}, args...))
	return out.String(), errOut.String(), err
}
