package zfs

import (
	"context"
	"strings"
	"sync"
)

// fakeRunner answers zfs calls from a table keyed by the joined arguments.
type fakeRunner struct {
	mu      sync.Mutex
	outputs map[string]Result
	errs    map[string]error
	calls   [][]string
	envs    []map[string]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs: map[string]Result{"--version": {}},
		errs:    map[string]error{},
	}
}

func (f *fakeRunner) on(args string, stdout string) *fakeRunner {
	f.outputs[args] = Result{Stdout: stdout}
	return f
}

func (f *fakeRunner) Run(ctx context.Context, args []string, env map[string]string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, args)
	f.envs = append(f.envs, env)
	if err := ctx.Err(); err != nil {
		return Result{Args: args, ExitCode: -1}, err
	}
	key := strings.Join(args, " ")
	if err, ok := f.errs[key]; ok {
		return Result{Args: args, ExitCode: -1}, err
	}
	res, ok := f.outputs[key]
	if !ok {
		return Result{Args: args, ExitCode: 1, Stderr: "unexpected call"}, nil
	}
	res.Args = args
	return res, nil
}

func (f *fakeRunner) count(args string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Join(c, " ") == args {
			n++
		}
	}
	return n
}
