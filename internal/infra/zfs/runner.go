package zfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBinary is the zfs executable looked up in PATH.
const DefaultBinary = "zfs"

// Result is the outcome of a single zfs invocation.
type Result struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	// Skipped is set when the call was not executed, e.g. because zfs is
	// not available.
	Skipped bool
}

// Success reports whether the command ran and exited with status 0.
func (r Result) Success() bool {
	return !r.Skipped && r.ExitCode == 0
}

// Runner executes zfs with the given arguments and extra environment.
// A non-zero exit status is reported in Result, not as an error. Errors are
// reserved for commands that could not run or were cancelled.
type Runner interface {
	Run(ctx context.Context, args []string, env map[string]string) (Result, error)
}

// Observer is notified about every executed command.
type Observer interface {
	ObserveCommand(subcommand string, res Result, err error)
}

// ExecRunner runs the zfs binary as a child process.
type ExecRunner struct {
	binary   string
	limiter  *rate.Limiter
	timeout  time.Duration
	observer Observer
}

// RunnerOption configures an ExecRunner.
type RunnerOption func(*ExecRunner)

// WithRateLimit limits the number of commands started per second.
// A limit <= 0 disables limiting.
func WithRateLimit(perSecond float64) RunnerOption {
	return func(r *ExecRunner) {
		if perSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithTimeout bounds the runtime of each command. Zero means no bound.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithObserver registers an observer for executed commands.
func WithObserver(o Observer) RunnerOption {
	return func(r *ExecRunner) {
		r.observer = o
	}
}

// NewExecRunner creates a runner for the given binary.
func NewExecRunner(binary string, opts ...RunnerOption) *ExecRunner {
	if binary == "" {
		binary = DefaultBinary
	}
	r := &ExecRunner{binary: binary}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the executable this runner invokes.
func (r *ExecRunner) Binary() string {
	return r.binary
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, args []string, env map[string]string) (Result, error) {
	res := Result{Args: args}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return res, err
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Env = append(os.Environ(), envPairs(env)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		res.ExitCode = -1
		err = ctx.Err()
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		err = nil
	default:
		res.ExitCode = -1
		err = fmt.Errorf("run %s: %w", r.binary, err)
	}

	if r.observer != nil {
		r.observer.ObserveCommand(subcommand(args), res, err)
	}
	return res, err
}

func envPairs(env map[string]string) []string {
	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}

func subcommand(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
