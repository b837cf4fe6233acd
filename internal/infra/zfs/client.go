package zfs

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/telemetry/logger"
)

// DefaultLang is passed as LANG to every zfs call.
const DefaultLang = "en"

// Command lines issued by the client.
var (
	ListArgs    = []string{"list", "-t", "snapshot", "-o", "creation,name,written"}
	VersionArgs = []string{"--version"}
)

// Client issues the zfs commands zfs-tool needs.
type Client struct {
	runner       Runner
	lang         string
	snapshotFile string
	logger       logger.Logger

	probeMu   sync.Mutex
	probed    bool
	available bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLang overrides the LANG passed to zfs.
func WithLang(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.lang = lang
		}
	}
}

// WithSnapshotFile makes ListSnapshots read the listing from path instead
// of running zfs.
func WithSnapshotFile(path string) ClientOption {
	return func(c *Client) {
		c.snapshotFile = path
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client on top of runner.
func NewClient(runner Runner, opts ...ClientOption) *Client {
	c := &Client{
		runner: runner,
		lang:   DefaultLang,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) env() map[string]string {
	return map[string]string{"LANG": c.lang}
}

// Available reports whether zfs responds to --version. The answer is
// computed once per client; a cancelled probe is not remembered.
func (c *Client) Available(ctx context.Context) (bool, error) {
	c.probeMu.Lock()
	defer c.probeMu.Unlock()

	if c.probed {
		return c.available, nil
	}

	res, err := c.runner.Run(ctx, VersionArgs, c.env())
	if err != nil && ctx.Err() != nil {
		return false, ctx.Err()
	}

	c.probed = true
	c.available = err == nil && res.Success()
	if !c.available {
		c.logger.Warn("zfs is not available",
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(res.Stderr),
			"error", err,
		)
	}
	return c.available, nil
}

// ListSnapshots returns the raw snapshot listing.
//
// With a snapshot file configured the file content is returned and zfs is
// not run. If zfs is unavailable the listing is empty and the result is
// marked as skipped.
func (c *Client) ListSnapshots(ctx context.Context) (string, Result, error) {
	if c.snapshotFile != "" {
		data, err := os.ReadFile(c.snapshotFile)
		if err != nil {
			return "", Result{Skipped: true}, fmt.Errorf("read snapshot file: %w", err)
		}
		c.logger.Debug("listing read from file", "path", c.snapshotFile, "bytes", len(data))
		return string(data), Result{Skipped: true, Stdout: string(data)}, nil
	}

	ok, err := c.Available(ctx)
	if err != nil {
		return "", Result{}, err
	}
	if !ok {
		return "", Result{Args: ListArgs, Skipped: true}, nil
	}

	res, err := c.runner.Run(ctx, ListArgs, c.env())
	if err != nil {
		return "", res, fmt.Errorf("list snapshots: %w", err)
	}
	if !res.Success() {
		return "", res, domain.ErrToolFailed.WithDetails(fmt.Sprintf(
			"zfs %s exited with %d: %s",
			strings.Join(ListArgs, " "), res.ExitCode, strings.TrimSpace(res.Stderr+"\n"+res.Stdout),
		))
	}
	return res.Stdout, res, nil
}

// DestroyDryRun runs `zfs destroy -nv` and returns its output.
//
// With to == nil (or to == from) the single snapshot from is simulated.
// Otherwise the range from%to is simulated; both ends must belong to the
// same dataset or domain.ErrRangeAcrossDatasets is returned without
// running zfs. The output is empty if zfs is unavailable or exits with an
// error; the returned Result tells the cases apart.
func (c *Client) DestroyDryRun(ctx context.Context, from, to *domain.Snapshot) (string, Result, error) {
	args, err := DestroyDryRunArgs(from, to)
	if err != nil {
		return "", Result{Skipped: true}, err
	}

	ok, err := c.Available(ctx)
	if err != nil {
		return "", Result{}, err
	}
	if !ok {
		return "", Result{Args: args, Skipped: true}, nil
	}

	res, err := c.runner.Run(ctx, args, c.env())
	if err != nil {
		return "", res, fmt.Errorf("destroy dry run: %w", err)
	}
	if !res.Success() {
		return "", res, nil
	}
	return res.Stdout, res, nil
}

// DestroyDryRunArgs builds the arguments of a destroy dry run.
func DestroyDryRunArgs(from, to *domain.Snapshot) ([]string, error) {
	if to == nil || to == from || to.FullName == from.FullName {
		return []string{"destroy", "-nv", from.FullName}, nil
	}
	if !from.SameDataset(to) {
		return nil, domain.ErrRangeAcrossDatasets.WithDetails(fmt.Sprintf("%s -> %s", from.FullName, to.FullName))
	}
	return []string{"destroy", "-nv", from.Path + "@" + from.Name + "%" + to.Name}, nil
}
