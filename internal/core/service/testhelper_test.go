package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/infra/zfs"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newSnap creates a snapshot created `day` days after base.
func newSnap(path, name string, day int) *domain.Snapshot {
	return domain.NewSnapshot(path, name, path+"@"+name, base.AddDate(0, 0, day), 0)
}

func names(snaps []*domain.Snapshot) []string {
	out := make([]string, len(snaps))
	for i, s := range snaps {
		out[i] = s.FullName
	}
	return out
}

// fakeClient serves a canned listing and dry-run outputs keyed by target.
type fakeClient struct {
	mu          sync.Mutex
	listing     string
	listErr     error
	unavailable bool
	reclaim     map[string]string
	calls       []string
	probes      int
}

func newFakeClient() *fakeClient {
	return &fakeClient{reclaim: make(map[string]string)}
}

func (f *fakeClient) ListSnapshots(ctx context.Context) (string, zfs.Result, error) {
	if f.listErr != nil {
		return "", zfs.Result{ExitCode: 1}, f.listErr
	}
	if f.unavailable {
		return "", zfs.Result{Args: zfs.ListArgs, Skipped: true}, nil
	}
	return f.listing, zfs.Result{Stdout: f.listing}, nil
}

func (f *fakeClient) Available(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return !f.unavailable, nil
}

func (f *fakeClient) DestroyDryRun(ctx context.Context, from, to *domain.Snapshot) (string, zfs.Result, error) {
	args, err := zfs.DestroyDryRunArgs(from, to)
	if err != nil {
		return "", zfs.Result{Skipped: true}, err
	}
	if err := ctx.Err(); err != nil {
		return "", zfs.Result{ExitCode: -1}, err
	}
	if f.unavailable {
		return "", zfs.Result{Args: args, Skipped: true}, nil
	}

	target := args[len(args)-1]
	f.mu.Lock()
	f.calls = append(f.calls, target)
	out, ok := f.reclaim[target]
	f.mu.Unlock()
	if !ok {
		return "", zfs.Result{Args: args, ExitCode: 1, Stderr: "dataset does not exist"}, nil
	}
	return out, zfs.Result{Args: args, Stdout: out}, nil
}

func (f *fakeClient) setReclaim(target, size string) {
	f.reclaim[target] = fmt.Sprintf("would destroy %s\nwould reclaim %s\n", target, size)
}

// listingOf renders snapshots the way `zfs list` prints them.
func listingOf(snaps ...*domain.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s%-31s%s\n", "CREATION", "NAME", "WRITTEN")
	for _, s := range snaps {
		fmt.Fprintf(&b, "%-24s%-31s%7d\n", s.Creation.Format("Mon Jan _2 15:04 2006"), s.FullName, s.WrittenBytes)
	}
	return b.String()
}
