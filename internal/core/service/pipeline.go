package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yndnr/zfs-tool/internal/core/domain"
)

// Field selects the snapshot text a filter looks at.
type Field func(*domain.Snapshot) string

// Filter fields.
var (
	ByFullName Field = func(s *domain.Snapshot) string { return s.FullName }
	ByName     Field = func(s *domain.Snapshot) string { return s.Name }
)

func filter(snaps []*domain.Snapshot, keep func(*domain.Snapshot) bool) []*domain.Snapshot {
	out := make([]*domain.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// FilterContains keeps snapshots whose field contains substr (case
// sensitive). An empty substr keeps everything.
func FilterContains(snaps []*domain.Snapshot, field Field, substr string) []*domain.Snapshot {
	if substr == "" {
		return snaps
	}
	return filter(snaps, func(s *domain.Snapshot) bool {
		return strings.Contains(field(s), substr)
	})
}

// CompilePattern compiles a user supplied regular expression. Blank
// patterns are rejected. RE2 matching cannot fail once compiled, so a
// successful compile is the whole validity check.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, domain.ErrInvalidPattern.WithDetails(fmt.Sprintf("%q is blank", pattern))
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, domain.ErrInvalidPattern.WithDetails(pattern).WithCause(err)
	}
	return re, nil
}

// FilterMatches keeps snapshots whose field matches re.
// A nil re keeps everything.
func FilterMatches(snaps []*domain.Snapshot, field Field, re *regexp.Regexp) []*domain.Snapshot {
	if re == nil {
		return snaps
	}
	return filter(snaps, func(s *domain.Snapshot) bool {
		return re.MatchString(field(s))
	})
}

// FilterOlderThan keeps snapshots created at or before cutoff.
func FilterOlderThan(snaps []*domain.Snapshot, cutoff time.Time) []*domain.Snapshot {
	return filter(snaps, func(s *domain.Snapshot) bool {
		return !s.Creation.After(cutoff)
	})
}

// LimitPerDataset keeps at most limit snapshots of every dataset, taken in
// listing order. The result is grouped by dataset in order of first
// appearance. A limit <= 0 disables the cap; with a positive limit an empty
// result is domain.ErrEmptyAfterFilter.
func LimitPerDataset(snaps []*domain.Snapshot, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 {
		return snaps, nil
	}
	var out []*domain.Snapshot
	for _, g := range GroupByPath(snaps) {
		out = append(out, g.Snapshots[:min(limit, len(g.Snapshots))]...)
	}
	if len(out) == 0 {
		return nil, domain.ErrEmptyAfterFilter.WithDetails(fmt.Sprintf("limit %d", limit))
	}
	return out, nil
}

// SelectRequiredSpace picks snapshots oldest first until destroying them
// would free at least target bytes.
//
// Snapshots of one dataset are destroyed as a range, so the newest pick of
// a dataset replaces the contribution of earlier picks with its
// ReclaimSumBytes. Unknown figures count as zero. Equal creation times are
// taken in input order. If the target cannot be reached the selection is
// discarded and domain.ErrInsufficientSpace is returned.
func SelectRequiredSpace(snaps []*domain.Snapshot, target int64) ([]*domain.Snapshot, error) {
	remaining := make([]*domain.Snapshot, len(snaps))
	copy(remaining, snaps)

	var (
		selected     []*domain.Snapshot
		acquired     int64
		contribution = make(map[string]int64)
	)
	for len(remaining) > 0 && acquired < target {
		oldest := 0
		for i, s := range remaining[1:] {
			if s.Creation.Before(remaining[oldest].Creation) {
				oldest = i + 1
			}
		}
		pick := remaining[oldest]
		remaining = append(remaining[:oldest], remaining[oldest+1:]...)

		selected = append(selected, pick)
		acquired -= contribution[pick.Path]
		contribution[pick.Path] = max(0, pick.ReclaimSumBytes)
		acquired += contribution[pick.Path]
	}

	if acquired < target {
		return nil, domain.ErrInsufficientSpace.WithDetails(fmt.Sprintf("required %d bytes, available %d bytes", target, acquired))
	}
	return selected, nil
}
