package output

import (
	"time"

	"github.com/yndnr/zfs-tool/internal/core/domain"
)

var base = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)

func snapshots() []*domain.Snapshot {
	return []*domain.Snapshot{
		domain.NewSnapshot("tank/data", "daily-1", "tank/data@daily-1", base, 1500),
		domain.NewSnapshot("tank/data", "daily-2", "tank/data@daily-2", base.Add(24*time.Hour), 2_300_000),
		domain.NewSnapshot("tank/home", "weekly", "tank/home@weekly", base.Add(48*time.Hour), 0),
	}
}

func withReclaim(snaps []*domain.Snapshot) []*domain.Snapshot {
	for i, s := range snaps {
		s.ReclaimBytes = int64(i+1) * 1000
		s.ReclaimSumBytes = int64(i+1) * 2000
	}
	return snaps
}
