package service

import "github.com/yndnr/zfs-tool/internal/core/domain"

// Group holds the snapshots of one dataset in listing order.
type Group struct {
	Path      string
	Snapshots []*domain.Snapshot
}

// GroupByPath groups snapshots by dataset. Groups are returned in order of
// first appearance and keep the relative order of their members.
func GroupByPath(snaps []*domain.Snapshot) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, s := range snaps {
		i, ok := index[s.Path]
		if !ok {
			i = len(groups)
			index[s.Path] = i
			groups = append(groups, Group{Path: s.Path})
		}
		groups[i].Snapshots = append(groups[i].Snapshots, s)
	}
	return groups
}
