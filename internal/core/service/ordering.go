package service

import (
	"cmp"
	"slices"
	"strings"

	"github.com/yndnr/zfs-tool/internal/core/domain"
)

// Sort keys understood by ParseOrderBy.
const (
	KeyCreation   = "creation"
	KeyPath       = "path"
	KeyName       = "name"
	KeyFullName   = "fullname"
	KeyWritten    = "written"
	KeyReclaim    = "reclaim"
	KeyReclaimSum = "reclaimsum"
)

var comparators = map[string]func(a, b *domain.Snapshot) int{
	KeyCreation:   func(a, b *domain.Snapshot) int { return a.Creation.Compare(b.Creation) },
	KeyPath:       func(a, b *domain.Snapshot) int { return strings.Compare(a.Path, b.Path) },
	KeyName:       func(a, b *domain.Snapshot) int { return strings.Compare(a.Name, b.Name) },
	KeyFullName:   func(a, b *domain.Snapshot) int { return strings.Compare(a.FullName, b.FullName) },
	KeyWritten:    func(a, b *domain.Snapshot) int { return cmp.Compare(a.WrittenBytes, b.WrittenBytes) },
	KeyReclaim:    func(a, b *domain.Snapshot) int { return cmp.Compare(a.ReclaimBytes, b.ReclaimBytes) },
	KeyReclaimSum: func(a, b *domain.Snapshot) int { return cmp.Compare(a.ReclaimSumBytes, b.ReclaimSumBytes) },
}

// SortKey is one field of an OrderBy.
type SortKey struct {
	Field     string
	Ascending bool
}

// OrderBy is a multi-key sort order such as "path,-creation,name".
type OrderBy struct {
	keys []SortKey
}

// ParseOrderBy parses a comma separated list of sort keys. A leading '-'
// sorts descending. Unknown keys sort by name; a key that repeats an
// earlier field is ignored.
func ParseOrderBy(s string) OrderBy {
	var o OrderBy
	seen := make(map[string]bool)
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		ascending := !strings.HasPrefix(token, "-")
		field := strings.ToLower(strings.TrimSpace(strings.TrimLeft(token, "-")))
		if _, ok := comparators[field]; !ok {
			field = KeyName
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		o.keys = append(o.keys, SortKey{Field: field, Ascending: ascending})
	}
	return o
}

// Keys returns the parsed sort keys.
func (o OrderBy) Keys() []SortKey {
	return slices.Clone(o.keys)
}

// String returns the canonical form of the order.
func (o OrderBy) String() string {
	parts := make([]string, len(o.keys))
	for i, k := range o.keys {
		if k.Ascending {
			parts[i] = k.Field
		} else {
			parts[i] = "-" + k.Field
		}
	}
	return strings.Join(parts, ",")
}

// Apply returns a sorted copy of snaps. The sort is stable: snapshots equal
// under every key keep their relative order.
func (o OrderBy) Apply(snaps []*domain.Snapshot) []*domain.Snapshot {
	out := slices.Clone(snaps)
	if len(o.keys) == 0 {
		return out
	}
	slices.SortStableFunc(out, func(a, b *domain.Snapshot) int {
		for _, k := range o.keys {
			c := comparators[k.Field](a, b)
			if !k.Ascending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}
