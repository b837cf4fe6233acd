package domain

import "time"

// ReclaimUnknown marks a reclaim figure that has not been computed.
const ReclaimUnknown int64 = -1

// Snapshot is a single zfs snapshot.
//
// FullName is reported verbatim by zfs ("pool/data@daily-1") and is the
// identity used for grouping and selection. Path and Name are the parts
// before and after the first '@'.
type Snapshot struct {
	// Path is the dataset the snapshot belongs to.
	Path string `json:"path" yaml:"path"`

	// Name is the label after '@', empty when the identifier had none.
	Name string `json:"name" yaml:"name"`

	// FullName is Path@Name as printed by zfs.
	FullName string `json:"full_name" yaml:"full_name"`

	// Creation is always set for parsed snapshots.
	Creation time.Time `json:"creation" yaml:"creation"`

	// WrittenBytes is the amount written since the previous snapshot.
	WrittenBytes int64 `json:"written_bytes" yaml:"written_bytes"`

	// ReclaimBytes is freed by destroying only this snapshot.
	ReclaimBytes int64 `json:"reclaim_bytes" yaml:"reclaim_bytes"`

	// ReclaimSumBytes is freed by destroying this snapshot and every older
	// snapshot of the same dataset.
	ReclaimSumBytes int64 `json:"reclaim_sum_bytes" yaml:"reclaim_sum_bytes"`
}

// NewSnapshot creates a snapshot with unknown reclaim figures.
func NewSnapshot(path, name, fullName string, creation time.Time, written int64) *Snapshot {
	return &Snapshot{
		Path:            path,
		Name:            name,
		FullName:        fullName,
		Creation:        creation,
		WrittenBytes:    written,
		ReclaimBytes:    ReclaimUnknown,
		ReclaimSumBytes: ReclaimUnknown,
	}
}

// HasReclaim reports whether ReclaimBytes has been computed.
func (s *Snapshot) HasReclaim() bool {
	return s.ReclaimBytes >= 0
}

// HasReclaimSum reports whether ReclaimSumBytes has been computed.
func (s *Snapshot) HasReclaimSum() bool {
	return s.ReclaimSumBytes >= 0
}

// SameDataset reports whether both snapshots belong to the same dataset.
func (s *Snapshot) SameDataset(other *Snapshot) bool {
	return s.Path == other.Path
}
