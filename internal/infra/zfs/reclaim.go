package zfs

import (
	"strings"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/pkg/units"
)

const reclaimPrefix = "would reclaim "

// ParseReclaimBytes extracts the byte count from the first
// "would reclaim <size>" line of `zfs destroy -nv` output.
// It returns domain.ReclaimUnknown if no such line carries a valid size.
func ParseReclaimBytes(output string) int64 {
	for line := range strings.Lines(output) {
		line = strings.ToLower(strings.TrimRight(line, "\r\n"))
		if !strings.HasPrefix(line, reclaimPrefix) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		size, err := units.ParseSize(fields[2])
		if err != nil {
			continue
		}
		return size
	}
	return domain.ReclaimUnknown
}
