package domain

import (
	"fmt"
	"strings"
)

// ExtraProperties selects snapshot properties that need extra zfs calls.
type ExtraProperties struct {
	// Reclaim loads ReclaimBytes with one dry run per snapshot.
	Reclaim bool
	// ReclaimSum loads ReclaimSumBytes with one range dry run per snapshot.
	ReclaimSum bool
}

// AllProperties requests every extra property.
func AllProperties() ExtraProperties {
	return ExtraProperties{Reclaim: true, ReclaimSum: true}
}

// Any reports whether at least one extra property is requested.
func (p ExtraProperties) Any() bool {
	return p.Reclaim || p.ReclaimSum
}

// String returns the comma separated property names.
func (p ExtraProperties) String() string {
	var names []string
	if p.Reclaim {
		names = append(names, "reclaim")
	}
	if p.ReclaimSum {
		names = append(names, "reclaimsum")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseExtraProperties parses property names such as "reclaim", "reclaimsum",
// "all" or "none". Each value may itself be a comma separated list.
func ParseExtraProperties(values ...string) (ExtraProperties, error) {
	var p ExtraProperties
	for _, value := range values {
		for _, name := range strings.Split(value, ",") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case "", "none":
			case "reclaim":
				p.Reclaim = true
			case "reclaimsum", "reclaim-sum":
				p.ReclaimSum = true
			case "all":
				p = AllProperties()
			default:
				return ExtraProperties{}, ErrInvalidArgument.WithDetails(fmt.Sprintf("unknown extra property %q", name))
			}
		}
	}
	return p, nil
}
