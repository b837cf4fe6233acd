package output

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/pkg/units"
)

// CreationLayout is how creation times are displayed.
const CreationLayout = "2006-01-02 15:04"

// TableFormatter formats data as an aligned table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format formats data as a table.
// Supports: *Table, Table, []*domain.Snapshot, map[string]string
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return v.RenderWithOptions(w, f.NoHeaders)
	case []*domain.Snapshot:
		return SnapshotTable(v, f.Wide).RenderWithOptions(w, f.NoHeaders)
	case map[string]string:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range slices.Sorted(maps.Keys(v)) {
			t.AddRow(k, v[k])
		}
		return t.RenderWithOptions(w, f.NoHeaders)
	default:
		return fmt.Errorf("table output not supported for %T", data)
	}
}

// SnapshotTable builds a table of snapshots. Reclaim columns are added when
// any snapshot carries reclaim figures; wide mode adds byte counts and
// splits the identifier into dataset and snapshot name.
func SnapshotTable(snaps []*domain.Snapshot, wide bool) *Table {
	withReclaim := slices.ContainsFunc(snaps, func(s *domain.Snapshot) bool {
		return s.HasReclaim() || s.HasReclaimSum()
	})

	t := &Table{Headers: []string{"CREATION", "NAME", "WRITTEN"}}
	if wide {
		t.Headers = []string{"CREATION", "DATASET", "SNAPSHOT", "WRITTEN", "WRITTEN_BYTES"}
	}
	if withReclaim {
		t.Headers = append(t.Headers, "RECLAIM", "RECLAIM_SUM")
		if wide {
			t.Headers = append(t.Headers, "RECLAIM_BYTES", "RECLAIM_SUM_BYTES")
		}
	}

	for _, s := range snaps {
		row := []string{s.Creation.Format(CreationLayout), s.FullName, units.FormatSize(s.WrittenBytes)}
		if wide {
			row = []string{
				s.Creation.Format(CreationLayout),
				s.Path,
				dash(s.Name),
				units.FormatSize(s.WrittenBytes),
				fmt.Sprintf("%d", s.WrittenBytes),
			}
		}
		if withReclaim {
			row = append(row, units.FormatSize(s.ReclaimBytes), units.FormatSize(s.ReclaimSumBytes))
			if wide {
				row = append(row, bytesOrDash(s.ReclaimBytes), bytesOrDash(s.ReclaimSumBytes))
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func bytesOrDash(b int64) string {
	if b < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", b)
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		writeRow(tw, t.Headers)
	}
	for _, row := range t.Rows {
		writeRow(tw, row)
	}

	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, cell)
	}
	io.WriteString(w, "\n")
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
