package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableFormatter_Format_Table(t *testing.T) {
	f := &TableFormatter{}

	table := &Table{
		Headers: []string{"KEY", "VALUE"},
		Rows:    [][]string{{"zfs.binary", "zfs"}, {"zfs.lang", "en"}},
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "KEY         VALUE" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "zfs.binary  zfs" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestTableFormatter_Format_TableNoHeaders(t *testing.T) {
	f := &TableFormatter{NoHeaders: true}

	var buf bytes.Buffer
	if err := f.Format(&buf, Table{Headers: []string{"A"}, Rows: [][]string{{"1"}}}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "1\n" {
		t.Errorf("output = %q, want %q", buf.String(), "1\n")
	}
}

func TestTableFormatter_Format_Nil(t *testing.T) {
	f := &TableFormatter{}

	var buf bytes.Buffer
	if err := f.Format(&buf, nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestTableFormatter_Format_Unsupported(t *testing.T) {
	f := &TableFormatter{}
	if err := f.Format(&bytes.Buffer{}, 42); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestTableFormatter_Format_Map(t *testing.T) {
	f := &TableFormatter{}

	var buf bytes.Buffer
	if err := f.Format(&buf, map[string]string{"b": "2", "a": "1"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "KEY  VALUE\na    1\nb    2\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestSnapshotTable(t *testing.T) {
	tests := []struct {
		name        string
		wide        bool
		reclaim     bool
		wantHeaders []string
		wantFirst   []string
	}{
		{
			name:        "plain",
			wantHeaders: []string{"CREATION", "NAME", "WRITTEN"},
			wantFirst:   []string{"2024-03-01 08:30", "tank/data@daily-1", "1.5K"},
		},
		{
			name:        "with reclaim",
			reclaim:     true,
			wantHeaders: []string{"CREATION", "NAME", "WRITTEN", "RECLAIM", "RECLAIM_SUM"},
			wantFirst:   []string{"2024-03-01 08:30", "tank/data@daily-1", "1.5K", "1K", "2K"},
		},
		{
			name:        "wide",
			wide:        true,
			wantHeaders: []string{"CREATION", "DATASET", "SNAPSHOT", "WRITTEN", "WRITTEN_BYTES"},
			wantFirst:   []string{"2024-03-01 08:30", "tank/data", "daily-1", "1.5K", "1500"},
		},
		{
			name:    "wide with reclaim",
			wide:    true,
			reclaim: true,
			wantHeaders: []string{"CREATION", "DATASET", "SNAPSHOT", "WRITTEN", "WRITTEN_BYTES",
				"RECLAIM", "RECLAIM_SUM", "RECLAIM_BYTES", "RECLAIM_SUM_BYTES"},
			wantFirst: []string{"2024-03-01 08:30", "tank/data", "daily-1", "1.5K", "1500",
				"1K", "2K", "1000", "2000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := snapshots()
			if tt.reclaim {
				snaps = withReclaim(snaps)
			}
			table := SnapshotTable(snaps, tt.wide)

			if strings.Join(table.Headers, ",") != strings.Join(tt.wantHeaders, ",") {
				t.Errorf("Headers = %v, want %v", table.Headers, tt.wantHeaders)
			}
			if len(table.Rows) != len(snaps) {
				t.Fatalf("got %d rows, want %d", len(table.Rows), len(snaps))
			}
			if strings.Join(table.Rows[0], ",") != strings.Join(tt.wantFirst, ",") {
				t.Errorf("Rows[0] = %v, want %v", table.Rows[0], tt.wantFirst)
			}
		})
	}
}

func TestSnapshotTable_PartialReclaim(t *testing.T) {
	snaps := snapshots()
	snaps[1].ReclaimBytes = 500

	table := SnapshotTable(snaps, true)
	if got := table.Rows[0][len(table.Rows[0])-2]; got != "-" {
		t.Errorf("unknown reclaim bytes = %q, want -", got)
	}
	if got := table.Rows[1][5]; got != "500B" {
		t.Errorf("reclaim = %q, want 500B", got)
	}
}

func TestTable_AddRow(t *testing.T) {
	table := &Table{Headers: []string{"A", "B"}}
	table.AddRow("1", "2")
	table.AddRow("3", "4")

	if len(table.Headers) != 2 {
		t.Errorf("Headers = %v", table.Headers)
	}
	if len(table.Rows) != 2 || table.Rows[1][0] != "3" {
		t.Errorf("Rows = %v", table.Rows)
	}
}

func TestTable_RenderWithOptions_NoRows(t *testing.T) {
	table := &Table{Headers: []string{"CREATION", "NAME"}}

	var buf bytes.Buffer
	if err := table.RenderWithOptions(&buf, false); err != nil {
		t.Fatalf("RenderWithOptions() error = %v", err)
	}
	if buf.String() != "CREATION  NAME\n" {
		t.Errorf("output = %q", buf.String())
	}
}
