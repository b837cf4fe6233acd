package output

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/pkg/units"
)

// Default line templates.
const (
	DefaultListTemplate          = "{{.Creation}} {{.FullNamePadded}} {{.WrittenPadded}}"
	DefaultReclaimTemplate       = "{{.Creation}} {{.FullNamePadded}} {{.WrittenPadded}} {{.ReclaimPadded}} {{.ReclaimSumPadded}}"
	DefaultRequiredSpaceTemplate = "# {{.Creation}}  rcl: {{.ReclaimPadded}} agg: {{.ReclaimSumPadded}}\nzfs destroy {{.FullName}}\n"
	DefaultCleanupTemplate       = "zfs destroy {{.FullName}}"
)

var paddedField = regexp.MustCompile(`\.(FullName|Written|ReclaimSum|Reclaim)Padded\b`)

// SnapshotView is the data a line template is executed against.
type SnapshotView struct {
	Creation        string
	CreationTime    time.Time
	Path            string
	Name            string
	FullName        string
	Written         string
	WrittenBytes    int64
	Reclaim         string
	ReclaimBytes    int64
	ReclaimSum      string
	ReclaimSumBytes int64
}

// NewSnapshotView converts a snapshot into its display form.
func NewSnapshotView(s *domain.Snapshot) SnapshotView {
	return SnapshotView{
		Creation:        s.Creation.Format(CreationLayout),
		CreationTime:    s.Creation,
		Path:            s.Path,
		Name:            s.Name,
		FullName:        s.FullName,
		Written:         units.FormatSize(s.WrittenBytes),
		WrittenBytes:    s.WrittenBytes,
		Reclaim:         units.FormatSize(s.ReclaimBytes),
		ReclaimBytes:    s.ReclaimBytes,
		ReclaimSum:      units.FormatSize(s.ReclaimSumBytes),
		ReclaimSumBytes: s.ReclaimSumBytes,
	}
}

func (v SnapshotView) field(name string) string {
	switch name {
	case "FullName":
		return v.FullName
	case "Written":
		return v.Written
	case "Reclaim":
		return v.Reclaim
	case "ReclaimSum":
		return v.ReclaimSum
	}
	return ""
}

// TemplateFormatter renders one line per snapshot through text/template.
//
// The pseudo fields FullNamePadded, WrittenPadded, ReclaimPadded and
// ReclaimSumPadded render the value left aligned to one more than the
// longest value among the snapshots given at construction.
type TemplateFormatter struct {
	source   string
	compiled string
	tmpl     *template.Template
}

// NewTemplateFormatter compiles text against the snapshots used for padding,
// usually every listed snapshot rather than only the selected ones.
func NewTemplateFormatter(text string, padding []*domain.Snapshot) (*TemplateFormatter, error) {
	compiled := compilePadding(text, padding)
	f := &TemplateFormatter{source: text, compiled: compiled}

	tmpl, err := template.New("line").Funcs(template.FuncMap{"pad": pad}).Parse(compiled)
	if err != nil {
		return nil, f.invalid("the format string is invalid", err)
	}
	f.tmpl = tmpl
	return f, nil
}

// Format renders data, which must be a snapshot or a slice of snapshots.
func (f *TemplateFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case *domain.Snapshot:
		return f.formatOne(w, v)
	case []*domain.Snapshot:
		for _, s := range v {
			if err := f.formatOne(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("template output not supported for %T", data)
	}
}

func (f *TemplateFormatter) formatOne(w io.Writer, s *domain.Snapshot) error {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, NewSnapshotView(s)); err != nil {
		return f.invalid("the format string is invalid", err)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return f.invalid("the format string does not produce any readable output", nil)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func (f *TemplateFormatter) invalid(msg string, cause error) error {
	err := domain.ErrInvalidFormat.WithDetails(fmt.Sprintf("%s: %q (compiled: %q)", msg, f.source, f.compiled))
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}

func compilePadding(text string, snaps []*domain.Snapshot) string {
	widths := make(map[string]int)
	return paddedField.ReplaceAllStringFunc(text, func(m string) string {
		name := paddedField.FindStringSubmatch(m)[1]
		width, ok := widths[name]
		if !ok {
			for _, s := range snaps {
				width = max(width, len(NewSnapshotView(s).field(name)))
			}
			width++
			widths[name] = width
		}
		return fmt.Sprintf("(pad .%s %d)", name, width)
	})
}

func pad(s string, width int) string {
	if n := width - len(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
