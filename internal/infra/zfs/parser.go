package zfs

import (
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/yndnr/zfs-tool/internal/core/domain"
	"github.com/yndnr/zfs-tool/internal/telemetry/logger"
	"github.com/yndnr/zfs-tool/pkg/units"
)

// CreationLayout is the creation column format after the weekday has been
// dropped and whitespace collapsed ("Fri Jan 19 15:19 2024" -> "Jan 19 15:19 2024").
const CreationLayout = "Jan 2 15:04 2006"

// listingColumns is the number of columns requested by ListArgs.
const listingColumns = 3

// Parser turns `zfs list` output into snapshots.
//
// Rows that cannot be parsed are skipped and recorded; they never abort
// a listing. A Parser must not be iterated concurrently.
type Parser struct {
	loc    *time.Location
	logger logger.Logger
	errs   []error
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithLocation sets the time zone creation times are interpreted in.
// Defaults to time.Local, which is what zfs prints.
func WithLocation(loc *time.Location) ParserOption {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithParserLogger sets the logger used for skipped rows.
func WithParserLogger(l logger.Logger) ParserOption {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewParser creates a parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		loc:    time.Local,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Errors returns the soft errors of the most recent iteration.
func (p *Parser) Errors() []error {
	return p.errs
}

// ParseList returns the snapshots of a listing in source order.
//
// The first line is the header; column widths are inferred from it and
// applied to every following line. The sequence is lazy: rows are parsed
// as they are consumed, and soft errors are reset whenever iteration starts.
func (p *Parser) ParseList(output string) iter.Seq[*domain.Snapshot] {
	return func(yield func(*domain.Snapshot) bool) {
		p.errs = nil

		var widths []int
		lineNum := 0
		for line := range strings.Lines(output) {
			line = strings.TrimRight(line, "\r\n")
			lineNum++
			if lineNum == 1 {
				widths = ColumnWidths(line)
				continue
			}

			snap, err := p.parseRow(line, widths)
			if err != nil {
				p.skip(lineNum, err)
				continue
			}
			if !yield(snap) {
				return
			}
		}
	}
}

func (p *Parser) skip(lineNum int, err error) {
	err = fmt.Errorf("line %d: %w", lineNum, err)
	p.errs = append(p.errs, err)
	p.logger.Debug("skipping listing row", "line", lineNum, "error", err)
}

func (p *Parser) parseRow(line string, widths []int) (*domain.Snapshot, error) {
	cols, ok := SliceRow(line, widths)
	if !ok {
		return nil, domain.ErrMalformedRow.WithDetails("row is shorter than the header columns")
	}
	if len(cols) != listingColumns {
		return nil, domain.ErrMalformedRow.WithDetails(fmt.Sprintf("expected %d columns, got %d", listingColumns, len(cols)))
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
		if cols[i] == "" {
			return nil, domain.ErrMalformedRow.WithDetails(fmt.Sprintf("column %d is empty", i+1))
		}
	}

	creation, err := ParseCreation(cols[0], p.loc)
	if err != nil {
		return nil, domain.ErrMalformedRow.WithDetails(fmt.Sprintf("creation %q", cols[0])).WithCause(err)
	}

	written, err := units.ParseSize(strings.ToLower(cols[2]))
	if err != nil {
		return nil, domain.ErrMalformedRow.WithDetails(fmt.Sprintf("written %q", cols[2])).WithCause(err)
	}

	fullName := cols[1]
	path, name, found := strings.Cut(fullName, "@")
	if !found {
		path, name = fullName, ""
	}
	return domain.NewSnapshot(path, name, fullName, creation, written), nil
}

// ColumnWidths infers column widths from a header line. A column ends
// where a non-space character follows a space; each width includes the
// trailing padding of its column.
func ColumnWidths(header string) []int {
	var widths []int
	current := 0
	last := byte(' ')
	for i := 0; i < len(header); i++ {
		c := header[i]
		if c != ' ' && last == ' ' && current > 0 {
			widths = append(widths, current)
			current = 0
		}
		current++
		last = c
	}
	if current > 0 {
		widths = append(widths, current)
	}
	return widths
}

// SliceRow cuts line into columns of the given widths. zfs occasionally
// prints a row shifted one character to the left; when the line runs out
// before a column is complete, the whole line is cut again with every
// width reduced by one. ok is false if even the shifted widths do not fit.
// Characters after the last column are ignored.
func SliceRow(line string, widths []int) (cols []string, ok bool) {
	if cols, ok = slice(line, widths, 0); ok {
		return cols, true
	}
	return slice(line, widths, 1)
}

func slice(line string, widths []int, shift int) ([]string, bool) {
	cols := make([]string, 0, len(widths))
	rest := line
	for _, w := range widths {
		w = max(0, w-shift)
		if len(rest) < w {
			return nil, false
		}
		cols = append(cols, rest[:w])
		rest = rest[w:]
	}
	return cols, true
}

// ParseCreation parses a creation column such as "Fri Jan 19 15:19 2024".
// The weekday is ignored.
func ParseCreation(s string, loc *time.Location) (time.Time, error) {
	if len(s) < 4 {
		return time.Time{}, fmt.Errorf("creation %q too short", s)
	}
	normalized := strings.Join(strings.Fields(s[4:]), " ")
	return time.ParseInLocation(CreationLayout, normalized, loc)
}
