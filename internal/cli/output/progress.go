package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar displays the progress of a counted operation, such as the
// dry runs of reclaim loading, on a terminal line.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int64
	current int64
	width   int
	started bool
	mu      sync.Mutex
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(w io.Writer, title string) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		width: 40,
	}
}

// Update sets progress and total, matching service.ProgressFunc. A
// current below the one already shown for the same total is ignored.
func (p *ProgressBar) Update(current, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started && int64(total) == p.total && int64(current) < p.current {
		return
	}
	p.current = int64(current)
	p.total = int64(total)
	p.render()
}

// Finish completes the progress bar and ends the line. It does nothing
// when no progress was ever drawn.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	if p.total > 0 {
		p.current = p.total
	}
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	p.started = true
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}

	filled := int(float64(p.width) * percent)
	empty := p.width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%d/%d)", p.title, bar, percent*100, p.current, p.total)
}
