package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/konveyor/progressbar/progress"
)

// BarDisplay draws a progress bar that updates in place.
//
// Each Update returns the cursor to the start of the line, blanks the
// previous bar and writes the new one without a trailing newline. Finish
// terminates the line so later output starts cleanly.
//
// The line layout is a format string of tokens:
//
//	:label    task label
//	:bar      filled (█) and empty (░) segments, WithWidth characters wide
//	:percent  whole percent, right aligned ("  7%")
//	:current  completed units
//	:total    total units
//	:elapsed  time since start
//	:eta      estimated time remaining, "--" while unknown
//	:rate     units per second
//
// Example output with the default format:
//
//	download  42% |██████████░░░░░░░░░░░░░░░| 84/200
//
// BarDisplay is meant for terminals; use TextDisplay or JSONDisplay when
// the output is redirected.
type BarDisplay struct {
	writer      io.Writer
	opts        options
	mu          sync.Mutex
	lastLineLen int
}

// NewBarDisplay creates a bar display that writes to w.
func NewBarDisplay(w io.Writer, opts ...Option) *BarDisplay {
	return &BarDisplay{
		writer: w,
		opts:   newOptions(opts),
	}
}

// Update redraws the bar for s.
func (b *BarDisplay) Update(s progress.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	line := b.render(s)

	var out strings.Builder
	if b.lastLineLen > 0 {
		out.WriteString("\r")
		out.WriteString(strings.Repeat(" ", b.lastLineLen))
		out.WriteString("\r")
	}
	out.WriteString(line)

	if _, err := io.WriteString(b.writer, out.String()); err != nil {
		return err
	}
	b.lastLineLen = utf8.RuneCountInString(line)
	return nil
}

// Finish ends the bar line with a newline.
func (b *BarDisplay) Finish() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastLineLen = 0
	_, err := io.WriteString(b.writer, "\n")
	return err
}

// render expands the format tokens for s.
func (b *BarDisplay) render(s progress.Snapshot) string {
	replacer := strings.NewReplacer(
		":label", b.opts.label,
		":bar", b.bar(s.Percentage()),
		":percent", fmt.Sprintf("%3d%%", s.PercentInt()),
		":current", fmt.Sprintf("%d", s.Completed),
		":total", fmt.Sprintf("%d", s.Total),
		":elapsed", formatDuration(s.Elapsed),
		":eta", formatRemaining(s),
		":rate", fmt.Sprintf("%.1f/s", s.Rate()),
	)
	return strings.TrimLeft(replacer.Replace(b.opts.format), " ")
}

func (b *BarDisplay) bar(fraction float64) string {
	filled := int(float64(b.opts.width) * fraction)
	if filled > b.opts.width {
		filled = b.opts.width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", b.opts.width-filled)
}
