package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/konveyor/progressbar/progress"
)

// TextDisplay writes each refresh as a human-readable, timestamped line.
//
// It never rewrites previous output, which makes it the right choice for
// pipes, files and CI logs where carriage returns would be noise.
//
// Example output:
//
//	[17:06:14] download 0/200 (0.0%) elapsed 0s eta --
//	[17:06:15] download 87/200 (43.5%) elapsed 1s eta 1s
//	[17:06:16] download 200/200 (100.0%) elapsed 2s eta 0s
//	[17:06:16] download done in 2s
type TextDisplay struct {
	writer io.Writer
	opts   options
	mu     sync.Mutex
	last   progress.Snapshot
}

// NewTextDisplay creates a text display that writes to w.
func NewTextDisplay(w io.Writer, opts ...Option) *TextDisplay {
	return &TextDisplay{
		writer: w,
		opts:   newOptions(opts),
	}
}

// Update writes one line describing s.
func (t *TextDisplay) Update(s progress.Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = s
	line := fmt.Sprintf("[%s] %s%d/%d (%.1f%%) elapsed %s eta %s\n",
		t.opts.clock.Now().Format("15:04:05"),
		t.prefix(),
		s.Completed,
		s.Total,
		percentOf(s),
		formatDuration(s.Elapsed),
		formatRemaining(s),
	)
	_, err := io.WriteString(t.writer, line)
	return err
}

// Finish writes a closing line with the total elapsed time.
func (t *TextDisplay) Finish() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := fmt.Sprintf("[%s] %sdone in %s\n",
		t.opts.clock.Now().Format("15:04:05"),
		t.prefix(),
		formatDuration(t.last.Elapsed),
	)
	_, err := io.WriteString(t.writer, line)
	return err
}

func (t *TextDisplay) prefix() string {
	if strings.TrimSpace(t.opts.label) == "" {
		return ""
	}
	return t.opts.label + " "
}
