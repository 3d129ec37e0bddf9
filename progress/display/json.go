package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/konveyor/progressbar/progress"
)

// JSONDisplay writes each refresh as newline-delimited JSON (NDJSON).
//
// Every line is a complete Event, so the stream can be tailed and parsed
// line by line. Finish writes one last event with "finished":true.
//
// Example output:
//
//	{"timestamp":"2024-10-29T17:06:14Z","label":"download","current":0,"total":200,"percent":0,"elapsed_ms":0}
//	{"timestamp":"2024-10-29T17:06:15Z","label":"download","current":87,"total":200,"percent":43.5,"elapsed_ms":1003,"remaining_ms":1302}
//	{"timestamp":"2024-10-29T17:06:16Z","label":"download","current":200,"total":200,"percent":100,"elapsed_ms":2310,"remaining_ms":0,"finished":true}
type JSONDisplay struct {
	writer io.Writer
	opts   options
	mu     sync.Mutex
	last   progress.Snapshot
}

// NewJSONDisplay creates a JSON display that writes to w.
func NewJSONDisplay(w io.Writer, opts ...Option) *JSONDisplay {
	return &JSONDisplay{
		writer: w,
		opts:   newOptions(opts),
	}
}

// Update writes s as one JSON line.
func (j *JSONDisplay) Update(s progress.Snapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.last = s
	return j.write(NewEvent(j.opts.label, s, j.opts.clock.Now()))
}

// Finish writes the final snapshot again, marked as finished.
func (j *JSONDisplay) Finish() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	event := NewEvent(j.opts.label, j.last, j.opts.clock.Now())
	event.Finished = true
	return j.write(event)
}

func (j *JSONDisplay) write(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("unable to marshal progress event: %w", err)
	}
	_, err = fmt.Fprintln(j.writer, string(data))
	return err
}
