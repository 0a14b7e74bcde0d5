// Package tracelog reads and writes the line-oriented ASCII execution
// trace consumed by the historical profit tooling. The format is one event
// per line, whitespace separated:
//
//	<time> <ACTION> <qty>x <price>
//	<ACTION> <qty>x <price>        (reuses the most recent time)
package tracelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"marketmaker/internal/schema"
)

// Writer renders trade events in the historical trace format. It is the
// compatibility sink for tooling that consumes existing trace logs.
type Writer struct {
	mu       sync.Mutex
	w        *bufio.Writer
	closer   io.Closer
	lastTime int64
	hasTime  bool
	err      error
}

// NewWriter wraps an io.Writer with trace formatting.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// OpenFile creates or truncates a trace log file.
func OpenFile(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open trace log: %w", err)
	}
	w := NewWriter(f)
	w.closer = f
	return w, nil
}

// Record implements the engine sink. Write failures are sticky and
// surfaced by Close.
func (w *Writer) Record(e schema.TradeEvent) {
	_ = w.Append(e)
}

// Append writes one event line. The time token is emitted only when the
// event time differs from the previous line's.
func (w *Writer) Append(e schema.TradeEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}

	var err error
	if !w.hasTime || e.Time != w.lastTime {
		_, err = fmt.Fprintf(w.w, "%d %s %dx %d\n", e.Time, e.Action, e.Qty, e.Price)
		w.lastTime = e.Time
		w.hasTime = true
	} else {
		_, err = fmt.Fprintf(w.w, "%s %dx %d\n", e.Action, e.Qty, e.Price)
	}
	if err != nil {
		w.err = err
	}
	return err
}

// Flush pushes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Close flushes and closes the underlying file, if any.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		if w.closer != nil {
			_ = w.closer.Close()
		}
		return err
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
