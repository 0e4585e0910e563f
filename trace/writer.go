package trace

import (
	"bufio"
	"fmt"
	"io"
)

// Writer emits trace entries one line at a time, in the order given:
//
//	<op> <size_bytes> <offset_bytes>
//
// where op is 0 for a read and 1 for a write.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps an output sink in a buffered line writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits a single entry.
func (tw *Writer) Write(e Entry) error {
	_, err := fmt.Fprintf(tw.w, "%d %d %d\n", e.Op(), e.SizeBytes, e.OffsetBytes)
	return err
}

// WriteAll emits entries in order and flushes.
func (tw *Writer) WriteAll(entries []Entry) error {
	for _, e := range entries {
		if err := tw.Write(e); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush forces buffered output to the underlying sink.
func (tw *Writer) Flush() error {
	return tw.w.Flush()
}
