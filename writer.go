package bson

import (
	"bufio"
	"io"
)

// Writer writes a sequence of concatenated documents.
// It wraps bufio.Writer and tracks the first error that occurs.
// After an error, all subsequent write operations become no-ops.
type Writer struct {
	w       *bufio.Writer
	count   int64 // total bytes written
	err     error // first error encountered. Subsequent writes become no-ops.
	ordered bool
	owned   bool // the bufio.Writer was created here and is flushed by Flush
}

// NewWriterSize creates a new Writer with a specified buffer size.
// An existing *bufio.Writer is reused to prevent double-buffering; flushing
// it stays the caller's job.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	if bw, ok := w.(*bufio.Writer); ok {
		return &Writer{w: bw}, nil
	}
	return &Writer{w: bufio.NewWriterSize(w, size), owned: true}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// WithOrdered makes Encode sort document keys like SerializeOrdered and
// returns the Writer for chaining.
func (w *Writer) WithOrdered(ordered bool) *Writer {
	w.ordered = ordered
	return w
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Encode serializes v and appends it to the stream.
func (w *Writer) Encode(v any) error {
	if w.err != nil {
		return w.err
	}
	bp := getEncodeBuf()
	defer putEncodeBuf(bp)
	doc, err := encodeInto(*bp, v, w.ordered)
	if err != nil {
		// An unencodable value does not damage the stream.
		return err
	}
	// bufio.Writer copies doc, so the buffer can go back to the pool.
	*bp = doc
	return w.WriteRaw(doc)
}

// WriteRaw appends an already encoded document.
func (w *Writer) WriteRaw(doc []byte) error {
	if w.err != nil {
		return w.err
	}
	n, err := w.w.Write(doc)
	w.count += int64(n)
	w.setError(err)
	return w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil || !w.owned {
		return w.err
	}
	w.setError(w.w.Flush())
	return w.err
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}
