package bson

import (
	"io"
	"math/big"
)

// BytesWriter writes wire fields into a pre-allocated byte slice.
// It never grows the slice. The first write that does not fit latches
// io.ErrShortWrite and every later write becomes a no-op.
type BytesWriter struct {
	B   []byte // destination slice
	N   int    // current write position
	err error
}

// NewBytesWriter creates a new BytesWriter.
func NewBytesWriter(p []byte) *BytesWriter {
	return &BytesWriter{B: p[:cap(p)]}
}

// reserve reports whether n more bytes fit, latching io.ErrShortWrite if not.
func (w *BytesWriter) reserve(n int) bool {
	if w.err != nil {
		return false
	}
	if n > len(w.B)-w.N {
		w.err = io.ErrShortWrite
		return false
	}
	return true
}

// Write implements the io.Writer interface.
func (w *BytesWriter) Write(p []byte) (int, error) {
	if !w.reserve(len(p)) {
		return 0, w.err
	}
	n := copy(w.B[w.N:], p)
	w.N += n
	return n, nil
}

// WriteString implements the io.StringWriter interface for efficiency.
func (w *BytesWriter) WriteString(s string) (int, error) {
	if !w.reserve(len(s)) {
		return 0, w.err
	}
	n := copy(w.B[w.N:], s)
	w.N += n
	return n, nil
}

// WriteByte implements the io.ByteWriter interface for efficiency.
func (w *BytesWriter) WriteByte(c byte) error {
	if !w.reserve(1) {
		return w.err
	}
	w.B[w.N] = c
	w.N++
	return nil
}

// --- Wire field writes ---

// WriteInt32 writes v as 4 little-endian bytes.
func (w *BytesWriter) WriteInt32(v int32) {
	if w.reserve(4) {
		w.N += putInt32(w.B, w.N, v)
	}
}

// WriteInt64 writes v as 8 little-endian bytes.
func (w *BytesWriter) WriteInt64(v int64) {
	if w.reserve(8) {
		w.N += putInt64(w.B, w.N, v)
	}
}

// WriteBigInt64 writes the low 64 bits of v in two's complement.
func (w *BytesWriter) WriteBigInt64(v *big.Int) {
	if w.reserve(8) {
		w.N += putBigInt64(w.B, w.N, v)
	}
}

// WriteDouble writes v as an 8-byte IEEE 754 double.
func (w *BytesWriter) WriteDouble(v float64) {
	if w.reserve(8) {
		w.N += putDouble(w.B, w.N, v)
	}
}

// WriteCString writes s and a trailing 0x00.
func (w *BytesWriter) WriteCString(s string) {
	if w.reserve(len(s) + 1) {
		w.N += putCString(w.B, w.N, s)
	}
}

// PatchInt32 overwrites the 4 bytes at an earlier offset, used to fill in a
// length prefix once the region it covers has been written.
func (w *BytesWriter) PatchInt32(off int, v int32) {
	if w.err == nil && off >= 0 && off+4 <= w.N {
		putInt32(w.B, off, v)
	}
}

// Err returns the first error encountered.
func (w *BytesWriter) Err() error { return w.err }

// Reset allows the underlying byte slice to be reused.
func (w *BytesWriter) Reset() { w.N, w.err = 0, nil }

// Len returns the number of bytes written.
func (w *BytesWriter) Len() int { return w.N }

// Size returns the capacity of the underlying byte slice.
func (w *BytesWriter) Size() int { return len(w.B) }

// Available returns the number of bytes available for writing.
func (w *BytesWriter) Available() int { return len(w.B) - w.N }

// Bytes returns a slice view of the written data.
func (w *BytesWriter) Bytes() []byte { return w.B[:w.N] }
