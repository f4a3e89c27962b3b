package bson

import (
	"bytes"
	"fmt"
	"io"
)

// BytesReader reads wire fields from a byte slice. Reads never go past len(B),
// so a reader sliced to the end of a document cannot overrun into its parent.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// Next returns the next n bytes as a view into B and advances past them.
// It fails with ErrSize when fewer than n bytes remain.
func (r *BytesReader) Next(n int) ([]byte, error) {
	if n < 0 || n > r.Available() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d remain", ErrSize, n, r.N, r.Available())
	}
	b := r.B[r.N : r.N+n]
	r.N += n
	return b, nil
}

// --- Wire field reads ---

func (r *BytesReader) ReadInt32() (int32, error) {
	b, err := r.Next(4)
	if err != nil {
		return 0, err
	}
	return readInt32(b, 0), nil
}

func (r *BytesReader) ReadInt64() (int64, error) {
	b, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return readInt64(b, 0), nil
}

func (r *BytesReader) ReadDouble() (float64, error) {
	b, err := r.Next(8)
	if err != nil {
		return 0, err
	}
	return readDouble(b, 0), nil
}

// ReadCString reads up to and including the next 0x00 and returns the bytes
// before it. ok is false, and nothing is consumed, if no terminator remains.
func (r *BytesReader) ReadCString() (s string, ok bool) {
	i := bytes.IndexByte(r.B[r.N:], 0)
	if i < 0 {
		return "", false
	}
	s = string(r.B[r.N : r.N+i])
	r.N += i + 1
	return s, true
}

// Len returns the number of bytes read.
func (r *BytesReader) Len() int {
	return r.N
}

// Size returns the size of the underlying byte slice.
func (r *BytesReader) Size() int {
	return len(r.B)
}

// Available returns the number of bytes available for reading.
func (r *BytesReader) Available() int {
	length := len(r.B) - r.N
	if length <= 0 {
		return 0
	}
	return length
}
