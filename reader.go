package bson

import (
	"bufio"
	"fmt"
	"io"
)

// MaxDocumentSize is the largest document Reader accepts from a stream:
// the 16MiB document limit of the server plus 16KiB of headroom.
const MaxDocumentSize = 16*1024*1024 + 16*1024

const defaultBufferSize = 4096

// ReadDocument reads one complete length-prefixed document from r.
//
// It returns io.EOF only when r is exhausted exactly at a document boundary;
// a stream that ends inside a document yields io.ErrUnexpectedEOF. The
// returned slice holds whatever was read, even on error.
func ReadDocument(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if n, err := io.ReadFull(r, prefix[:]); err != nil {
		return prefix[:n], err
	}
	size := int(readInt32(prefix[:], 0))
	if size < minDocumentSize || size > MaxDocumentSize {
		return prefix[:], fmt.Errorf("%w: declared length %d outside [%d, %d]", ErrSize, size, minDocumentSize, MaxDocumentSize)
	}
	doc := make([]byte, size)
	copy(doc, prefix[:])
	n, err := io.ReadFull(r, doc[4:])
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return doc[:4+n], err
}

// Reader reads a sequence of concatenated documents, such as a dump file.
// It wraps bufio.Reader and tracks the first error. Subsequent reads return it.
type Reader struct {
	r     *bufio.Reader
	count int64 // total bytes read
	err   error // first error encountered.
	opts  DecodeOptions
}

// NewReaderSize creates a new Reader with a specified buffer size.
// An existing *bufio.Reader is used directly to avoid double buffering.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{r: br}, nil
	}
	return &Reader{r: bufio.NewReaderSize(r, size)}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, defaultBufferSize)
}

// WithOptions sets the options used by Decode and returns the Reader for chaining.
func (r *Reader) WithOptions(opts DecodeOptions) *Reader {
	r.opts = opts
	return r
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// ReadRaw returns the next document undecoded. io.EOF marks a clean end of stream.
func (r *Reader) ReadRaw() ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	doc, err := ReadDocument(r.r)
	r.count += int64(len(doc))
	if err != nil {
		r.setError(err)
		return nil, err
	}
	return doc, nil
}

// Decode reads and decodes the next document.
// A malformed document is latched like an I/O error: the stream cannot be resynchronised.
func (r *Reader) Decode() (D, error) {
	raw, err := r.ReadRaw()
	if err != nil {
		return nil, err
	}
	doc, err := r.opts.Deserialize(raw)
	if err != nil {
		r.setError(fmt.Errorf("document at byte %d: %w", r.count-int64(len(raw)), err))
		return nil, r.err
	}
	return doc, nil
}
