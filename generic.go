package bson

import (
	"encoding"
	"fmt"
	"io"
)

// WriteToGeneric provides a generic `io.WriterTo` implementation.
// It adapts a type that can marshal to a byte slice to the streaming io.Writer interface.
func WriteToGeneric[T encoding.BinaryMarshaler](v T, w io.Writer) (int64, error) {
	if w == nil {
		return 0, ErrWriteToNil
	}
	buf, err := v.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	if err != nil {
		return int64(n), err
	}
	if n < len(buf) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// ReadFromGeneric provides a generic `io.ReaderFrom` implementation for types
// encoded as one length-prefixed document. Exactly one document is consumed
// from r and handed to UnmarshalBinary; bytes after it are left unread.
func ReadFromGeneric[T encoding.BinaryUnmarshaler](v T, r io.Reader) (int64, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return int64(len(doc)), err
	}
	return int64(len(doc)), v.UnmarshalBinary(doc)
}

// MAX_PADDING defines the maximum number of trailing bytes tolerated after a
// document. Anything larger is considered a framing error.
const MAX_PADDING = 1024 // 1KB

// CheckBufferNotZeros verifies that trailing bytes are all zero padding.
// It lets a fixed-size buffer carry a shorter document but rejects garbage,
// which usually means the buffer holds more than one document.
func CheckBufferNotZeros(trailing []byte) error {
	if len(trailing) > MAX_PADDING {
		return fmt.Errorf("%w: %d bytes exceed maximum padding of %d bytes", ErrTrailingData, len(trailing), MAX_PADDING)
	}
	for i, b := range trailing {
		if b != 0 {
			return fmt.Errorf("%w: found non-zero byte 0x%02x at offset %d", ErrTrailingData, b, i)
		}
	}
	return nil
}
