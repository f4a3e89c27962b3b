package bson

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("bson: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("bson: WriteTo called with a nil io.Writer")

	// ErrNotDocument indicates that a top-level value passed to Serialize is not
	// a document or an array and therefore has no wire representation of its own.
	ErrNotDocument = errors.New("bson: top-level value is not a document or array")

	// ErrSizeMismatch indicates that the encoder wrote a different number of bytes
	// than Size predicted. It always points at a bug in the size estimator.
	ErrSizeMismatch = errors.New("bson: encoded length differs from computed size")

	// ErrSize indicates that a buffer is shorter than the smallest document, or that a
	// declared length does not fit in the bytes that remain.
	ErrSize = errors.New("bson: invalid size")

	// ErrTermination indicates that a document or string is not closed by a 0x00 byte.
	ErrTermination = errors.New("bson: missing terminator")

	// ErrName indicates that an element name has no terminating byte before the end of its document.
	ErrName = errors.New("bson: unterminated element name")

	// ErrUnknownType indicates a type tag outside the supported set.
	ErrUnknownType = errors.New("bson: unknown element type")

	// ErrUUIDLength indicates a binary subtype 4 payload whose length is not 16.
	ErrUUIDLength = errors.New("bson: uuid binary must be 16 bytes")

	// ErrInvalidBoolean indicates a boolean payload other than 0x00 or 0x01.
	ErrInvalidBoolean = errors.New("bson: invalid boolean byte")

	// ErrDepth indicates that documents are nested deeper than the decoder allows.
	ErrDepth = errors.New("bson: maximum nesting depth exceeded")

	// ErrTrailingData is returned when non-zero bytes are found after the end of
	// the top-level document, indicating a framing error or malformed data.
	ErrTrailingData = errors.New("bson: non-zero trailing data found after decoding")

	// ErrInvalidHex indicates a malformed hexadecimal ObjectID string.
	ErrInvalidHex = errors.New("bson: invalid ObjectID hex string")
)
