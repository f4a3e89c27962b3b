package bson

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their binary size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// Size returns the size of the type in bytes when binary encoded.
	Size() int
}

// Marshaler defines the core methods for encoding an object into a byte stream.
type Marshaler interface {
	// encoding.BinaryMarshaler provides the primary encoding method.
	// It allocates and returns a new byte slice of exactly Size() bytes.
	encoding.BinaryMarshaler // Method: MarshalBinary() ([]byte, error)
	// io.WriterTo writes the encoded form to a stream.
	io.WriterTo // Method: WriteTo(writer io.Writer) (int64, error)

	// MarshalTo encodes the object into a pre-allocated buffer, returning
	// io.ErrShortBuffer if the buffer is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler defines the core methods for decoding a byte stream into an object.
type Unmarshaler interface {
	// encoding.BinaryUnmarshaler decodes data from a byte slice.
	encoding.BinaryUnmarshaler // Method: UnmarshalBinary(data []byte) error
	// io.ReaderFrom reads exactly one document from a stream.
	io.ReaderFrom // Method: ReadFrom(r io.Reader) (int64, error)
}

// Codec aggregates all binary serialization and deserialization interfaces.
// A type implementing Codec is a complete, self-sizing binary encoder/decoder.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}

// Statically assert that the document types implement Codec.
var (
	_ Codec = (*D)(nil)
	_ Codec = (*A)(nil)
)

// Size returns the encoded length of d.
func (d D) Size() int { return documentSize(d) }

// MarshalBinary implements the standard `encoding.BinaryMarshaler` interface.
func (d D) MarshalBinary() ([]byte, error) { return Serialize(d) }

// MarshalTo encodes d into p without allocating.
func (d D) MarshalTo(p []byte) (int, error) { return MarshalTo(p, d) }

// WriteTo implements `io.WriterTo`.
func (d D) WriteTo(w io.Writer) (int64, error) { return WriteToGeneric(d, w) }

// UnmarshalBinary implements the standard `encoding.BinaryUnmarshaler` interface.
// On error d is left unchanged.
func (d *D) UnmarshalBinary(data []byte) error {
	doc, err := Deserialize(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// ReadFrom implements `io.ReaderFrom`, reading one document from r.
func (d *D) ReadFrom(r io.Reader) (int64, error) { return ReadFromGeneric(d, r) }

// Size returns the encoded length of a.
func (a A) Size() int { return documentSize(a) }

// MarshalBinary implements the standard `encoding.BinaryMarshaler` interface.
func (a A) MarshalBinary() ([]byte, error) { return Serialize(a) }

// MarshalTo encodes a into p without allocating.
func (a A) MarshalTo(p []byte) (int, error) { return MarshalTo(p, a) }

// WriteTo implements `io.WriterTo`.
func (a A) WriteTo(w io.Writer) (int64, error) { return WriteToGeneric(a, w) }

// UnmarshalBinary implements the standard `encoding.BinaryUnmarshaler` interface.
func (a *A) UnmarshalBinary(data []byte) error {
	arr, err := DeserializeArray(data)
	if err != nil {
		return err
	}
	*a = arr
	return nil
}

// ReadFrom implements `io.ReaderFrom`, reading one array document from r.
func (a *A) ReadFrom(r io.Reader) (int64, error) { return ReadFromGeneric(a, r) }
