package bson

import (
	"fmt"
	"io"
	"time"
)

// minDocumentSize is a length prefix followed directly by the terminator.
const minDocumentSize = 5

// DefaultMaxDepth bounds document nesting when DecodeOptions.MaxDepth is zero.
const DefaultMaxDepth = 100

// Int64Mode selects the Go type int64 elements decode to.
type Int64Mode int

const (
	// Int64Native decodes to int64.
	Int64Native Int64Mode = iota
	// Int64Float decodes to float64, exact up to 2^53 in magnitude.
	Int64Float
	// Int64Big decodes to *big.Int.
	Int64Big
)

// DecodeOptions configures Deserialize. The zero value decodes datetimes to
// time.Time and int64 elements to int64.
type DecodeOptions struct {
	// PreserveUTC decodes datetime elements to DateTime instead of time.Time.
	PreserveUTC bool
	// Int64 selects the representation of int64 elements.
	Int64 Int64Mode
	// MaxDepth limits how deeply documents and arrays may nest. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Deserialize decodes a single document with the default options.
func Deserialize(data []byte) (D, error) {
	return DecodeOptions{}.Deserialize(data)
}

// DeserializeArray decodes a buffer written from an array, returning its
// elements by index rather than as a document keyed "0", "1", ...
func DeserializeArray(data []byte) (A, error) {
	return DecodeOptions{}.DeserializeArray(data)
}

// Deserialize decodes data as a document.
func (o DecodeOptions) Deserialize(data []byte) (D, error) {
	v, err := o.decode(data, false)
	if err != nil {
		return nil, err
	}
	return v.(D), nil
}

// DeserializeArray decodes data as an array.
func (o DecodeOptions) DeserializeArray(data []byte) (A, error) {
	v, err := o.decode(data, true)
	if err != nil {
		return nil, err
	}
	return v.(A), nil
}

func (o DecodeOptions) decode(data []byte, asArray bool) (any, error) {
	d := decoder{opts: o, maxDepth: o.MaxDepth}
	if d.maxDepth <= 0 {
		d.maxDepth = DefaultMaxDepth
	}
	r := NewBytesReader(data)
	v, err := d.document(r, asArray, 0)
	if err != nil {
		return nil, err
	}
	if r.Available() > 0 {
		if err := CheckBufferNotZeros(data[r.Len():]); err != nil {
			return nil, err
		}
	}
	return v, nil
}

type decoder struct {
	opts     DecodeOptions
	maxDepth int
}

// document decodes the document starting at r's position and leaves r just
// past its declared end. Reads inside the document are confined to its body,
// so neither a name nor a payload can reach the terminator or the bytes after it.
func (d *decoder) document(r *BytesReader, asArray bool, depth int) (any, error) {
	start := r.Len()
	// 1. The smallest document is a length and a terminator.
	if r.Available() < minDocumentSize {
		return nil, fmt.Errorf("%w: %d bytes at offset %d, a document needs at least %d", ErrSize, r.Available(), start, minDocumentSize)
	}
	if depth > d.maxDepth {
		return nil, fmt.Errorf("%w: %d at offset %d", ErrDepth, depth, start)
	}

	// 2. The declared length must fit in what remains.
	declared := int(readInt32(r.B, start))
	if declared < minDocumentSize || declared > r.Available() {
		return nil, fmt.Errorf("%w: declared length %d at offset %d, %d bytes remain", ErrSize, declared, start, r.Available())
	}
	end := start + declared

	// 3. The last byte of the region is the terminator.
	if r.B[end-1] != 0 {
		return nil, fmt.Errorf("%w: document at offset %d ends with 0x%02x", ErrTermination, start, r.B[end-1])
	}

	// 4. Elements fill the body between the length and the terminator.
	sub := &BytesReader{B: r.B[:end-1], N: start + 4}
	var doc D
	var arr A
	for sub.Available() > 0 {
		tag, _ := sub.ReadByte()
		if tag == 0 {
			return nil, fmt.Errorf("%w: document at offset %d terminated after %d of %d bytes", ErrSize, start, sub.Len()-start, declared)
		}
		name, ok := sub.ReadCString()
		if !ok {
			return nil, fmt.Errorf("%w: at offset %d", ErrName, sub.Len())
		}
		value, err := d.element(sub, Type(tag), depth)
		if err != nil {
			return nil, err
		}
		if asArray {
			arr = append(arr, value)
		} else {
			doc = append(doc, E{Key: name, Value: value})
		}
	}

	// 5. Continue after the declared region.
	r.N = end
	if asArray {
		if arr == nil {
			arr = A{}
		}
		return arr, nil
	}
	if doc == nil {
		doc = D{}
	}
	return doc, nil
}

// element decodes the payload of an element of type t.
func (d *decoder) element(r *BytesReader, t Type, depth int) (any, error) {
	switch t {
	case TypeDouble:
		return r.ReadDouble()
	case TypeString:
		return d.string(r)
	case TypeDocument:
		return d.document(r, false, depth+1)
	case TypeArray:
		return d.document(r, true, depth+1)
	case TypeBinary:
		return d.binary(r)
	case TypeUndefined, TypeNull:
		return nil, nil
	case TypeObjectID:
		b, err := r.Next(12)
		if err != nil {
			return nil, err
		}
		var id ObjectID
		copy(id[:], b)
		return id, nil
	case TypeBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: boolean at offset %d: %v", ErrSize, r.Len(), io.ErrUnexpectedEOF)
		}
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrInvalidBoolean, b, r.Len()-1)
	case TypeDateTime:
		ms, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		if d.opts.PreserveUTC {
			return DateTime(ms), nil
		}
		return time.UnixMilli(ms).UTC(), nil
	case TypeRegex:
		pattern, ok := r.ReadCString()
		if !ok {
			return nil, fmt.Errorf("%w: regex pattern at offset %d", ErrTermination, r.Len())
		}
		// flags are read to stay aligned, then dropped
		if _, ok := r.ReadCString(); !ok {
			return nil, fmt.Errorf("%w: regex flags at offset %d", ErrTermination, r.Len())
		}
		return Regex{Pattern: pattern}, nil
	case TypeInt32:
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		return v, nil
	case TypeInt64:
		b, err := r.Next(8)
		if err != nil {
			return nil, err
		}
		switch d.opts.Int64 {
		case Int64Float:
			return readInt64AsFloat(b, 0), nil
		case Int64Big:
			return readBigInt64(b, 0), nil
		}
		return readInt64(b, 0), nil
	}
	return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrUnknownType, byte(t), r.Len())
}

// string reads a length that counts the trailing 0x00, then the bytes and the terminator.
func (d *decoder) string(r *BytesReader) (string, error) {
	at := r.Len()
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 1 {
		return "", fmt.Errorf("%w: string length %d at offset %d", ErrSize, n, at)
	}
	b, err := r.Next(int(n))
	if err != nil {
		return "", err
	}
	if b[n-1] != 0 {
		return "", fmt.Errorf("%w: string at offset %d", ErrTermination, at)
	}
	return string(b[:n-1]), nil
}

// binary reads a length, a subtype and the data. Subtype 4 must hold exactly 16 bytes.
func (d *decoder) binary(r *BytesReader) (any, error) {
	at := r.Len()
	n, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: binary length %d at offset %d", ErrSize, n, at)
	}
	subtype, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: binary subtype at offset %d: %v", ErrSize, r.Len(), io.ErrUnexpectedEOF)
	}
	b, err := r.Next(int(n))
	if err != nil {
		return nil, err
	}
	switch subtype {
	case SubtypeUUID:
		if n != 16 {
			return nil, fmt.Errorf("%w: got %d at offset %d", ErrUUIDLength, n, at)
		}
		var u UUID
		copy(u[:], b)
		return u, nil
	case SubtypeGeneric:
		return append([]byte{}, b...), nil
	}
	return Binary{Subtype: subtype, Data: append([]byte{}, b...)}, nil
}
