package bson

import (
	"fmt"
	"io"
	"math/big"
	"time"
)

// Serialize encodes a document or array with keys in their natural order.
//
// The output buffer is allocated once, at exactly Size(v) bytes. Values with
// no wire representation (channels, functions, maps with non-string keys, ...)
// are left out of the output without error.
func Serialize(v any) ([]byte, error) {
	return serialize(v, false)
}

// SerializeOrdered is like Serialize but writes the keys of every document,
// at every nesting level, in lexicographic order. Arrays keep index order.
// Two inputs that differ only in key order produce identical bytes.
func SerializeOrdered(v any) ([]byte, error) {
	return serialize(v, true)
}

func serialize(v any, ordered bool) ([]byte, error) {
	return encodeInto(nil, v, ordered)
}

// encodeInto encodes v into p, reallocating only when p is too small, and
// returns the slice holding the document.
func encodeInto(p []byte, v any, ordered bool) ([]byte, error) {
	src, ok := asSource(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotDocument, v)
	}
	size := documentSize(src)
	if cap(p) < size {
		p = make([]byte, size)
	}
	w := &BytesWriter{B: p[:size]}
	if err := encodeTo(w, src, ordered); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// MarshalTo encodes v into p, which must hold at least Size(v) bytes, and
// returns the number of bytes written.
func MarshalTo(p []byte, v any) (int, error) {
	if size := Size(v); size > 0 && len(p) < size {
		return 0, io.ErrShortBuffer
	}
	doc, err := encodeInto(p[:0], v, false)
	if err != nil {
		return 0, err
	}
	return len(doc), nil
}

// encodeTo writes src into w and checks that the result fills w exactly.
func encodeTo(w *BytesWriter, src source, ordered bool) error {
	e := encoder{w: w, ordered: ordered}
	e.document(src)
	if err := w.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSizeMismatch, err)
	}
	if w.Available() != 0 {
		return fmt.Errorf("%w: %d bytes left unwritten", ErrSizeMismatch, w.Available())
	}
	return nil
}

type encoder struct {
	w       *BytesWriter
	ordered bool
}

// document writes a length placeholder, the elements and the terminator, then
// patches the placeholder with the length of the region actually written.
func (e *encoder) document(src source) {
	start := e.w.Len()
	e.w.WriteInt32(0)
	src.elements(e.ordered, e.element)
	e.w.WriteByte(0)
	e.w.PatchInt32(start, int32(e.w.Len()-start))
}

// element writes the tag, the name and the payload of one value. A value
// without a wire type is skipped entirely, tag included, mirroring elementSize.
func (e *encoder) element(name string, v any) {
	r, ok := resolve(v)
	if !ok {
		return
	}
	t := kind(r)
	if t == typeUnsupported {
		return
	}
	e.w.WriteByte(byte(t))
	e.w.WriteCString(name)

	switch x := r.(type) {
	case nil:
	case bool:
		if x {
			e.w.WriteByte(1)
		} else {
			e.w.WriteByte(0)
		}
	case int64:
		if t == TypeInt32 {
			e.w.WriteInt32(int32(x))
		} else {
			e.w.WriteInt64(x)
		}
	case *big.Int:
		if t == TypeInt32 {
			e.w.WriteInt32(int32(x.Int64()))
		} else {
			e.w.WriteBigInt64(x)
		}
	case float64:
		e.w.WriteDouble(x)
	case string:
		e.w.WriteInt32(int32(utf8Length(x) + 1))
		e.w.WriteCString(x)
	case source:
		e.document(x)
	case []byte:
		e.binary(SubtypeGeneric, x)
	case Binary:
		e.binary(x.Subtype, x.Data)
	case UUID:
		e.binary(SubtypeUUID, x[:])
	case ObjectID:
		e.w.Write(x[:])
	case time.Time:
		e.w.WriteInt64(x.UnixMilli())
	case DateTime:
		e.w.WriteInt64(int64(x))
	case Regex:
		e.w.WriteCString(x.Pattern)
		e.w.WriteCString("")
	}
}

func (e *encoder) binary(subtype byte, data []byte) {
	e.w.WriteInt32(int32(len(data)))
	e.w.WriteByte(subtype)
	e.w.Write(data)
}
