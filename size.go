package bson

import (
	"math/big"
	"time"
)

// Size returns the exact number of bytes Serialize produces for v, without
// writing anything. It is 0 when v is neither a document nor an array.
func Size(v any) int {
	src, ok := asSource(v)
	if !ok {
		return 0
	}
	return documentSize(src)
}

// documentSize is the 4-byte length prefix, every element, and the terminator.
func documentSize(src source) int {
	size := 4 + 1
	src.elements(false, func(name string, v any) {
		size += elementSize(name, v)
	})
	return size
}

// elementSize is the tag byte, the name as a cstring, and the payload.
// Unsupported values occupy nothing at all: the encoder skips their tag too.
func elementSize(name string, v any) int {
	t, n := payload(v)
	if t == typeUnsupported {
		return 0
	}
	return 1 + utf8Length(name) + 1 + n
}

// payload reports the element type a value is written as and the size of its payload.
func payload(v any) (Type, int) {
	r, ok := resolve(v)
	if !ok {
		return typeUnsupported, 0
	}
	t := kind(r)
	switch x := r.(type) {
	case nil:
		return t, 0
	case bool:
		return t, 1
	case int64, *big.Int:
		if t == TypeInt32 {
			return t, 4
		}
		return t, 8
	case float64, time.Time, DateTime:
		return t, 8
	case string:
		return t, 4 + utf8Length(x) + 1
	case source:
		return t, documentSize(x)
	case []byte:
		return t, 4 + 1 + len(x)
	case Binary:
		return t, 4 + 1 + len(x.Data)
	case UUID:
		return t, 4 + 1 + len(x)
	case ObjectID:
		return t, len(x)
	case Regex:
		// pattern cstring plus an empty flags cstring
		return t, utf8Length(x.Pattern) + 2
	}
	return typeUnsupported, 0
}

// kind maps a resolved value to its element type.
func kind(r any) Type {
	switch x := r.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case int64:
		if fitsInt32(x) {
			return TypeInt32
		}
		return TypeInt64
	case *big.Int:
		if x.IsInt64() && fitsInt32(x.Int64()) {
			return TypeInt32
		}
		return TypeInt64
	case float64:
		return TypeDouble
	case string:
		return TypeString
	case source:
		if x.isArray() {
			return TypeArray
		}
		return TypeDocument
	case []byte, Binary, UUID:
		return TypeBinary
	case ObjectID:
		return TypeObjectID
	case time.Time, DateTime:
		return TypeDateTime
	case Regex:
		return TypeRegex
	}
	return typeUnsupported
}
