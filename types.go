package bson

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the one-byte tag that precedes every element on the wire.
type Type byte

const (
	TypeDouble    Type = 0x01
	TypeString    Type = 0x02
	TypeDocument  Type = 0x03
	TypeArray     Type = 0x04
	TypeBinary    Type = 0x05
	TypeUndefined Type = 0x06 // deprecated, decoded as nil
	TypeObjectID  Type = 0x07
	TypeBoolean   Type = 0x08
	TypeDateTime  Type = 0x09
	TypeNull      Type = 0x0A
	TypeRegex     Type = 0x0B
	TypeInt32     Type = 0x10
	TypeInt64     Type = 0x12
)

// typeUnsupported marks values with no wire representation.
const typeUnsupported Type = 0x00

func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeObjectID:
		return "objectId"
	case TypeBoolean:
		return "bool"
	case TypeDateTime:
		return "date"
	case TypeNull:
		return "null"
	case TypeRegex:
		return "regex"
	case TypeInt32:
		return "int"
	case TypeInt64:
		return "long"
	}
	return fmt.Sprintf("Type(0x%02x)", byte(t))
}

// Binary subtypes understood by the codec.
const (
	SubtypeGeneric byte = 0x00
	SubtypeUUID    byte = 0x04
)

// E is a single key/value pair of a D.
type E struct {
	Key   string
	Value any
}

// D is an ordered document. Decoding always produces D so that the key order
// found on the wire is preserved.
type D []E

// Lookup returns the value of the first element named key.
func (d D) Lookup(key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Map copies the top level of d into an M. Later duplicates win.
func (d D) Map() M {
	m := make(M, len(d))
	for _, e := range d {
		m[e.Key] = e.Value
	}
	return m
}

// MarshalJSON renders d as a JSON object with keys in document order.
func (d D) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("bson: key %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// M is an unordered document. Its keys are written in sorted order.
type M map[string]any

// A is an array. Element names on the wire are the decimal indexes "0", "1", ...
type A []any

// Binary is an opaque byte sequence tagged with a subtype.
type Binary struct {
	Subtype byte
	Data    []byte
}

// UUID is a 16-byte unique identifier stored as binary subtype 4.
type UUID [16]byte

// NewUUID returns a random (version 4) UUID.
func NewUUID() UUID { return UUID(uuid.New()) }

// ParseUUID parses the textual forms accepted by github.com/google/uuid.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID(u), nil
}

func (u UUID) String() string { return uuid.UUID(u).String() }

func (u UUID) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := ParseUUID(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// ObjectID is the 12-byte identifier a document store assigns to rows.
type ObjectID [12]byte

// ObjectIDFromHex parses the 24 character hexadecimal form of an ObjectID.
func ObjectIDFromHex(s string) (ObjectID, error) {
	var id ObjectID
	if len(s) != 2*len(id) {
		return id, fmt.Errorf("%w: %q has length %d", ErrInvalidHex, s, len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return id, nil
}

func (id ObjectID) Hex() string    { return hex.EncodeToString(id[:]) }
func (id ObjectID) String() string { return fmt.Sprintf("ObjectID(%q)", id.Hex()) }

func (id ObjectID) MarshalText() ([]byte, error) { return []byte(id.Hex()), nil }

func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, err := ObjectIDFromHex(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// DateTime is a UTC timestamp in milliseconds since the Unix epoch, kept
// exactly as it appears on the wire.
type DateTime int64

// NewDateTime returns the DateTime ms milliseconds after the epoch.
func NewDateTime(ms int64) DateTime { return DateTime(ms) }

// DateTimeFromTime truncates t to millisecond precision.
func DateTimeFromTime(t time.Time) DateTime { return DateTime(t.UnixMilli()) }

// DateTimeFromBytes reads a DateTime from its 8-byte little-endian wire form.
func DateTimeFromBytes(b []byte) (DateTime, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: datetime needs 8 bytes, got %d", ErrSize, len(b))
	}
	return DateTime(readInt64(b, 0)), nil
}

// isoLayouts are tried in order by ParseDateTime.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime parses an ISO-8601 date or date-time. Strings without a zone are taken as UTC.
func ParseDateTime(s string) (DateTime, error) {
	var firstErr error
	for _, layout := range isoLayouts {
		t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.UTC)
		if err == nil {
			return DateTimeFromTime(t), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return 0, firstErr
}

// Millis returns the number of milliseconds since the epoch.
func (dt DateTime) Millis() int64 { return int64(dt) }

// Time returns dt as a UTC time.Time.
func (dt DateTime) Time() time.Time { return time.UnixMilli(int64(dt)).UTC() }

// Bytes returns the 8-byte little-endian wire form of dt.
func (dt DateTime) Bytes() []byte {
	b := make([]byte, 8)
	putInt64(b, 0, int64(dt))
	return b
}

func (dt DateTime) String() string { return dt.Time().Format(time.RFC3339Nano) }

func (dt DateTime) MarshalText() ([]byte, error) { return []byte(dt.String()), nil }

func (dt *DateTime) UnmarshalText(text []byte) error {
	parsed, err := ParseDateTime(string(text))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

// Regex is a regular expression pattern. Flags are not carried: they are
// written empty and dropped when read.
type Regex struct {
	Pattern string
}

// Compile compiles the pattern with the standard library's RE2 syntax.
func (r Regex) Compile() (*regexp.Regexp, error) { return regexp.Compile(r.Pattern) }

func (r Regex) String() string { return "/" + r.Pattern + "/" }

func (r Regex) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
