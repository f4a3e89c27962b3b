package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/oy3o/bson"
)

// toExtended rewrites a decoded value into plain JSON-compatible values:
// documents, arrays, strings, numbers, booleans and nulls. Types JSON cannot
// express become single-key "$" documents.
func toExtended(v any) any {
	switch x := v.(type) {
	case bson.D:
		out := make(bson.D, len(x))
		for i, e := range x {
			out[i] = bson.E{Key: e.Key, Value: toExtended(e.Value)}
		}
		return out
	case bson.A:
		out := make(bson.A, len(x))
		for i, e := range x {
			out[i] = toExtended(e)
		}
		return out
	case bson.ObjectID:
		return bson.D{{Key: "$oid", Value: x.Hex()}}
	case bson.UUID:
		return bson.D{{Key: "$uuid", Value: x.String()}}
	case time.Time:
		return bson.D{{Key: "$date", Value: bson.DateTimeFromTime(x).String()}}
	case bson.DateTime:
		return bson.D{{Key: "$date", Value: x.String()}}
	case []byte:
		return binaryDoc(bson.SubtypeGeneric, x)
	case bson.Binary:
		return binaryDoc(x.Subtype, x.Data)
	case bson.Regex:
		return bson.D{{Key: "$regularExpression", Value: bson.D{{Key: "pattern", Value: x.Pattern}, {Key: "options", Value: ""}}}}
	case *big.Int:
		return bson.D{{Key: "$numberLong", Value: x.String()}}
	case int64:
		// A bare number this small would come back as an int32.
		if x >= -math.MaxInt32 && x <= math.MaxInt32 {
			return bson.D{{Key: "$numberLong", Value: strconv.FormatInt(x, 10)}}
		}
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return bson.D{{Key: "$numberDouble", Value: formatSpecialFloat(x)}}
		}
		// Integral doubles, -0 included, would be read back as integers.
		if x == math.Trunc(x) {
			return bson.D{{Key: "$numberDouble", Value: strconv.FormatFloat(x, 'g', -1, 64)}}
		}
	}
	return v
}

func binaryDoc(subtype byte, data []byte) bson.D {
	return bson.D{{Key: "$binary", Value: bson.D{
		{Key: "base64", Value: base64.StdEncoding.EncodeToString(data)},
		{Key: "subType", Value: hex.EncodeToString([]byte{subtype})},
	}}}
}

func formatSpecialFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f > 0:
		return "Infinity"
	}
	return "-Infinity"
}

// fromExtended is the inverse of toExtended for a single parsed document: a
// document whose only key is a recognised "$" operator becomes the value it
// stands for. Other documents are returned unchanged.
func fromExtended(doc bson.D) (any, error) {
	if len(doc) != 1 || !strings.HasPrefix(doc[0].Key, "$") {
		return doc, nil
	}
	key, value := doc[0].Key, doc[0].Value
	switch key {
	case "$oid":
		s, err := extString(key, value)
		if err != nil {
			return nil, err
		}
		return bson.ObjectIDFromHex(s)
	case "$uuid":
		s, err := extString(key, value)
		if err != nil {
			return nil, err
		}
		return bson.ParseUUID(s)
	case "$date":
		switch x := value.(type) {
		case int64:
			return bson.DateTime(x), nil
		case string:
			return bson.ParseDateTime(x)
		case bson.D:
			// {"$date": {"$numberLong": "..."}}
			inner, err := fromExtended(x)
			if err != nil {
				return nil, err
			}
			if ms, ok := inner.(int64); ok {
				return bson.DateTime(ms), nil
			}
		}
		return nil, fmt.Errorf("%s: unsupported value %v", key, value)
	case "$numberLong":
		s, err := extString(key, value)
		if err != nil {
			return nil, err
		}
		return strconv.ParseInt(s, 10, 64)
	case "$numberInt":
		s, err := extString(key, value)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(s, 10, 32)
		return int32(n), err
	case "$numberDouble":
		s, err := extString(key, value)
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(s, 64)
	case "$binary":
		fields, ok := value.(bson.D)
		if !ok {
			return nil, fmt.Errorf("%s: expected a document", key)
		}
		return parseBinary(fields)
	case "$regularExpression":
		fields, ok := value.(bson.D)
		if !ok {
			return nil, fmt.Errorf("%s: expected a document", key)
		}
		pattern, _ := fields.Lookup("pattern")
		s, err := extString(key+".pattern", pattern)
		if err != nil {
			return nil, err
		}
		return bson.Regex{Pattern: s}, nil
	}
	return doc, nil
}

func parseBinary(fields bson.D) (any, error) {
	encoded, _ := fields.Lookup("base64")
	b64, err := extString("$binary.base64", encoded)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("$binary.base64: %w", err)
	}
	var subtype byte
	if st, ok := fields.Lookup("subType"); ok {
		s, err := extString("$binary.subType", st)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("$binary.subType: %w", err)
		}
		subtype = byte(n)
	}
	switch subtype {
	case bson.SubtypeGeneric:
		return data, nil
	case bson.SubtypeUUID:
		if len(data) != 16 {
			return nil, fmt.Errorf("$binary: %w, got %d", bson.ErrUUIDLength, len(data))
		}
		return bson.UUID(data), nil
	}
	return bson.Binary{Subtype: subtype, Data: data}, nil
}

func extString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

// plain converts documents and arrays to map[string]any and []any for
// encoders that would otherwise pick up their binary marshaling.
func plain(v any) any {
	switch x := v.(type) {
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	}
	return v
}
