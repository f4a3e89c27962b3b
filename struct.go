package bson

import (
	"cmp"
	"reflect"
	"slices"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"
)

// fieldCache avoids walking struct tags with reflection on every call.
// It only ever holds metadata derived from types, never values.
var fieldCache = xsync.NewMap[reflect.Type, []structField]()

type structField struct {
	name      string
	index     int
	omitEmpty bool
}

// cachedFields returns the encodable fields of struct type t in declaration order.
//
// Field names come from the `bson` tag when present, otherwise the Go field
// name is used as is. `bson:"-"` skips a field and the `omitempty` option
// skips zero values. Unexported fields are never encoded.
func cachedFields(t reflect.Type) []structField {
	if fields, ok := fieldCache.Load(t); ok {
		return fields
	}

	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("bson")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		fields = append(fields, structField{
			name:      name,
			index:     i,
			omitEmpty: slices.Contains(strings.Split(opts, ","), "omitempty"),
		})
	}

	// Concurrent callers may compute the same slice; either copy is valid.
	fieldCache.Store(t, fields)
	return fields
}

// structSource presents a struct value as a document.
type structSource struct {
	v      reflect.Value
	fields []structField
}

func (s structSource) isArray() bool { return false }

func (s structSource) elements(ordered bool, fn func(string, any)) {
	fields := s.fields
	if ordered {
		fields = slices.SortedStableFunc(slices.Values(fields), func(a, b structField) int {
			return cmp.Compare(a.name, b.name)
		})
	}
	for _, f := range fields {
		fv := s.v.Field(f.index)
		if f.omitEmpty && fv.IsZero() {
			continue
		}
		fn(f.name, fv.Interface())
	}
}
