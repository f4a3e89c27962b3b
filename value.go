package bson

import (
	"cmp"
	"maps"
	"math/big"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// source is a document or array that can enumerate its elements.
// Size and the encoder walk the same source so both see identical elements.
type source interface {
	isArray() bool
	// elements calls fn for every element. ordered asks for keys in
	// lexicographic order; arrays always keep index order.
	elements(ordered bool, fn func(name string, v any))
}

func (d D) isArray() bool { return false }

func (d D) elements(ordered bool, fn func(string, any)) {
	if ordered && !slices.IsSortedFunc(d, compareE) {
		d = slices.SortedStableFunc(slices.Values(d), compareE)
	}
	for _, e := range d {
		fn(e.Key, e.Value)
	}
}

func compareE(a, b E) int { return cmp.Compare(a.Key, b.Key) }

func (m M) isArray() bool { return false }

// elements visits keys in sorted order whatever ordered says: a map has no
// natural order and the output must stay deterministic.
func (m M) elements(_ bool, fn func(string, any)) {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fn(k, m[k])
	}
}

func (a A) isArray() bool { return true }

func (a A) elements(_ bool, fn func(string, any)) {
	for i, v := range a {
		fn(strconv.Itoa(i), v)
	}
}

// reflectMap adapts any map with string-kinded keys.
type reflectMap struct{ v reflect.Value }

func (m reflectMap) isArray() bool { return false }

func (m reflectMap) elements(_ bool, fn func(string, any)) {
	keys := m.v.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	for _, k := range keys {
		fn(k.String(), m.v.MapIndex(k).Interface())
	}
}

// reflectList adapts slices and arrays of any element type other than byte.
type reflectList struct{ v reflect.Value }

func (l reflectList) isArray() bool { return true }

func (l reflectList) elements(_ bool, fn func(string, any)) {
	for i := 0; i < l.v.Len(); i++ {
		fn(strconv.Itoa(i), l.v.Index(i).Interface())
	}
}

// resolve maps a caller supplied value onto the closed set of variants the
// size estimator and the encoder switch over:
//
//	nil, bool, int64, *big.Int, float64, string, source, []byte, Binary,
//	UUID, ObjectID, time.Time, DateTime, Regex
//
// ok is false for values with no wire representation; those are omitted.
func resolve(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case bool, int64, float64, string, []byte, Binary, UUID, ObjectID, time.Time, DateTime, Regex:
		return x, true
	case source:
		return x, true
	case []any:
		if x == nil {
			return nil, true
		}
		return A(x), true
	case map[string]any:
		if x == nil {
			return nil, true
		}
		return M(x), true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint:
		return unsigned(x), true
	case uint64:
		return unsigned(x), true
	case float32:
		return float64(x), true
	case *big.Int:
		if x == nil {
			return nil, true
		}
		return x, true
	case big.Int:
		return &x, true
	case uuid.UUID:
		return UUID(x), true
	case *regexp.Regexp:
		if x == nil {
			return nil, true
		}
		return Regex{Pattern: x.String()}, true
	}
	return resolveReflect(reflect.ValueOf(v))
}

// unsigned keeps values up to MaxInt64 exact; larger ones go through the
// big integer path, which keeps their low 64 bits.
func unsigned[T uint | uint64](v T) any {
	if fitsInt64(v) {
		return int64(v)
	}
	return new(big.Int).SetUint64(uint64(v))
}

func resolveReflect(rv reflect.Value) (any, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, true
		}
		return resolve(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsigned(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		if rv.IsNil() {
			return nil, true
		}
		return reflectMap{rv}, true
	case reflect.Slice:
		if rv.IsNil() {
			return nil, true
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), true
		}
		return reflectList{rv}, true
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return b, true
		}
		return reflectList{rv}, true
	case reflect.Struct:
		return structSource{rv, cachedFields(rv.Type())}, true
	}
	return nil, false
}

// asSource returns v as a document or array source when it is one.
func asSource(v any) (source, bool) {
	r, ok := resolve(v)
	if !ok {
		return nil, false
	}
	src, ok := r.(source)
	return src, ok
}
