// Package bson encodes JSON-like Go values to the BSON binary document
// format and decodes them back.
//
// Serialize computes the exact encoded size of a value first, allocates a
// single buffer of that size and fills it in one pass:
//
//	data, err := bson.Serialize(bson.D{{Key: "name", Value: "gopher"}, {Key: "age", Value: 13}})
//
// Deserialize validates the framing of every document it visits (declared
// length, terminators, names, type tags) and returns an ordered D:
//
//	doc, err := bson.Deserialize(data)
//	if errors.Is(err, bson.ErrSize) { ... }
//
// Accepted input values are nil, bool, every Go integer kind, *big.Int,
// float32/float64, string, []byte, Binary, UUID (and github.com/google/uuid.UUID),
// ObjectID, time.Time, DateTime, Regex (and *regexp.Regexp), the document
// types D and M, maps with string keys, structs (see the `bson` field tag),
// and A or any other non-byte slice or array. Values of any other kind are
// silently left out of the output. Nil pointers, slices and maps are written
// as null, except nil D, M and A values, which are written as empty documents.
//
// Integers in [-2147483647, 2147483647] are written as int32 elements, all
// others as int64. Regular expression flags are not supported: they are
// written empty and discarded when read.
//
// The functions in this package are safe for concurrent use. The only state
// shared between calls is a cache of struct field layouts.
package bson
