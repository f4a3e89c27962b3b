package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/bson"
)

func runCommand(t *testing.T, stdin []byte, args ...string) ([]byte, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, bytes.NewReader(stdin), &stdout, &stderr)
	return stdout.Bytes(), stderr.String(), err
}

func TestUsage(t *testing.T) {
	out, _, err := runCommand(t, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "encode")
	assert.Contains(t, string(out), "decode")

	out, _, err = runCommand(t, nil, "decode", "--help")
	require.NoError(t, err)
	assert.Contains(t, string(out), "--to")

	_, _, err = runCommand(t, nil, "frobnicate")
	assert.ErrorContains(t, err, `unknown command "frobnicate"`)

	_, _, err = runCommand(t, nil, "encode", "extra")
	assert.ErrorContains(t, err, "no positional arguments")
}

func TestEncodeJSON(t *testing.T) {
	input := []byte(`
// two documents, comments and trailing commas allowed
{"name": "gopher", "age": 13, "ratio": 0.5, "tags": ["a", "b",],}
{"_id": {"$oid": "650f00010203040506070809"}, "at": {"$date": "2024-02-29T12:30:00.123Z"}}
`)
	out, _, err := runCommand(t, input, "encode")
	require.NoError(t, err)

	r, err := bson.NewReader(bytes.NewReader(out))
	require.NoError(t, err)
	r.WithOptions(bson.DecodeOptions{PreserveUTC: true})

	first, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "name", Value: "gopher"},
		{Key: "age", Value: int32(13)},
		{Key: "ratio", Value: 0.5},
		{Key: "tags", Value: bson.A{"a", "b"}},
	}, first)

	second, err := r.Decode()
	require.NoError(t, err)
	oid, _ := bson.ObjectIDFromHex("650f00010203040506070809")
	assert.Equal(t, bson.D{{Key: "_id", Value: oid}, {Key: "at", Value: bson.DateTime(1709209800123)}}, second)
}

func TestEncodeOrdered(t *testing.T) {
	out, _, err := runCommand(t, []byte(`{"b": 1, "a": {"d": 2, "c": 3}}`), "encode", "--ordered")
	require.NoError(t, err)
	want, err := bson.SerializeOrdered(bson.D{{Key: "b", Value: 1}, {Key: "a", Value: bson.D{{Key: "d", Value: 2}, {Key: "c", Value: 3}}}})
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestEncodeYAML(t *testing.T) {
	input := []byte(`
name: gopher
big: 4294967296
nested:
  z: true
  a: ~
---
list: [1, two]
`)
	out, _, err := runCommand(t, input, "encode", "--from", "yaml")
	require.NoError(t, err)

	r, err := bson.NewReader(bytes.NewReader(out))
	require.NoError(t, err)
	first, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "name", Value: "gopher"},
		{Key: "big", Value: int64(4294967296)},
		{Key: "nested", Value: bson.D{{Key: "z", Value: true}, {Key: "a", Value: nil}}},
	}, first)

	second, err := r.Decode()
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "list", Value: bson.A{int32(1), "two"}}}, second)
}

func TestEncodeErrors(t *testing.T) {
	_, _, err := runCommand(t, []byte(`{"a": `), "encode")
	assert.Error(t, err)

	_, _, err = runCommand(t, []byte(`42`), "encode")
	assert.ErrorIs(t, err, bson.ErrNotDocument)

	_, _, err = runCommand(t, []byte(`{}`), "encode", "--from", "toml")
	assert.ErrorContains(t, err, "unknown input format")

	_, _, err = runCommand(t, []byte(`{"_id": {"$oid": "nope"}}`), "encode")
	assert.ErrorIs(t, err, bson.ErrInvalidHex)
}

func sampleStream(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := bson.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, w.Encode(bson.D{
		{Key: "name", Value: "gopher"},
		{Key: "id", Value: bson.ObjectID{0x65, 0x0f, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{Key: "at", Value: bson.DateTime(1709209800123)},
		{Key: "blob", Value: []byte("hi")},
	}))
	require.NoError(t, w.Encode(bson.D{{Key: "n", Value: int64(1) << 40}}))
	_, err = w.Result()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestDecodeJSON(t *testing.T) {
	out, _, err := runCommand(t, sampleStream(t), "decode")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"name":"gopher","id":{"$oid":"650f00010203040506070809"},"at":{"$date":"2024-02-29T12:30:00.123Z"},"blob":{"$binary":{"base64":"aGk=","subType":"00"}}}`, lines[0])
	assert.Equal(t, `{"n":1099511627776}`, lines[1])
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	stream := sampleStream(t)
	jsonOut, _, err := runCommand(t, stream, "decode", "--utc")
	require.NoError(t, err)
	bsonOut, _, err := runCommand(t, jsonOut, "encode")
	require.NoError(t, err)
	assert.Equal(t, stream, bsonOut)
}

func TestDecodeEncodeKeepsNumericTypes(t *testing.T) {
	stream, err := bson.Serialize(bson.D{
		{Key: "double", Value: 2.0},
		{Key: "negZero", Value: math.Copysign(0, -1)},
		{Key: "frac", Value: 0.25},
		{Key: "small", Value: int64(5)},
		{Key: "wide", Value: int64(1) << 40},
		{Key: "list", Value: bson.A{1.0, int32(1)}},
	})
	require.NoError(t, err)

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			text, _, err := runCommand(t, stream, "decode", "--to", format)
			require.NoError(t, err)
			again, _, err := runCommand(t, text, "encode", "--from", format)
			require.NoError(t, err)
			assert.Equal(t, stream, again)

			doc, err := bson.Deserialize(again)
			require.NoError(t, err)
			v, _ := doc.Lookup("double")
			assert.Equal(t, 2.0, v)
			v, _ = doc.Lookup("negZero")
			assert.True(t, math.Signbit(v.(float64)))
		})
	}

	t.Run("Int64ElementKeepsItsValue", func(t *testing.T) {
		// an int64 element holding 5, as other encoders may write it
		raw := []byte{16, 0, 0, 0, 0x12, 'l', 0, 5, 0, 0, 0, 0, 0, 0, 0, 0}
		text, _, err := runCommand(t, raw, "decode")
		require.NoError(t, err)
		assert.Equal(t, `{"l":{"$numberLong":"5"}}`, strings.TrimSpace(string(text)))

		again, _, err := runCommand(t, text, "encode")
		require.NoError(t, err)
		doc, err := bson.Deserialize(again)
		require.NoError(t, err)
		assert.Equal(t, bson.D{{Key: "l", Value: int32(5)}}, doc, "small integers are always written as int32")
	})
}

func TestDecodeYAML(t *testing.T) {
	out, _, err := runCommand(t, sampleStream(t), "decode", "--to", "yaml")
	require.NoError(t, err)

	dec := yaml.NewDecoder(bytes.NewReader(out))
	var first yaml.Node
	require.NoError(t, dec.Decode(&first))
	mapping := first.Content[0]
	require.Equal(t, yaml.MappingNode, mapping.Kind)
	assert.Equal(t, "name", mapping.Content[0].Value)
	assert.Equal(t, "id", mapping.Content[2].Value, "document order is kept")

	var second map[string]any
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, map[string]any{"n": 1099511627776}, second)
}

func TestDecodeCBOR(t *testing.T) {
	out, _, err := runCommand(t, sampleStream(t), "decode", "--to", "cbor")
	require.NoError(t, err)

	dec := cbor.NewDecoder(bytes.NewReader(out))
	var first map[string]any
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "gopher", first["name"])
	assert.Equal(t, "650f00010203040506070809", first["id"])
	assert.Equal(t, []byte("hi"), first["blob"])

	var second map[string]any
	require.NoError(t, dec.Decode(&second))
	assert.EqualValues(t, 1099511627776, second["n"])
}

func TestDecodeErrors(t *testing.T) {
	stream := sampleStream(t)
	_, _, err := runCommand(t, stream[:len(stream)-3], "decode")
	assert.ErrorContains(t, err, "document 1")

	_, _, err = runCommand(t, stream, "decode", "--to", "xml")
	assert.ErrorContains(t, err, "unknown output format")

	_, _, err = runCommand(t, []byte{5, 0, 0, 0, 1}, "decode")
	assert.ErrorIs(t, err, bson.ErrTermination)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.bson")
	require.NoError(t, os.WriteFile(in, []byte(`{"hello": "world"}`), 0o644))

	_, stderr, err := runCommand(t, nil, "encode", "-i", in, "-o", out, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "encoded document")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x16\x00\x00\x00\x02hello\x00\x06\x00\x00\x00world\x00\x00"), data)
}
