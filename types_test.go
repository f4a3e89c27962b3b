package bson

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	const text = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	u, err := ParseUUID(text)
	require.NoError(t, err)
	assert.Equal(t, text, u.String())
	assert.Equal(t, UUID(uuid.MustParse(text)), u)

	_, err = ParseUUID("not-a-uuid")
	assert.Error(t, err)

	assert.NotEqual(t, NewUUID(), NewUUID())

	var back UUID
	require.NoError(t, back.UnmarshalText([]byte(text)))
	assert.Equal(t, u, back)
}

func TestObjectID(t *testing.T) {
	id, err := ObjectIDFromHex("650f00010203040506070809")
	require.NoError(t, err)
	assert.Equal(t, ObjectID{0x65, 0x0f, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, id)
	assert.Equal(t, "650f00010203040506070809", id.Hex())
	assert.Equal(t, `ObjectID("650f00010203040506070809")`, id.String())

	_, err = ObjectIDFromHex("650f")
	assert.ErrorIs(t, err, ErrInvalidHex)
	_, err = ObjectIDFromHex("zz0f00010203040506070809")
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestDateTime(t *testing.T) {
	want := DateTime(1709209800123)

	t.Run("FromMillis", func(t *testing.T) {
		assert.Equal(t, want, NewDateTime(1709209800123))
		assert.Equal(t, int64(1709209800123), want.Millis())
	})

	t.Run("FromBytes", func(t *testing.T) {
		dt, err := DateTimeFromBytes(want.Bytes())
		require.NoError(t, err)
		assert.Equal(t, want, dt)

		_, err = DateTimeFromBytes([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrSize)
	})

	t.Run("FromISO", func(t *testing.T) {
		dt, err := ParseDateTime("2024-02-29T12:30:00.123Z")
		require.NoError(t, err)
		assert.Equal(t, want, dt)

		dt, err = ParseDateTime("2024-02-29T14:30:00.123+02:00")
		require.NoError(t, err)
		assert.Equal(t, want, dt)

		dt, err = ParseDateTime("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), dt.Time())

		_, err = ParseDateTime("yesterday")
		assert.Error(t, err)
	})

	t.Run("ToTime", func(t *testing.T) {
		assert.Equal(t, time.Date(2024, 2, 29, 12, 30, 0, 123e6, time.UTC), want.Time())
		assert.Equal(t, "2024-02-29T12:30:00.123Z", want.String())
	})
}

func TestRegexCompile(t *testing.T) {
	re, err := Regex{Pattern: `^\d+$`}.Compile()
	require.NoError(t, err)
	assert.True(t, re.MatchString("123"))
	assert.Equal(t, `/^\d+$/`, Regex{Pattern: `^\d+$`}.String())
}

func TestDocumentHelpers(t *testing.T) {
	doc := D{{Key: "b", Value: 1}, {Key: "a", Value: D{{Key: "z", Value: true}}}, {Key: "b", Value: 2}}

	v, ok := doc.Lookup("b")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = doc.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, M{"a": D{{Key: "z", Value: true}}, "b": 2}, doc.Map())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"z":true},"b":2}`, string(out))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "long", TypeInt64.String())
	assert.Equal(t, "Type(0x13)", Type(0x13).String())
}
