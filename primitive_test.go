package bson

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutInt32(t *testing.T) {
	b := make([]byte, 4)
	assert.Equal(t, 4, putInt32(b, 0, 0x11223344))
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, b)

	putInt32(b, 0, -1)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, b)

	t.Run("WrapsOnOverflow", func(t *testing.T) {
		wide := int64(1<<32 + 5)
		putInt32(b, 0, int32(wide))
		assert.Equal(t, []byte{5, 0, 0, 0}, b)
	})
}

func TestPutCString(t *testing.T) {
	b := make([]byte, 16)
	n := putCString(b, 1, "héllo")
	assert.Equal(t, 7, n, "é is two bytes in UTF-8, plus the terminator")
	assert.Equal(t, []byte{0, 'h', 0xc3, 0xa9, 'l', 'l', 'o', 0}, b[:8])
	assert.Equal(t, 6, utf8Length("héllo"))
	assert.Equal(t, 4, utf8Length("𝄞"))
}

func TestPutDouble(t *testing.T) {
	b := make([]byte, 8)
	putDouble(b, 0, 1.0)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, b)
	assert.Equal(t, 1.0, readDouble(b, 0))

	putDouble(b, 0, math.Inf(-1))
	assert.True(t, math.IsInf(readDouble(b, 0), -1))
}

func TestInt64TwosComplement(t *testing.T) {
	cases := []struct {
		name  string
		value int64
		want  []byte
	}{
		{"Zero", 0, []byte{0, 0, 0, 0, 0, 0, 0, 0}},
		{"MinusOne", -1, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
		{"CarryIntoHighWord", 1 << 32, []byte{0, 0, 0, 0, 1, 0, 0, 0}},
		{"NegativeHighWord", -(1 << 32), []byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}},
		{"Max", math.MaxInt64, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f}},
		{"Min", math.MinInt64, []byte{0, 0, 0, 0, 0, 0, 0, 0x80}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			native := make([]byte, 8)
			assert.Equal(t, 8, putInt64(native, 0, tc.value))
			assert.Equal(t, tc.want, native)

			wide := make([]byte, 8)
			assert.Equal(t, 8, putBigInt64(wide, 0, big.NewInt(tc.value)))
			assert.Equal(t, tc.want, wide, "big integer path must match the native path")

			assert.Equal(t, tc.value, readInt64(native, 0))
			assert.Equal(t, 0, readBigInt64(native, 0).Cmp(big.NewInt(tc.value)))
		})
	}
}

func TestPutBigInt64Truncates(t *testing.T) {
	// 2^64 + 5 keeps only its low 64 bits.
	v := new(big.Int).Lsh(big.NewInt(1), 64)
	v.Add(v, big.NewInt(5))
	b := make([]byte, 8)
	putBigInt64(b, 0, v)
	assert.Equal(t, int64(5), readInt64(b, 0))
}

func TestReadInt64AsFloat(t *testing.T) {
	b := make([]byte, 8)
	for _, v := range []int64{0, 1, -1, 1<<40 + 3, -(1<<40 + 3), 1 << 53, -(1 << 53), math.MaxInt32 + 1} {
		putInt64(b, 0, v)
		require.Equal(t, float64(v), readInt64AsFloat(b, 0), "value %d", v)
	}
}

func TestFitsInt32(t *testing.T) {
	assert.True(t, fitsInt32(int64(math.MaxInt32)))
	assert.True(t, fitsInt32(int64(-math.MaxInt32)))
	assert.False(t, fitsInt32(int64(math.MaxInt32)+1))
	assert.False(t, fitsInt32(int64(math.MinInt32)), "-2^31 is written as int64")
	assert.True(t, fitsInt32(int8(-128)))

	assert.True(t, fitsInt64(uint64(math.MaxInt64)))
	assert.False(t, fitsInt64(uint64(math.MaxInt64)+1))
}
