package bson

import (
	"encoding/binary"
	"math"
	"math/big"

	"golang.org/x/exp/constraints"
)

// LE is the byte order of every fixed-width field on the wire.
var LE = binary.LittleEndian

// The int32 element range is symmetric: -2147483648 is written as an int64
// element so that every integer written as int32 has a positive counterpart.
const (
	maxInt32Element = math.MaxInt32
	minInt32Element = -math.MaxInt32
)

// fitsInt32 reports whether v is written as an int32 element rather than int64.
func fitsInt32[T constraints.Signed](v T) bool {
	return int64(v) >= minInt32Element && int64(v) <= maxInt32Element
}

// fitsInt64 reports whether an unsigned value survives the conversion to int64.
func fitsInt64[T constraints.Unsigned](v T) bool {
	return uint64(v) <= math.MaxInt64
}

func utf8Length(s string) int { return len(s) }

// putInt32 writes v little-endian at off and returns the number of bytes written.
// Values outside the int32 range are expected to be truncated by the caller's conversion.
func putInt32(b []byte, off int, v int32) int {
	LE.PutUint32(b[off:], uint32(v))
	return 4
}

func putInt64(b []byte, off int, v int64) int {
	LE.PutUint64(b[off:], uint64(v))
	return 8
}

func putDouble(b []byte, off int, v float64) int {
	LE.PutUint64(b[off:], math.Float64bits(v))
	return 8
}

// putCString writes s followed by a single 0x00. s must not contain 0x00 itself.
func putCString(b []byte, off int, s string) int {
	n := copy(b[off:], s)
	b[off+n] = 0
	return n + 1
}

var byteMask = big.NewInt(0xff)

// putBigInt64 writes the low 64 bits of v in two's complement, built one byte
// at a time from the magnitude. Values wider than 64 bits are truncated.
func putBigInt64(b []byte, off int, v *big.Int) int {
	var word [8]byte
	mag := new(big.Int).Abs(v)
	low := new(big.Int)
	for i := range word {
		word[i] = byte(low.And(mag, byteMask).Uint64())
		mag.Rsh(mag, 8)
	}
	if v.Sign() < 0 {
		carry := uint16(1)
		for i := range word {
			sum := uint16(^word[i]) + carry
			word[i] = byte(sum)
			carry = sum >> 8
		}
	}
	copy(b[off:off+8], word[:])
	return 8
}

func readInt32(b []byte, off int) int32 { return int32(LE.Uint32(b[off:])) }

func readInt64(b []byte, off int) int64 { return int64(LE.Uint64(b[off:])) }

func readDouble(b []byte, off int) float64 { return math.Float64frombits(LE.Uint64(b[off:])) }

// readInt64AsFloat rebuilds an int64 field as hi*2^32 + lo with the low word
// taken as unsigned. Magnitudes above 2^53 lose precision.
func readInt64AsFloat(b []byte, off int) float64 {
	lo := LE.Uint32(b[off:])
	hi := int32(LE.Uint32(b[off+4:]))
	return float64(hi)*(1<<32) + float64(lo)
}

// readBigInt64 is the inverse of putBigInt64. The sign comes from the top bit of byte 7.
func readBigInt64(b []byte, off int) *big.Int {
	var word [8]byte
	copy(word[:], b[off:off+8])
	negative := word[7]&0x80 != 0
	if negative {
		carry := uint16(1)
		for i := range word {
			sum := uint16(^word[i]) + carry
			word[i] = byte(sum)
			carry = sum >> 8
		}
	}
	// big.Int.SetBytes takes big-endian input.
	var be [8]byte
	for i := range word {
		be[7-i] = word[i]
	}
	v := new(big.Int).SetBytes(be[:])
	if negative {
		v.Neg(v)
	}
	return v
}
