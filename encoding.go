// Package snowflake - encoding.go converts IDs to and from compact text forms.
//
// # Supported Encodings
//
//   - Base58: Bitcoin-style, no confusing characters (0, O, I, l)
//   - Base62: URL-safe alphanumeric
//   - Hex: 4 bits/char, lowercase on output, either case on input
//
// All functions are safe for concurrent use. The lookup tables are built once
// at package init time and only read afterwards.

package snowflake

import (
	"errors"
	"math/bits"
)

// Maximum string lengths for each encoding of a 64-bit value.
// Longer inputs are rejected before decoding.
const (
	MaxBase58Len = 11 // 58^11 > 2^64
	MaxBase62Len = 11 // 62^11 > 2^64
	MaxHexLen    = 16
)

// Encoding errors. Parse functions wrap them in a *ParseError, so they also
// match ErrInvalidIDFormat.
var (
	ErrInvalidBase58   = errors.New("invalid base58 encoding")
	ErrInvalidBase62   = errors.New("invalid base62 encoding")
	ErrInvalidHex      = errors.New("invalid hexadecimal encoding")
	ErrStringTooLong   = errors.New("encoded string exceeds maximum length")
	ErrIntegerOverflow = errors.New("decoded value would overflow 64 bits")
)

// Base58 uses the Bitcoin alphabet.
const encodeBase58Map = "123456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// Base62 uses 0-9, a-z, A-Z in that order.
const encodeBase62Map = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const encodeHexMap = "0123456789abcdef"

// 0xFF marks a byte that is not part of the alphabet.
var (
	decodeBase58Map [256]byte
	decodeBase62Map [256]byte
	decodeHexMap    [256]byte
)

func init() {
	for i := 0; i < 256; i++ {
		decodeBase58Map[i] = 0xFF
		decodeBase62Map[i] = 0xFF
		decodeHexMap[i] = 0xFF
	}

	for i := 0; i < len(encodeBase58Map); i++ {
		decodeBase58Map[encodeBase58Map[i]] = byte(i)
	}
	for i := 0; i < len(encodeBase62Map); i++ {
		decodeBase62Map[encodeBase62Map[i]] = byte(i)
	}
	for i := 0; i < len(encodeHexMap); i++ {
		decodeHexMap[encodeHexMap[i]] = byte(i)
		if c := encodeHexMap[i]; c >= 'a' && c <= 'f' {
			decodeHexMap[c-'a'+'A'] = byte(i)
		}
	}
}

// encodeRadix renders v in the given alphabet, most significant digit first.
// Zero renders as the alphabet's first character.
func encodeRadix(v uint64, alphabet string, maxLen int) string {
	base := uint64(len(alphabet))
	if v < base {
		return string(alphabet[v])
	}

	b := make([]byte, maxLen)
	i := maxLen
	for v > 0 {
		i--
		b[i] = alphabet[v%base]
		v /= base
	}
	return string(b[i:])
}

// decodeRadix is the inverse of encodeRadix.
//
// The length is checked before any work; invalid characters and values that do
// not fit 64 bits return invalid and ErrIntegerOverflow respectively.
func decodeRadix(s string, table *[256]byte, base uint64, maxLen int, invalid error) (uint64, error) {
	if s == "" {
		return 0, invalid
	}
	if len(s) > maxLen {
		return 0, ErrStringTooLong
	}

	var v uint64
	for i := 0; i < len(s); i++ {
		d := table[s[i]]
		if d == 0xFF {
			return 0, invalid
		}

		hi, lo := bits.Mul64(v, base)
		if hi != 0 {
			return 0, ErrIntegerOverflow
		}
		var carry uint64
		v, carry = bits.Add64(lo, uint64(d), 0)
		if carry != 0 {
			return 0, ErrIntegerOverflow
		}
	}
	return v, nil
}

func encodeBase58(v uint64) string { return encodeRadix(v, encodeBase58Map, MaxBase58Len) }

func encodeBase62(v uint64) string { return encodeRadix(v, encodeBase62Map, MaxBase62Len) }

// encodeHex uses shifts instead of division.
func encodeHex(v uint64) string {
	if v == 0 {
		return "0"
	}
	var b [MaxHexLen]byte
	i := MaxHexLen
	for v > 0 {
		i--
		b[i] = encodeHexMap[v&0x0F]
		v >>= 4
	}
	return string(b[i:])
}

func decodeBase58(s string) (uint64, error) {
	return decodeRadix(s, &decodeBase58Map, 58, MaxBase58Len, ErrInvalidBase58)
}

func decodeBase62(s string) (uint64, error) {
	return decodeRadix(s, &decodeBase62Map, 62, MaxBase62Len, ErrInvalidBase62)
}

func decodeHex(s string) (uint64, error) {
	return decodeRadix(s, &decodeHexMap, 16, MaxHexLen, ErrInvalidHex)
}
