// Package snowflake - id.go provides the ID type and its representations.
//
// The ID type wraps the packed 64-bit value and implements the standard
// encoding, database and formatting interfaces so it can travel through JSON
// APIs, SQL columns and binary protocols without manual conversion.

package snowflake

import (
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// ID is a generated Snowflake ID.
//
// # Interface Implementations
//
//   - json.Marshaler/Unmarshaler: JavaScript-safe JSON encoding (string)
//   - encoding.TextMarshaler/Unmarshaler: For YAML, TOML, flags
//   - encoding.BinaryMarshaler/Unmarshaler: 8 bytes big-endian
//   - sql.Scanner/driver.Valuer: BIGINT columns
//   - fmt.Stringer: decimal
//
// Issued IDs always have bit 63 clear, so they also fit a signed 64-bit integer.
//
// Example:
//
//	id, _ := snowflake.GenerateID()
//	fmt.Printf("ID: %d\n", id)
//	fmt.Printf("Base62: %s\n", id.Base62())
//	fmt.Printf("Worker: %d\n", id.Worker())
type ID uint64

// ============================================================================
// Basic Conversions
// ============================================================================

// Uint64 returns the ID as a uint64.
func (id ID) Uint64() uint64 {
	return uint64(id)
}

// Int64 returns the ID as an int64, for APIs and columns that are signed.
// IDs with the reserved bit set come out negative.
func (id ID) Int64() int64 {
	return int64(id)
}

// String returns the decimal string representation of the ID.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Hex returns the lowercase hexadecimal form without leading zeros.
//
// Example:
//
//	snowflake.ID(515919872).Hex() // "1ec05000"
func (id ID) Hex() string {
	return encodeHex(uint64(id))
}

// Base58 returns a Bitcoin-style base58 encoded string.
//
// Excludes visually similar characters (0, O, I, l) to minimize copy-paste errors.
func (id ID) Base58() string {
	return encodeBase58(uint64(id))
}

// Base62 returns a URL-safe base62 encoded string (0-9, a-z, A-Z).
//
// This is the recommended encoding for REST APIs and URLs:
//
//	/api/users/7n42dgm5tfl
func (id ID) Base62() string {
	return encodeBase62(uint64(id))
}

// Bytes returns the ID as 8 bytes, big-endian.
func (id ID) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// ============================================================================
// Components
// ============================================================================

// Delta returns the timestamp field: milliseconds since the generating epoch.
// Use Parse to turn it into an absolute time.
func (id ID) Delta() int64 {
	d, _, _ := Decode(uint64(id))
	return int64(d)
}

// Worker returns the worker ID field (0-1023).
func (id ID) Worker() int64 {
	_, w, _ := Decode(uint64(id))
	return int64(w)
}

// Sequence returns the sequence field (0-4095).
func (id ID) Sequence() int64 {
	_, _, s := Decode(uint64(id))
	return int64(s)
}

// ============================================================================
// Comparison
// ============================================================================

// Before reports whether id sorts before other. For IDs from one manager this
// is issue order.
func (id ID) Before(other ID) bool { return id < other }

// After reports whether id sorts after other.
func (id ID) After(other ID) bool { return id > other }

// Compare returns -1, 0 or +1.
func (id ID) Compare(other ID) int {
	switch {
	case id < other:
		return -1
	case id > other:
		return 1
	default:
		return 0
	}
}

// ============================================================================
// Marshaling
// ============================================================================

// MarshalBinary implements encoding.BinaryMarshaler.
func (id ID) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must be exactly 8 bytes.
func (id *ID) UnmarshalBinary(data []byte) error {
	v, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalJSON implements json.Marshaler.
//
// Returns the ID as a JSON string (not number) to avoid precision loss in JavaScript.
// JavaScript's Number type can only represent integers up to 2^53 exactly, and
// Snowflake IDs exceed that within days of the epoch.
//
//	{"id": "1234567890123456789"}
func (id ID) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 22)
	b = append(b, '"')
	b = strconv.AppendUint(b, uint64(id), 10)
	b = append(b, '"')
	return b, nil
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Accepts both string and number formats; JSON null leaves the ID unchanged.
func (id *ID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := ParseString(s)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return strconv.AppendUint(nil, uint64(id), 10), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := ParseString(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ============================================================================
// SQL Database Integration
// ============================================================================

// Scan implements sql.Scanner.
//
// Supported column values:
//   - int64: BIGINT / INTEGER columns (must be non-negative)
//   - []byte, string: decimal text in VARCHAR/TEXT columns
//   - nil: zero ID
//
// Example:
//
//	var id snowflake.ID
//	err := db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&id)
func (id *ID) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*id = 0
	case int64:
		if v < 0 {
			return newParseError(strconv.FormatInt(v, 10), "negative column value", nil)
		}
		*id = ID(v)
	case []byte:
		parsed, err := ParseString(string(v))
		if err != nil {
			return err
		}
		*id = parsed
	case string:
		parsed, err := ParseString(v)
		if err != nil {
			return err
		}
		*id = parsed
	default:
		return fmt.Errorf("snowflake: cannot scan %T into ID", value)
	}
	return nil
}

// Value implements driver.Valuer.
//
// IDs are stored as int64, which works with BIGINT columns in PostgreSQL and
// MySQL and INTEGER PRIMARY KEY in SQLite. An ID above math.MaxInt64 cannot be
// stored that way and is refused.
func (id ID) Value() (driver.Value, error) {
	if uint64(id) > math.MaxInt64 {
		return nil, newParseError(id.String(), "exceeds the signed 64-bit column range", nil)
	}
	return int64(id), nil
}

// ============================================================================
// Parsing Functions
// ============================================================================

// ParseString parses a decimal string into an ID.
//
// Empty, signed, non-numeric and out-of-range input yields a *ParseError that
// matches ErrInvalidIDFormat.
//
// Example:
//
//	id, err := snowflake.ParseString("1234567890123456789")
func ParseString(s string) (ID, error) {
	if s == "" {
		return 0, newParseError(s, "empty input", nil)
	}
	if s[0] == '+' || s[0] == '-' {
		return 0, newParseError(s, "sign not allowed", nil)
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, newParseError(s, "not an unsigned 64-bit decimal", err)
	}
	return ID(v), nil
}

// ParseHex parses a hexadecimal string (either case) into an ID.
func ParseHex(s string) (ID, error) {
	v, err := decodeHex(s)
	if err != nil {
		return 0, newParseError(s, "not hexadecimal", err)
	}
	return ID(v), nil
}

// ParseBase58 parses a Bitcoin-style base58 string into an ID.
func ParseBase58(s string) (ID, error) {
	v, err := decodeBase58(s)
	if err != nil {
		return 0, newParseError(s, "not base58", err)
	}
	return ID(v), nil
}

// ParseBase62 parses a URL-safe base62 string into an ID.
//
// Example:
//
//	id, err := snowflake.ParseBase62("7n42dgm5tfl")
func ParseBase62(s string) (ID, error) {
	v, err := decodeBase62(s)
	if err != nil {
		return 0, newParseError(s, "not base62", err)
	}
	return ID(v), nil
}

// ParseBytes parses the 8-byte big-endian form produced by Bytes.
func ParseBytes(b []byte) (ID, error) {
	if len(b) != 8 {
		return 0, newParseError(fmt.Sprintf("%x", b), "binary form must be 8 bytes, got "+strconv.Itoa(len(b)), nil)
	}
	return ID(binary.BigEndian.Uint64(b)), nil
}
