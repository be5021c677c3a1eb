package snowflake

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestIDEncodings(t *testing.T) {
	tests := []struct {
		name   string
		id     ID
		hex    string
		base58 string
		base62 string
	}{
		{"Zero", 0, "0", "1", "0"},
		{"Single digit", 57, "39", "Z", "V"},
		{"Two digits", 62, "3e", "25", "10"},
		{"Known layout", 515919872, "1ec05000", "", ""},
		{"Max", math.MaxUint64, "ffffffffffffffff", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Hex(); got != tt.hex {
				t.Errorf("Hex() = %q, want %q", got, tt.hex)
			}
			if tt.base58 != "" && tt.id.Base58() != tt.base58 {
				t.Errorf("Base58() = %q, want %q", tt.id.Base58(), tt.base58)
			}
			if tt.base62 != "" && tt.id.Base62() != tt.base62 {
				t.Errorf("Base62() = %q, want %q", tt.id.Base62(), tt.base62)
			}

			for _, c := range []struct {
				format string
				enc    string
				parse  func(string) (ID, error)
			}{
				{"hex", tt.id.Hex(), ParseHex},
				{"base58", tt.id.Base58(), ParseBase58},
				{"base62", tt.id.Base62(), ParseBase62},
				{"decimal", tt.id.String(), ParseString},
			} {
				got, err := c.parse(c.enc)
				if err != nil {
					t.Errorf("parse %s %q error = %v", c.format, c.enc, err)
					continue
				}
				if got != tt.id {
					t.Errorf("parse %s %q = %d, want %d", c.format, c.enc, got, tt.id)
				}
			}
		})
	}
}

func TestParseHexUppercase(t *testing.T) {
	id, err := ParseHex("1EC05000")
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if id != 515919872 {
		t.Errorf("ParseHex() = %d, want 515919872", id)
	}
}

func TestInvalidEncodings(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (ID, error)
		input string
		want  error
	}{
		{"Base58 empty", ParseBase58, "", ErrInvalidBase58},
		{"Base58 zero digit", ParseBase58, "10", ErrInvalidBase58},
		{"Base58 too long", ParseBase58, "111111111111", ErrStringTooLong},
		{"Base58 overflow", ParseBase58, "ZZZZZZZZZZZ", ErrIntegerOverflow},
		{"Base62 symbol", ParseBase62, "ab-c", ErrInvalidBase62},
		{"Base62 too long", ParseBase62, "000000000000", ErrStringTooLong},
		{"Base62 overflow", ParseBase62, "ZZZZZZZZZZZ", ErrIntegerOverflow},
		{"Hex letter", ParseHex, "12g4", ErrInvalidHex},
		{"Hex too long", ParseHex, "00000000000000000", ErrStringTooLong},
		{"Decimal empty", ParseString, "", ErrInvalidIDFormat},
		{"Decimal negative", ParseString, "-1", ErrInvalidIDFormat},
		{"Decimal plus", ParseString, "+1", ErrInvalidIDFormat},
		{"Decimal letters", ParseString, "12a", ErrInvalidIDFormat},
		{"Decimal overflow", ParseString, "18446744073709551616", ErrInvalidIDFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}
			if !errors.Is(err, ErrInvalidIDFormat) {
				t.Errorf("parse(%q) error should also match ErrInvalidIDFormat", tt.input)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) || parseErr.Input != tt.input {
				t.Errorf("parse(%q) error = %#v, want *ParseError with the input", tt.input, err)
			}
		})
	}
}

func TestParseStringMax(t *testing.T) {
	id, err := ParseString("18446744073709551615")
	if err != nil {
		t.Fatalf("ParseString(max) error = %v", err)
	}
	if id != math.MaxUint64 {
		t.Errorf("ParseString(max) = %d", id)
	}
}

func TestIDJSON(t *testing.T) {
	type payload struct {
		ID ID `json:"id"`
	}

	data, err := json.Marshal(payload{ID: 515919872})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"id":"515919872"}` {
		t.Errorf("json.Marshal() = %s", data)
	}

	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"String form", `{"id":"515919872"}`, 515919872, false},
		{"Number form", `{"id":515919872}`, 515919872, false},
		{"Null", `{"id":null}`, 0, false},
		{"Negative", `{"id":"-5"}`, 0, true},
		{"Garbage", `{"id":"abc"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			err := json.Unmarshal([]byte(tt.input), &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("json.Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && p.ID != tt.want {
				t.Errorf("json.Unmarshal(%s) = %d, want %d", tt.input, p.ID, tt.want)
			}
		})
	}
}

func TestIDText(t *testing.T) {
	id := ID(987654321)
	text, err := id.MarshalText()
	if err != nil || string(text) != "987654321" {
		t.Fatalf("MarshalText() = %q, %v", text, err)
	}
	var back ID
	if err := back.UnmarshalText(text); err != nil || back != id {
		t.Errorf("UnmarshalText() = %d, %v", back, err)
	}
	if err := back.UnmarshalText([]byte("nope")); !errors.Is(err, ErrInvalidIDFormat) {
		t.Errorf("UnmarshalText(nope) error = %v", err)
	}
}

func TestIDBinary(t *testing.T) {
	id := ID(0x0102030405060708)
	data, err := id.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if string(data) != string(want) {
		t.Errorf("MarshalBinary() = %v, want %v", data, want)
	}

	var back ID
	if err := back.UnmarshalBinary(data); err != nil || back != id {
		t.Errorf("UnmarshalBinary() = %d, %v", back, err)
	}
	if err := back.UnmarshalBinary(data[:7]); !errors.Is(err, ErrInvalidIDFormat) {
		t.Errorf("UnmarshalBinary(7 bytes) error = %v", err)
	}
}

func TestIDSQL(t *testing.T) {
	id := ID(515919872)
	v, err := id.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != int64(515919872) {
		t.Errorf("Value() = %#v, want int64(515919872)", v)
	}

	if _, err := ID(math.MaxUint64).Value(); !errors.Is(err, ErrInvalidIDFormat) {
		t.Errorf("Value(max uint64) error = %v, want ErrInvalidIDFormat", err)
	}

	tests := []struct {
		name    string
		value   any
		want    ID
		wantErr bool
	}{
		{"int64", int64(515919872), 515919872, false},
		{"bytes", []byte("515919872"), 515919872, false},
		{"string", "515919872", 515919872, false},
		{"nil", nil, 0, false},
		{"negative", int64(-1), 0, true},
		{"float", 1.5, 0, true},
		{"bad string", "x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ID(42)
			err := got.Scan(tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Scan(%v) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestIDComponents(t *testing.T) {
	id := ID(Encode(123456, 789, 1011))
	if id.Delta() != 123456 || id.Worker() != 789 || id.Sequence() != 1011 {
		t.Errorf("components = (%d, %d, %d), want (123456, 789, 1011)", id.Delta(), id.Worker(), id.Sequence())
	}
	if id.Int64() != int64(id.Uint64()) {
		t.Errorf("Int64() = %d, Uint64() = %d", id.Int64(), id.Uint64())
	}
}

func TestIDComparison(t *testing.T) {
	a, b := ID(100), ID(200)
	if !a.Before(b) || a.After(b) {
		t.Error("100 should be before 200")
	}
	if b.Before(a) || !b.After(a) {
		t.Error("200 should be after 100")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Errorf("Compare() = %d/%d/%d", a.Compare(b), b.Compare(a), a.Compare(a))
	}
}

func BenchmarkIDEncodings(b *testing.B) {
	id := ID(Encode(1<<40, 512, 2048))
	b.Run("Base58", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = id.Base58()
		}
	})
	b.Run("Base62", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = id.Base62()
		}
	})
	b.Run("Hex", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = id.Hex()
		}
	})
}

func BenchmarkIDParsing(b *testing.B) {
	id := ID(Encode(1<<40, 512, 2048))
	s58, s62, hex := id.Base58(), id.Base62(), id.Hex()
	b.Run("Base58", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ParseBase58(s58)
		}
	})
	b.Run("Base62", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ParseBase62(s62)
		}
	})
	b.Run("Hex", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ParseHex(hex)
		}
	})
}
