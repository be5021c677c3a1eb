package snowflake

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"
)

// FuzzIDJSON tests JSON marshaling/unmarshaling round-trips.
func FuzzIDJSON(f *testing.F) {
	for _, seed := range encodingSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, original uint64) {
		id := ID(original)

		data, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("json.Marshal() failed for ID %d: %v", original, err)
		}

		var decoded ID
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("json.Unmarshal() failed for ID %d (JSON: %s): %v", original, data, err)
		}
		if decoded != id {
			t.Errorf("JSON round-trip failed: original=%d, decoded=%d (JSON: %s)", id, decoded, data)
		}
	})
}

// FuzzParseString checks ParseString agrees with strconv on unsigned decimal input.
func FuzzParseString(f *testing.F) {
	for _, s := range []string{"0", "515919872", "18446744073709551615", "18446744073709551616", "-1", "+1", "", "1e3"} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, s string) {
		id, err := ParseString(s)
		want, wantErr := strconv.ParseUint(s, 10, 64)
		if s != "" && s[0] == '+' {
			wantErr = strconv.ErrSyntax
		}
		if (err != nil) != (wantErr != nil) {
			t.Fatalf("ParseString(%q) error = %v, strconv error = %v", s, err, wantErr)
		}
		if err == nil && uint64(id) != want {
			t.Fatalf("ParseString(%q) = %d, want %d", s, id, want)
		}
	})
}

// FuzzParseComponents checks Parse recovers the fields of any packed ID.
func FuzzParseComponents(f *testing.F) {
	f.Add(int64(0), int64(0), int64(0))
	f.Add(int64(123), int64(5), int64(0))
	f.Add(int64(MaxTimestamp), int64(MaxWorkerID), int64(MaxSequence))

	cfg := DefaultConfig()
	f.Fuzz(func(t *testing.T, delta, worker, seq int64) {
		if delta < 0 || delta > MaxTimestamp || worker < 0 || worker > MaxWorkerID || seq < 0 || seq > MaxSequence {
			return
		}
		id := ID(Encode(uint64(delta), uint64(worker), uint64(seq)))
		p := Parse(id, cfg)
		if p.Delta != delta || p.WorkerID != worker || p.Sequence != seq {
			t.Fatalf("Parse(%d) = %+v, want delta=%d worker=%d seq=%d", id, p, delta, worker, seq)
		}
		if p.Timestamp != cfg.Epoch()+delta {
			t.Fatalf("Timestamp = %d, want %d", p.Timestamp, cfg.Epoch()+delta)
		}
		if !p.Time().Equal(time.UnixMilli(cfg.Epoch() + delta)) {
			t.Fatalf("Time() = %v", p.Time())
		}
	})
}
