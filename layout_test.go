package snowflake

import (
	"strings"
	"testing"
	"time"
)

func TestLayoutConstants(t *testing.T) {
	if TimestampBits+WorkerIDBits+SequenceBits != 63 {
		t.Errorf("field widths sum to %d, want 63", TimestampBits+WorkerIDBits+SequenceBits)
	}
	if MaxWorkerID != 1023 {
		t.Errorf("MaxWorkerID = %d, want 1023", MaxWorkerID)
	}
	if MaxSequence != 4095 {
		t.Errorf("MaxSequence = %d, want 4095", MaxSequence)
	}
	if MaxTimestamp != 1<<41-1 {
		t.Errorf("MaxTimestamp = %d, want %d", MaxTimestamp, int64(1<<41-1))
	}
	if TimestampShift != 22 || WorkerIDShift != 12 {
		t.Errorf("shifts = %d/%d, want 22/12", TimestampShift, WorkerIDShift)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name                    string
		delta, worker, sequence uint64
		want                    uint64
	}{
		{"All zero", 0, 0, 0, 0},
		{"Delta 123 worker 5", 123, 5, 0, 515919872},
		{"Sequence only", 0, 0, 4095, 4095},
		{"Worker only", 0, 1023, 0, 1023 << 12},
		{"All fields max", MaxTimestamp, MaxWorkerID, MaxSequence, 1<<63 - 1},
		{"Worker masked", 0, 1024 + 7, 0, 7 << 12},
		{"Sequence masked", 1, 0, 4096 + 1, 1<<22 | 1},
		{"Delta masked", 1<<41 + 2, 0, 0, 2 << 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.delta, tt.worker, tt.sequence)
			if got != tt.want {
				t.Errorf("Encode(%d, %d, %d) = %d, want %d", tt.delta, tt.worker, tt.sequence, got, tt.want)
			}
			if got&reservedBit != 0 {
				t.Errorf("Encode() set the reserved bit: %#x", got)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	d, w, s := Decode(515919872)
	if d != 123 || w != 5 || s != 0 {
		t.Errorf("Decode(515919872) = (%d, %d, %d), want (123, 5, 0)", d, w, s)
	}

	// The reserved bit is ignored.
	d, w, s = Decode(1<<63 | 515919872)
	if d != 123 || w != 5 || s != 0 {
		t.Errorf("Decode(reserved|515919872) = (%d, %d, %d), want (123, 5, 0)", d, w, s)
	}

	d, w, s = Decode(^uint64(0))
	if d != MaxTimestamp || w != MaxWorkerID || s != MaxSequence {
		t.Errorf("Decode(max) = (%d, %d, %d)", d, w, s)
	}
}

func FuzzEncodeDecode(f *testing.F) {
	f.Add(uint64(0), uint64(0), uint64(0))
	f.Add(uint64(123), uint64(5), uint64(0))
	f.Add(uint64(MaxTimestamp), uint64(MaxWorkerID), uint64(MaxSequence))
	f.Add(^uint64(0), ^uint64(0), ^uint64(0))

	f.Fuzz(func(t *testing.T, delta, worker, seq uint64) {
		id := Encode(delta, worker, seq)
		if id&reservedBit != 0 {
			t.Fatalf("reserved bit set for (%d, %d, %d)", delta, worker, seq)
		}
		d, w, s := Decode(id)
		if d != delta&MaxTimestamp || w != worker&MaxWorkerID || s != seq&MaxSequence {
			t.Fatalf("Decode(Encode(%d, %d, %d)) = (%d, %d, %d)", delta, worker, seq, d, w, s)
		}
	})
}

func FuzzDecodeEncode(f *testing.F) {
	f.Add(uint64(0))
	f.Add(uint64(515919872))
	f.Add(^uint64(0))

	f.Fuzz(func(t *testing.T, id uint64) {
		d, w, s := Decode(id)
		if got := Encode(d, w, s); got != id&^reservedBit {
			t.Fatalf("Encode(Decode(%#x)) = %#x", id, got)
		}
	})
}

func TestCapacity(t *testing.T) {
	c := Capacity()
	if c.MaxWorkers != 1024 {
		t.Errorf("MaxWorkers = %d, want 1024", c.MaxWorkers)
	}
	if c.IDsPerMillisecond != 4096 {
		t.Errorf("IDsPerMillisecond = %d, want 4096", c.IDsPerMillisecond)
	}
	if c.ThroughputPerWorker != 4096000 {
		t.Errorf("ThroughputPerWorker = %d, want 4096000", c.ThroughputPerWorker)
	}
	if c.TotalThroughput != 4096000*1024 {
		t.Errorf("TotalThroughput = %d, want %d", c.TotalThroughput, 4096000*1024)
	}
	if c.Lifespan != time.Duration(1<<41)*time.Millisecond {
		t.Errorf("Lifespan = %v", c.Lifespan)
	}

	s := c.String()
	for _, want := range []string{"MaxWorkers: 1024", "4096000/sec", "69 years"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
