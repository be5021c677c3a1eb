// Package snowflake - layout.go packs and unpacks the three ID fields.
//
// The layout is fixed and is the wire contract for IDs that leave the process:
//
//	bit 63      reserved, always 0
//	bits 62-22  timestamp delta from the epoch (41 bits, milliseconds)
//	bits 21-12  worker ID (10 bits)
//	bits 11-0   sequence (12 bits)
//
// Fields are packed most-significant-first with no gaps.

package snowflake

import (
	"fmt"
	"time"
)

const (
	// TimestampBits is the width of the timestamp delta field.
	TimestampBits = 41

	// WorkerIDBits defines bits allocated for worker ID (10 bits = 1024 workers).
	WorkerIDBits = 10

	// SequenceBits defines bits for sequence number (12 bits = 4096 IDs per millisecond).
	SequenceBits = 12

	// MaxTimestamp is the largest delta the timestamp field can hold (2^41 - 1).
	MaxTimestamp = -1 ^ (-1 << TimestampBits)

	// MaxWorkerID is the maximum valid worker ID (1023).
	// Calculated using bitwise operations: -1 ^ (-1 << 10) = 0b1111111111 = 1023
	MaxWorkerID = -1 ^ (-1 << WorkerIDBits)

	// MaxSequence is the maximum sequence number (4095).
	MaxSequence = -1 ^ (-1 << SequenceBits)

	// TimestampShift is the number of bits to shift timestamp left (22 bits).
	TimestampShift = WorkerIDBits + SequenceBits

	// WorkerIDShift is the number of bits to shift worker ID left (12 bits).
	WorkerIDShift = SequenceBits

	// reservedBit is the sign bit, never set on an issued ID.
	reservedBit = uint64(1) << 63
)

// Encode packs a timestamp delta, worker ID and sequence into a 64-bit ID.
//
// Each field is masked to its width, so the result always has bit 63 clear and
// Decode(Encode(d, w, s)) returns the masked inputs. Range checking is the
// caller's job; Manager never passes out-of-range values.
//
//	ID = (delta << 22) | (workerID << 12) | sequence
//
// Example for delta=123, workerID=5, sequence=0:
//
//	123 << 22 = 0x1EC00000
//	  5 << 12 = 0x00005000
//	result    = 0x1EC05000 (515919872)
func Encode(delta, workerID, sequence uint64) uint64 {
	return (delta&MaxTimestamp)<<TimestampShift |
		(workerID&MaxWorkerID)<<WorkerIDShift |
		sequence&MaxSequence
}

// Decode splits an ID into its timestamp delta, worker ID and sequence.
//
// Decode is defined for every 64-bit value; the reserved bit is ignored.
func Decode(id uint64) (delta, workerID, sequence uint64) {
	delta = (id >> TimestampShift) & MaxTimestamp
	workerID = (id >> WorkerIDShift) & MaxWorkerID
	sequence = id & MaxSequence
	return
}

// LayoutCapacity holds calculated capacity information for the bit layout.
//
// This is useful for capacity planning and for the CLI's layout report.
type LayoutCapacity struct {
	// MaxWorkers is the number of distinct worker IDs.
	MaxWorkers int64

	// IDsPerMillisecond is the per-worker sequence space.
	IDsPerMillisecond int64

	// Lifespan is the duration before the timestamp field overflows (from the epoch).
	Lifespan time.Duration

	// ThroughputPerWorker is the theoretical max IDs/sec per worker.
	ThroughputPerWorker int64

	// TotalThroughput is the theoretical max IDs/sec across all workers.
	TotalThroughput int64
}

// Capacity returns the theoretical capacity of the layout.
func Capacity() LayoutCapacity {
	workers := int64(MaxWorkerID + 1)
	perMilli := int64(MaxSequence + 1)
	perWorker := perMilli * 1000
	return LayoutCapacity{
		MaxWorkers:          workers,
		IDsPerMillisecond:   perMilli,
		Lifespan:            time.Duration(MaxTimestamp+1) * time.Millisecond,
		ThroughputPerWorker: perWorker,
		TotalThroughput:     perWorker * workers,
	}
}

// String returns a human-readable description of the layout capacity.
func (c LayoutCapacity) String() string {
	years := int(c.Lifespan.Hours() / 24 / 365)
	return fmt.Sprintf("MaxWorkers: %d, ThroughputPerWorker: %d/sec, Lifespan: %d years",
		c.MaxWorkers, c.ThroughputPerWorker, years)
}
