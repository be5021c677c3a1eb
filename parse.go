package snowflake

import (
	"fmt"
	"strconv"
	"time"
)

// TimeLayout is the layout used by ParsedID.TimeString, millisecond precision in UTC.
const TimeLayout = "2006-01-02 15:04:05.000"

// maxFutureSkew is how far past now a timestamp may lie before ValidateID rejects it.
const maxFutureSkew = 24 * time.Hour

// ParsedID is the decoded view of an ID.
type ParsedID struct {
	ID        ID    `json:"id"`
	Timestamp int64 `json:"timestamp"` // Unix ms, epoch + delta
	Delta     int64 `json:"delta"`     // ms since the epoch
	WorkerID  int64 `json:"worker_id"`
	Sequence  int64 `json:"sequence"`
}

// Time returns the generation instant in UTC.
func (p ParsedID) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// TimeString formats the generation instant with TimeLayout.
func (p ParsedID) TimeString() string {
	return p.Time().Format(TimeLayout)
}

func (p ParsedID) String() string {
	return fmt.Sprintf("ID %d: time=%s worker=%d sequence=%d",
		uint64(p.ID), p.TimeString(), p.WorkerID, p.Sequence)
}

// Parse decodes id against cfg's epoch. Every 64-bit value decodes.
func Parse(id ID, cfg Config) ParsedID {
	delta, worker, seq := Decode(uint64(id))
	return ParsedID{
		ID:        id,
		Timestamp: cfg.epoch + int64(delta),
		Delta:     int64(delta),
		WorkerID:  int64(worker),
		Sequence:  int64(seq),
	}
}

// ParseStringWithConfig parses a decimal ID and decodes it against cfg.
//
// Besides the ParseString failures, it rejects an ID whose timestamp cannot be
// represented relative to cfg's epoch.
func ParseStringWithConfig(s string, cfg Config) (ParsedID, error) {
	id, err := ParseString(s)
	if err != nil {
		return ParsedID{}, err
	}
	p := Parse(id, cfg)
	if p.Timestamp < cfg.epoch {
		return ParsedID{}, newParseError(s, "timestamp precedes the epoch", nil)
	}
	return p, nil
}

// ValidateID reports whether id could have been issued under cfg by now.
//
// An ID is rejected if its reserved bit is set, or if its timestamp lies more
// than a day after now (the allowance covers clock skew between hosts).
func ValidateID(id ID, cfg Config, now time.Time) error {
	input := strconv.FormatUint(uint64(id), 10)
	if uint64(id)&reservedBit != 0 {
		return newParseError(input, "reserved bit is set", nil)
	}
	p := Parse(id, cfg)
	if p.Timestamp < cfg.epoch {
		return newParseError(input, "timestamp precedes the epoch", nil)
	}
	if p.Time().After(now.Add(maxFutureSkew)) {
		return newParseError(input, "timestamp is in the future: "+p.TimeString(), nil)
	}
	return nil
}
