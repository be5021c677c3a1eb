// Package snowflake - errors.go provides custom error types with rich context.
//
// Every error returned by this package either is one of the sentinels below or
// unwraps to one, so callers can branch with errors.Is and still reach the
// detailed fields with errors.As.

package snowflake

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrInvalidConfig is wrapped by every ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidWorkerID is returned when worker ID is not in range [0, 1023].
	ErrInvalidWorkerID = errors.New("worker ID must be between 0 and 1023")

	// ErrInvalidEpoch is returned when the epoch lies after the current time.
	ErrInvalidEpoch = errors.New("epoch must not be in the future")

	// ErrClockMovedBack is returned when the clock reads earlier than the last
	// timestamp the manager issued an ID for.
	ErrClockMovedBack = errors.New("clock moved backwards")

	// ErrTimestampOverflow is returned when the delta from the epoch does not fit
	// the 41-bit timestamp field.
	ErrTimestampOverflow = errors.New("timestamp overflow")

	// ErrSequenceOverflow is returned when the sequence is exhausted and the clock
	// did not advance within the spin budget.
	ErrSequenceOverflow = errors.New("sequence overflow")

	// ErrContextCanceled is returned when a batch is abandoned because its context ended.
	ErrContextCanceled = errors.New("context canceled")

	// ErrInvalidIDFormat is returned when a string cannot be decoded into an ID.
	ErrInvalidIDFormat = errors.New("invalid ID format")
)

// ============================================================================
// Custom Error Types
// ============================================================================

// ClockError represents a clock rollback with detailed timing information.
//
// Example usage:
//
//	if _, err := m.GenerateID(); err != nil {
//	    var clockErr *ClockError
//	    if errors.As(err, &clockErr) {
//	        log.Error("clock drift detected",
//	            "drift_ms", clockErr.DriftMilliseconds,
//	            "worker", clockErr.WorkerID)
//	    }
//	}
type ClockError struct {
	// CurrentTimestamp is the clock reading in Unix milliseconds.
	CurrentTimestamp int64

	// LastTimestamp is the last timestamp an ID was issued for, in Unix milliseconds.
	LastTimestamp int64

	// DriftMilliseconds is the amount of backward drift (always positive).
	DriftMilliseconds int64

	// ToleranceMilliseconds is the drift the manager was willing to wait out.
	ToleranceMilliseconds int64

	// WorkerID is the ID of the manager that encountered the error.
	WorkerID int64
}

// Error implements the error interface.
func (e *ClockError) Error() string {
	return fmt.Sprintf("clock moved backwards: drift=%dms tolerance=%dms current=%d last=%d worker=%d",
		e.DriftMilliseconds, e.ToleranceMilliseconds,
		e.CurrentTimestamp, e.LastTimestamp, e.WorkerID)
}

// Unwrap returns ErrClockMovedBack for errors.Is() compatibility.
func (e *ClockError) Unwrap() error {
	return ErrClockMovedBack
}

// DriftDuration returns the drift amount as a time.Duration.
func (e *ClockError) DriftDuration() time.Duration {
	return time.Duration(e.DriftMilliseconds) * time.Millisecond
}

// ExceedsTolerance returns true if the drift exceeds the tolerance.
func (e *ClockError) ExceedsTolerance() bool {
	return e.DriftMilliseconds > e.ToleranceMilliseconds
}

// ConfigError represents a configuration validation error.
//
// Kind is the specific sentinel (ErrInvalidWorkerID, ErrInvalidEpoch) when one
// applies; the error always also matches ErrInvalidConfig.
type ConfigError struct {
	// Field is the name of the configuration field that failed validation.
	Field string

	// Value is the invalid value (as string for logging).
	Value string

	// Reason is a human-readable explanation of why the value is invalid.
	Reason string

	// Constraint describes the valid range or constraint.
	Constraint string

	// Kind is the sentinel describing the failure, if any.
	Kind error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%s (%s) - %s",
		e.Field, e.Value, e.Reason, e.Constraint)
}

// Unwrap exposes both the specific sentinel and ErrInvalidConfig.
func (e *ConfigError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrInvalidConfig}
	}
	return []error{e.Kind, ErrInvalidConfig}
}

// InitError is returned by NewManager when the supplied configuration is rejected.
type InitError struct {
	WorkerID int64
	Err      error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("snowflake: cannot initialize manager for worker %d: %v", e.WorkerID, e.Err)
}

// Unwrap returns the underlying configuration error.
func (e *InitError) Unwrap() error {
	return e.Err
}

// OverflowError represents a sequence or timestamp overflow.
//
// Sequence overflow is normally absorbed by waiting for the next millisecond; it
// only surfaces when the clock fails to advance within the spin budget.
// Timestamp overflow means the epoch is too old (or too new) for the 41-bit field.
type OverflowError struct {
	// Type indicates whether this is a sequence or timestamp overflow.
	Type OverflowType

	// Timestamp is the clock reading when overflow occurred (Unix milliseconds).
	Timestamp int64

	// Delta is the offset from the epoch that failed to fit (timestamp overflow only).
	Delta int64

	// WorkerID is the ID of the manager that encountered overflow.
	WorkerID int64

	// MaxSequence is the maximum allowed sequence value.
	MaxSequence int64

	// WaitDuration is how long the manager spun before giving up.
	WaitDuration time.Duration
}

// OverflowType indicates the type of overflow error.
type OverflowType int

const (
	// SequenceOverflowType indicates the sequence counter exceeded maximum
	// and the clock did not advance in time.
	SequenceOverflowType OverflowType = iota

	// TimestampOverflowType indicates the delta does not fit 41 bits.
	TimestampOverflowType
)

// String returns a human-readable name for the overflow type.
func (t OverflowType) String() string {
	switch t {
	case SequenceOverflowType:
		return "sequence_overflow"
	case TimestampOverflowType:
		return "timestamp_overflow"
	default:
		return "unknown_overflow"
	}
}

// Error implements the error interface.
func (e *OverflowError) Error() string {
	switch e.Type {
	case SequenceOverflowType:
		return fmt.Sprintf("sequence overflow: more than %d IDs in 1ms and clock did not advance (worker=%d, timestamp=%d, waited=%v)",
			e.MaxSequence+1, e.WorkerID, e.Timestamp, e.WaitDuration)
	case TimestampOverflowType:
		return fmt.Sprintf("timestamp overflow: delta %dms outside [0, %d] (worker=%d, timestamp=%d)",
			e.Delta, MaxTimestamp, e.WorkerID, e.Timestamp)
	default:
		return fmt.Sprintf("unknown overflow type: %d", e.Type)
	}
}

// Unwrap returns the sentinel matching the overflow type.
func (e *OverflowError) Unwrap() error {
	if e.Type == TimestampOverflowType {
		return ErrTimestampOverflow
	}
	return ErrSequenceOverflow
}

// ParseError is returned when a string or integer cannot be interpreted as an ID.
type ParseError struct {
	// Input is the offending text.
	Input string

	// Reason explains the rejection.
	Reason string

	// Err is the underlying cause, such as a strconv error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid ID format %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid ID format %q: %s", e.Input, e.Reason)
}

// Unwrap exposes ErrInvalidIDFormat and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidIDFormat}
	}
	return []error{ErrInvalidIDFormat, e.Err}
}

// ============================================================================
// Error Helper Functions
// ============================================================================

// IsClockError checks if an error is or wraps a ClockError.
func IsClockError(err error) bool {
	var clockErr *ClockError
	return errors.As(err, &clockErr)
}

// IsConfigError checks if an error is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsOverflowError checks if an error is or wraps an OverflowError.
func IsOverflowError(err error) bool {
	var overflowErr *OverflowError
	return errors.As(err, &overflowErr)
}

// IsParseError checks if an error is or wraps a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// GetClockError extracts the ClockError from an error chain.
//
// Example:
//
//	if clockErr, ok := GetClockError(err); ok {
//	    fmt.Printf("Drift: %dms\n", clockErr.DriftMilliseconds)
//	}
func GetClockError(err error) (*ClockError, bool) {
	var clockErr *ClockError
	if errors.As(err, &clockErr) {
		return clockErr, true
	}
	return nil, false
}

// GetOverflowError extracts the OverflowError from an error chain.
func GetOverflowError(err error) (*OverflowError, bool) {
	var overflowErr *OverflowError
	if errors.As(err, &overflowErr) {
		return overflowErr, true
	}
	return nil, false
}

// ============================================================================
// Error Constructor Helpers
// ============================================================================

func newClockError(currentTs, lastTs, toleranceMs, workerID int64) *ClockError {
	return &ClockError{
		CurrentTimestamp:      currentTs,
		LastTimestamp:         lastTs,
		DriftMilliseconds:     lastTs - currentTs,
		ToleranceMilliseconds: toleranceMs,
		WorkerID:              workerID,
	}
}

func newConfigError(kind error, field, value, reason, constraint string) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Reason:     reason,
		Constraint: constraint,
		Kind:       kind,
	}
}

func newSequenceOverflowError(timestamp, workerID int64, waitDuration time.Duration) *OverflowError {
	return &OverflowError{
		Type:         SequenceOverflowType,
		Timestamp:    timestamp,
		WorkerID:     workerID,
		MaxSequence:  MaxSequence,
		WaitDuration: waitDuration,
	}
}

func newTimestampOverflowError(timestamp, delta, workerID int64) *OverflowError {
	return &OverflowError{
		Type:        TimestampOverflowType,
		Timestamp:   timestamp,
		Delta:       delta,
		WorkerID:    workerID,
		MaxSequence: MaxSequence,
	}
}

func newParseError(input, reason string, err error) *ParseError {
	return &ParseError{Input: input, Reason: reason, Err: err}
}
