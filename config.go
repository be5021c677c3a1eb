package snowflake

import (
	"strconv"
	"time"
)

// DefaultEpoch is the built-in epoch (January 1, 2024 00:00:00 UTC) in milliseconds.
// Using a recent epoch maximizes ID lifespan (~69 years until timestamp overflow).
const DefaultEpoch int64 = 1704067200000

// Config holds the validated, immutable settings of a Manager.
//
// Build one with NewConfig, NewConfigWithEpoch or DefaultConfig. The zero value
// is worker 0 measuring time from the Unix epoch, which stays within the 41-bit
// field until 2039.
type Config struct {
	workerID int64
	epoch    int64
}

// NewConfig returns a Config for workerID using DefaultEpoch.
//
// Returns a *ConfigError wrapping ErrInvalidWorkerID if workerID is not in [0, 1023].
func NewConfig(workerID int64) (Config, error) {
	if err := validateWorkerID(workerID); err != nil {
		return Config{}, err
	}
	return Config{workerID: workerID, epoch: DefaultEpoch}, nil
}

// NewConfigWithEpoch returns a Config with a custom epoch in Unix milliseconds.
//
// In addition to the worker ID range, the epoch must not lie in the future: a
// future epoch would make the first delta negative. Such an epoch yields a
// *ConfigError wrapping ErrInvalidEpoch.
//
// Example:
//
//	cfg, err := snowflake.NewConfigWithEpoch(5, 1609459200000) // 2021-01-01
func NewConfigWithEpoch(workerID, epochMs int64) (Config, error) {
	if err := validateWorkerID(workerID); err != nil {
		return Config{}, err
	}
	if err := validateEpoch(epochMs, time.Now().UnixMilli()); err != nil {
		return Config{}, err
	}
	return Config{workerID: workerID, epoch: epochMs}, nil
}

// DefaultConfig returns worker 0 with DefaultEpoch.
func DefaultConfig() Config {
	return Config{workerID: 0, epoch: DefaultEpoch}
}

// WorkerID returns the configured worker ID.
func (c Config) WorkerID() int64 { return c.workerID }

// Epoch returns the configured epoch in Unix milliseconds.
func (c Config) Epoch() int64 { return c.epoch }

// EpochTime returns the epoch as a UTC time.Time.
func (c Config) EpochTime() time.Time { return time.UnixMilli(c.epoch).UTC() }

// Deadline returns the last instant whose delta still fits the timestamp field.
// IDs cannot be generated after it; rotate the epoch well before.
func (c Config) Deadline() time.Time {
	return time.UnixMilli(c.epoch + MaxTimestamp).UTC()
}

// Validate checks the configuration against now.
//
// NewManager calls this with its own clock, so a Config built before a clock
// was injected is still checked against the time the manager will actually use.
func (c Config) Validate(now time.Time) error {
	if err := validateWorkerID(c.workerID); err != nil {
		return err
	}
	return validateEpoch(c.epoch, now.UnixMilli())
}

func validateWorkerID(workerID int64) error {
	if workerID < 0 || workerID > MaxWorkerID {
		return newConfigError(ErrInvalidWorkerID,
			"WorkerID",
			strconv.FormatInt(workerID, 10),
			"out of valid range",
			"must be between 0 and 1023 (10 bits)",
		)
	}
	return nil
}

func validateEpoch(epochMs, nowMs int64) error {
	if epochMs > nowMs {
		return newConfigError(ErrInvalidEpoch,
			"Epoch",
			strconv.FormatInt(epochMs, 10),
			"in the future",
			"must be <= current time "+strconv.FormatInt(nowMs, 10)+"ms",
		)
	}
	return nil
}
