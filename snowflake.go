// Package snowflake provides a distributed unique ID generator based on
// Twitter's Snowflake algorithm.
//
// # Overview
//
// Snowflake generates 64-bit unique IDs that are:
//   - Sortable by time (IDs generated later are numerically larger)
//   - Globally unique across distributed systems (with disjoint worker IDs)
//   - Generated without coordination between nodes
//
// # ID Structure (64 bits)
//
//	┌───┬─────────────────────────────────────────────┬──────────────┬──────────────┐
//	│ 0 │       41 bits: Timestamp (milliseconds)     │  10 bits:    │  12 bits:    │
//	│   │     ~69 years from the configured epoch     │  Worker ID   │  Sequence    │
//	│   │                                             │  (0-1023)    │  (0-4095)    │
//	└───┴─────────────────────────────────────────────┴──────────────┴──────────────┘
//
// # Clock Handling
//
//   - Clock rollback fails the call with a *ClockError instead of fabricating
//     a timestamp (an optional bounded tolerance can wait small drifts out)
//   - Sequence exhaustion spins until the next millisecond, bounded by a real-time
//     budget
//   - The clock is injectable, which makes both paths deterministic in tests
//
// # Usage
//
//	// Simple usage with the process-wide default manager
//	id, err := snowflake.GenerateID()
//
//	// Custom worker ID for distributed systems
//	cfg, err := snowflake.NewConfig(workerID)
//	m, err := snowflake.NewManager(cfg)
//	id, err := m.GenerateID()
//
//	// With options
//	m, err := snowflake.NewManager(cfg,
//	    snowflake.WithMaxClockBackward(5*time.Millisecond),
//	    snowflake.WithLogger(logger))
package snowflake

import (
	"context"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxSequenceWait bounds how long GenerateID spins for the next
// millisecond after the sequence is exhausted.
const DefaultMaxSequenceWait = 100 * time.Millisecond

// Metrics holds runtime metrics for monitoring and observability.
//
// All counters are monotonically increasing and thread-safe via atomic operations.
type Metrics struct {
	Generated        int64 // Total IDs successfully generated
	ClockBackward    int64 // Clock backward events (including recovered ones)
	ClockBackwardErr int64 // Clock backward errors (ID not generated)
	SequenceOverflow int64 // Sequence exhaustion events (had to wait for next millisecond)
	WaitTimeUs       int64 // Total time spent waiting (in microseconds)
}

// Manager generates Snowflake IDs for one worker.
//
// # Thread Safety
//
// Manager is safe for concurrent use. The timestamp/sequence pair is the only
// shared mutable state and is guarded by a single mutex, so the compare and
// update of each generation step is atomic with respect to other callers.
// Managers with different worker IDs never coordinate.
type Manager struct {
	mu            sync.Mutex // Protects sequence and lastTimestamp
	sequence      int64      // Sequence of the last issued ID
	lastTimestamp int64      // Unix ms of the last issued ID, -1 before the first

	config           Config
	clock            Clock
	maxClockBackward time.Duration
	maxSequenceWait  time.Duration
	logger           zerolog.Logger

	// Kept apart from the hot fields above to avoid false sharing.
	generated        atomic.Int64
	clockBackward    atomic.Int64
	clockBackwardErr atomic.Int64
	sequenceOverflow atomic.Int64
	waitTimeUs       atomic.Int64
}

// Option customizes a Manager.
type Option func(*Manager)

// WithClock replaces the wall clock. Mostly useful in tests, or with
// NewMonotonicClock to ignore wall-clock corrections.
func WithClock(c Clock) Option {
	return func(m *Manager) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithMaxClockBackward sets the clock drift the manager waits out before failing.
// Zero (the default) fails immediately on any rollback.
func WithMaxClockBackward(d time.Duration) Option {
	return func(m *Manager) { m.maxClockBackward = d }
}

// WithMaxSequenceWait sets the real-time budget for waiting out sequence exhaustion.
func WithMaxSequenceWait(d time.Duration) Option {
	return func(m *Manager) { m.maxSequenceWait = d }
}

// WithLogger routes diagnostic events (clock rollback, overflow) to logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// NewManager creates a Manager for cfg.
//
// The configuration is re-validated against the manager's clock; failures are
// returned as an *InitError wrapping the *ConfigError.
//
// Example:
//
//	cfg, _ := snowflake.NewConfig(42)
//	m, err := snowflake.NewManager(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id, err := m.GenerateID()
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		lastTimestamp:   -1,
		config:          cfg,
		clock:           SystemClock{},
		maxSequenceWait: DefaultMaxSequenceWait,
		logger:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := cfg.Validate(m.clock.Now()); err != nil {
		return nil, &InitError{WorkerID: cfg.workerID, Err: err}
	}
	if m.maxClockBackward < 0 {
		return nil, &InitError{WorkerID: cfg.workerID, Err: newConfigError(nil,
			"MaxClockBackward", m.maxClockBackward.String(), "must be non-negative", "duration must be >= 0")}
	}
	if m.maxSequenceWait <= 0 {
		return nil, &InitError{WorkerID: cfg.workerID, Err: newConfigError(nil,
			"MaxSequenceWait", m.maxSequenceWait.String(), "must be positive", "duration must be > 0")}
	}

	m.logger = m.logger.With().Int64("worker_id", cfg.workerID).Logger()
	return m, nil
}

// GenerateID creates a new Snowflake ID.
//
// Errors:
//   - *ClockError (ErrClockMovedBack) if the clock reads earlier than the last ID
//   - *OverflowError (ErrTimestampOverflow) if the delta does not fit 41 bits
//   - *OverflowError (ErrSequenceOverflow) if the sequence is exhausted and the
//     clock does not advance within the spin budget
//
// A failed call leaves the manager state untouched.
func (m *Manager) GenerateID() (ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.nextLocked()
	if err != nil {
		return 0, err
	}
	m.generated.Add(1)
	return id, nil
}

// MustGenerateID generates an ID and panics on error.
func (m *Manager) MustGenerateID() ID {
	id, err := m.GenerateID()
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateStringID generates an ID and renders it as a decimal string.
func (m *Manager) GenerateStringID() (string, error) {
	id, err := m.GenerateID()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// GenerateIDs generates count IDs in a single operation.
//
// See GenerateIDsContext.
func (m *Manager) GenerateIDs(count int) ([]ID, error) {
	return m.GenerateIDsContext(context.Background(), count)
}

// GenerateIDsContext generates count IDs while holding the lock once.
//
// The batch is all-or-nothing: if any step fails (clock rollback, overflow, or
// ctx ending, which is checked every 100 IDs) the IDs produced so far are
// discarded and only the error is returned. The manager state still advances
// past the discarded IDs, so they are never reissued.
//
// A count of zero or less returns an empty slice.
func (m *Manager) GenerateIDsContext(ctx context.Context, count int) ([]ID, error) {
	if count <= 0 {
		return []ID{}, nil
	}

	ids := make([]ID, 0, count)

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < count; i++ {
		if i%100 == 0 {
			select {
			case <-ctx.Done():
				return nil, ErrContextCanceled
			default:
			}
		}

		id, err := m.nextLocked()
		if err != nil {
			m.logger.Debug().Err(err).Int("requested", count).Int("discarded", len(ids)).
				Msg("batch generation failed")
			return nil, err
		}
		ids = append(ids, id)
	}

	m.generated.Add(int64(len(ids)))
	return ids, nil
}

// nextLocked runs one generation step. m.mu must be held.
//
// # Algorithm
//
//  1. Read the clock
//  2. Clock behind the last ID: wait within tolerance, else fail
//  3. Same millisecond: bump sequence, or wait for the next millisecond once 4095 is used
//  4. Later millisecond: sequence restarts at 0
//  5. Check the delta fits 41 bits, commit state, pack
func (m *Manager) nextLocked() (ID, error) {
	now := m.clock.Now().UnixMilli()

	if now < m.lastTimestamp {
		var err error
		if now, err = m.recoverClockLocked(now); err != nil {
			return 0, err
		}
	}

	sequence := int64(0)
	if now == m.lastTimestamp {
		if m.sequence < MaxSequence {
			sequence = m.sequence + 1
		} else {
			m.sequenceOverflow.Add(1)
			next, err := m.waitNextMillis(m.lastTimestamp)
			if err != nil {
				return 0, err
			}
			now = next
		}
	}

	delta := now - m.config.epoch
	if delta < 0 || delta > MaxTimestamp {
		m.logger.Error().Int64("now_ms", now).Int64("epoch_ms", m.config.epoch).Int64("delta_ms", delta).
			Msg("timestamp does not fit the 41-bit field")
		return 0, newTimestampOverflowError(now, delta, m.config.workerID)
	}

	m.lastTimestamp = now
	m.sequence = sequence

	return ID(Encode(uint64(delta), uint64(m.config.workerID), uint64(sequence))), nil
}

// recoverClockLocked handles a clock reading earlier than the last issued ID.
// It waits once if the drift is within tolerance and returns the new reading,
// or a *ClockError if the clock is still behind.
func (m *Manager) recoverClockLocked(now int64) (int64, error) {
	m.clockBackward.Add(1)

	drift := m.lastTimestamp - now
	tolerance := m.maxClockBackward.Milliseconds()

	if drift <= tolerance {
		waitStart := time.Now()
		time.Sleep(time.Duration(drift) * time.Millisecond)
		now = m.clock.Now().UnixMilli()
		m.waitTimeUs.Add(time.Since(waitStart).Microseconds())
	}

	if now < m.lastTimestamp {
		m.clockBackwardErr.Add(1)
		m.logger.Warn().Int64("drift_ms", m.lastTimestamp-now).Int64("last_ms", m.lastTimestamp).
			Int64("now_ms", now).Msg("clock moved backwards")
		return 0, newClockError(now, m.lastTimestamp, tolerance, m.config.workerID)
	}

	m.logger.Info().Int64("drift_ms", drift).Msg("clock rollback recovered by waiting")
	return now, nil
}

// waitNextMillis spins until the clock passes last.
//
// The spin yields with runtime.Gosched and is bounded by maxSequenceWait of real
// elapsed time, measured with time.Now rather than the manager's clock so that a
// stalled clock cannot hold the lock forever.
func (m *Manager) waitNextMillis(last int64) (int64, error) {
	waitStart := time.Now()
	deadline := waitStart.Add(m.maxSequenceWait)

	for {
		now := m.clock.Now().UnixMilli()
		if now > last {
			waited := time.Since(waitStart)
			m.waitTimeUs.Add(waited.Microseconds())
			m.logger.Debug().Int64("waited_us", waited.Microseconds()).Msg("sequence exhausted, waited for next millisecond")
			return now, nil
		}
		if now < last {
			m.clockBackward.Add(1)
			m.clockBackwardErr.Add(1)
			m.logger.Warn().Int64("drift_ms", last-now).Msg("clock moved backwards while waiting for next millisecond")
			return 0, newClockError(now, last, m.maxClockBackward.Milliseconds(), m.config.workerID)
		}
		if !time.Now().Before(deadline) {
			waited := time.Since(waitStart)
			m.waitTimeUs.Add(waited.Microseconds())
			m.logger.Error().Dur("waited", waited).Msg("clock did not advance after sequence exhaustion")
			return 0, newSequenceOverflowError(last, m.config.workerID, waited)
		}
		runtime.Gosched()
	}
}

// Config returns the manager's configuration.
func (m *Manager) Config() Config {
	return m.config
}

// WorkerID returns the worker ID of this manager.
func (m *Manager) WorkerID() int64 {
	return m.config.workerID
}

// Metrics returns a snapshot of current metrics.
//
// Example:
//
//	metrics := m.Metrics()
//	if metrics.ClockBackwardErr > 0 {
//	    log.Warn("Clock issues detected", "errors", metrics.ClockBackwardErr)
//	}
func (m *Manager) Metrics() Metrics {
	return Metrics{
		Generated:        m.generated.Load(),
		ClockBackward:    m.clockBackward.Load(),
		ClockBackwardErr: m.clockBackwardErr.Load(),
		SequenceOverflow: m.sequenceOverflow.Load(),
		WaitTimeUs:       m.waitTimeUs.Load(),
	}
}

// ResetMetrics resets all metrics counters to zero.
func (m *Manager) ResetMetrics() {
	m.generated.Store(0)
	m.clockBackward.Store(0)
	m.clockBackwardErr.Store(0)
	m.sequenceOverflow.Store(0)
	m.waitTimeUs.Store(0)
}

// ParseID decodes id using this manager's epoch.
func (m *Manager) ParseID(id ID) ParsedID {
	return Parse(id, m.config)
}

// ParseStringID decodes a decimal ID string using this manager's epoch.
func (m *Manager) ParseStringID(s string) (ParsedID, error) {
	return ParseStringWithConfig(s, m.config)
}

// Default manager instance (worker ID 0, DefaultEpoch) for the package-level functions.
//
// # Lazy Initialization
//
// The default manager is initialized on first use via sync.Once and lives for
// the rest of the process. An initialization error is cached and returned by
// every package-level call. Applications that assign worker IDs should build
// their own Manager instead.
var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
	defaultManagerErr  error
)

func getDefaultManager() (*Manager, error) {
	defaultManagerOnce.Do(func() {
		defaultManager, defaultManagerErr = NewManager(DefaultConfig())
	})
	return defaultManager, defaultManagerErr
}

// GenerateID generates an ID using the default manager.
//
// Example:
//
//	id, err := snowflake.GenerateID()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id.Base62())
func GenerateID() (ID, error) {
	m, err := getDefaultManager()
	if err != nil {
		return 0, err
	}
	return m.GenerateID()
}

// MustGenerateID generates an ID using the default manager and panics on error.
func MustGenerateID() ID {
	id, err := GenerateID()
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateIDs generates count IDs using the default manager (all-or-nothing).
func GenerateIDs(count int) ([]ID, error) {
	m, err := getDefaultManager()
	if err != nil {
		return nil, err
	}
	return m.GenerateIDs(count)
}

// GenerateStringID generates an ID using the default manager as a decimal string.
func GenerateStringID() (string, error) {
	id, err := GenerateID()
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(id), 10), nil
}

// ParseID decodes id against the default manager's configuration.
func ParseID(id ID) (ParsedID, error) {
	m, err := getDefaultManager()
	if err != nil {
		return ParsedID{}, err
	}
	return m.ParseID(id), nil
}

// ParseStringID decodes a decimal ID string against the default manager's configuration.
func ParseStringID(s string) (ParsedID, error) {
	m, err := getDefaultManager()
	if err != nil {
		return ParsedID{}, err
	}
	return m.ParseStringID(s)
}

// DefaultMetrics returns metrics from the default manager.
func DefaultMetrics() (Metrics, error) {
	m, err := getDefaultManager()
	if err != nil {
		return Metrics{}, err
	}
	return m.Metrics(), nil
}
