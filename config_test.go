package snowflake

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig tests worker ID bounds
func TestNewConfig(t *testing.T) {
	tests := []struct {
		name     string
		workerID int64
		wantErr  bool
	}{
		{"Valid worker ID 0", 0, false},
		{"Valid worker ID 512", 512, false},
		{"Valid worker ID 1023", 1023, false},
		{"Invalid worker ID -1", -1, true},
		{"Invalid worker ID 1024", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.workerID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWorkerID) {
					t.Errorf("error should match ErrInvalidWorkerID: %v", err)
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error should match ErrInvalidConfig: %v", err)
				}
				return
			}
			if cfg.WorkerID() != tt.workerID {
				t.Errorf("WorkerID() = %d, want %d", cfg.WorkerID(), tt.workerID)
			}
			if cfg.Epoch() != DefaultEpoch {
				t.Errorf("Epoch() = %d, want %d", cfg.Epoch(), DefaultEpoch)
			}
		})
	}
}

func TestNewConfigWithEpoch(t *testing.T) {
	future := time.Now().Add(time.Hour).UnixMilli()

	tests := []struct {
		name     string
		workerID int64
		epoch    int64
		wantErr  error
	}{
		{"2021 epoch", 5, 1609459200000, nil},
		{"Unix epoch", 0, 0, nil},
		{"Epoch in the future", 1, future, ErrInvalidEpoch},
		{"Worker checked first", 2048, future, ErrInvalidWorkerID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigWithEpoch(tt.workerID, tt.epoch)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConfigWithEpoch() error = %v, want %v", err, tt.wantErr)
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("error should be *ConfigError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConfigWithEpoch() error = %v", err)
			}
			if cfg.WorkerID() != tt.workerID || cfg.Epoch() != tt.epoch {
				t.Errorf("got worker=%d epoch=%d, want worker=%d epoch=%d",
					cfg.WorkerID(), cfg.Epoch(), tt.workerID, tt.epoch)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.WorkerID() != 0 {
		t.Errorf("WorkerID() = %d, want 0", cfg.WorkerID())
	}
	if cfg.Epoch() != DefaultEpoch {
		t.Errorf("Epoch() = %d, want %d", cfg.Epoch(), DefaultEpoch)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.EpochTime().Equal(want) {
		t.Errorf("EpochTime() = %v, want %v", cfg.EpochTime(), want)
	}
}

func TestConfigDeadline(t *testing.T) {
	cfg := DefaultConfig()
	d := cfg.Deadline()
	if got := d.UnixMilli() - cfg.Epoch(); got != MaxTimestamp {
		t.Errorf("Deadline - epoch = %d, want %d", got, MaxTimestamp)
	}
	// 2^41 ms is about 69.7 years
	if d.Year() != 2093 {
		t.Errorf("Deadline().Year() = %d, want 2093", d.Year())
	}
}

func TestConfigValidate(t *testing.T) {
	cfg, err := NewConfigWithEpoch(3, 1609459200000)
	if err != nil {
		t.Fatalf("NewConfigWithEpoch() error = %v", err)
	}

	if err := cfg.Validate(time.UnixMilli(1609459200000)); err != nil {
		t.Errorf("Validate(at epoch) error = %v", err)
	}
	if err := cfg.Validate(time.UnixMilli(1609459199999)); !errors.Is(err, ErrInvalidEpoch) {
		t.Errorf("Validate(before epoch) error = %v, want ErrInvalidEpoch", err)
	}

	bad := Config{workerID: MaxWorkerID + 1, epoch: DefaultEpoch}
	if err := bad.Validate(time.Now()); !errors.Is(err, ErrInvalidWorkerID) {
		t.Errorf("Validate(bad worker) error = %v, want ErrInvalidWorkerID", err)
	}
}
