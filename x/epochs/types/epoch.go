package types

import (
	"fmt"
	"time"
)

// Epoch is a discrete step of protocol time. Weight snapshots, flow emissions and
// reward buckets are all keyed by epoch id.
type Epoch struct {
	ID        uint64    `json:"id"`
	StartTime time.Time `json:"start_time"`
}

// EndTime is the earliest block time at which the next epoch can be created.
func (e Epoch) EndTime(duration time.Duration) time.Time {
	return e.StartTime.Add(duration)
}

func (e Epoch) String() string {
	return fmt.Sprintf("epoch %d (start %s)", e.ID, e.StartTime.UTC().Format(time.RFC3339))
}

// Params defines the epoch cadence.
type Params struct {
	EpochDuration    time.Duration `json:"epoch_duration"`
	GenesisStartTime time.Time     `json:"genesis_start_time"`
}

// DefaultParams returns daily epochs starting at the unix epoch.
func DefaultParams() Params {
	return Params{
		EpochDuration:    24 * time.Hour,
		GenesisStartTime: time.Unix(0, 0).UTC(),
	}
}

// Validate checks the params.
func (p Params) Validate() error {
	if p.EpochDuration <= 0 {
		return ErrInvalidParams.Wrapf("epoch duration must be positive, got %s", p.EpochDuration)
	}
	return nil
}
