package types

import (
	"context"
)

// EpochHooks is implemented by modules that act on epoch changes.
type EpochHooks interface {
	// AfterEpochCreated is called once for every new epoch, after it became current.
	AfterEpochCreated(ctx context.Context, epoch Epoch) error
}
