package types

import (
	"cosmossdk.io/errors"
)

// Fee collector sentinel errors
var (
	ErrInvalidParams     = errors.Register(ModuleName, 2, "invalid fee collector params")
	ErrInvalidState      = errors.Register(ModuleName, 3, "invalid fee collector state")
	ErrUnknownFeeSource  = errors.Register(ModuleName, 4, "unknown fee source")
	ErrNothingToForward  = errors.Register(ModuleName, 5, "nothing to forward")
	ErrNoRewardRecipient = errors.Register(ModuleName, 6, "no reward recipient configured")
)
