package types

import (
	"cosmossdk.io/errors"
)

// Epochs module sentinel errors
var (
	ErrCurrentEpochNotExpired = errors.Register(ModuleName, 2, "current epoch has not expired yet")
	ErrEpochNotFound          = errors.Register(ModuleName, 3, "epoch not found")
	ErrInvalidParams          = errors.Register(ModuleName, 4, "invalid epochs params")
	ErrUnknownHook            = errors.Register(ModuleName, 5, "hook is not registered")
	ErrHookAlreadyExists      = errors.Register(ModuleName, 6, "hook already enabled")
	ErrHookNotFound           = errors.Register(ModuleName, 7, "hook not enabled")
	ErrInvalidState           = errors.Register(ModuleName, 8, "invalid epochs state")
)
