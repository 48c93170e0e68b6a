package types

import (
	"cosmossdk.io/errors"
)

// Bonding module sentinel errors
var (
	ErrInvalidParams = errors.Register(ModuleName, 2, "invalid bonding params")
	ErrInvalidState  = errors.Register(ModuleName, 3, "invalid bonding state")
	ErrUnauthorized  = errors.Register(ModuleName, 4, "unauthorized")

	ErrInvalidBondingAsset    = errors.Register(ModuleName, 10, "asset cannot be bonded")
	ErrInvalidBondingAmount   = errors.Register(ModuleName, 11, "bonding amount must be positive")
	ErrInvalidUnbondingAmount = errors.Register(ModuleName, 12, "unbonding amount must be positive")
	ErrNothingToUnbond        = errors.Register(ModuleName, 13, "nothing to unbond")
	ErrInsufficientBond       = errors.Register(ModuleName, 14, "unbonding more than bonded")
	ErrNothingToWithdraw      = errors.Register(ModuleName, 15, "nothing to withdraw")
	ErrUnclaimedRewards       = errors.Register(ModuleName, 16, "rewards must be claimed first")
	ErrNothingToClaim         = errors.Register(ModuleName, 17, "nothing to claim")
	ErrInvalidRewards         = errors.Register(ModuleName, 18, "invalid reward funds")
	ErrBucketNotFound         = errors.Register(ModuleName, 19, "reward bucket not found")
)
