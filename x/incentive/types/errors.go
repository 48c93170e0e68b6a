package types

import (
	"cosmossdk.io/errors"
)

// Incentive module sentinel errors
var (
	ErrInvalidParams = errors.Register(ModuleName, 2, "invalid incentive params")
	ErrInvalidState  = errors.Register(ModuleName, 3, "invalid incentive state")

	// authorization
	ErrUnauthorized          = errors.Register(ModuleName, 10, "unauthorized")
	ErrUnauthorizedFlowClose = errors.Register(ModuleName, 11, "only the flow creator or the owner can close the flow")
	ErrOwnershipError        = errors.Register(ModuleName, 12, "position belongs to another address")

	// payment
	ErrPaymentError                 = errors.Register(ModuleName, 20, "invalid funds sent")
	ErrAssetMismatch                = errors.Register(ModuleName, 21, "funds do not match the declared asset")
	ErrFlowAssetNotSent             = errors.Register(ModuleName, 22, "flow asset was not sent")
	ErrFlowFeeNotPaid               = errors.Register(ModuleName, 23, "flow creation fee was not paid")
	ErrMissingPositionDeposit       = errors.Register(ModuleName, 24, "position deposit is missing")
	ErrMissingPositionDepositNative = errors.Register(ModuleName, 25, "native deposit does not match the desired amount")
	ErrEmptyFlow                    = errors.Register(ModuleName, 26, "flow asset amount is zero")
	ErrEmptyFlowAfterFee            = errors.Register(ModuleName, 27, "flow asset amount is below the minimum")

	// epochs and durations
	ErrInvalidUnbondingRange          = errors.Register(ModuleName, 30, "min unbonding duration is greater than max")
	ErrInvalidUnbondingDuration       = errors.Register(ModuleName, 31, "unbonding duration out of the allowed range")
	ErrIncentiveStartTimeAfterEndTime = errors.Register(ModuleName, 32, "start epoch is after the end epoch")
	ErrFlowStartTimeAfterEndTime      = errors.Register(ModuleName, 33, "flow start epoch must be before its end epoch")
	ErrIncentiveEndsInPast            = errors.Register(ModuleName, 34, "end epoch is in the past")
	ErrIncentiveStartTooFar           = errors.Register(ModuleName, 35, "start epoch is too far in the future")
	ErrFlowStartTooFar                = errors.Register(ModuleName, 36, "flow start is too far from its end epoch")
	ErrFlowExpirationInPast           = errors.Register(ModuleName, 37, "start epoch is in the past")
	ErrInvalidEndEpoch                = errors.Register(ModuleName, 38, "invalid end epoch")
	ErrInvalidWeight                  = errors.Register(ModuleName, 39, "cannot compute weight for the unbonding duration")

	// state
	ErrNonExistentFlow                      = errors.Register(ModuleName, 40, "flow does not exist")
	ErrFlowAlreadyExists                    = errors.Register(ModuleName, 41, "flow label already in use")
	ErrFlowAlreadyEnded                     = errors.Register(ModuleName, 42, "flow already ended")
	ErrNonExistentPosition                  = errors.Register(ModuleName, 43, "position does not exist")
	ErrNoPositionFound                      = errors.Register(ModuleName, 44, "no position found")
	ErrDuplicatePosition                    = errors.Register(ModuleName, 45, "an open position with the same unbonding duration exists")
	ErrPositionAlreadyClosed                = errors.Register(ModuleName, 46, "position already closed")
	ErrPendingRewards                       = errors.Register(ModuleName, 47, "rewards must be claimed first")
	ErrPositionNotExpired                   = errors.Register(ModuleName, 48, "position has not expired yet")
	ErrNoOpenPositions                      = errors.Register(ModuleName, 49, "address has no positions")
	ErrGlobalWeightSnapshotAlreadyExists    = errors.Register(ModuleName, 50, "global weight snapshot already taken for epoch")
	ErrGlobalWeightSnapshotNotTakenForEpoch = errors.Register(ModuleName, 51, "global weight snapshot not taken for epoch")
	ErrFlowRewardsOverflow                  = errors.Register(ModuleName, 52, "computed rewards exceed the flow emission")
	ErrInvalidEmergencyUnlockPenalty        = errors.Register(ModuleName, 53, "invalid emergency unlock penalty")
	ErrInvalidFlowLabel                     = errors.Register(ModuleName, 54, "invalid flow label")
	ErrInvalidCurve                         = errors.Register(ModuleName, 55, "unsupported emission curve")
	ErrInvalidAmount                        = errors.Register(ModuleName, 56, "invalid amount")
	ErrInvalidFlowAction                    = errors.Register(ModuleName, 57, "invalid flow action")

	// resource limits
	ErrTooManyFlows        = errors.Register(ModuleName, 60, "too many active flows (incentives) for the lp denom")
	ErrMaxPositionsReached = errors.Register(ModuleName, 61, "maximum number of positions reached")
)
