package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

// BankKeeper defines the expected bank keeper
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}

// EpochKeeper provides the current epoch
type EpochKeeper interface {
	GetCurrentEpoch(ctx context.Context) (epochstypes.Epoch, error)
}

// RewardSink receives emergency unlock penalties (the bonding module)
type RewardSink interface {
	FillRewardsFromModule(ctx context.Context, fromModule string, rewards sdk.Coins) error
}
