package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

// BankKeeper defines the expected bank keeper
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
}

// EpochKeeper provides the current epoch
type EpochKeeper interface {
	GetCurrentEpoch(ctx context.Context) (epochstypes.Epoch, error)
}
