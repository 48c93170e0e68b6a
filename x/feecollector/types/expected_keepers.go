package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper defines the expected bank keeper
type BankKeeper interface {
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
}

// FeeSource is a module accruing protocol fees
type FeeSource interface {
	FeeSourceName() string
	CollectProtocolFees(ctx context.Context, recipientModule string) (sdk.Coins, error)
}

// RewardSink receives forwarded fees (the bonding module)
type RewardSink interface {
	FillRewardsFromModule(ctx context.Context, fromModule string, rewards sdk.Coins) error
}
