// Package keeper provides shared keeper interfaces for cross-module communication.
// Modules depend on these versioned contracts rather than on concrete keepers.
package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
)

// Interface versions, bumped on breaking changes.
const (
	EpochKeeperVersion = "v1.0.0"
	RewardSinkVersion  = "v1.0.0"
	FeeSourceVersion   = "v1.0.0"
	BankKeeperVersion  = "v1.0.0"
)

// =============================================================================
// Epochs
// =============================================================================

// EpochKeeperV1 exposes the current epoch to modules keyed by epoch.
type EpochKeeperV1 interface {
	// GetCurrentEpoch returns the epoch in progress.
	GetCurrentEpoch(ctx context.Context) (epochstypes.Epoch, error)
}

// =============================================================================
// Bonding rewards
// =============================================================================

// RewardSinkV1 accepts reward funds for the next distribution bucket.
// Funds are moved out of the named module account.
type RewardSinkV1 interface {
	FillRewardsFromModule(ctx context.Context, fromModule string, rewards sdk.Coins) error
}

// =============================================================================
// Fee sources
// =============================================================================

// FeeSourceV1 is implemented by modules accruing protocol fees.
type FeeSourceV1 interface {
	// FeeSourceName is the unique name the source is registered under.
	FeeSourceName() string

	// CollectProtocolFees moves every accrued protocol fee to recipientModule
	// and resets the ledger. It returns the collected coins.
	CollectProtocolFees(ctx context.Context, recipientModule string) (sdk.Coins, error)
}

// =============================================================================
// Bank
// =============================================================================

// BankKeeperV1 is the bank surface used by the liquidity hub modules.
type BankKeeperV1 interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	SendCoinsFromModuleToModule(ctx context.Context, senderModule, recipientModule string, amt sdk.Coins) error
}
