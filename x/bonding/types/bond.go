package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Bond is the bonded balance of an address in one denom. Its weight grows every epoch by
// amount * GrowthRate and is brought up to date whenever the bond changes.
type Bond struct {
	Address     string   `json:"address"`
	Asset       sdk.Coin `json:"asset"`
	Weight      math.Int `json:"weight"`
	LastUpdated uint64   `json:"last_updated"`
}

// WeightAt returns the weight of the bond grown to epoch. Epochs before LastUpdated
// return the stored weight.
func (b Bond) WeightAt(epoch uint64, growthRate math.LegacyDec) math.Int {
	return grow(b.Weight, b.Asset.Amount, b.LastUpdated, epoch, growthRate)
}

// UnbondingEntry is an amount waiting for the unbonding period to elapse
type UnbondingEntry struct {
	Address      string   `json:"address"`
	Asset        sdk.Coin `json:"asset"`
	CreatedEpoch uint64   `json:"created_epoch"`
}

// IsWithdrawable reports whether the entry can be withdrawn at the epoch
func (e UnbondingEntry) IsWithdrawable(epoch, unbondingPeriod uint64) bool {
	return e.CreatedEpoch+unbondingPeriod <= epoch
}

// GlobalIndex aggregates every bond
type GlobalIndex struct {
	EpochID      uint64    `json:"epoch_id"`
	BondedAmount math.Int  `json:"bonded_amount"`
	BondedAssets sdk.Coins `json:"bonded_assets"`
	LastUpdated  uint64    `json:"last_updated"`
	LastWeight   math.Int  `json:"last_weight"`
}

// NewGlobalIndex returns an empty global index
func NewGlobalIndex() GlobalIndex {
	return GlobalIndex{
		BondedAmount: math.ZeroInt(),
		BondedAssets: sdk.NewCoins(),
		LastWeight:   math.ZeroInt(),
	}
}

// GrownTo returns the index with its weight grown to epoch
func (g GlobalIndex) GrownTo(epoch uint64, growthRate math.LegacyDec) GlobalIndex {
	g.LastWeight = grow(g.LastWeight, g.BondedAmount, g.LastUpdated, epoch, growthRate)
	if epoch > g.LastUpdated {
		g.LastUpdated = epoch
	}
	g.EpochID = epoch
	return g
}

// RewardBucket holds the rewards distributed for an epoch
type RewardBucket struct {
	ID             uint64      `json:"id"`
	EpochStartTime time.Time   `json:"epoch_start_time"`
	Total          sdk.Coins   `json:"total"`
	Available      sdk.Coins   `json:"available"`
	Claimed        sdk.Coins   `json:"claimed"`
	GlobalIndex    GlobalIndex `json:"global_index"`
}

// Validate checks available + claimed == total
func (b RewardBucket) Validate() error {
	if !b.Available.Add(b.Claimed...).Equal(b.Total) {
		return ErrInvalidState.Wrapf("bucket %d: available %s + claimed %s != total %s", b.ID, b.Available, b.Claimed, b.Total)
	}
	return nil
}

func (b RewardBucket) String() string {
	return fmt.Sprintf("bucket %d: %s available of %s", b.ID, b.Available, b.Total)
}

func grow(weight, amount math.Int, from, to uint64, growthRate math.LegacyDec) math.Int {
	if to <= from || amount.IsZero() {
		return weight
	}
	gained := math.LegacyNewDecFromInt(amount.MulRaw(int64(to - from))).Mul(growthRate).TruncateInt()
	return weight.Add(gained)
}
