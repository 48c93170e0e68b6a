package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Position is an LP stake locked by its owner. Open positions contribute their weight to
// the owner's share of every flow rewarding the LP denom.
type Position struct {
	Identifier        string     `json:"identifier"`
	Owner             string     `json:"owner"`
	LpAsset           sdk.Coin   `json:"lp_asset"`
	UnbondingDuration uint64     `json:"unbonding_duration"`
	Weight            math.Int   `json:"weight"`
	Open              bool       `json:"open"`
	ExpiringAt        *time.Time `json:"expiring_at,omitempty"`
}

// IsWithdrawable reports whether a closed position finished unbonding at the given time
func (p Position) IsWithdrawable(now time.Time) bool {
	return !p.Open && p.ExpiringAt != nil && !now.Before(*p.ExpiringAt)
}

func (p Position) String() string {
	state := "open"
	if !p.Open {
		state = "closed"
	}
	return fmt.Sprintf("position %s of %s: %s, %ds, %s", p.Identifier, p.Owner, p.LpAsset, p.UnbondingDuration, state)
}
