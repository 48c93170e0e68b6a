package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params defines the fee collector parameters.
type Params struct {
	// AutoForward collects from every source and forwards to bonding on each new epoch.
	AutoForward bool `json:"auto_forward"`
	// ForwardDenoms are the treasury denoms forwarded to bonding. Empty forwards every denom.
	ForwardDenoms []string `json:"forward_denoms"`
}

// DefaultParams returns default fee collector parameters
func DefaultParams() Params {
	return Params{
		AutoForward:   true,
		ForwardDenoms: []string{},
	}
}

// Validate validates the params
func (p Params) Validate() error {
	for _, d := range p.ForwardDenoms {
		if err := sdk.ValidateDenom(d); err != nil {
			return ErrInvalidParams.Wrapf("forward denom %q: %v", d, err)
		}
	}
	return nil
}

// Forwardable filters the treasury balance down to the forwarded denoms
func (p Params) Forwardable(balance sdk.Coins) sdk.Coins {
	if len(p.ForwardDenoms) == 0 {
		return balance
	}
	out := sdk.NewCoins()
	for _, d := range p.ForwardDenoms {
		if amt := balance.AmountOf(d); amt.IsPositive() {
			out = out.Add(sdk.NewCoin(d, amt))
		}
	}
	return out
}
