package simapp

import (
	"math/rand"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/paw-chain/liquidityhub/app"
)

// GenesisConfig returns the genesis of a scenario run: daily epochs by default, the
// scenario bond denom bondable and every account funded.
func GenesisConfig(r *rand.Rand, s Scenario, accs []simtypes.Account, genesisTime time.Time) app.GenesisConfig {
	config := app.DefaultGenesisConfig()
	config.GenesisTime = genesisTime
	config.EpochDuration = s.EpochDuration
	config.Balances = RandomizedBalances(r, s, accs)

	bondable := false
	for _, denom := range config.BondingDenoms {
		if denom == s.BondDenom {
			bondable = true
		}
	}
	if !bondable {
		config.BondingDenoms = append(config.BondingDenoms, s.BondDenom)
	}
	return config
}

// RandomizedBalances gives every account between half and all of the scenario initial
// balance in each simulated denom, plus the native fee denom.
func RandomizedBalances(r *rand.Rand, s Scenario, accs []simtypes.Account) []banktypes.Balance {
	denoms := []string{app.BondDenom, s.LpDenom, s.RewardDenom, s.BondDenom, s.VaultDenom}

	balances := make([]banktypes.Balance, 0, len(accs))
	for _, acc := range accs {
		coins := sdk.NewCoins()
		for _, denom := range denoms {
			if coins.AmountOf(denom).IsPositive() {
				continue
			}
			amount := simtypes.RandIntBetween(r, int(s.InitialBalance/2), int(s.InitialBalance)+1)
			coins = coins.Add(sdk.NewCoin(denom, math.NewInt(int64(amount))))
		}
		balances = append(balances, banktypes.Balance{
			Address: acc.Address.String(),
			Coins:   coins,
		})
	}
	return balances
}
