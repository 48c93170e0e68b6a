package app

import (
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	bondingtypes "github.com/paw-chain/liquidityhub/x/bonding/types"
	epochstypes "github.com/paw-chain/liquidityhub/x/epochs/types"
	incentivetypes "github.com/paw-chain/liquidityhub/x/incentive/types"
	vaulttypes "github.com/paw-chain/liquidityhub/x/vault/types"
)

// GenesisState represents the genesis state of the liquidity hub.
// It is a map from module name to module genesis state.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState returns the default genesis of every module with the epoch hooks
// of the fee collector, bonding and incentive modules enabled.
func NewDefaultGenesisState() GenesisState {
	genesis := ModuleBasics.DefaultGenesis(MakeEncodingConfig().Codec)

	epochsGenesis := epochstypes.DefaultGenesis()
	epochsGenesis.EnabledHooks = append([]string(nil), hookOrder...)
	genesis[epochstypes.ModuleName] = mustMarshalJSON(epochsGenesis)
	return genesis
}

// NewGenesisStateFromConfig creates genesis state with custom parameters
func NewGenesisStateFromConfig(config GenesisConfig) GenesisState {
	genesis := NewDefaultGenesisState()

	// Epochs: the first epoch starts at genesis
	var epochsGenesis epochstypes.GenesisState
	mustUnmarshalJSON(genesis[epochstypes.ModuleName], &epochsGenesis)
	epochsGenesis.Params.EpochDuration = config.EpochDuration
	if !config.GenesisTime.IsZero() {
		epochsGenesis.Params.GenesisStartTime = config.GenesisTime.UTC()
		epochsGenesis.CurrentEpoch = epochstypes.Epoch{ID: 0, StartTime: config.GenesisTime.UTC()}
	}
	genesis[epochstypes.ModuleName] = mustMarshalJSON(epochsGenesis)

	// Bank balances, the supply is derived from them
	bankGenesis := banktypes.DefaultGenesisState()
	bankGenesis.Balances = banktypes.SanitizeGenesisBalances(config.Balances)
	genesis[banktypes.ModuleName] = mustMarshalJSON(bankGenesis)

	var bondingGenesis bondingtypes.GenesisState
	mustUnmarshalJSON(genesis[bondingtypes.ModuleName], &bondingGenesis)
	bondingGenesis.Params.BondingDenoms = config.BondingDenoms
	bondingGenesis.Params.UnbondingPeriod = config.UnbondingPeriod
	genesis[bondingtypes.ModuleName] = mustMarshalJSON(bondingGenesis)

	var incentiveGenesis incentivetypes.GenesisState
	mustUnmarshalJSON(genesis[incentivetypes.ModuleName], &incentiveGenesis)
	incentiveGenesis.Params.FlowCreationFee = config.FlowCreationFee
	incentiveGenesis.Params.EmergencyUnlockPenalty = math.LegacyMustNewDecFromStr(config.EmergencyUnlockPenalty)
	genesis[incentivetypes.ModuleName] = mustMarshalJSON(incentiveGenesis)

	var vaultGenesis vaulttypes.GenesisState
	mustUnmarshalJSON(genesis[vaulttypes.ModuleName], &vaultGenesis)
	vaultGenesis.Params.VaultCreationFee = config.VaultCreationFee
	genesis[vaulttypes.ModuleName] = mustMarshalJSON(vaultGenesis)

	return genesis
}

// GenesisConfig holds configuration parameters for genesis state
type GenesisConfig struct {
	ChainID                string
	GenesisTime            time.Time
	EpochDuration          time.Duration
	Balances               []banktypes.Balance
	BondingDenoms          []string
	UnbondingPeriod        uint64
	FlowCreationFee        sdk.Coin
	EmergencyUnlockPenalty string
	VaultCreationFee       sdk.Coin
}

// DefaultGenesisConfig returns the default genesis configuration
func DefaultGenesisConfig() GenesisConfig {
	bonding := bondingtypes.DefaultParams()
	incentive := incentivetypes.DefaultParams()
	return GenesisConfig{
		ChainID:                DefaultChainID,
		EpochDuration:          24 * time.Hour, // daily epochs
		BondingDenoms:          bonding.BondingDenoms,
		UnbondingPeriod:        bonding.UnbondingPeriod,
		FlowCreationFee:        incentive.FlowCreationFee,
		EmergencyUnlockPenalty: incentive.EmergencyUnlockPenalty.String(),
		VaultCreationFee:       vaulttypes.DefaultParams().VaultCreationFee,
	}
}

// Helper functions
func mustMarshalJSON(v interface{}) json.RawMessage {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bz
}

func mustUnmarshalJSON(bz []byte, v interface{}) {
	if err := json.Unmarshal(bz, v); err != nil {
		panic(err)
	}
}
