package app

import (
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	"github.com/cosmos/cosmos-sdk/x/auth/tx"
)

// EncodingConfig holds the codecs the app needs for the auth and bank genesis states.
// Liquidity hub module state is JSON encoded and needs no registration.
type EncodingConfig struct {
	Registry codectypes.InterfaceRegistry
	Codec    codec.Codec
	TxConfig client.TxConfig
}

// MakeEncodingConfig builds the proto codec over the standard crypto and account types
func MakeEncodingConfig() EncodingConfig {
	registry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(registry)
	ModuleBasics.RegisterInterfaces(registry)

	cdc := codec.NewProtoCodec(registry)
	return EncodingConfig{
		Registry: registry,
		Codec:    cdc,
		TxConfig: tx.NewTxConfig(cdc, tx.DefaultSignModes),
	}
}
