package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "epochs"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	ParamsKey       = []byte{0x01}
	CurrentEpochKey = []byte{0x02}
	EpochKeyPrefix  = []byte{0x03}
	HookKeyPrefix   = []byte{0x04}
)

// GetEpochKey returns the store key of an epoch by id
func GetEpochKey(id uint64) []byte {
	return append(append([]byte{}, EpochKeyPrefix...), sdk.Uint64ToBigEndian(id)...)
}

// GetHookKey returns the store key marking a hook as enabled
func GetHookKey(name string) []byte {
	return append(append([]byte{}, HookKeyPrefix...), []byte(name)...)
}
