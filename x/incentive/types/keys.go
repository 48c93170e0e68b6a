package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "incentive"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	ParamsKey              = []byte{0x01}
	FlowCounterKey         = []byte{0x02}
	FlowKeyPrefix          = []byte{0x03}
	FlowLabelKeyPrefix     = []byte{0x04}
	FlowLpDenomKeyPrefix   = []byte{0x05}
	PositionCounterKey     = []byte{0x06}
	PositionKeyPrefix      = []byte{0x07}
	AddressWeightKeyPrefix = []byte{0x08}
	LpWeightKeyPrefix      = []byte{0x09}
	SnapshotKeyPrefix      = []byte{0x0A}
	GlobalWeightKeyPrefix  = []byte{0x0B}
	LastClaimedKeyPrefix   = []byte{0x0C}
	AddressLpDenomPrefix   = []byte{0x0D}
	ProtocolFeeKeyPrefix   = []byte{0x0E}
	LpDenomKeyPrefix       = []byte{0x0F}
	PositionOwnerKeyPrefix = []byte{0x10}
)

func prefixed(prefix []byte, parts ...[]byte) []byte {
	key := append([]byte{}, prefix...)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

func lengthPrefixed(s string) []byte {
	return address.MustLengthPrefix([]byte(s))
}

// GetFlowKey returns the store key of a flow
func GetFlowKey(id uint64) []byte {
	return prefixed(FlowKeyPrefix, sdk.Uint64ToBigEndian(id))
}

// GetFlowLabelKey returns the store key mapping a label to its flow id
func GetFlowLabelKey(label string) []byte {
	return prefixed(FlowLabelKeyPrefix, []byte(label))
}

// GetFlowLpDenomPrefix returns the prefix of the flows rewarding an LP denom
func GetFlowLpDenomPrefix(lpDenom string) []byte {
	return prefixed(FlowLpDenomKeyPrefix, lengthPrefixed(lpDenom))
}

// GetFlowLpDenomKey returns the index key of a flow under its LP denom
func GetFlowLpDenomKey(lpDenom string, id uint64) []byte {
	return prefixed(GetFlowLpDenomPrefix(lpDenom), sdk.Uint64ToBigEndian(id))
}

// GetPositionKey returns the store key of a position
func GetPositionKey(identifier string) []byte {
	return prefixed(PositionKeyPrefix, []byte(identifier))
}

// GetPositionOwnerPrefix returns the prefix of the position index of an owner
func GetPositionOwnerPrefix(owner string) []byte {
	return prefixed(PositionOwnerKeyPrefix, lengthPrefixed(owner))
}

// GetPositionOwnerKey returns the index key of a position under its owner
func GetPositionOwnerKey(owner, identifier string) []byte {
	return prefixed(GetPositionOwnerPrefix(owner), []byte(identifier))
}

// GetAddressWeightPrefix returns the prefix of an address's weight history for an LP denom
func GetAddressWeightPrefix(addr, lpDenom string) []byte {
	return prefixed(AddressWeightKeyPrefix, lengthPrefixed(addr), lengthPrefixed(lpDenom))
}

// GetAddressWeightKey returns the key of an address's weight for an LP denom at an epoch
func GetAddressWeightKey(addr, lpDenom string, epoch uint64) []byte {
	return prefixed(GetAddressWeightPrefix(addr, lpDenom), sdk.Uint64ToBigEndian(epoch))
}

// GetLpWeightPrefix returns the prefix of the total weight history of an LP denom
func GetLpWeightPrefix(lpDenom string) []byte {
	return prefixed(LpWeightKeyPrefix, lengthPrefixed(lpDenom))
}

// GetLpWeightKey returns the key of the total weight of an LP denom at an epoch
func GetLpWeightKey(lpDenom string, epoch uint64) []byte {
	return prefixed(GetLpWeightPrefix(lpDenom), sdk.Uint64ToBigEndian(epoch))
}

// GetSnapshotKey returns the marker key of the global weight snapshot of an epoch
func GetSnapshotKey(epoch uint64) []byte {
	return prefixed(SnapshotKeyPrefix, sdk.Uint64ToBigEndian(epoch))
}

// GetGlobalWeightEpochPrefix returns the prefix of the snapshot entries of an epoch
func GetGlobalWeightEpochPrefix(epoch uint64) []byte {
	return prefixed(GlobalWeightKeyPrefix, sdk.Uint64ToBigEndian(epoch))
}

// GetGlobalWeightKey returns the snapshot entry of an LP denom at an epoch
func GetGlobalWeightKey(epoch uint64, lpDenom string) []byte {
	return prefixed(GetGlobalWeightEpochPrefix(epoch), []byte(lpDenom))
}

// GetLastClaimedKey returns the key of an address's last claimed epoch
func GetLastClaimedKey(addr string) []byte {
	return prefixed(LastClaimedKeyPrefix, []byte(addr))
}

// GetAddressLpDenomPrefix returns the prefix of the LP denoms an address ever weighed in
func GetAddressLpDenomPrefix(addr string) []byte {
	return prefixed(AddressLpDenomPrefix, lengthPrefixed(addr))
}

// GetAddressLpDenomKey returns the index key of an LP denom for an address
func GetAddressLpDenomKey(addr, lpDenom string) []byte {
	return prefixed(GetAddressLpDenomPrefix(addr), []byte(lpDenom))
}

// GetProtocolFeeKey returns the key of the accrued protocol fee of a denom
func GetProtocolFeeKey(denom string) []byte {
	return prefixed(ProtocolFeeKeyPrefix, []byte(denom))
}

// GetLpDenomKey returns the index key of an LP denom that ever carried weight
func GetLpDenomKey(lpDenom string) []byte {
	return prefixed(LpDenomKeyPrefix, []byte(lpDenom))
}
