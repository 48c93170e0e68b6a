package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "bonding"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	ParamsKey            = []byte{0x01}
	BondKeyPrefix        = []byte{0x02}
	UnbondingKeyPrefix   = []byte{0x03}
	GlobalIndexKey       = []byte{0x04}
	BucketKeyPrefix      = []byte{0x05}
	UpcomingRewardsKey   = []byte{0x06}
	LastClaimedKeyPrefix = []byte{0x07}
)

// GetBondPrefix returns the prefix of the bonds of an address
func GetBondPrefix(addr string) []byte {
	return append(append([]byte{}, BondKeyPrefix...), address.MustLengthPrefix([]byte(addr))...)
}

// GetBondKey returns the store key of the bond of an address in a denom
func GetBondKey(addr, denom string) []byte {
	return append(GetBondPrefix(addr), []byte(denom)...)
}

// GetUnbondingDenomPrefix returns the prefix of the unbonding entries of an address in a denom
func GetUnbondingDenomPrefix(addr, denom string) []byte {
	key := append(append([]byte{}, UnbondingKeyPrefix...), address.MustLengthPrefix([]byte(addr))...)
	return append(key, address.MustLengthPrefix([]byte(denom))...)
}

// GetUnbondingAddressPrefix returns the prefix of every unbonding entry of an address
func GetUnbondingAddressPrefix(addr string) []byte {
	return append(append([]byte{}, UnbondingKeyPrefix...), address.MustLengthPrefix([]byte(addr))...)
}

// GetUnbondingKey returns the key of the unbonding entry created at an epoch
func GetUnbondingKey(addr, denom string, epoch uint64) []byte {
	return append(GetUnbondingDenomPrefix(addr, denom), sdk.Uint64ToBigEndian(epoch)...)
}

// GetBucketKey returns the store key of the reward bucket of an epoch
func GetBucketKey(id uint64) []byte {
	return append(append([]byte{}, BucketKeyPrefix...), sdk.Uint64ToBigEndian(id)...)
}

// GetLastClaimedKey returns the key of an address's last claimed epoch
func GetLastClaimedKey(addr string) []byte {
	return append(append([]byte{}, LastClaimedKeyPrefix...), []byte(addr)...)
}
