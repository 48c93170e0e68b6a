package types

const (
	// ModuleName defines the module name
	ModuleName = "vault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store keys
var (
	ParamsKey            = []byte{0x01}
	VaultCounterKey      = []byte{0x02}
	VaultKeyPrefix       = []byte{0x03}
	VaultLpDenomPrefix   = []byte{0x04}
	ProtocolFeeKeyPrefix = []byte{0x05}
	OngoingFlashLoanKey  = []byte{0x06}
)

// GetVaultKey returns the store key of a vault
func GetVaultKey(identifier string) []byte {
	return append(append([]byte{}, VaultKeyPrefix...), []byte(identifier)...)
}

// GetVaultLpDenomKey returns the lp denom index key of a vault
func GetVaultLpDenomKey(lpDenom string) []byte {
	return append(append([]byte{}, VaultLpDenomPrefix...), []byte(lpDenom)...)
}

// GetProtocolFeeKey returns the key of the accrued protocol fee of a denom
func GetProtocolFeeKey(denom string) []byte {
	return append(append([]byte{}, ProtocolFeeKeyPrefix...), []byte(denom)...)
}
