package types

const (
	// ModuleName defines the module name
	ModuleName = "feecollector"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store keys
var (
	ParamsKey          = []byte{0x01}
	CollectedKeyPrefix = []byte{0x02}
)

// GetCollectedKey returns the key of the lifetime total collected from a source
func GetCollectedKey(source string) []byte {
	return append(append([]byte{}, CollectedKeyPrefix...), []byte(source)...)
}
