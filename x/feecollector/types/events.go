package types

// Event types for the fee collector module
const (
	EventTypeFeesCollected = "fees_collected"
	EventTypeFeesForwarded = "fees_forwarded"
)

// Attribute keys for the fee collector module
const (
	AttributeKeySource = "source"
	AttributeKeyAmount = "amount"
)
