package types

// Event types for the bonding module
const (
	EventTypeBond          = "bond"
	EventTypeUnbond        = "unbond"
	EventTypeWithdraw      = "bonding_withdraw"
	EventTypeClaim         = "bonding_claim"
	EventTypeFillRewards   = "fill_rewards"
	EventTypeBucketCreated = "reward_bucket_created"
)

// Attribute keys for the bonding module
const (
	AttributeKeyAddress   = "address"
	AttributeKeyAmount    = "amount"
	AttributeKeyEpochID   = "epoch_id"
	AttributeKeyRewards   = "rewards"
	AttributeKeyForwarded = "forwarded"
	AttributeKeySource    = "source"
)
