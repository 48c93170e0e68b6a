package types

// Event types for the incentive module
const (
	EventTypeFlowOpened        = "flow_opened"
	EventTypeFlowExpanded      = "flow_expanded"
	EventTypeFlowClosed        = "flow_closed"
	EventTypePositionFilled    = "position_filled"
	EventTypePositionClosed    = "position_closed"
	EventTypePositionWithdrawn = "position_withdrawn"
	EventTypeEmergencyUnlock   = "position_emergency_unlock"
	EventTypeSnapshot          = "global_weight_snapshot"
	EventTypeClaim             = "incentive_claim"
	EventTypeFeeCollected      = "incentive_fees_collected"
)

// Attribute keys for the incentive module
const (
	AttributeKeyFlowID     = "flow_id"
	AttributeKeyFlowLabel  = "flow_label"
	AttributeKeyCreator    = "creator"
	AttributeKeyLpDenom    = "lp_denom"
	AttributeKeyAsset      = "asset"
	AttributeKeyStartEpoch = "start_epoch"
	AttributeKeyEndEpoch   = "end_epoch"
	AttributeKeyRefund     = "refund"
	AttributeKeyOwner      = "owner"
	AttributeKeyPosition   = "position"
	AttributeKeyWeight     = "weight"
	AttributeKeyPenalty    = "penalty"
	AttributeKeyEpochID    = "epoch_id"
	AttributeKeyRewards    = "rewards"
	AttributeKeyExpiringAt = "expiring_at"
	AttributeKeyAmount     = "amount"
)
