package types

// Event types and attribute keys for the epochs module
const (
	EventTypeEpochCreated = "epoch_created"
	EventTypeHookAdded    = "epoch_hook_added"
	EventTypeHookRemoved  = "epoch_hook_removed"

	AttributeKeyEpochID   = "epoch_id"
	AttributeKeyStartTime = "start_time"
	AttributeKeyHook      = "hook"
)
