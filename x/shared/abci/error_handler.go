// Package abci provides shared error handling for block handlers and epoch hooks.
package abci

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ErrorSeverity classifies the severity of errors raised by block handlers.
type ErrorSeverity int

const (
	// SeverityLow covers housekeeping failures such as pruning.
	SeverityLow ErrorSeverity = iota

	// SeverityMedium covers degraded bookkeeping, e.g. a fee sweep that could not run.
	SeverityMedium

	// SeverityHigh covers failures of reward accounting steps (snapshots, buckets).
	SeverityHigh

	// SeverityCritical covers failures that leave module state inconsistent.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// BlockerErrorHandler logs errors with a severity and emits a monitoring event.
// Block handlers and epoch hooks must not halt the chain, so callers continue after handling.
type BlockerErrorHandler struct {
	moduleName string
	ctx        sdk.Context
}

// NewBlockerErrorHandler creates a new error handler for the given module.
func NewBlockerErrorHandler(ctx sdk.Context, moduleName string) *BlockerErrorHandler {
	return &BlockerErrorHandler{
		moduleName: moduleName,
		ctx:        ctx,
	}
}

// HandleError logs and emits an event for an error with the given severity.
func (h *BlockerErrorHandler) HandleError(operation string, severity ErrorSeverity, err error) {
	if err == nil {
		return
	}

	logger := h.ctx.Logger()
	keyvals := []any{
		"module", h.moduleName,
		"operation", operation,
		"severity", severity.String(),
		"error", err.Error(),
	}
	switch severity {
	case SeverityCritical:
		logger.Error("CRITICAL block handler error", keyvals...)
	case SeverityHigh:
		logger.Error("block handler error", keyvals...)
	case SeverityMedium:
		logger.Warn("block handler warning", keyvals...)
	default:
		logger.Debug("block handler minor issue", keyvals...)
	}

	h.ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"abci_blocker_error",
			sdk.NewAttribute("module", h.moduleName),
			sdk.NewAttribute("operation", operation),
			sdk.NewAttribute("severity", severity.String()),
			sdk.NewAttribute("error", err.Error()),
			sdk.NewAttribute("height", fmt.Sprintf("%d", h.ctx.BlockHeight())),
		),
	)
}

// WrapError handles err and reports whether there was one.
//
//	if handler.WrapError("prune_flows", SeverityLow, k.PruneExpiredFlows(ctx)) {
//	    // continue with the next step
//	}
func (h *BlockerErrorHandler) WrapError(operation string, severity ErrorSeverity, err error) bool {
	if err != nil {
		h.HandleError(operation, severity, err)
		return true
	}
	return false
}

// RunCached executes fn against a cache of the handler context. Writes are committed only
// when fn succeeds; on failure they are dropped and the error is handled.
func (h *BlockerErrorHandler) RunCached(operation string, severity ErrorSeverity, fn func(ctx sdk.Context) error) bool {
	cacheCtx, write := h.ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		h.HandleError(operation, severity, err)
		return false
	}
	write()
	return true
}
