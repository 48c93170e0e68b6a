package abci_test

import (
	"errors"
	"testing"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/x/shared/abci"
)

func TestRunCachedDropsFailedWrites(t *testing.T) {
	key := storetypes.NewKVStoreKey("test")
	ctx := testutil.DefaultContext(key, storetypes.NewTransientStoreKey("transient_test"))
	handler := abci.NewBlockerErrorHandler(ctx, "test")

	ok := handler.RunCached("write_then_fail", abci.SeverityHigh, func(cacheCtx sdk.Context) error {
		cacheCtx.KVStore(key).Set([]byte("a"), []byte("1"))
		return errors.New("boom")
	})
	require.False(t, ok)
	require.False(t, ctx.KVStore(key).Has([]byte("a")))

	ok = handler.RunCached("write", abci.SeverityHigh, func(cacheCtx sdk.Context) error {
		cacheCtx.KVStore(key).Set([]byte("b"), []byte("2"))
		return nil
	})
	require.True(t, ok)
	require.Equal(t, []byte("2"), ctx.KVStore(key).Get([]byte("b")))

	var failures int
	for _, event := range ctx.EventManager().Events() {
		if event.Type != "abci_blocker_error" {
			continue
		}
		failures++
		attr, found := event.GetAttribute("operation")
		require.True(t, found)
		require.Equal(t, "write_then_fail", attr.Value)
	}
	require.Equal(t, 1, failures)
}

func TestWrapErrorReportsFailure(t *testing.T) {
	ctx := testutil.DefaultContext(storetypes.NewKVStoreKey("test"), storetypes.NewTransientStoreKey("transient_test"))
	handler := abci.NewBlockerErrorHandler(ctx, "test")

	require.False(t, handler.WrapError("noop", abci.SeverityLow, nil))
	require.True(t, handler.WrapError("prune", abci.SeverityLow, errors.New("stale")))
	require.Len(t, ctx.EventManager().Events(), 1)
}

func TestSeverityString(t *testing.T) {
	require.Equal(t, "low", abci.SeverityLow.String())
	require.Equal(t, "critical", abci.SeverityCritical.String())
	require.Equal(t, "unknown", abci.ErrorSeverity(42).String())
}
