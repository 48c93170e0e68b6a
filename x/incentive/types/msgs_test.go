package types_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/x/incentive/types"
)

func TestMsgManageFlowValidateBasic(t *testing.T) {
	sender := sdk.AccAddress([]byte("manage_flow_sender__")).String()
	asset := sdk.NewInt64Coin("uusdc", 1_000)

	tests := []struct {
		name string
		msg  types.MsgManageFlow
		err  error
	}{
		{
			name: "fill",
			msg:  types.MsgManageFlow{Sender: sender, Action: types.FlowActionFill, LpDenom: "pool.lp", Asset: asset},
		},
		{
			name: "close",
			msg:  types.MsgManageFlow{Sender: sender, Action: types.FlowActionClose, FlowIdentifier: "1"},
		},
		{
			name: "invalid sender",
			msg:  types.MsgManageFlow{Sender: "nope", Action: types.FlowActionFill, Asset: asset},
			err:  types.ErrUnauthorized,
		},
		{
			name: "unknown action",
			msg:  types.MsgManageFlow{Sender: sender, Action: "drain", Asset: asset},
			err:  types.ErrInvalidFlowAction,
		},
		{
			name: "missing action",
			msg:  types.MsgManageFlow{Sender: sender, Asset: asset},
			err:  types.ErrInvalidFlowAction,
		},
		{
			name: "close without identifier",
			msg:  types.MsgManageFlow{Sender: sender, Action: types.FlowActionClose},
			err:  types.ErrNonExistentFlow,
		},
		{
			name: "fill without asset",
			msg:  types.MsgManageFlow{Sender: sender, Action: types.FlowActionFill, LpDenom: "pool.lp"},
			err:  types.ErrFlowAssetNotSent,
		},
		{
			name: "fill with unknown curve",
			msg:  types.MsgManageFlow{Sender: sender, Action: types.FlowActionFill, Asset: asset, Curve: "cubic"},
			err:  types.ErrInvalidCurve,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}
