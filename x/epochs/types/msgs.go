package types

import (
	"context"
)

// MsgCreateEpoch advances the epoch once the current one has expired. Anyone may send it.
type MsgCreateEpoch struct {
	Sender string `json:"sender"`
}

type MsgCreateEpochResponse struct {
	Epoch Epoch `json:"epoch"`
}

// MsgAddHook enables a hook registered at wiring time.
type MsgAddHook struct {
	Authority string `json:"authority"`
	Hook      string `json:"hook"`
}

type MsgAddHookResponse struct{}

// MsgRemoveHook disables a hook.
type MsgRemoveHook struct {
	Authority string `json:"authority"`
	Hook      string `json:"hook"`
}

type MsgRemoveHookResponse struct{}

// MsgUpdateParams replaces the module params.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer is the epochs transaction surface.
type MsgServer interface {
	CreateEpoch(context.Context, *MsgCreateEpoch) (*MsgCreateEpochResponse, error)
	AddHook(context.Context, *MsgAddHook) (*MsgAddHookResponse, error)
	RemoveHook(context.Context, *MsgRemoveHook) (*MsgRemoveHookResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type QueryCurrentEpochRequest struct{}

type QueryCurrentEpochResponse struct {
	Epoch Epoch `json:"epoch"`
}

type QueryEpochRequest struct {
	ID uint64 `json:"id"`
}

type QueryEpochResponse struct {
	Epoch Epoch `json:"epoch"`
}

type QueryHooksRequest struct{}

type QueryHooksResponse struct {
	Registered []string `json:"registered"`
	Enabled    []string `json:"enabled"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

// QueryServer is the epochs query surface.
type QueryServer interface {
	CurrentEpoch(context.Context, *QueryCurrentEpochRequest) (*QueryCurrentEpochResponse, error)
	Epoch(context.Context, *QueryEpochRequest) (*QueryEpochResponse, error)
	Hooks(context.Context, *QueryHooksRequest) (*QueryHooksResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
}
