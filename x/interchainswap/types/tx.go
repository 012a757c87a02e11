package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgServer defines the message server interface. Every method initiates a cross-chain
// operation and returns the sequence of the packet it sent.
type MsgServer interface {
	MakePool(context.Context, *MsgMakePool) (*MsgMakePoolResponse, error)
	TakePool(context.Context, *MsgTakePool) (*MsgTakePoolResponse, error)
	CancelPool(context.Context, *MsgCancelPool) (*MsgCancelPoolResponse, error)
	SingleAssetDeposit(context.Context, *MsgSingleAssetDeposit) (*MsgSingleAssetDepositResponse, error)
	MakeMultiAssetDeposit(context.Context, *MsgMakeMultiAssetDeposit) (*MsgMakeMultiAssetDepositResponse, error)
	TakeMultiAssetDeposit(context.Context, *MsgTakeMultiAssetDeposit) (*MsgTakeMultiAssetDepositResponse, error)
	CancelMultiAssetDeposit(context.Context, *MsgCancelMultiAssetDeposit) (*MsgCancelMultiAssetDepositResponse, error)
	MultiAssetWithdraw(context.Context, *MsgMultiAssetWithdraw) (*MsgMultiAssetWithdrawResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

// Response types

// MsgMakePoolResponse defines the response for MakePool
type MsgMakePoolResponse struct {
	PoolId   string `json:"pool_id"`
	Sequence uint64 `json:"sequence"`
}

// MsgTakePoolResponse defines the response for TakePool
type MsgTakePoolResponse struct {
	PoolId   string `json:"pool_id"`
	Sequence uint64 `json:"sequence"`
}

// MsgCancelPoolResponse defines the response for CancelPool
type MsgCancelPoolResponse struct {
	PoolId   string `json:"pool_id"`
	Sequence uint64 `json:"sequence"`
}

// MsgSingleAssetDepositResponse defines the response for SingleAssetDeposit
type MsgSingleAssetDepositResponse struct {
	PoolToken sdk.Coin `json:"pool_token"`
	Sequence  uint64   `json:"sequence"`
}

// MsgMakeMultiAssetDepositResponse defines the response for MakeMultiAssetDeposit
type MsgMakeMultiAssetDepositResponse struct {
	OrderId   string     `json:"order_id"`
	Accepted  []sdk.Coin `json:"accepted"`
	Remainder []sdk.Coin `json:"remainder,omitempty"`
	Sequence  uint64     `json:"sequence"`
}

// MsgTakeMultiAssetDepositResponse defines the response for TakeMultiAssetDeposit
type MsgTakeMultiAssetDepositResponse struct {
	PoolTokens []sdk.Coin `json:"pool_tokens"`
	Sequence   uint64     `json:"sequence"`
}

// MsgCancelMultiAssetDepositResponse defines the response for CancelMultiAssetDeposit
type MsgCancelMultiAssetDepositResponse struct {
	OrderId  string `json:"order_id"`
	Sequence uint64 `json:"sequence"`
}

// MsgMultiAssetWithdrawResponse defines the response for MultiAssetWithdraw
type MsgMultiAssetWithdrawResponse struct {
	Tokens   []sdk.Coin `json:"tokens"`
	Sequence uint64     `json:"sequence"`
}

// MsgSwapResponse defines the response for Swap
type MsgSwapResponse struct {
	TokenIn  sdk.Coin `json:"token_in"`
	TokenOut sdk.Coin `json:"token_out"`
	Sequence uint64   `json:"sequence"`
}

// MsgUpdateParamsResponse defines the response for UpdateParams
type MsgUpdateParamsResponse struct{}
