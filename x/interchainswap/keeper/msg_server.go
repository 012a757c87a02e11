package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
	sharedkeeper "github.com/ics101/interchainswap/x/shared/keeper"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the interchainswap MsgServer interface
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// fail counts a rejected request and tags the error with the operation name
func (ms msgServer) fail(op string, msgType types.SwapMessageType, err error) error {
	ms.metrics.recordError(types.StageInitiate, msgType, err)
	return fmt.Errorf("%s: %w", op, err)
}

// MakePool proposes a new pool to the counterparty chain
func (ms msgServer) MakePool(goCtx context.Context, msg *types.MsgMakePool) (*types.MsgMakePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("MakePool: validate", types.MessageTypeMakePool, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	poolID, sequence, err := ms.Keeper.MakePool(ctx, *msg)
	if err != nil {
		return nil, ms.fail("MakePool", types.MessageTypeMakePool, err)
	}

	return &types.MsgMakePoolResponse{
		PoolId:   poolID,
		Sequence: sequence,
	}, nil
}

// TakePool accepts a proposed pool
func (ms msgServer) TakePool(goCtx context.Context, msg *types.MsgTakePool) (*types.MsgTakePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("TakePool: validate", types.MessageTypeTakePool, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	sequence, err := ms.Keeper.TakePool(ctx, *msg)
	if err != nil {
		return nil, ms.fail("TakePool", types.MessageTypeTakePool, err)
	}

	return &types.MsgTakePoolResponse{
		PoolId:   msg.PoolId,
		Sequence: sequence,
	}, nil
}

// CancelPool withdraws a pool proposal
func (ms msgServer) CancelPool(goCtx context.Context, msg *types.MsgCancelPool) (*types.MsgCancelPoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("CancelPool: validate", types.MessageTypeCancelPool, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	sequence, err := ms.Keeper.CancelPool(ctx, *msg)
	if err != nil {
		return nil, ms.fail("CancelPool", types.MessageTypeCancelPool, err)
	}

	return &types.MsgCancelPoolResponse{
		PoolId:   msg.PoolId,
		Sequence: sequence,
	}, nil
}

// SingleAssetDeposit deposits one asset into an active pool
func (ms msgServer) SingleAssetDeposit(goCtx context.Context, msg *types.MsgSingleAssetDeposit) (*types.MsgSingleAssetDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("SingleAssetDeposit: validate", types.MessageTypeSingleAssetDeposit, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	shares, sequence, err := ms.Keeper.SingleAssetDeposit(ctx, *msg)
	if err != nil {
		return nil, ms.fail("SingleAssetDeposit", types.MessageTypeSingleAssetDeposit, err)
	}

	return &types.MsgSingleAssetDepositResponse{
		PoolToken: shares,
		Sequence:  sequence,
	}, nil
}

// MakeMultiAssetDeposit opens a two-sided deposit order
func (ms msgServer) MakeMultiAssetDeposit(goCtx context.Context, msg *types.MsgMakeMultiAssetDeposit) (*types.MsgMakeMultiAssetDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("MakeMultiAssetDeposit: validate", types.MessageTypeMakeMultiDeposit, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	order, remainder, sequence, err := ms.Keeper.MakeMultiAssetDeposit(ctx, *msg)
	if err != nil {
		return nil, ms.fail("MakeMultiAssetDeposit", types.MessageTypeMakeMultiDeposit, err)
	}

	return &types.MsgMakeMultiAssetDepositResponse{
		OrderId:   order.Id,
		Accepted:  order.Deposits,
		Remainder: remainder,
		Sequence:  sequence,
	}, nil
}

// TakeMultiAssetDeposit completes a pending order
func (ms msgServer) TakeMultiAssetDeposit(goCtx context.Context, msg *types.MsgTakeMultiAssetDeposit) (*types.MsgTakeMultiAssetDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("TakeMultiAssetDeposit: validate", types.MessageTypeTakeMultiDeposit, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	shares, sequence, err := ms.Keeper.TakeMultiAssetDeposit(ctx, *msg)
	if err != nil {
		return nil, ms.fail("TakeMultiAssetDeposit", types.MessageTypeTakeMultiDeposit, err)
	}

	return &types.MsgTakeMultiAssetDepositResponse{
		PoolTokens: shares,
		Sequence:   sequence,
	}, nil
}

// CancelMultiAssetDeposit withdraws a pending order
func (ms msgServer) CancelMultiAssetDeposit(goCtx context.Context, msg *types.MsgCancelMultiAssetDeposit) (*types.MsgCancelMultiAssetDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("CancelMultiAssetDeposit: validate", types.MessageTypeCancelMultiDeposit, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	sequence, err := ms.Keeper.CancelMultiAssetDeposit(ctx, *msg)
	if err != nil {
		return nil, ms.fail("CancelMultiAssetDeposit", types.MessageTypeCancelMultiDeposit, err)
	}

	return &types.MsgCancelMultiAssetDepositResponse{
		OrderId:  msg.OrderId,
		Sequence: sequence,
	}, nil
}

// MultiAssetWithdraw redeems LP shares for both pool assets
func (ms msgServer) MultiAssetWithdraw(goCtx context.Context, msg *types.MsgMultiAssetWithdraw) (*types.MsgMultiAssetWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("MultiAssetWithdraw: validate", types.MessageTypeMultiWithdraw, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	tokens, sequence, err := ms.Keeper.MultiAssetWithdraw(ctx, *msg)
	if err != nil {
		return nil, ms.fail("MultiAssetWithdraw", types.MessageTypeMultiWithdraw, err)
	}

	return &types.MsgMultiAssetWithdrawResponse{
		Tokens:   tokens,
		Sequence: sequence,
	}, nil
}

// Swap trades the local pool asset for the counterparty asset
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, ms.fail("Swap: validate", types.MessageTypeSwap, err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	tokenIn, tokenOut, sequence, err := ms.Keeper.Swap(ctx, *msg)
	if err != nil {
		return nil, ms.fail("Swap", types.MessageTypeSwap, err)
	}

	return &types.MsgSwapResponse{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		Sequence: sequence,
	}, nil
}

// UpdateParams replaces the module parameters on behalf of governance
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateParams: validate: %w", err)
	}
	if err := sharedkeeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
		return nil, err
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	if err := ms.SetParams(ctx, msg.Params); err != nil {
		return nil, fmt.Errorf("UpdateParams: %w", err)
	}

	ms.Logger(ctx).Info("params updated",
		"enabled", msg.Params.Enabled,
		"max_fee_rate", msg.Params.MaxFeeRate,
		"default_timeout_seconds", msg.Params.DefaultTimeoutSeconds,
	)
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateParams,
			sdk.NewAttribute(sdk.AttributeKeyModule, types.ModuleName),
			sdk.NewAttribute(sdk.AttributeKeySender, msg.Authority),
		),
	)

	return &types.MsgUpdateParamsResponse{}, nil
}
