package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// ackHandler finalizes operations the counterparty applied successfully.
type ackHandler struct {
	k Keeper
}

func (h ackHandler) pool(ctx sdk.Context, pc packetContext) (types.InterchainLiquidityPool, error) {
	return h.k.channelPool(ctx, pc.stateChange.PoolId, pc.packet.SourceChannel)
}

func (h ackHandler) MakePool(ctx sdk.Context, pc packetContext, msg types.MsgMakePool) error {
	emitStageEvent(ctx, types.MessageTypeMakePool, types.StageAck, pc.stateChange.PoolId,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
	)
	return nil
}

func (h ackHandler) TakePool(ctx sdk.Context, pc packetContext, msg types.MsgTakePool) error {
	pool, err := h.pool(ctx, pc)
	if err != nil {
		return err
	}
	if len(pc.stateChange.PoolTokens) != 2 {
		return errorsmod.Wrap(types.ErrInvalidPacket, "take pool carries two share amounts")
	}

	if _, err := pool.AddSupply(pc.stateChange.TotalPoolTokens(pool.Supply.Denom)); err != nil {
		return err
	}
	pool.Status = types.PoolStatusActive
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	shares := pc.stateChange.PoolTokens[1]
	if err := h.k.mintShares(ctx, pool.DestinationCreator, shares); err != nil {
		return err
	}

	h.k.metrics.PoolsActivated.Inc()
	h.k.metrics.SharesMinted.WithLabelValues(pool.Id).Add(toFloat(shares.Amount))
	emitStageEvent(ctx, types.MessageTypeTakePool, types.StageAck, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, shares.String()),
		sdk.NewAttribute(types.AttributeKeyStatus, pool.Status.String()),
	)
	return nil
}

func (h ackHandler) CancelPool(ctx sdk.Context, pc packetContext, msg types.MsgCancelPool) error {
	pool, err := h.pool(ctx, pc)
	if err != nil {
		return err
	}
	escrowed, err := pool.FindAssetBySide(types.PoolSideSource)
	if err != nil {
		return err
	}

	h.k.DeletePool(ctx, pool.Id)
	if err := h.k.refund(ctx, pool.SourceCreator, sdk.NewCoins(escrowed.Balance)); err != nil {
		return err
	}

	emitStageEvent(ctx, types.MessageTypeCancelPool, types.StageAck, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyStatus, types.PoolStatusCancelled.String()),
	)
	return nil
}

func (h ackHandler) SingleAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgSingleAssetDeposit) error {
	pool, err := h.pool(ctx, pc)
	if err != nil {
		return err
	}
	if len(pc.stateChange.InTokens) != 1 || len(pc.stateChange.PoolTokens) != 1 {
		return errorsmod.Wrap(types.ErrInvalidPacket, "single asset deposit carries one token and one share amount")
	}
	token, shares := pc.stateChange.InTokens[0], pc.stateChange.PoolTokens[0]

	if _, err := pool.AddAsset(token); err != nil {
		return err
	}
	if _, err := pool.AddSupply(shares); err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := h.k.mintShares(ctx, msg.Sender, shares); err != nil {
		return err
	}

	h.k.metrics.SharesMinted.WithLabelValues(pool.Id).Add(toFloat(shares.Amount))
	emitStageEvent(ctx, types.MessageTypeSingleAssetDeposit, types.StageAck, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, shares.String()),
	)
	return nil
}

func (h ackHandler) MakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgMakeMultiAssetDeposit) error {
	emitStageEvent(ctx, types.MessageTypeMakeMultiDeposit, types.StageAck, pc.stateChange.PoolId,
		sdk.NewAttribute(types.AttributeKeyOrderID, pc.stateChange.MultiDepositOrderId),
		sdk.NewAttribute(types.AttributeKeySender, msg.Maker()),
	)
	return nil
}

func (h ackHandler) TakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgTakeMultiAssetDeposit) error {
	pool, err := h.pool(ctx, pc)
	if err != nil {
		return err
	}
	sc := pc.stateChange
	if len(sc.InTokens) != 2 || len(sc.PoolTokens) != 2 {
		return errorsmod.Wrap(types.ErrInvalidPacket, "multi asset deposit carries two legs and two share amounts")
	}

	for _, token := range sc.InTokens {
		if _, err := pool.AddAsset(token); err != nil {
			return err
		}
	}
	if _, err := pool.AddSupply(sc.TotalPoolTokens(pool.Supply.Denom)); err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := h.k.mintShares(ctx, msg.Sender, sc.PoolTokens[1]); err != nil {
		return err
	}

	h.k.metrics.SharesMinted.WithLabelValues(pool.Id).Add(toFloat(sc.PoolTokens[1].Amount))
	emitStageEvent(ctx, types.MessageTypeTakeMultiDeposit, types.StageAck, pool.Id,
		sdk.NewAttribute(types.AttributeKeyOrderID, msg.OrderId),
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, sc.PoolTokens[1].String()),
	)
	return nil
}

func (h ackHandler) CancelMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgCancelMultiAssetDeposit) error {
	order, err := h.k.GetOrder(ctx, pc.stateChange.PoolId, msg.OrderId)
	if err != nil {
		return err
	}
	if order.ChainId == ctx.ChainID() {
		if err := h.k.refund(ctx, order.SourceMaker, sdk.NewCoins(order.Deposits[0])); err != nil {
			return err
		}
	}

	emitStageEvent(ctx, types.MessageTypeCancelMultiDeposit, types.StageAck, order.PoolId,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyStatus, order.Status.String()),
	)
	return nil
}

func (h ackHandler) MultiAssetWithdraw(ctx sdk.Context, pc packetContext, msg types.MsgMultiAssetWithdraw) error {
	pool, err := h.pool(ctx, pc)
	if err != nil {
		return err
	}
	native, err := applyWithdraw(&pool, pc.stateChange)
	if err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := h.k.burnShares(ctx, pc.stateChange.PoolTokens[0]); err != nil {
		return err
	}
	if err := h.k.release(ctx, msg.Receiver, sdk.NewCoins(native)); err != nil {
		return err
	}

	emitStageEvent(ctx, types.MessageTypeMultiWithdraw, types.StageAck, pool.Id,
		sdk.NewAttribute(types.AttributeKeyReceiver, msg.Receiver),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, pc.stateChange.PoolTokens[0].String()),
		sdk.NewAttribute(types.AttributeKeyTokensOut, native.String()),
	)
	return nil
}

func (h ackHandler) Swap(ctx sdk.Context, pc packetContext, msg types.MsgSwap) error {
	pool, err := h.pool(ctx, pc)
	if err != nil {
		return err
	}
	tokenIn, tokenOut, err := applySwap(&pool, pc.stateChange, types.PoolSideSource)
	if err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}

	h.k.metrics.SwapVolume.WithLabelValues(pool.Id, tokenIn.Denom).Add(toFloat(tokenIn.Amount))
	emitStageEvent(ctx, types.MessageTypeSwap, types.StageAck, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyTokensIn, tokenIn.String()),
		sdk.NewAttribute(types.AttributeKeyTokensOut, tokenOut.String()),
	)
	return nil
}
