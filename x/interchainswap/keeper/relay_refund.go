package keeper

import (
	"errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// refundHandler rolls back operations the counterparty rejected or never received. It
// returns escrow from the in-flight record and undoes whatever the initiating call staged.
//
// A timeout on an ordered channel closes it, so nothing staged for the counterparty can
// complete afterwards; staged cancellations are then finalized instead of reverted.
type refundHandler struct {
	k Keeper
}

func (h refundHandler) refundEscrow(ctx sdk.Context, pc packetContext) error {
	if pc.inflight.Escrowed.IsZero() {
		return nil
	}
	return h.k.refund(ctx, pc.inflight.Sender, pc.inflight.Escrowed)
}

func (h refundHandler) emit(ctx sdk.Context, pc packetContext, attrs ...sdk.Attribute) {
	attrs = append(attrs,
		sdk.NewAttribute(types.AttributeKeySender, pc.inflight.Sender),
		sdk.NewAttribute(types.AttributeKeyRefund, pc.inflight.Escrowed.String()),
	)
	emitStageEvent(ctx, pc.data.Type, types.StageRefund, pc.stateChange.PoolId, attrs...)
}

func (h refundHandler) MakePool(ctx sdk.Context, pc packetContext, _ types.MsgMakePool) error {
	h.k.DeletePool(ctx, pc.stateChange.PoolId)
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc)
	return nil
}

func (h refundHandler) TakePool(ctx sdk.Context, pc packetContext, _ types.MsgTakePool) error {
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc)
	return nil
}

func (h refundHandler) CancelPool(ctx sdk.Context, pc packetContext, _ types.MsgCancelPool) error {
	pool, err := h.k.GetPool(ctx, pc.stateChange.PoolId)
	if err != nil {
		return err
	}

	if pc.timedOut {
		escrowed, err := pool.FindAssetBySide(types.PoolSideSource)
		if err != nil {
			return err
		}
		h.k.DeletePool(ctx, pool.Id)
		if err := h.k.refund(ctx, pool.SourceCreator, sdk.NewCoins(escrowed.Balance)); err != nil {
			return err
		}
		h.emit(ctx, pc, sdk.NewAttribute(types.AttributeKeyStatus, types.PoolStatusCancelled.String()))
		return nil
	}

	pool.PendingCancel = false
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	h.emit(ctx, pc, sdk.NewAttribute(types.AttributeKeyStatus, pool.Status.String()))
	return nil
}

func (h refundHandler) SingleAssetDeposit(ctx sdk.Context, pc packetContext, _ types.MsgSingleAssetDeposit) error {
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc)
	return nil
}

func (h refundHandler) MakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, _ types.MsgMakeMultiAssetDeposit) error {
	order, err := h.k.GetOrder(ctx, pc.stateChange.PoolId, pc.stateChange.MultiDepositOrderId)
	if err != nil {
		return err
	}
	h.k.DeleteOrder(ctx, order)
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc, sdk.NewAttribute(types.AttributeKeyOrderID, order.Id))
	return nil
}

func (h refundHandler) TakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgTakeMultiAssetDeposit) error {
	order, err := h.k.GetOrder(ctx, pc.stateChange.PoolId, msg.OrderId)
	if err != nil {
		return err
	}
	if err := h.reopenOrder(ctx, pc, order); err != nil {
		return err
	}
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc, sdk.NewAttribute(types.AttributeKeyOrderID, order.Id))
	return nil
}

func (h refundHandler) CancelMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgCancelMultiAssetDeposit) error {
	order, err := h.k.GetOrder(ctx, pc.stateChange.PoolId, msg.OrderId)
	if err != nil {
		return err
	}
	if err := h.reopenOrder(ctx, pc, order); err != nil {
		return err
	}

	reopened, err := h.k.GetOrder(ctx, order.PoolId, order.Id)
	if err != nil {
		return err
	}
	if reopened.Status == types.OrderStatusCancelled && reopened.ChainId == ctx.ChainID() {
		if err := h.k.refund(ctx, reopened.SourceMaker, sdk.NewCoins(reopened.Deposits[0])); err != nil {
			return err
		}
	}
	h.emit(ctx, pc, sdk.NewAttribute(types.AttributeKeyOrderID, order.Id))
	return nil
}

// reopenOrder puts an order back to pending after the counterparty rejected the packet
// that closed it. After a timeout, or when another order of the same maker and taker
// became pending meanwhile, the order is cancelled for good instead.
func (h refundHandler) reopenOrder(ctx sdk.Context, pc packetContext, order types.MultiAssetDepositOrder) error {
	if !pc.timedOut {
		order.Status = types.OrderStatusPending
		err := h.k.SetOrder(ctx, order)
		if err == nil || !errors.Is(err, types.ErrPreviousOrderNotCompleted) {
			return err
		}
	}
	order.Status = types.OrderStatusCancelled
	return h.k.SetOrder(ctx, order)
}

func (h refundHandler) MultiAssetWithdraw(ctx sdk.Context, pc packetContext, _ types.MsgMultiAssetWithdraw) error {
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc)
	return nil
}

func (h refundHandler) Swap(ctx sdk.Context, pc packetContext, _ types.MsgSwap) error {
	if err := h.refundEscrow(ctx, pc); err != nil {
		return err
	}
	h.emit(ctx, pc)
	return nil
}
