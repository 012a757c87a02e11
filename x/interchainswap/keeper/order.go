package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// The active-order index maps (maker, pool, taker) to the id of the single pending order
// of that triple. It is only written by SetOrder and DeleteOrder: an entry exists exactly
// while the order it names is PENDING.

// GetOrder returns a multi-asset deposit order
func (k Keeper) GetOrder(ctx context.Context, poolID, orderID string) (types.MultiAssetDepositOrder, error) {
	bz := k.getStore(ctx).Get(OrderKey(poolID, orderID))
	if bz == nil {
		return types.MultiAssetDepositOrder{}, errorsmod.Wrapf(types.ErrOrderNotFound, "order %s in pool %s", orderID, poolID)
	}

	var order types.MultiAssetDepositOrder
	if err := json.Unmarshal(bz, &order); err != nil {
		return types.MultiAssetDepositOrder{}, fmt.Errorf("GetOrder: unmarshal %s: %w", orderID, err)
	}
	return order, nil
}

// HasOrder reports whether an order record exists
func (k Keeper) HasOrder(ctx context.Context, poolID, orderID string) bool {
	return k.getStore(ctx).Has(OrderKey(poolID, orderID))
}

// SetOrder stores an order and keeps the active-order index in step with its status.
// A pending order may not displace the pending order of another id.
func (k Keeper) SetOrder(ctx context.Context, order types.MultiAssetDepositOrder) error {
	if err := order.Validate(); err != nil {
		return fmt.Errorf("SetOrder: %w", err)
	}

	store := k.getStore(ctx)
	indexKey := ActiveOrderKey(order.SourceMaker, order.PoolId, order.DestinationTaker)
	current := store.Get(indexKey)

	if order.IsLive() {
		if current != nil && string(current) != order.Id {
			return errorsmod.Wrapf(types.ErrPreviousOrderNotCompleted, "order %s is pending for this maker and taker", string(current))
		}
	}

	bz, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("SetOrder: marshal %s: %w", order.Id, err)
	}
	store.Set(OrderKey(order.PoolId, order.Id), bz)

	switch {
	case order.IsLive():
		store.Set(indexKey, []byte(order.Id))
	case string(current) == order.Id:
		store.Delete(indexKey)
	}
	return nil
}

// DeleteOrder removes an order together with its index entry
func (k Keeper) DeleteOrder(ctx context.Context, order types.MultiAssetDepositOrder) {
	store := k.getStore(ctx)
	store.Delete(OrderKey(order.PoolId, order.Id))

	indexKey := ActiveOrderKey(order.SourceMaker, order.PoolId, order.DestinationTaker)
	if current := store.Get(indexKey); current != nil && string(current) == order.Id {
		store.Delete(indexKey)
	}
}

// GetActiveOrder returns the pending order of a (maker, pool, taker) triple
func (k Keeper) GetActiveOrder(ctx context.Context, maker, poolID, taker string) (types.MultiAssetDepositOrder, error) {
	orderID := k.getStore(ctx).Get(ActiveOrderKey(maker, poolID, taker))
	if orderID == nil {
		return types.MultiAssetDepositOrder{}, errorsmod.Wrapf(types.ErrOrderNotFound, "no active order for %s/%s/%s", maker, poolID, taker)
	}
	return k.GetOrder(ctx, poolID, string(orderID))
}

// HasActiveOrder reports whether the triple has a pending order
func (k Keeper) HasActiveOrder(ctx context.Context, maker, poolID, taker string) bool {
	return k.getStore(ctx).Has(ActiveOrderKey(maker, poolID, taker))
}

// IterateOrders walks every order until cb returns true
func (k Keeper) IterateOrders(ctx context.Context, cb func(order types.MultiAssetDepositOrder) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), OrderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var order types.MultiAssetDepositOrder
		if err := json.Unmarshal(iterator.Value(), &order); err != nil {
			return fmt.Errorf("IterateOrders: unmarshal: %w", err)
		}
		stop, err := cb(order)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// IterateActiveOrders walks the active-order index, handing back the raw key suffix and order id
func (k Keeper) IterateActiveOrders(ctx context.Context, cb func(triple, orderID string) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), ActiveOrderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		triple := string(iterator.Key()[len(ActiveOrderKeyPrefix):])
		if cb(triple, string(iterator.Value())) {
			break
		}
	}
}

// GetAllOrders returns every order
func (k Keeper) GetAllOrders(ctx context.Context) ([]types.MultiAssetDepositOrder, error) {
	orders := []types.MultiAssetDepositOrder{}
	err := k.IterateOrders(ctx, func(order types.MultiAssetDepositOrder) (bool, error) {
		orders = append(orders, order)
		return false, nil
	})
	return orders, err
}
