package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// GetPool returns a pool by id
func (k Keeper) GetPool(ctx context.Context, poolID string) (types.InterchainLiquidityPool, error) {
	bz := k.getStore(ctx).Get(PoolKey(poolID))
	if bz == nil {
		return types.InterchainLiquidityPool{}, errorsmod.Wrapf(types.ErrPoolNotFound, "pool %s", poolID)
	}

	var pool types.InterchainLiquidityPool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.InterchainLiquidityPool{}, fmt.Errorf("GetPool: unmarshal %s: %w", poolID, err)
	}
	return pool, nil
}

// HasPool reports whether a pool record exists
func (k Keeper) HasPool(ctx context.Context, poolID string) bool {
	return k.getStore(ctx).Has(PoolKey(poolID))
}

// SetPool stores a pool after checking its invariants
func (k Keeper) SetPool(ctx context.Context, pool types.InterchainLiquidityPool) error {
	if err := pool.Validate(); err != nil {
		return fmt.Errorf("SetPool: %w", err)
	}
	bz, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal %s: %w", pool.Id, err)
	}
	k.getStore(ctx).Set(PoolKey(pool.Id), bz)
	return nil
}

// DeletePool removes a pool and its LP token registration
func (k Keeper) DeletePool(ctx context.Context, poolID string) {
	store := k.getStore(ctx)
	store.Delete(PoolKey(poolID))
	store.Delete(PoolTokenKey(poolID))
}

// IteratePools iterates over all pools and calls cb for each one until cb returns true
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.InterchainLiquidityPool) (stop bool, err error)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.InterchainLiquidityPool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return fmt.Errorf("IteratePools: unmarshal: %w", err)
		}
		stop, err := cb(pool)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// GetAllPools returns every pool
func (k Keeper) GetAllPools(ctx context.Context) ([]types.InterchainLiquidityPool, error) {
	pools := []types.InterchainLiquidityPool{}
	err := k.IteratePools(ctx, func(pool types.InterchainLiquidityPool) (bool, error) {
		pools = append(pools, pool)
		return false, nil
	})
	return pools, err
}

// SetPoolToken registers the LP denom of a pool
func (k Keeper) SetPoolToken(ctx context.Context, poolID, denom string) {
	k.getStore(ctx).Set(PoolTokenKey(poolID), []byte(denom))
}

// GetPoolToken returns the LP denom of a pool
func (k Keeper) GetPoolToken(ctx context.Context, poolID string) (string, bool) {
	bz := k.getStore(ctx).Get(PoolTokenKey(poolID))
	if bz == nil {
		return "", false
	}
	return string(bz), true
}

// poolTokenStore returns the prefix store of LP token registrations
func (k Keeper) poolTokenStore(ctx context.Context) prefix.Store {
	return prefix.NewStore(k.getStore(ctx), PoolTokenKeyPrefix)
}
