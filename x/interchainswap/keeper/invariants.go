package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// RegisterInvariants registers all interchainswap invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "escrow-coverage", EscrowCoverageInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-weights", PoolWeightsInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-supply", PoolSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "active-order-index", ActiveOrderIndexInvariant(k))
}

// AllInvariants runs all invariants of the interchainswap module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := EscrowCoverageInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PoolWeightsInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = PoolSupplyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return ActiveOrderIndexInvariant(k)(ctx)
	}
}

// expectedEscrow sums what the module account must hold on this chain: the native reserve
// of every active pool, the native reserve of initialized pools proposed here, the maker leg
// of pending orders made here and the escrow of in-flight packets whose assets are not
// already counted in a pool or order record.
func (k Keeper) expectedEscrow(ctx sdk.Context) (sdk.Coins, error) {
	localChainID := ctx.ChainID()
	expected := sdk.NewCoins()

	err := k.IteratePools(ctx, func(pool types.InterchainLiquidityPool) (bool, error) {
		proposedHere := pool.Status == types.PoolStatusInitialized && pool.SourceChainId == localChainID
		if pool.Status != types.PoolStatusActive && !proposedHere {
			return false, nil
		}
		native, err := pool.FindAssetBySide(types.PoolSideSource)
		if err != nil {
			return true, err
		}
		expected = expected.Add(native.Balance)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.IterateOrders(ctx, func(order types.MultiAssetDepositOrder) (bool, error) {
		if order.IsLive() && order.ChainId == localChainID {
			expected = expected.Add(order.Deposits[0])
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	err = k.IterateInFlight(ctx, func(record types.InFlightPacket) bool {
		switch record.Type {
		case types.MessageTypeMakePool, types.MessageTypeMakeMultiDeposit:
		default:
			expected = expected.Add(record.Escrowed...)
		}
		return false
	})
	return expected, err
}

// EscrowCoverageInvariant checks that the module account holds every asset the pool,
// order and in-flight records say it escrows
func EscrowCoverageInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		expected, err := k.expectedEscrow(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "escrow-coverage", err.Error()), true
		}

		moduleAddr := k.ModuleAddress()
		for _, coin := range expected {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, coin.Denom)
			if balance.Amount.LT(coin.Amount) {
				count++
				msg += fmt.Sprintf("denom %s: module balance %s < escrowed %s\n",
					coin.Denom, balance.Amount.String(), coin.Amount.String())
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "escrow-coverage",
			fmt.Sprintf("found %d denoms with escrow > module balance\n%s", count, msg),
		), broken
	}
}

// PoolWeightsInvariant checks that every pool has one asset per side with weights summing to 100
func PoolWeightsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.InterchainLiquidityPool) (bool, error) {
			if err := types.ValidateAssets(pool.Assets); err != nil {
				count++
				msg += fmt.Sprintf("pool %s: %s\n", pool.Id, err)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-weights", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-weights",
			fmt.Sprintf("found %d pools with invalid assets\n%s", count, msg),
		), broken
	}
}

// PoolSupplyInvariant checks that supply is denominated in the pool id, never negative, and
// positive exactly when the pool is active
func PoolSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		err := k.IteratePools(ctx, func(pool types.InterchainLiquidityPool) (bool, error) {
			switch {
			case pool.Supply.Denom != pool.Id:
				count++
				msg += fmt.Sprintf("pool %s: supply denom %s\n", pool.Id, pool.Supply.Denom)
			case pool.Supply.Amount.IsNil() || pool.Supply.Amount.IsNegative():
				count++
				msg += fmt.Sprintf("pool %s: supply %s\n", pool.Id, pool.Supply)
			case pool.Status == types.PoolStatusInitialized && !pool.Supply.Amount.IsZero():
				count++
				msg += fmt.Sprintf("pool %s: initialized pool has supply %s\n", pool.Id, pool.Supply)
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "pool-supply", err.Error()), true
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-supply",
			fmt.Sprintf("found %d pools with invalid supply\n%s", count, msg),
		), broken
	}
}

// ActiveOrderIndexInvariant checks that the active-order index names exactly the pending orders
func ActiveOrderIndexInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pending := make(map[string]string)
		err := k.IterateOrders(ctx, func(order types.MultiAssetDepositOrder) (bool, error) {
			if order.IsLive() {
				pending[order.SourceMaker+keySeparator+order.PoolId+keySeparator+order.DestinationTaker] = order.Id
			}
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "active-order-index", err.Error()), true
		}

		indexed := 0
		k.IterateActiveOrders(ctx, func(triple, orderID string) bool {
			indexed++
			if pending[triple] != orderID {
				count++
				msg += fmt.Sprintf("index %s names %s, pending order is %q\n", triple, orderID, pending[triple])
			}
			return false
		})
		if indexed != len(pending) {
			count++
			msg += fmt.Sprintf("%d index entries for %d pending orders\n", indexed, len(pending))
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "active-order-index",
			fmt.Sprintf("found %d active-order index inconsistencies\n%s", count, msg),
		), broken
	}
}
