package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// InitGenesis initializes the interchainswap module's state from a genesis state.
// The active-order index and the pool token registry are rebuilt from the records.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	k.SetPort(sdkCtx, genState.PortId)
	if !k.IsBound(sdkCtx, genState.PortId) {
		if err := k.BindPort(sdkCtx, genState.PortId); err != nil {
			return fmt.Errorf("failed to bind IBC port: %w", err)
		}
	}

	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("failed to set params: %w", err)
	}
	if err := k.SetConfig(ctx, genState.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("failed to set pool %s: %w", pool.Id, err)
		}
		k.SetPoolToken(ctx, pool.Id, pool.Supply.Denom)
	}

	for _, order := range genState.Orders {
		if err := k.SetOrder(ctx, order); err != nil {
			return fmt.Errorf("failed to set order %s: %w", order.Id, err)
		}
	}

	for _, record := range genState.InFlight {
		if err := k.SetInFlight(ctx, record); err != nil {
			return fmt.Errorf("failed to set in-flight packet %s/%d: %w", record.Channel, record.Sequence, err)
		}
	}

	return nil
}

// ExportGenesis exports the interchainswap module's state to a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get params: %w", err)
	}
	config, err := k.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pools: %w", err)
	}
	orders, err := k.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	inFlight := []types.InFlightPacket{}
	if err := k.IterateInFlight(ctx, func(record types.InFlightPacket) bool {
		inFlight = append(inFlight, record)
		return false
	}); err != nil {
		return nil, fmt.Errorf("failed to get in-flight packets: %w", err)
	}

	return &types.GenesisState{
		Params:   params,
		Config:   config,
		PortId:   k.GetPort(sdkCtx),
		Pools:    pools,
		Orders:   orders,
		InFlight: inFlight,
	}, nil
}
