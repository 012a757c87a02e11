package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// GetParams returns the module parameters, falling back to defaults before genesis
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	bz := k.getStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("GetParams: unmarshal: %w", err)
	}
	return params, nil
}

// SetParams validates and stores the module parameters
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("SetParams: marshal: %w", err)
	}
	k.getStore(ctx).Set(ParamsKey, bz)
	return nil
}

// GetConfig returns the order counter and token code id
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	bz := k.getStore(ctx).Get(ConfigKey)
	if bz == nil {
		return types.DefaultConfig(), nil
	}

	var config types.Config
	if err := json.Unmarshal(bz, &config); err != nil {
		return types.Config{}, fmt.Errorf("GetConfig: unmarshal: %w", err)
	}
	return config, nil
}

// SetConfig stores the config
func (k Keeper) SetConfig(ctx context.Context, config types.Config) error {
	bz, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("SetConfig: marshal: %w", err)
	}
	k.getStore(ctx).Set(ConfigKey, bz)
	return nil
}

// NextOrderID bumps the order counter and derives the id of the next order of maker.
// The counter write lands in the same transaction as the order it names.
func (k Keeper) NextOrderID(ctx context.Context, maker string) (string, error) {
	config, err := k.GetConfig(ctx)
	if err != nil {
		return "", err
	}
	if config.Counter == ^uint64(0) {
		return "", fmt.Errorf("NextOrderID: order counter exhausted")
	}
	config.Counter++
	if err := k.SetConfig(ctx, config); err != nil {
		return "", err
	}
	return types.GetOrderId(maker, config.Counter), nil
}
