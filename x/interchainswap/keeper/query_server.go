package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store/prefix"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/cosmos/cosmos-sdk/types/query"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

type queryServer struct {
	*Keeper
}

const (
	defaultPaginationLimit = 10
	maxPaginationLimit     = 30
)

// NewQueryServerImpl returns an implementation of the interchainswap QueryServer interface
func NewQueryServerImpl(keeper *Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// normalizePagination returns a copy of req with the default page size applied and
// oversized requests capped
func normalizePagination(req *query.PageRequest) *query.PageRequest {
	if req == nil {
		return &query.PageRequest{Limit: defaultPaginationLimit}
	}
	page := *req
	if page.Limit == 0 {
		page.Limit = defaultPaginationLimit
	}
	if page.Limit > maxPaginationLimit {
		page.Limit = maxPaginationLimit
	}
	return &page
}

// Params returns the module parameters
func (qs queryServer) Params(goCtx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	params, err := qs.Keeper.GetParams(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Params: get params: %w", err)
	}
	return &types.QueryParamsResponse{Params: params}, nil
}

// Config returns the order counter state
func (qs queryServer) Config(goCtx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	config, err := qs.Keeper.GetConfig(goCtx)
	if err != nil {
		return nil, fmt.Errorf("Config: get config: %w", err)
	}
	return &types.QueryConfigResponse{Config: config}, nil
}

// Pool returns a pool by id
func (qs queryServer) Pool(goCtx context.Context, req *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pool, err := qs.Keeper.GetPool(goCtx, req.PoolId)
	if err != nil {
		return nil, fmt.Errorf("Pool: get pool %s: %w", req.PoolId, err)
	}
	return &types.QueryPoolResponse{Pool: pool}, nil
}

// Pools returns all pools with pagination
func (qs queryServer) Pools(goCtx context.Context, req *types.QueryPoolsRequest) (*types.QueryPoolsResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	req.Pagination = normalizePagination(req.Pagination)

	pools := make([]types.InterchainLiquidityPool, 0, int(req.Pagination.Limit))
	poolStore := prefix.NewStore(qs.Keeper.getStore(goCtx), PoolKeyPrefix)

	pageRes, err := query.Paginate(poolStore, req.Pagination, func(_ []byte, value []byte) error {
		var pool types.InterchainLiquidityPool
		if err := json.Unmarshal(value, &pool); err != nil {
			return fmt.Errorf("unmarshal pool: %w", err)
		}
		pools = append(pools, pool)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Pools: paginate: %w", err)
	}

	return &types.QueryPoolsResponse{
		Pools:      pools,
		Pagination: pageRes,
	}, nil
}

// Order returns a multi-asset deposit order
func (qs queryServer) Order(goCtx context.Context, req *types.QueryOrderRequest) (*types.QueryOrderResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	order, err := qs.Keeper.GetOrder(goCtx, req.PoolId, req.OrderId)
	if err != nil {
		return nil, fmt.Errorf("Order: get order %s: %w", req.OrderId, err)
	}
	return &types.QueryOrderResponse{Order: order}, nil
}

// Orders returns orders with pagination, optionally restricted to one pool
func (qs queryServer) Orders(goCtx context.Context, req *types.QueryOrdersRequest) (*types.QueryOrdersResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	req.Pagination = normalizePagination(req.Pagination)

	orderPrefix := OrderKeyPrefix
	if req.PoolId != "" {
		orderPrefix = OrderPoolPrefix(req.PoolId)
	}
	orders := make([]types.MultiAssetDepositOrder, 0, int(req.Pagination.Limit))
	orderStore := prefix.NewStore(qs.Keeper.getStore(goCtx), orderPrefix)

	pageRes, err := query.Paginate(orderStore, req.Pagination, func(_ []byte, value []byte) error {
		var order types.MultiAssetDepositOrder
		if err := json.Unmarshal(value, &order); err != nil {
			return fmt.Errorf("unmarshal order: %w", err)
		}
		orders = append(orders, order)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Orders: paginate: %w", err)
	}

	return &types.QueryOrdersResponse{
		Orders:     orders,
		Pagination: pageRes,
	}, nil
}

// ActiveOrder returns the pending order of a (maker, pool, taker) triple
func (qs queryServer) ActiveOrder(goCtx context.Context, req *types.QueryActiveOrderRequest) (*types.QueryActiveOrderResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	order, err := qs.Keeper.GetActiveOrder(goCtx, req.SourceMaker, req.PoolId, req.DestinationTaker)
	if err != nil {
		return nil, fmt.Errorf("ActiveOrder: %w", err)
	}
	return &types.QueryActiveOrderResponse{Order: order}, nil
}

// PoolTokenAddress returns the LP denom registered for a pool
func (qs queryServer) PoolTokenAddress(goCtx context.Context, req *types.QueryPoolTokenAddressRequest) (*types.QueryPoolTokenAddressResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	denom, found := qs.Keeper.GetPoolToken(goCtx, req.PoolId)
	if !found {
		return nil, errorsmod.Wrapf(types.ErrPoolNotFound, "no pool token for %s", req.PoolId)
	}
	return &types.QueryPoolTokenAddressResponse{Denom: denom}, nil
}

// PoolTokens lists the LP token registrations with pagination
func (qs queryServer) PoolTokens(goCtx context.Context, req *types.QueryPoolTokensRequest) (*types.QueryPoolTokensResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	req.Pagination = normalizePagination(req.Pagination)

	tokens := make([]types.PoolToken, 0, int(req.Pagination.Limit))
	pageRes, err := query.Paginate(qs.Keeper.poolTokenStore(goCtx), req.Pagination, func(key []byte, value []byte) error {
		tokens = append(tokens, types.PoolToken{PoolId: string(key), Denom: string(value)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("PoolTokens: paginate: %w", err)
	}

	return &types.QueryPoolTokensResponse{
		PoolTokens: tokens,
		Pagination: pageRes,
	}, nil
}

// QuoteLeftSwap prices selling exactly the given input
func (qs queryServer) QuoteLeftSwap(goCtx context.Context, req *types.QueryQuoteLeftSwapRequest) (*types.QueryQuoteSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pool, err := qs.Keeper.GetPool(goCtx, req.PoolId)
	if err != nil {
		return nil, fmt.Errorf("QuoteLeftSwap: %w", err)
	}
	out, err := types.NewInterchainMarketMaker(pool).ComputeSwap(req.TokenIn, req.DenomOut)
	if err != nil {
		return nil, fmt.Errorf("QuoteLeftSwap: compute swap: %w", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	qs.Logger(ctx).Debug("quoted left swap", "pool", pool.Id, "in", req.TokenIn.String(), "out", out.String())
	return &types.QueryQuoteSwapResponse{TokenIn: req.TokenIn, TokenOut: out}, nil
}

// QuoteRightSwap prices buying exactly the given output
func (qs queryServer) QuoteRightSwap(goCtx context.Context, req *types.QueryQuoteRightSwapRequest) (*types.QueryQuoteSwapResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}

	pool, err := qs.Keeper.GetPool(goCtx, req.PoolId)
	if err != nil {
		return nil, fmt.Errorf("QuoteRightSwap: %w", err)
	}
	offer, err := types.NewInterchainMarketMaker(pool).ComputeOfferAmount(req.DenomIn, req.TokenOut)
	if err != nil {
		return nil, fmt.Errorf("QuoteRightSwap: compute offer: %w", err)
	}

	ctx := sdk.UnwrapSDKContext(goCtx)
	qs.Logger(ctx).Debug("quoted right swap", "pool", pool.Id, "in", offer.String(), "out", req.TokenOut.String())
	return &types.QueryQuoteSwapResponse{TokenIn: offer, TokenOut: req.TokenOut}, nil
}

// QuoteRate returns an amount net of the pool fee and, when both denoms are given, the
// spot price between them
func (qs queryServer) QuoteRate(goCtx context.Context, req *types.QueryQuoteRateRequest) (*types.QueryQuoteRateResponse, error) {
	if req == nil {
		return nil, sdkerrors.ErrInvalidRequest
	}
	if req.Amount.IsNil() || req.Amount.IsNegative() {
		return nil, errorsmod.Wrapf(types.ErrInvalidAmount, "amount %s", req.Amount)
	}

	pool, err := qs.Keeper.GetPool(goCtx, req.PoolId)
	if err != nil {
		return nil, fmt.Errorf("QuoteRate: %w", err)
	}
	mm := types.NewInterchainMarketMaker(pool)

	resp := &types.QueryQuoteRateResponse{
		AmountAfterFee: mm.MinusFees(req.Amount),
		SpotPrice:      sdkmath.LegacyZeroDec(),
	}
	if req.DenomIn != "" && req.DenomOut != "" {
		price, err := mm.MarketPrice(req.DenomIn, req.DenomOut)
		if err != nil {
			return nil, fmt.Errorf("QuoteRate: market price: %w", err)
		}
		resp.SpotPrice = price
	}
	return resp, nil
}
