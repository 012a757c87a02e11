package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
)

// QueryServer defines the read-only interface of the module
type QueryServer interface {
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Pools(context.Context, *QueryPoolsRequest) (*QueryPoolsResponse, error)
	Order(context.Context, *QueryOrderRequest) (*QueryOrderResponse, error)
	Orders(context.Context, *QueryOrdersRequest) (*QueryOrdersResponse, error)
	ActiveOrder(context.Context, *QueryActiveOrderRequest) (*QueryActiveOrderResponse, error)
	PoolTokenAddress(context.Context, *QueryPoolTokenAddressRequest) (*QueryPoolTokenAddressResponse, error)
	PoolTokens(context.Context, *QueryPoolTokensRequest) (*QueryPoolTokensResponse, error)
	QuoteLeftSwap(context.Context, *QueryQuoteLeftSwapRequest) (*QueryQuoteSwapResponse, error)
	QuoteRightSwap(context.Context, *QueryQuoteRightSwapRequest) (*QueryQuoteSwapResponse, error)
	QuoteRate(context.Context, *QueryQuoteRateRequest) (*QueryQuoteRateResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config Config `json:"config"`
}

type QueryPoolRequest struct {
	PoolId string `json:"pool_id"`
}

type QueryPoolResponse struct {
	Pool InterchainLiquidityPool `json:"pool"`
}

type QueryPoolsRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryPoolsResponse struct {
	Pools      []InterchainLiquidityPool `json:"pools"`
	Pagination *query.PageResponse       `json:"pagination,omitempty"`
}

type QueryOrderRequest struct {
	PoolId  string `json:"pool_id"`
	OrderId string `json:"order_id"`
}

type QueryOrderResponse struct {
	Order MultiAssetDepositOrder `json:"order"`
}

// QueryOrdersRequest lists orders, restricted to one pool when PoolId is set.
type QueryOrdersRequest struct {
	PoolId     string             `json:"pool_id,omitempty"`
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

type QueryOrdersResponse struct {
	Orders     []MultiAssetDepositOrder `json:"orders"`
	Pagination *query.PageResponse      `json:"pagination,omitempty"`
}

type QueryActiveOrderRequest struct {
	SourceMaker      string `json:"source_maker"`
	PoolId           string `json:"pool_id"`
	DestinationTaker string `json:"destination_taker"`
}

type QueryActiveOrderResponse struct {
	Order MultiAssetDepositOrder `json:"order"`
}

type QueryPoolTokenAddressRequest struct {
	PoolId string `json:"pool_id"`
}

type QueryPoolTokenAddressResponse struct {
	Denom string `json:"denom"`
}

type QueryPoolTokensRequest struct {
	Pagination *query.PageRequest `json:"pagination,omitempty"`
}

// PoolToken pairs a pool with the denom of its LP share
type PoolToken struct {
	PoolId string `json:"pool_id"`
	Denom  string `json:"denom"`
}

type QueryPoolTokensResponse struct {
	PoolTokens []PoolToken         `json:"pool_tokens"`
	Pagination *query.PageResponse `json:"pagination,omitempty"`
}

// QueryQuoteLeftSwapRequest prices selling exactly TokenIn for DenomOut.
type QueryQuoteLeftSwapRequest struct {
	PoolId   string   `json:"pool_id"`
	TokenIn  sdk.Coin `json:"token_in"`
	DenomOut string   `json:"denom_out"`
}

// QueryQuoteRightSwapRequest prices buying exactly TokenOut with DenomIn.
type QueryQuoteRightSwapRequest struct {
	PoolId   string   `json:"pool_id"`
	DenomIn  string   `json:"denom_in"`
	TokenOut sdk.Coin `json:"token_out"`
}

type QueryQuoteSwapResponse struct {
	TokenIn  sdk.Coin `json:"token_in"`
	TokenOut sdk.Coin `json:"token_out"`
}

// QueryQuoteRateRequest returns Amount net of the pool fee and the spot price of
// DenomIn in DenomOut.
type QueryQuoteRateRequest struct {
	PoolId   string      `json:"pool_id"`
	Amount   sdkmath.Int `json:"amount"`
	DenomIn  string      `json:"denom_in,omitempty"`
	DenomOut string      `json:"denom_out,omitempty"`
}

type QueryQuoteRateResponse struct {
	AmountAfterFee sdkmath.LegacyDec `json:"amount_after_fee"`
	SpotPrice      sdkmath.LegacyDec `json:"spot_price,omitempty"`
}
