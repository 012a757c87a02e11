package types

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMinusFees(t *testing.T) {
	imm := InterchainMarketMaker{FeeRate: 30}
	got := imm.MinusFees(sdkmath.NewInt(10000))
	require.True(t, got.Equal(sdkmath.LegacyNewDec(9970)), "got %s", got)

	imm.FeeRate = 0
	got = imm.MinusFees(sdkmath.NewInt(123))
	require.True(t, got.Equal(sdkmath.LegacyNewDec(123)), "got %s", got)
}

func TestDepositMultiAssetBootstrap(t *testing.T) {
	pool := newTestPool(PoolStatusInitialized, 100, 100, 50)
	imm := NewInterchainMarketMaker(pool)

	tokens := []sdk.Coin{sdk.NewInt64Coin("uatom", 100), sdk.NewInt64Coin("uosmo", 100)}
	minted, accepted, remainder, err := imm.DepositMultiAsset(tokens)
	require.NoError(t, err)
	require.True(t, minted.Equal(sdkmath.NewInt(InitLPTokens).Mul(Multiplier)), "got %s", minted)
	require.Equal(t, tokens, accepted)
	require.Empty(t, remainder)
}

func TestDepositMultiAssetProportional(t *testing.T) {
	imm := NewInterchainMarketMaker(newTestPool(PoolStatusActive, 1000, 1000, 50))

	minted, accepted, remainder, err := imm.DepositMultiAsset([]sdk.Coin{
		sdk.NewInt64Coin("uatom", 100),
		sdk.NewInt64Coin("uosmo", 100),
	})
	require.NoError(t, err)
	require.True(t, minted.Equal(sdkmath.NewInt(10).Mul(Multiplier)), "got %s", minted)
	require.Len(t, accepted, 2)
	require.Empty(t, remainder)
}

func TestDepositMultiAssetExcess(t *testing.T) {
	imm := NewInterchainMarketMaker(newTestPool(PoolStatusActive, 1000, 1000, 50))

	minted, accepted, remainder, err := imm.DepositMultiAsset([]sdk.Coin{
		sdk.NewInt64Coin("uatom", 100),
		sdk.NewInt64Coin("uosmo", 150),
	})
	require.NoError(t, err)
	require.True(t, minted.Equal(sdkmath.NewInt(10).Mul(Multiplier)), "got %s", minted)
	require.Equal(t, "100uatom,100uosmo", sdk.NewCoins(accepted...).String())
	require.Equal(t, "50uosmo", sdk.NewCoins(remainder...).String())
}

func TestDepositMultiAssetErrors(t *testing.T) {
	active := NewInterchainMarketMaker(newTestPool(PoolStatusActive, 1000, 1000, 50))

	_, _, _, err := active.DepositMultiAsset(nil)
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, _, _, err = active.DepositMultiAsset([]sdk.Coin{sdk.NewInt64Coin("ujuno", 1)})
	require.ErrorIs(t, err, ErrAssetNotFound)

	_, _, _, err = active.DepositMultiAsset([]sdk.Coin{sdk.NewInt64Coin("uatom", 0)})
	require.ErrorIs(t, err, ErrInvalidAmount)

	cancelled := newTestPool(PoolStatusCancelled, 1000, 1000, 50)
	cancelled.Supply.Amount = Multiplier
	_, _, _, err = NewInterchainMarketMaker(cancelled).DepositMultiAsset([]sdk.Coin{sdk.NewInt64Coin("uatom", 100)})
	require.ErrorIs(t, err, ErrPoolNotActive)
}

func TestMultiAssetWithdraw(t *testing.T) {
	pool := newTestPool(PoolStatusActive, 200, 300, 50)
	imm := NewInterchainMarketMaker(pool)

	outs, err := imm.MultiAssetWithdraw(sdk.NewCoin(pool.Id, sdkmath.NewInt(50).Mul(Multiplier)))
	require.NoError(t, err)
	require.Equal(t, "100uatom,150uosmo", sdk.NewCoins(outs...).String())

	outs, err = imm.MultiAssetWithdraw(pool.Supply)
	require.NoError(t, err)
	require.Equal(t, "200uatom,300uosmo", sdk.NewCoins(outs...).String())

	_, err = imm.MultiAssetWithdraw(sdk.NewCoin(pool.Id, pool.Supply.Amount.AddRaw(1)))
	require.ErrorIs(t, err, ErrInvalidWithdrawAmount)

	_, err = imm.MultiAssetWithdraw(sdk.NewInt64Coin("uatom", 1))
	require.ErrorIs(t, err, ErrDenomMismatch)
}

func TestDepositSingleAsset(t *testing.T) {
	pool := newTestPool(PoolStatusActive, 1000, 1000, 50)
	pool.SwapFee = 0
	imm := NewInterchainMarketMaker(pool)

	shares, err := imm.DepositSingleAsset(sdk.NewInt64Coin("uatom", 1000))
	require.NoError(t, err)
	require.Equal(t, pool.Id, shares.Denom)
	require.True(t, shares.Amount.GT(sdkmath.NewInt(41).Mul(Multiplier)))
	require.True(t, shares.Amount.LT(sdkmath.NewInt(42).Mul(Multiplier)))

	_, err = imm.DepositSingleAsset(sdk.NewInt64Coin("ujuno", 1000))
	require.ErrorIs(t, err, ErrAssetNotFound)

	_, err = NewInterchainMarketMaker(newTestPool(PoolStatusInitialized, 1000, 1000, 50)).
		DepositSingleAsset(sdk.NewInt64Coin("uatom", 1000))
	require.ErrorIs(t, err, ErrPoolNotActive)
}

func TestInitialShares(t *testing.T) {
	pool := newTestPool(PoolStatusInitialized, 100, 100, 30)
	imm := NewInterchainMarketMaker(pool)
	total := sdkmath.NewInt(InitLPTokens).Mul(Multiplier)

	shares, err := imm.InitialShares(testChainA)
	require.NoError(t, err)
	require.Len(t, shares, 2)
	require.True(t, shares[0].Amount.Equal(total.MulRaw(30).QuoRaw(100)))
	require.True(t, shares[0].Amount.Add(shares[1].Amount).Equal(total))

	// the counterparty computes the same split from its mirrored record
	mirrored, err := NewInterchainMarketMaker(pool.Mirror(PortID, "channel-0")).InitialShares(testChainB)
	require.NoError(t, err)
	require.Equal(t, shares, mirrored)
}

func TestComputeSwap(t *testing.T) {
	pool := newTestPool(PoolStatusActive, 100_000_000, 100_000_000, 50)
	pool.SwapFee = 0
	imm := NewInterchainMarketMaker(pool)

	// 10 atom into a 100/100 pool buys between 9 and 10 osmo
	out, err := imm.ComputeSwap(sdk.NewInt64Coin("uatom", 10_000_000), "uosmo")
	require.NoError(t, err)
	require.Equal(t, "uosmo", out.Denom)
	require.True(t, out.Amount.GT(sdkmath.NewInt(9_000_000)), "got %s", out)
	require.True(t, out.Amount.LT(sdkmath.NewInt(10_000_000)), "got %s", out)
	require.Equal(t, int64(9_090_909), out.Amount.Int64())

	before := sdkmath.LegacyNewDec(100_000_000).MulInt64(100_000_000)
	after := sdkmath.LegacyNewDec(110_000_000).MulInt(sdkmath.NewInt(100_000_000).Sub(out.Amount))
	require.True(t, after.GTE(before), "invariant fell from %s to %s", before, after)
	require.True(t, after.Sub(before).Quo(before).LT(sdkmath.LegacyNewDecWithPrec(1, 6)), "invariant drifted from %s to %s", before, after)

	_, err = imm.ComputeSwap(sdk.NewInt64Coin("uatom", 10), "uatom")
	require.ErrorIs(t, err, ErrInvalidDenomPair)

	_, err = imm.ComputeSwap(sdk.NewInt64Coin("uatom", 10), "ujuno")
	require.ErrorIs(t, err, ErrAssetNotFound)

	_, err = imm.ComputeSwap(sdk.NewInt64Coin("uatom", 0), "uosmo")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestComputeOfferAmount(t *testing.T) {
	pool := newTestPool(PoolStatusActive, 100, 100, 50)
	pool.SwapFee = 0
	imm := NewInterchainMarketMaker(pool)

	offer, err := imm.ComputeOfferAmount("uatom", sdk.NewInt64Coin("uosmo", 9))
	require.NoError(t, err)
	require.Equal(t, "uatom", offer.Denom)
	require.Equal(t, int64(10), offer.Amount.Int64())

	_, err = imm.ComputeOfferAmount("uatom", sdk.NewInt64Coin("uosmo", 100))
	require.ErrorIs(t, err, ErrMath)

	imm.FeeRate = 1000
	withFee, err := imm.ComputeOfferAmount("uatom", sdk.NewInt64Coin("uosmo", 9))
	require.NoError(t, err)
	require.Equal(t, int64(12), withFee.Amount.Int64())
}

func TestSwapRoundTripSingleUnitOutput(t *testing.T) {
	pool := newTestPool(PoolStatusActive, 1_000_000_000_000, 1_000_000, 50)
	imm := NewInterchainMarketMaker(pool)

	out, err := imm.ComputeSwap(sdk.NewInt64Coin("uatom", 1_500_000), "uosmo")
	require.NoError(t, err)
	require.Equal(t, int64(1), out.Amount.Int64())

	// the truncated half unit is not quoted back
	offer, err := imm.ComputeOfferAmount("uatom", out)
	require.NoError(t, err)
	require.Equal(t, int64(1_003_012), offer.Amount.Int64())

	next, err := imm.ComputeOfferAmount("uatom", out.AddAmount(sdkmath.OneInt()))
	require.NoError(t, err)
	require.True(t, next.Amount.GTE(sdkmath.NewInt(1_500_000)), "got %s", next)
}

func TestSwapRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		balanceIn := rapid.Int64Range(1_000_000, 1_000_000_000_000).Draw(t, "balanceIn")
		balanceOut := rapid.Int64Range(1_000_000, 1_000_000_000_000).Draw(t, "balanceOut")
		amountIn := rapid.Int64Range(1, balanceIn).Draw(t, "amountIn")
		fee := rapid.SampledFrom([]uint32{0, 0, 1, 30, 100, 1000}).Draw(t, "fee")

		pool := newTestPool(PoolStatusActive, balanceIn, balanceOut, 50)
		pool.SwapFee = fee
		imm := NewInterchainMarketMaker(pool)

		out, err := imm.ComputeSwap(sdk.NewInt64Coin("uatom", amountIn), "uosmo")
		require.NoError(t, err)
		require.True(t, out.Amount.LT(sdkmath.NewInt(balanceOut)))
		if !out.Amount.IsPositive() {
			return
		}

		offer, err := imm.ComputeOfferAmount("uatom", out)
		require.NoError(t, err)
		if fee == 0 {
			require.True(t, offer.Amount.LTE(sdkmath.NewInt(amountIn+1)), "paid %d, quoted %s", amountIn, offer)
		}

		// the exact-in output is the whole-unit floor, so one more unit costs at least the input
		more := out.AddAmount(sdkmath.OneInt())
		if more.Amount.GTE(sdkmath.NewInt(balanceOut)) {
			return
		}
		next, err := imm.ComputeOfferAmount("uatom", more)
		require.NoError(t, err)
		require.True(t, next.Amount.GTE(sdkmath.NewInt(amountIn)), "paid %d, one more unit quoted %s", amountIn, next)
		require.True(t, next.Amount.GTE(offer.Amount))
	})
}

func TestMarketPrice(t *testing.T) {
	imm := NewInterchainMarketMaker(newTestPool(PoolStatusActive, 100, 400, 50))

	price, err := imm.MarketPrice("uatom", "uosmo")
	require.NoError(t, err)
	require.True(t, price.Equal(sdkmath.LegacyNewDec(4)), "got %s", price)

	weighted := NewInterchainMarketMaker(newTestPool(PoolStatusActive, 100, 100, 20))
	price, err = weighted.MarketPrice("uatom", "uosmo")
	require.NoError(t, err)
	require.True(t, price.Equal(sdkmath.LegacyNewDecWithPrec(25, 2)), "got %s", price)
}

func TestLPTokenPrice(t *testing.T) {
	imm := NewInterchainMarketMaker(newTestPool(PoolStatusActive, 100, 400, 50))

	price, err := imm.LPTokenPrice("uatom")
	require.NoError(t, err)
	require.True(t, price.Equal(sdkmath.LegacyNewDec(2)), "got %s", price)

	_, err = NewInterchainMarketMaker(newTestPool(PoolStatusInitialized, 100, 400, 50)).LPTokenPrice("uatom")
	require.ErrorIs(t, err, ErrMath)
}
