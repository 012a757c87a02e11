package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// InterchainMarketMaker prices operations against a pool snapshot. It holds no state of
// its own and is rebuilt for every call.
type InterchainMarketMaker struct {
	Pool    InterchainLiquidityPool
	FeeRate uint32
}

// NewInterchainMarketMaker returns a market maker over the given pool using its swap fee.
func NewInterchainMarketMaker(pool InterchainLiquidityPool) InterchainMarketMaker {
	return InterchainMarketMaker{
		Pool:    pool,
		FeeRate: pool.SwapFee,
	}
}

// feeRate returns the fee as a fraction of one
func (imm InterchainMarketMaker) feeRate() sdkmath.LegacyDec {
	return sdkmath.LegacyNewDec(int64(imm.FeeRate)).QuoInt64(FeePrecision)
}

// MinusFees returns amount * (1 - fee).
func (imm InterchainMarketMaker) MinusFees(amount sdkmath.Int) sdkmath.LegacyDec {
	return sdkmath.LegacyNewDecFromInt(amount).Mul(sdkmath.LegacyOneDec().Sub(imm.feeRate()))
}

// DepositSingleAsset returns the LP shares minted for a one-sided deposit.
func (imm InterchainMarketMaker) DepositSingleAsset(token sdk.Coin) (sdk.Coin, error) {
	if imm.Pool.Status != PoolStatusActive {
		return sdk.Coin{}, errorsmod.Wrapf(ErrPoolNotActive, "pool %s is %s", imm.Pool.Id, imm.Pool.Status)
	}
	asset, err := imm.Pool.FindAssetByDenom(token.Denom)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}

	shares, _, err := CalcMintedSharesGivenSingleAssetIn(
		token.Amount,
		asset.Decimal,
		WeightedAsset{Balance: asset.Balance.Amount, Weight: asset.Weight},
		imm.Pool.Supply.Amount,
		imm.feeRate(),
	)
	if err != nil {
		return sdk.Coin{}, err
	}
	return sdk.NewCoin(imm.Pool.Supply.Denom, shares), nil
}

// InitialShares splits the bootstrap share amount between the two pool creators by the
// weight of the asset each of them funded: [source creator, destination creator].
func (imm InterchainMarketMaker) InitialShares(localChainID string) ([]sdk.Coin, error) {
	sourceAsset, err := imm.Pool.NativeAsset(imm.Pool.SourceChainId, localChainID)
	if err != nil {
		return nil, err
	}

	total := sdkmath.NewInt(InitLPTokens).Mul(Multiplier)
	sourceShares := total.MulRaw(int64(sourceAsset.Weight)).QuoRaw(100)
	return []sdk.Coin{
		sdk.NewCoin(imm.Pool.Supply.Denom, sourceShares),
		sdk.NewCoin(imm.Pool.Supply.Denom, total.Sub(sourceShares)),
	}, nil
}

// DepositMultiAsset prices a deposit of every pool asset at once. A pool that has never
// been funded mints the initial share amount and takes the tokens as they are. An active
// pool accepts tokens up to the smallest ratio among them and hands back the excess.
func (imm InterchainMarketMaker) DepositMultiAsset(tokens []sdk.Coin) (sdkmath.Int, []sdk.Coin, []sdk.Coin, error) {
	if len(tokens) == 0 {
		return sdkmath.Int{}, nil, nil, errorsmod.Wrap(ErrInvalidAmount, "no tokens to deposit")
	}
	for _, token := range tokens {
		if _, err := imm.Pool.FindAssetByDenom(token.Denom); err != nil {
			return sdkmath.Int{}, nil, nil, errorsmod.Wrap(ErrAssetNotFound, err.Error())
		}
		if !token.Amount.IsPositive() {
			return sdkmath.Int{}, nil, nil, errorsmod.Wrapf(ErrInvalidAmount, "non-positive deposit %s", token)
		}
	}

	if imm.Pool.Supply.Amount.IsZero() {
		if imm.Pool.Status != PoolStatusInitialized {
			return sdkmath.Int{}, nil, nil, errorsmod.Wrapf(ErrMath, "pool %s is %s with zero supply", imm.Pool.Id, imm.Pool.Status)
		}
		return sdkmath.NewInt(InitLPTokens).Mul(Multiplier), append([]sdk.Coin{}, tokens...), nil, nil
	}
	if imm.Pool.Status != PoolStatusActive {
		return sdkmath.Int{}, nil, nil, errorsmod.Wrapf(ErrPoolNotActive, "pool %s is %s", imm.Pool.Id, imm.Pool.Status)
	}

	ratios := make([]sdkmath.LegacyDec, len(tokens))
	balances := make([]sdkmath.LegacyDec, len(tokens))
	minRatio := sdkmath.LegacyDec{}
	for i, token := range tokens {
		asset, _ := imm.Pool.FindAssetByDenom(token.Denom)
		if !asset.Balance.Amount.IsPositive() {
			return sdkmath.Int{}, nil, nil, errorsmod.Wrapf(ErrMath, "pool balance of %s is zero", token.Denom)
		}
		balances[i] = sdkmath.LegacyNewDecFromInt(asset.Balance.Amount)
		ratios[i] = sdkmath.LegacyNewDecFromInt(token.Amount).QuoTruncate(balances[i])
		if minRatio.IsNil() || ratios[i].LT(minRatio) {
			minRatio = ratios[i]
		}
	}

	accepted := make([]sdk.Coin, 0, len(tokens))
	var remainder []sdk.Coin
	for i, token := range tokens {
		if ratios[i].Equal(minRatio) {
			accepted = append(accepted, token)
			continue
		}
		used := minRatio.MulTruncate(balances[i]).TruncateInt()
		accepted = append(accepted, sdk.NewCoin(token.Denom, used))
		if rest := token.Amount.Sub(used); rest.IsPositive() {
			remainder = append(remainder, sdk.NewCoin(token.Denom, rest))
		}
	}

	minted := minRatio.MulInt(imm.Pool.Supply.Amount).TruncateInt()
	if !minted.IsPositive() {
		return sdkmath.Int{}, nil, nil, errorsmod.Wrap(ErrMath, "deposit too small to mint any share")
	}
	return minted, accepted, remainder, nil
}

// MultiAssetWithdraw returns what every pool asset owes for redeeming the given shares.
func (imm InterchainMarketMaker) MultiAssetWithdraw(redeem sdk.Coin) ([]sdk.Coin, error) {
	if redeem.Denom != imm.Pool.Supply.Denom {
		return nil, errorsmod.Wrapf(ErrDenomMismatch, "got %s, expected %s", redeem.Denom, imm.Pool.Supply.Denom)
	}
	if !imm.Pool.Supply.Amount.IsPositive() {
		return nil, errorsmod.Wrapf(ErrMath, "pool %s has no supply", imm.Pool.Id)
	}
	if !redeem.Amount.IsPositive() || redeem.Amount.GT(imm.Pool.Supply.Amount) {
		return nil, errorsmod.Wrapf(ErrInvalidWithdrawAmount, "redeem %s of supply %s", redeem, imm.Pool.Supply)
	}

	ratio := sdkmath.LegacyNewDecFromInt(redeem.Amount).QuoTruncate(sdkmath.LegacyNewDecFromInt(imm.Pool.Supply.Amount))
	outs := make([]sdk.Coin, 0, len(imm.Pool.Assets))
	for _, asset := range imm.Pool.Assets {
		owed := ratio.MulInt(asset.Balance.Amount).TruncateInt()
		if owed.GT(asset.Balance.Amount) {
			return nil, errorsmod.Wrapf(ErrInvalidWithdrawAmount, "owed %s exceeds balance %s", owed, asset.Balance)
		}
		outs = append(outs, sdk.NewCoin(asset.Balance.Denom, owed))
	}
	return outs, nil
}

// ComputeSwap returns the output of selling exactly amountIn for denomOut.
func (imm InterchainMarketMaker) ComputeSwap(amountIn sdk.Coin, denomOut string) (sdk.Coin, error) {
	assetIn, err := imm.Pool.FindAssetByDenom(amountIn.Denom)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}
	assetOut, err := imm.Pool.FindAssetByDenom(denomOut)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}
	if assetIn.Balance.Denom == assetOut.Balance.Denom {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidDenomPair, "cannot swap %s for itself", denomOut)
	}
	if !amountIn.Amount.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidAmount, "non-positive input %s", amountIn)
	}

	balanceIn := sdkmath.LegacyNewDecFromInt(assetIn.Balance.Amount)
	balanceInAfter := balanceIn.Add(sdkmath.LegacyNewDecFromInt(amountIn.Amount))
	out, err := SolveConstantFunctionInvariant(
		balanceIn, balanceInAfter, assetIn.Weight,
		sdkmath.LegacyNewDecFromInt(assetOut.Balance.Amount), assetOut.Weight,
	)
	if err != nil {
		return sdk.Coin{}, err
	}

	amountOut, err := AdjustPrecision(sdkmath.NewIntFromBigInt(out.BigInt()), sdkmath.LegacyPrecision, 0)
	if err != nil {
		return sdk.Coin{}, err
	}
	if amountOut.IsNegative() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrMath, "negative output %s", amountOut)
	}
	return sdk.NewCoin(denomOut, amountOut), nil
}

// ComputeOfferAmount returns the input of denomIn required to receive exactly amountOut,
// including the swap fee. Both steps round up.
func (imm InterchainMarketMaker) ComputeOfferAmount(denomIn string, amountOut sdk.Coin) (sdk.Coin, error) {
	assetIn, err := imm.Pool.FindAssetByDenom(denomIn)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}
	assetOut, err := imm.Pool.FindAssetByDenom(amountOut.Denom)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}
	if assetIn.Balance.Denom == assetOut.Balance.Denom {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidDenomPair, "cannot swap %s for itself", denomIn)
	}
	if !amountOut.Amount.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInvalidAmount, "non-positive output %s", amountOut)
	}
	if amountOut.Amount.GTE(assetOut.Balance.Amount) {
		return sdk.Coin{}, errorsmod.Wrapf(ErrMath, "output %s drains pool balance %s", amountOut, assetOut.Balance)
	}

	balanceOut := sdkmath.LegacyNewDecFromInt(assetOut.Balance.Amount)
	balanceOutAfter := balanceOut.Sub(sdkmath.LegacyNewDecFromInt(amountOut.Amount))
	negIn, err := SolveConstantFunctionInvariant(
		balanceOut, balanceOutAfter, assetOut.Weight,
		sdkmath.LegacyNewDecFromInt(assetIn.Balance.Amount), assetIn.Weight,
	)
	if err != nil {
		return sdk.Coin{}, err
	}
	required := negIn.Neg().Ceil()

	feeKept := sdkmath.LegacyOneDec().Sub(imm.feeRate())
	if !feeKept.IsPositive() {
		return sdk.Coin{}, errorsmod.Wrapf(ErrMath, "fee rate %d leaves nothing to trade", imm.FeeRate)
	}
	offer := required.Quo(feeKept).Ceil().TruncateInt()
	return sdk.NewCoin(denomIn, offer), nil
}

// MarketPrice returns the spot price of denomIn in units of denomOut, with both
// balances normalized to 18 decimals.
func (imm InterchainMarketMaker) MarketPrice(denomIn, denomOut string) (sdkmath.LegacyDec, error) {
	assetIn, err := imm.Pool.FindAssetByDenom(denomIn)
	if err != nil {
		return sdkmath.LegacyDec{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}
	assetOut, err := imm.Pool.FindAssetByDenom(denomOut)
	if err != nil {
		return sdkmath.LegacyDec{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}

	balanceIn, err := AdjustPrecision(assetIn.Balance.Amount, assetIn.Decimal, sdkmath.LegacyPrecision)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	balanceOut, err := AdjustPrecision(assetOut.Balance.Amount, assetOut.Decimal, sdkmath.LegacyPrecision)
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	if !balanceIn.IsPositive() {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "pool balance of %s is zero", denomIn)
	}

	// (balanceOut / weightOut) / (balanceIn / weightIn)
	numerator := sdkmath.LegacyNewDecFromInt(balanceOut).MulInt64(int64(assetIn.Weight))
	denominator := sdkmath.LegacyNewDecFromInt(balanceIn).MulInt64(int64(assetOut.Weight))
	return numerator.Quo(denominator), nil
}

// LPTokenPrice returns the value of one whole LP share measured in the given denom.
func (imm InterchainMarketMaker) LPTokenPrice(denom string) (sdkmath.LegacyDec, error) {
	if !imm.Pool.Supply.Amount.IsPositive() {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "pool %s has no supply", imm.Pool.Id)
	}
	asset, err := imm.Pool.FindAssetByDenom(denom)
	if err != nil {
		return sdkmath.LegacyDec{}, errorsmod.Wrap(ErrAssetNotFound, err.Error())
	}
	if asset.Weight == 0 {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "zero weight for %s", denom)
	}

	// Total value in units of denom is balance / weight share.
	total := sdkmath.LegacyNewDecFromInt(asset.Balance.Amount).MulInt64(100).QuoInt64(int64(asset.Weight))
	perShare := total.MulInt(Multiplier).QuoInt(imm.Pool.Supply.Amount)
	return perShare, nil
}
