package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

const (
	// FeePrecision is the basis-point scale of swap fees and slippage tolerances
	FeePrecision = 10000

	// InitLPTokens is the number of whole LP shares minted when a pool is bootstrapped
	InitLPTokens = 100

	// MaxTokenDecimals is the highest token precision a pool asset may declare
	MaxTokenDecimals = sdkmath.LegacyPrecision

	// maxPrecisionShift bounds the power of ten applied by AdjustPrecision
	maxPrecisionShift = 77
)

// Multiplier scales whole LP shares to their base unit (18 decimals)
var Multiplier = sdkmath.NewIntWithDecimal(1, sdkmath.LegacyPrecision)

// WeightedAsset is the slice of a pool asset the invariant math needs
type WeightedAsset struct {
	Balance sdkmath.Int
	Weight  uint32
}

// AdjustPrecision rescales an amount from one decimal precision to another.
// Scaling down truncates.
func AdjustPrecision(amount sdkmath.Int, from, to uint32) (sdkmath.Int, error) {
	if from == to {
		return amount, nil
	}

	var shift uint32
	if to > from {
		shift = to - from
	} else {
		shift = from - to
	}
	if shift > maxPrecisionShift {
		return sdkmath.Int{}, errorsmod.Wrapf(ErrArithmetic, "precision shift %d too large", shift)
	}
	factor := sdkmath.NewIntWithDecimal(1, int(shift))

	if to > from {
		scaled, err := amount.SafeMul(factor)
		if err != nil {
			return sdkmath.Int{}, errorsmod.Wrap(ErrArithmetic, err.Error())
		}
		return scaled, nil
	}
	return amount.Quo(factor), nil
}

// SolveConstantFunctionInvariant returns
// balanceOut * (1 - (balanceIn / balanceInAfter) ^ (weightIn / weightOut)).
//
// The result is negative when balanceInAfter < balanceIn, which is how the exact-out
// direction is solved.
func SolveConstantFunctionInvariant(
	balanceIn, balanceInAfter sdkmath.LegacyDec,
	weightIn uint32,
	balanceOut sdkmath.LegacyDec,
	weightOut uint32,
) (amountOut sdkmath.LegacyDec, err error) {
	if !balanceIn.IsPositive() || !balanceInAfter.IsPositive() {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "non-positive balance: in %s, in after %s", balanceIn, balanceInAfter)
	}
	if balanceOut.IsNegative() {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "negative balance out %s", balanceOut)
	}
	if weightIn == 0 || weightOut == 0 {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "undefined exponent %d/%d", weightIn, weightOut)
	}

	defer recoverArithmetic(&err)

	base := balanceIn.Quo(balanceInAfter)
	factor, err := PowRational(base, uint64(weightIn), uint64(weightOut))
	if err != nil {
		return sdkmath.LegacyDec{}, err
	}
	return balanceOut.Mul(sdkmath.LegacyOneDec().Sub(factor)), nil
}

// CalcMintedSharesGivenSingleAssetIn prices a one-sided deposit. The deposit and the pool
// balance are normalized from tokenDecimal to 18 decimals before the invariant is applied;
// the returned fee is in the token's base units. The fee applies to the part of the
// deposit that is implicitly swapped into the other side, (1 - weight).
func CalcMintedSharesGivenSingleAssetIn(
	amountIn sdkmath.Int,
	tokenDecimal uint32,
	asset WeightedAsset,
	totalShares sdkmath.Int,
	feeRate sdkmath.LegacyDec,
) (shares, feeCharged sdkmath.Int, err error) {
	if tokenDecimal > MaxTokenDecimals {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(ErrMath, "token decimal %d above %d", tokenDecimal, MaxTokenDecimals)
	}
	if !amountIn.IsPositive() {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(ErrMath, "non-positive deposit %s", amountIn)
	}
	if totalShares.IsNil() || !totalShares.IsPositive() {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrap(ErrMath, "pool has no outstanding shares")
	}
	if asset.Balance.IsNil() || !asset.Balance.IsPositive() {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrap(ErrMath, "pool asset balance is zero")
	}
	if asset.Weight == 0 || asset.Weight > 100 {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(ErrMath, "invalid weight %d", asset.Weight)
	}

	defer recoverArithmetic(&err)

	normalizedIn, err := AdjustPrecision(amountIn, tokenDecimal, sdkmath.LegacyPrecision)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	normalizedBalance, err := AdjustPrecision(asset.Balance, tokenDecimal, sdkmath.LegacyPrecision)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}

	weight := sdkmath.LegacyNewDecWithPrec(int64(asset.Weight), 2)
	feeRatio := sdkmath.LegacyOneDec().Sub(sdkmath.LegacyOneDec().Sub(weight).Mul(feeRate))
	inAfterFee := sdkmath.LegacyNewDecFromInt(normalizedIn).Mul(feeRatio)

	growth := sdkmath.LegacyOneDec().Add(inAfterFee.Quo(sdkmath.LegacyNewDecFromInt(normalizedBalance)))
	factor, err := PowRational(growth, uint64(asset.Weight), 100)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}

	minted := sdkmath.LegacyNewDecFromInt(totalShares).Mul(factor.Sub(sdkmath.LegacyOneDec()))
	if minted.IsNegative() {
		return sdkmath.Int{}, sdkmath.Int{}, errorsmod.Wrapf(ErrMath, "negative shares %s", minted)
	}

	kept, err := AdjustPrecision(inAfterFee.TruncateInt(), sdkmath.LegacyPrecision, tokenDecimal)
	if err != nil {
		return sdkmath.Int{}, sdkmath.Int{}, err
	}
	return minted.TruncateInt(), amountIn.Sub(kept), nil
}

// PowRational computes base^(num/den) for a positive base. The exponent is reduced first
// and evaluated root-first so intermediate values stay close to the base.
func PowRational(base sdkmath.LegacyDec, num, den uint64) (result sdkmath.LegacyDec, err error) {
	if den == 0 {
		return sdkmath.LegacyDec{}, errorsmod.Wrap(ErrMath, "zero exponent denominator")
	}
	if !base.IsPositive() {
		return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrMath, "non-positive base %s", base)
	}
	if num == 0 {
		return sdkmath.LegacyOneDec(), nil
	}

	defer recoverArithmetic(&err)

	g := gcd(num, den)
	num, den = num/g, den/g

	root := base
	if den > 1 {
		root, err = base.ApproxRoot(den)
		if err != nil {
			return sdkmath.LegacyDec{}, errorsmod.Wrapf(ErrArithmetic, "root %d of %s: %s", den, base, err)
		}
	}
	return root.Power(num), nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// recoverArithmetic converts a LegacyDec / Int overflow panic into ErrArithmetic.
func recoverArithmetic(err *error) {
	if r := recover(); r != nil {
		*err = errorsmod.Wrap(ErrArithmetic, fmt.Sprint(r))
	}
}
