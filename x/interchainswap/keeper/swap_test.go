package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/keeper"
	"github.com/ics101/interchainswap/x/interchainswap/types"
)

func (s *SwapTestSuite) swapMsg(poolID string, swapType types.SwapMsgType, in, out int64, slippage uint64) *types.MsgSwap {
	return &types.MsgSwap{
		SwapType:  swapType,
		Sender:    s.trader.String(),
		PoolId:    poolID,
		TokenIn:   sdk.NewInt64Coin(atom, in),
		TokenOut:  sdk.NewInt64Coin(osmo, out),
		Slippage:  slippage,
		Recipient: s.recipient.String(),
	}
}

func (s *SwapTestSuite) swap(msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	var resp *types.MsgSwapResponse
	err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) (err error) {
		resp, err = ms.Swap(ctx, msg)
		return err
	})
	return resp, err
}

// requireAssets checks the pool balances on both chains.
func (s *SwapTestSuite) requireAssets(poolID string, atomBalance, osmoBalance int64) {
	for _, pool := range []types.InterchainLiquidityPool{s.pool(s.a, poolID), s.pool(s.b, poolID)} {
		atomAsset, err := pool.FindAssetByDenom(atom)
		s.Require().NoError(err)
		osmoAsset, err := pool.FindAssetByDenom(osmo)
		s.Require().NoError(err)
		s.Require().Equal(atomBalance, atomAsset.Balance.Amount.Int64())
		s.Require().Equal(osmoBalance, osmoAsset.Balance.Amount.Int64())
	}
}

func (s *SwapTestSuite) TestSwapLeft() {
	poolID := s.activePool()

	resp, err := s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100))
	s.Require().NoError(err)
	s.Require().Equal(int64(10_000), resp.TokenIn.Amount.Int64())
	s.Require().Equal(int64(9_900), resp.TokenOut.Amount.Int64())
	s.requireBalance(s.a, s.trader, atom, startingBalance-10_000)

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.requireBalance(s.b, s.recipient, osmo, 9_900)
	s.requireAssets(poolID, 1_010_000, 990_100)
	s.requireMirrored(poolID)
	s.requireEscrow(s.a, atom, 1_010_000)
	s.requireEscrow(s.b, osmo, 990_100)
	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestSwapRight() {
	poolID := s.activePool()

	resp, err := s.swap(s.swapMsg(poolID, types.SwapRight, 11_000, 9_900, 0))
	s.Require().NoError(err)
	s.Require().Equal(int64(9_900), resp.TokenOut.Amount.Int64())
	charged := resp.TokenIn.Amount.Int64()
	// 9_999 before the 30bp fee.
	s.Require().GreaterOrEqual(charged, int64(10_029))
	s.Require().LessOrEqual(charged, int64(10_031))
	s.requireBalance(s.a, s.trader, atom, startingBalance-charged)

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.requireBalance(s.b, s.recipient, osmo, 9_900)
	s.requireAssets(poolID, initialLiquidity+charged, initialLiquidity-9_900)
	s.requireMirrored(poolID)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestSwapSlippage() {
	poolID := s.activePool()

	_, err := s.swap(s.swapMsg(poolID, types.SwapRight, 10_000, 9_900, 0))
	s.Require().ErrorIs(err, types.ErrSlippageExceeded)

	_, err = s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 11_000, 0))
	s.Require().ErrorIs(err, types.ErrSlippageExceeded)

	// 10% tolerance on an expected 11_000 accepts anything from 9_900.
	_, err = s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 11_000, 1_000))
	s.Require().NoError(err)

	s.requireBalance(s.a, s.trader, atom, startingBalance-10_000)
}

func (s *SwapTestSuite) TestSwapRejects() {
	poolID := s.proposePool()

	_, err := s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100))
	s.Require().ErrorIs(err, types.ErrPoolNotActive)

	s.Require().NoError(s.takePool(poolID))
	s.Require().True(s.path.Relay(s.b).Success())

	msg := s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100)
	msg.TokenIn, msg.TokenOut = sdk.NewInt64Coin(osmo, 10_000), sdk.NewInt64Coin(atom, 9_900)
	_, err = s.swap(msg)
	s.Require().ErrorIs(err, types.ErrInvalidDenomPair)

	msg = s.swapMsg(poolID, types.SwapLeft, startingBalance+1, 1, 10_000)
	_, err = s.swap(msg)
	s.Require().ErrorIs(err, types.ErrFundsMismatch)
}

func (s *SwapTestSuite) TestMinimumOutput() {
	s.Require().True(keeper.MinimumOutput(sdkmath.NewInt(10_000), 100).Equal(sdkmath.NewInt(9_900)))
	s.Require().True(keeper.MinimumOutput(sdkmath.NewInt(10_000), 0).Equal(sdkmath.NewInt(10_000)))
	s.Require().True(keeper.MinimumOutput(sdkmath.NewInt(10_000), types.FeePrecision).IsZero())
	s.Require().True(keeper.MinimumOutput(sdkmath.NewInt(7), 5_000).Equal(sdkmath.NewInt(3)))
}

func (s *SwapTestSuite) TestSingleAssetDeposit() {
	poolID := s.activePool()

	var resp *types.MsgSingleAssetDepositResponse
	s.Require().NoError(s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) (err error) {
		resp, err = ms.SingleAssetDeposit(ctx, &types.MsgSingleAssetDeposit{
			PoolId: poolID,
			Sender: s.trader.String(),
			Token:  sdk.NewInt64Coin(atom, 100_000),
		})
		return err
	}))
	shares := resp.PoolToken.Amount
	// Growing one side of a 50/50 pool by 10% mints a little under sqrt(1.1)-1 of supply.
	s.Require().True(shares.GT(sdkmath.NewInt(4).Mul(types.Multiplier)), shares.String())
	s.Require().True(shares.LT(sdkmath.NewInt(5).Mul(types.Multiplier)), shares.String())
	s.Require().True(s.a.Balance(s.trader, poolID).IsZero())

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().True(s.a.Balance(s.trader, poolID).Amount.Equal(shares))
	s.requireAssets(poolID, 1_100_000, initialLiquidity)
	s.requireMirrored(poolID)
	s.Require().True(s.pool(s.b, poolID).Supply.Amount.Equal(initialShares().Add(shares)))
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestSingleAssetDepositRejectsForeignAsset() {
	poolID := s.activePool()

	err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.SingleAssetDeposit(ctx, &types.MsgSingleAssetDeposit{
			PoolId: poolID,
			Sender: s.trader.String(),
			Token:  sdk.NewInt64Coin(osmo, 100_000),
		})
		return err
	})
	s.Require().ErrorIs(err, types.ErrInvalidDenomPair)
}

func (s *SwapTestSuite) TestMultiAssetWithdraw() {
	poolID := s.activePool()
	half := initialShares().QuoRaw(2)

	var resp *types.MsgMultiAssetWithdrawResponse
	s.Require().NoError(s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) (err error) {
		resp, err = ms.MultiAssetWithdraw(ctx, &types.MsgMultiAssetWithdraw{
			PoolId:               poolID,
			Receiver:             s.maker.String(),
			CounterPartyReceiver: s.recipient.String(),
			PoolToken:            sdk.NewCoin(poolID, half),
		})
		return err
	}))
	s.Require().Len(resp.Tokens, 2)
	for _, token := range resp.Tokens {
		s.Require().Equal(int64(500_000), token.Amount.Int64(), token.String())
	}
	s.Require().True(s.a.Balance(s.maker, poolID).IsZero())

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity+500_000)
	s.requireBalance(s.b, s.recipient, osmo, 500_000)
	s.requireAssets(poolID, 500_000, 500_000)
	s.requireMirrored(poolID)
	s.Require().True(s.pool(s.a, poolID).Supply.Amount.Equal(half))
	s.Require().True(s.a.Escrowed(poolID).IsZero())
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestMultiAssetWithdrawRejectsMoreThanHeld() {
	poolID := s.activePool()

	err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.MultiAssetWithdraw(ctx, &types.MsgMultiAssetWithdraw{
			PoolId:               poolID,
			Receiver:             s.maker.String(),
			CounterPartyReceiver: s.recipient.String(),
			PoolToken:            sdk.NewCoin(poolID, initialShares().QuoRaw(2).AddRaw(1)),
		})
		return err
	})
	s.Require().ErrorIs(err, types.ErrFundsMismatch)

	err = s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.MultiAssetWithdraw(ctx, &types.MsgMultiAssetWithdraw{
			PoolId:               poolID,
			Receiver:             s.maker.String(),
			CounterPartyReceiver: s.recipient.String(),
			PoolToken:            sdk.NewCoin(poolID, initialShares().AddRaw(1)),
		})
		return err
	})
	s.Require().ErrorIs(err, types.ErrInvalidWithdrawAmount)
}
