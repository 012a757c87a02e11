package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/ics101/interchainswap/testutil/keeper"
	"github.com/ics101/interchainswap/x/interchainswap/types"
)

func (s *SwapTestSuite) makeDepositMsg(poolID string, atomAmount, osmoAmount int64) *types.MsgMakeMultiAssetDeposit {
	return &types.MsgMakeMultiAssetDeposit{
		PoolId: poolID,
		Deposits: []types.DepositAsset{
			{Sender: s.maker.String(), Balance: sdk.NewInt64Coin(atom, atomAmount)},
			{Sender: s.taker.String(), Balance: sdk.NewInt64Coin(osmo, osmoAmount)},
		},
	}
}

func (s *SwapTestSuite) makeDeposit(poolID string, atomAmount, osmoAmount int64) (*types.MsgMakeMultiAssetDepositResponse, error) {
	var resp *types.MsgMakeMultiAssetDepositResponse
	err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) (err error) {
		resp, err = ms.MakeMultiAssetDeposit(ctx, s.makeDepositMsg(poolID, atomAmount, osmoAmount))
		return err
	})
	return resp, err
}

// proposeDeposit opens an order on chain-a and delivers it to chain-b.
func (s *SwapTestSuite) proposeDeposit(poolID string) string {
	resp, err := s.makeDeposit(poolID, 100_000, 100_000)
	s.Require().NoError(err)
	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())
	return resp.OrderId
}

func (s *SwapTestSuite) takeDeposit(sender sdk.AccAddress, poolID, orderID string) error {
	return s.exec(s.b, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.TakeMultiAssetDeposit(ctx, &types.MsgTakeMultiAssetDeposit{
			Sender:  sender.String(),
			PoolId:  poolID,
			OrderId: orderID,
		})
		return err
	})
}

func (s *SwapTestSuite) cancelDeposit(c *keepertest.Chain, sender sdk.AccAddress, poolID, orderID string) error {
	return s.exec(c, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.CancelMultiAssetDeposit(ctx, &types.MsgCancelMultiAssetDeposit{
			Sender:  sender.String(),
			PoolId:  poolID,
			OrderId: orderID,
		})
		return err
	})
}

func (s *SwapTestSuite) TestMakeMultiAssetDepositAcceptsRatio() {
	poolID := s.activePool()
	s.a.Ctx = s.a.Ctx.WithBlockHeight(42)

	resp, err := s.makeDeposit(poolID, 100_000, 150_000)
	s.Require().NoError(err)
	s.Require().Equal("100000uatom", resp.Accepted[0].String())
	s.Require().Equal("100000uosmo", resp.Accepted[1].String())
	s.Require().Equal("50000uosmo", sdk.NewCoins(resp.Remainder...).String())
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity-100_000)

	order := s.order(s.a, poolID, resp.OrderId)
	s.Require().Equal(types.OrderStatusPending, order.Status)
	s.Require().Equal(s.a.ChainID, order.ChainId)
	s.Require().Equal(int64(42), order.CreatedAt)
	active, err := s.a.Keeper.GetActiveOrder(s.a.Ctx, s.maker.String(), poolID, s.taker.String())
	s.Require().NoError(err)
	s.Require().Equal(resp.OrderId, active.Id)

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	mirror := s.order(s.b, poolID, resp.OrderId)
	s.Require().Equal(types.OrderStatusPending, mirror.Status)
	s.Require().Equal(s.a.ChainID, mirror.ChainId)
	s.Require().Equal(order.Deposits, mirror.Deposits)
	s.Require().Equal(s.b.Ctx.BlockHeight(), mirror.CreatedAt)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestMultiAssetDepositCompletes() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)

	var resp *types.MsgTakeMultiAssetDepositResponse
	s.Require().NoError(s.exec(s.b, func(ctx sdk.Context, ms types.MsgServer) (err error) {
		resp, err = ms.TakeMultiAssetDeposit(ctx, &types.MsgTakeMultiAssetDeposit{
			Sender:  s.taker.String(),
			PoolId:  poolID,
			OrderId: orderID,
		})
		return err
	}))
	tenth := initialShares().QuoRaw(10)
	s.Require().Len(resp.PoolTokens, 2)
	s.Require().True(resp.PoolTokens[0].Amount.Equal(tenth.QuoRaw(2)))
	s.Require().True(resp.PoolTokens[1].Amount.Equal(tenth.QuoRaw(2)))
	s.Require().Equal(types.OrderStatusComplete, s.order(s.b, poolID, orderID).Status)

	ack := s.path.Relay(s.b)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().Equal(types.OrderStatusComplete, s.order(s.a, poolID, orderID).Status)
	half := initialShares().QuoRaw(2)
	s.Require().True(s.a.Balance(s.maker, poolID).Amount.Equal(half.Add(tenth.QuoRaw(2))))
	s.Require().True(s.b.Balance(s.taker, poolID).Amount.Equal(half.Add(tenth.QuoRaw(2))))
	s.requireAssets(poolID, 1_100_000, 1_100_000)
	s.requireMirrored(poolID)
	s.Require().True(s.pool(s.a, poolID).Supply.Amount.Equal(initialShares().Add(tenth)))
	s.requireEscrow(s.a, atom, 1_100_000)
	s.requireEscrow(s.b, osmo, 1_100_000)

	s.Require().False(s.a.Keeper.HasActiveOrder(s.a.Ctx, s.maker.String(), poolID, s.taker.String()))
	s.Require().False(s.b.Keeper.HasActiveOrder(s.b.Ctx, s.maker.String(), poolID, s.taker.String()))
	s.requireNoInFlight(s.a)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)

	s.Require().ErrorIs(s.takeDeposit(s.taker, poolID, orderID), types.ErrOrderAlreadyCompleted)
}

func (s *SwapTestSuite) TestMultiAssetDepositRejects() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)

	_, err := s.makeDeposit(poolID, 100_000, 100_000)
	s.Require().ErrorIs(err, types.ErrPreviousOrderNotCompleted)

	s.Require().ErrorIs(s.takeDeposit(s.trader, poolID, orderID), types.ErrUnauthorized)

	err = s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.TakeMultiAssetDeposit(ctx, &types.MsgTakeMultiAssetDeposit{
			Sender:  s.taker.String(),
			PoolId:  poolID,
			OrderId: orderID,
		})
		return err
	})
	s.Require().ErrorIs(err, types.ErrWrongChain)

	s.Require().ErrorIs(s.takeDeposit(s.taker, poolID, "missing"), types.ErrOrderNotFound)

	// Neither the taker on the maker chain nor the maker on the taker chain may cancel.
	s.Require().ErrorIs(s.cancelDeposit(s.a, s.taker, poolID, orderID), types.ErrUnauthorized)
	s.Require().ErrorIs(s.cancelDeposit(s.b, s.maker, poolID, orderID), types.ErrUnauthorized)

	msg := s.makeDepositMsg(poolID, 100_000, 100_000)
	msg.Deposits[0].Balance, msg.Deposits[1].Balance = msg.Deposits[1].Balance, msg.Deposits[0].Balance
	err = s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.MakeMultiAssetDeposit(ctx, msg)
		return err
	})
	s.Require().ErrorIs(err, types.ErrInvalidDenomPair)
}

func (s *SwapTestSuite) TestCancelMultiAssetDepositByMaker() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)

	s.Require().NoError(s.cancelDeposit(s.a, s.maker, poolID, orderID))
	s.Require().Equal(types.OrderStatusCancelled, s.order(s.a, poolID, orderID).Status)
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity-100_000)

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().Equal(types.OrderStatusCancelled, s.order(s.b, poolID, orderID).Status)
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity)
	s.requireEscrow(s.a, atom, initialLiquidity)
	s.Require().ErrorIs(s.takeDeposit(s.taker, poolID, orderID), types.ErrOrderCancelled)

	// The triple is free again.
	_, err := s.makeDeposit(poolID, 100_000, 100_000)
	s.Require().NoError(err)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestCancelMultiAssetDepositByTaker() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)

	s.Require().NoError(s.cancelDeposit(s.b, s.taker, poolID, orderID))
	s.Require().Equal(types.OrderStatusCancelled, s.order(s.b, poolID, orderID).Status)

	ack := s.path.Relay(s.b)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().Equal(types.OrderStatusCancelled, s.order(s.a, poolID, orderID).Status)
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity)
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity)
	s.requireEscrow(s.a, atom, initialLiquidity)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}
