package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

func (s *SwapTestSuite) TestMakePoolTimeoutDeletesPool() {
	poolID := s.makePool()

	s.Require().NoError(s.path.Timeout(s.a))

	s.Require().False(s.a.Keeper.HasPool(s.a.Ctx, poolID))
	s.requireBalance(s.a, s.maker, atom, startingBalance)
	s.requireEscrow(s.a, atom, 0)
	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
}

func (s *SwapTestSuite) TestTakePoolTimeoutRefundsTaker() {
	poolID := s.proposePool()
	s.Require().NoError(s.takePool(poolID))

	s.Require().NoError(s.path.Timeout(s.b))

	s.requireBalance(s.b, s.taker, osmo, startingBalance)
	s.requireEscrow(s.b, osmo, 0)
	s.Require().Equal(types.PoolStatusInitialized, s.pool(s.b, poolID).Status)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestCancelPoolTimeoutFinalizesCancel() {
	poolID := s.proposePool()
	s.Require().NoError(s.cancelPool(poolID))

	s.Require().NoError(s.path.Timeout(s.a))

	s.Require().False(s.a.Keeper.HasPool(s.a.Ctx, poolID))
	s.requireBalance(s.a, s.maker, atom, startingBalance)
	s.requireInvariants(s.a)
}

// A cancellation the counterparty rejects leaves the proposal in place and cancellable.
func (s *SwapTestSuite) TestCancelPoolErrorAckClearsPendingCancel() {
	poolID := s.makePool()
	makePacket, ok := s.a.ICS4.Pop()
	s.Require().True(ok)

	s.Require().NoError(s.cancelPool(poolID))
	ack := s.path.Relay(s.a)
	s.Require().False(ack.Success())

	pool := s.pool(s.a, poolID)
	s.Require().False(pool.PendingCancel)
	s.Require().Equal(types.PoolStatusInitialized, pool.Status)
	s.requireEscrow(s.a, atom, initialLiquidity)

	s.a.ICS4.Pending = append(s.a.ICS4.Pending, makePacket)
	s.Require().NoError(s.path.Timeout(s.a))
	s.Require().False(s.a.Keeper.HasPool(s.a.Ctx, poolID))
	s.requireBalance(s.a, s.maker, atom, startingBalance)
	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
}

func (s *SwapTestSuite) TestSwapErrorAckRefundsSender() {
	poolID := s.activePool()

	msg := s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100)
	msg.Recipient = "not-an-address"
	_, err := s.swap(msg)
	s.Require().NoError(err)

	ack := s.path.Relay(s.a)
	s.Require().False(ack.Success())

	s.requireBalance(s.a, s.trader, atom, startingBalance)
	s.requireAssets(poolID, initialLiquidity, initialLiquidity)
	s.requireEscrow(s.a, atom, initialLiquidity)
	s.requireEscrow(s.b, osmo, initialLiquidity)
	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestSwapTimeoutRefundsSender() {
	poolID := s.activePool()

	_, err := s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100))
	s.Require().NoError(err)
	s.requireInvariants(s.a)

	s.Require().NoError(s.path.Timeout(s.a))

	s.requireBalance(s.a, s.trader, atom, startingBalance)
	s.requireAssets(poolID, initialLiquidity, initialLiquidity)
	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
}

func (s *SwapTestSuite) TestSingleAssetDepositTimeoutRefundsSender() {
	poolID := s.activePool()

	s.Require().NoError(s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.SingleAssetDeposit(ctx, &types.MsgSingleAssetDeposit{
			PoolId: poolID,
			Sender: s.trader.String(),
			Token:  sdk.NewInt64Coin(atom, 100_000),
		})
		return err
	}))

	s.Require().NoError(s.path.Timeout(s.a))

	s.requireBalance(s.a, s.trader, atom, startingBalance)
	s.Require().True(s.a.Balance(s.trader, poolID).IsZero())
	s.Require().True(s.pool(s.a, poolID).Supply.Amount.Equal(initialShares()))
	s.requireInvariants(s.a)
}

func (s *SwapTestSuite) TestWithdrawTimeoutRefundsShares() {
	poolID := s.activePool()
	half := initialShares().QuoRaw(2)

	s.Require().NoError(s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.MultiAssetWithdraw(ctx, &types.MsgMultiAssetWithdraw{
			PoolId:               poolID,
			Receiver:             s.maker.String(),
			CounterPartyReceiver: s.recipient.String(),
			PoolToken:            sdk.NewCoin(poolID, half.QuoRaw(5)),
		})
		return err
	}))
	s.Require().True(s.a.Balance(s.maker, poolID).Amount.Equal(half.Sub(half.QuoRaw(5))))

	s.Require().NoError(s.path.Timeout(s.a))

	s.Require().True(s.a.Balance(s.maker, poolID).Amount.Equal(half))
	s.Require().True(s.a.Escrowed(poolID).IsZero())
	s.requireAssets(poolID, initialLiquidity, initialLiquidity)
	s.requireInvariants(s.a)
}

func (s *SwapTestSuite) TestMakeMultiAssetDepositTimeoutDeletesOrder() {
	poolID := s.activePool()
	resp, err := s.makeDeposit(poolID, 100_000, 100_000)
	s.Require().NoError(err)

	s.Require().NoError(s.path.Timeout(s.a))

	s.Require().False(s.a.Keeper.HasOrder(s.a.Ctx, poolID, resp.OrderId))
	s.Require().False(s.a.Keeper.HasActiveOrder(s.a.Ctx, s.maker.String(), poolID, s.taker.String()))
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity)
	s.requireInvariants(s.a)
}

// The maker cancels while the taker's take is in flight. The maker chain rejects the take,
// the taker chain reopens the order and refunds the taker, then applies the cancellation.
func (s *SwapTestSuite) TestTakeMultiAssetDepositErrorAckReopensOrder() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)

	s.Require().NoError(s.cancelDeposit(s.a, s.maker, poolID, orderID))
	s.Require().NoError(s.takeDeposit(s.taker, poolID, orderID))
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity-100_000)

	ack := s.path.Relay(s.b)
	s.Require().False(ack.Success())

	s.Require().Equal(types.OrderStatusPending, s.order(s.b, poolID, orderID).Status)
	s.Require().True(s.b.Keeper.HasActiveOrder(s.b.Ctx, s.maker.String(), poolID, s.taker.String()))
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity)
	s.requireInvariants(s.b)

	ack = s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().Equal(types.OrderStatusCancelled, s.order(s.b, poolID, orderID).Status)
	s.Require().Equal(types.OrderStatusCancelled, s.order(s.a, poolID, orderID).Status)
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity)
	s.requireAssets(poolID, initialLiquidity, initialLiquidity)
	s.requireNoInFlight(s.a)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestTakeMultiAssetDepositTimeoutCancelsOrder() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)
	s.Require().NoError(s.takeDeposit(s.taker, poolID, orderID))

	s.Require().NoError(s.path.Timeout(s.b))

	s.Require().Equal(types.OrderStatusCancelled, s.order(s.b, poolID, orderID).Status)
	s.Require().False(s.b.Keeper.HasActiveOrder(s.b.Ctx, s.maker.String(), poolID, s.taker.String()))
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestCancelMultiAssetDepositTimeoutRefundsMaker() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)
	s.Require().NoError(s.cancelDeposit(s.a, s.maker, poolID, orderID))

	s.Require().NoError(s.path.Timeout(s.a))

	s.Require().Equal(types.OrderStatusCancelled, s.order(s.a, poolID, orderID).Status)
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity)
	s.requireEscrow(s.a, atom, initialLiquidity)
	s.requireInvariants(s.a)
}

// The taker takes before the maker's cancellation arrives. The taker chain rejects the
// cancellation, the maker chain reopens the order and the take then completes it.
func (s *SwapTestSuite) TestCancelMultiAssetDepositErrorAckReopensOrder() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)

	s.Require().NoError(s.takeDeposit(s.taker, poolID, orderID))
	s.Require().NoError(s.cancelDeposit(s.a, s.maker, poolID, orderID))

	ack := s.path.Relay(s.a)
	s.Require().False(ack.Success())

	s.Require().Equal(types.OrderStatusPending, s.order(s.a, poolID, orderID).Status)
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity-100_000)
	s.requireInvariants(s.a)

	ack = s.path.Relay(s.b)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().Equal(types.OrderStatusComplete, s.order(s.a, poolID, orderID).Status)
	s.requireAssets(poolID, 1_100_000, 1_100_000)
	s.requireMirrored(poolID)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestFailedSendLeavesNoState() {
	poolID := s.activePool()

	s.a.ICS4.FailNext = true
	_, err := s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100))
	s.Require().Error(err)

	s.requireBalance(s.a, s.trader, atom, startingBalance)
	s.requireNoInFlight(s.a)
	s.Require().Empty(s.a.ICS4.Pending)
}
