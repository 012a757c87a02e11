package keeper_test

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

func (s *SwapTestSuite) cancelPool(poolID string) error {
	return s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.CancelPool(ctx, &types.MsgCancelPool{Creator: s.maker.String(), PoolId: poolID})
		return err
	})
}

func (s *SwapTestSuite) TestMakePoolStoresInitializedPool() {
	poolID := s.makePool()

	pool := s.pool(s.a, poolID)
	s.Require().Equal(types.PoolStatusInitialized, pool.Status)
	s.Require().Equal(s.a.ChainID, pool.SourceChainId)
	s.Require().Equal(s.path.ChannelA, pool.CounterPartyChannel)
	s.Require().True(pool.Supply.Amount.IsZero())
	s.requireBalance(s.a, s.maker, atom, startingBalance-initialLiquidity)
	s.requireEscrow(s.a, atom, initialLiquidity)
	s.Require().False(s.b.Keeper.HasPool(s.b.Ctx, poolID))

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	mirror := s.pool(s.b, poolID)
	s.Require().Equal(types.PoolStatusInitialized, mirror.Status)
	s.Require().Equal(s.path.ChannelB, mirror.CounterPartyChannel)
	native, err := mirror.FindAssetBySide(types.PoolSideSource)
	s.Require().NoError(err)
	s.Require().Equal(osmo, native.Balance.Denom)
	s.requireEscrow(s.b, osmo, 0)

	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestTakePoolActivatesBothChains() {
	poolID := s.activePool()

	s.requireMirrored(poolID)
	s.Require().Equal(types.PoolStatusActive, s.pool(s.a, poolID).Status)
	s.Require().True(s.pool(s.a, poolID).Supply.Amount.Equal(initialShares()))

	half := initialShares().QuoRaw(2)
	s.Require().True(s.a.Balance(s.maker, poolID).Amount.Equal(half))
	s.Require().True(s.b.Balance(s.taker, poolID).Amount.Equal(half))
	s.Require().True(s.a.Balance(s.taker, poolID).IsZero())

	s.requireEscrow(s.a, atom, initialLiquidity)
	s.requireEscrow(s.b, osmo, initialLiquidity)
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity)
	s.requireNoInFlight(s.a)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}

func (s *SwapTestSuite) TestTakePoolRejects() {
	poolID := s.proposePool()

	err := s.exec(s.b, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.TakePool(ctx, &types.MsgTakePool{Creator: s.trader.String(), PoolId: poolID})
		return err
	})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	err = s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.TakePool(ctx, &types.MsgTakePool{Creator: s.taker.String(), PoolId: poolID})
		return err
	})
	s.Require().ErrorIs(err, types.ErrWrongChain)

	err = s.exec(s.b, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.TakePool(ctx, &types.MsgTakePool{Creator: s.taker.String(), PoolId: "pool-missing"})
		return err
	})
	s.Require().ErrorIs(err, types.ErrPoolNotFound)

	s.Require().NoError(s.takePool(poolID))
	s.Require().True(s.path.Relay(s.b).Success())
	s.Require().ErrorIs(s.takePool(poolID), types.ErrPoolNotInitialized)
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity)
}

func (s *SwapTestSuite) TestMakePoolRejects() {
	s.Run("module disabled", func() {
		params := types.DefaultParams()
		params.Enabled = false
		s.Require().NoError(s.a.Keeper.SetParams(s.a.Ctx, params))
		defer func() {
			s.Require().NoError(s.a.Keeper.SetParams(s.a.Ctx, types.DefaultParams()))
		}()

		err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
			_, err := ms.MakePool(ctx, s.makePoolMsg())
			return err
		})
		s.Require().ErrorIs(err, types.ErrModuleDisabled)
	})

	s.Run("fee above maximum", func() {
		msg := s.makePoolMsg()
		msg.SwapFee = 2000
		err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
			_, err := ms.MakePool(ctx, msg)
			return err
		})
		s.Require().ErrorIs(err, types.ErrInvalidFeeRate)
	})

	s.Run("unknown channel", func() {
		msg := s.makePoolMsg()
		msg.SourceChannel = "channel-9"
		err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
			_, err := ms.MakePool(ctx, msg)
			return err
		})
		s.Require().ErrorIs(err, types.ErrChannelNotFound)
	})

	s.Run("destination is this chain", func() {
		msg := s.makePoolMsg()
		msg.DestinationChainId = s.a.ChainID
		err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
			_, err := ms.MakePool(ctx, msg)
			return err
		})
		s.Require().ErrorIs(err, types.ErrInvalidChainID)
	})

	s.Run("insufficient funds", func() {
		msg := s.makePoolMsg()
		msg.Creator = s.recipient.String()
		err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
			_, err := ms.MakePool(ctx, msg)
			return err
		})
		s.Require().ErrorIs(err, types.ErrFundsMismatch)
	})

	s.Run("duplicate pool", func() {
		s.makePool()
		err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
			_, err := ms.MakePool(ctx, s.makePoolMsg())
			return err
		})
		s.Require().ErrorIs(err, types.ErrPoolAlreadyExists)
	})

	s.requireEscrow(s.a, atom, initialLiquidity)
}

func (s *SwapTestSuite) TestCancelPool() {
	poolID := s.proposePool()

	s.Require().NoError(s.cancelPool(poolID))
	s.Require().True(s.pool(s.a, poolID).PendingCancel)
	s.Require().ErrorIs(s.cancelPool(poolID), types.ErrPoolCancelPending)

	ack := s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())

	s.Require().False(s.a.Keeper.HasPool(s.a.Ctx, poolID))
	s.Require().False(s.b.Keeper.HasPool(s.b.Ctx, poolID))
	s.requireBalance(s.a, s.maker, atom, startingBalance)
	s.requireEscrow(s.a, atom, 0)
	s.requireNoInFlight(s.a)
	s.requireInvariants(s.a)
}

func (s *SwapTestSuite) TestCancelPoolRejects() {
	poolID := s.proposePool()

	err := s.exec(s.a, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.CancelPool(ctx, &types.MsgCancelPool{Creator: s.trader.String(), PoolId: poolID})
		return err
	})
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	err = s.exec(s.b, func(ctx sdk.Context, ms types.MsgServer) error {
		_, err := ms.CancelPool(ctx, &types.MsgCancelPool{Creator: s.maker.String(), PoolId: poolID})
		return err
	})
	s.Require().ErrorIs(err, types.ErrWrongChain)

	s.Require().NoError(s.takePool(poolID))
	s.Require().True(s.path.Relay(s.b).Success())
	s.Require().ErrorIs(s.cancelPool(poolID), types.ErrPoolNotInitialized)
}

// A take that reaches the proposing chain while its cancellation is in flight is
// rejected and the taker refunded; the cancellation then completes.
func (s *SwapTestSuite) TestCancelPoolRacesTake() {
	poolID := s.proposePool()

	s.Require().NoError(s.cancelPool(poolID))
	s.Require().NoError(s.takePool(poolID))
	s.requireBalance(s.b, s.taker, osmo, startingBalance-initialLiquidity)

	ack := s.path.Relay(s.b)
	s.Require().False(ack.Success())
	s.requireBalance(s.b, s.taker, osmo, startingBalance)
	s.requireEscrow(s.b, osmo, 0)

	ack = s.path.Relay(s.a)
	s.Require().True(ack.Success(), ack.GetError())
	s.Require().False(s.a.Keeper.HasPool(s.a.Ctx, poolID))
	s.Require().False(s.b.Keeper.HasPool(s.b.Ctx, poolID))
	s.requireBalance(s.a, s.maker, atom, startingBalance)

	s.requireNoInFlight(s.a)
	s.requireNoInFlight(s.b)
	s.requireInvariants(s.a)
	s.requireInvariants(s.b)
}
