package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	keepertest "github.com/ics101/interchainswap/testutil/keeper"
	"github.com/ics101/interchainswap/x/interchainswap/types"
)

func TestGenesisDefault(t *testing.T) {
	k, ctx := keepertest.InterchainSwapKeeper(t)

	got, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.NoError(t, got.Validate())
	require.Equal(t, types.DefaultParams(), got.Params)
	require.Equal(t, types.PortID, got.PortId)
	require.Empty(t, got.Pools)
	require.Empty(t, got.Orders)
	require.Empty(t, got.InFlight)
	require.True(t, k.IsBound(ctx, types.PortID))
}

func TestInitGenesisRejectsPendingConflict(t *testing.T) {
	k, ctx := keepertest.InterchainSwapKeeper(t)

	genState := types.DefaultGenesis()
	genState.Orders = []types.MultiAssetDepositOrder{
		newOrder("maker", "taker", 1, types.OrderStatusPending),
		newOrder("maker", "taker", 2, types.OrderStatusPending),
	}
	require.Error(t, k.InitGenesis(ctx, *genState))
}

// Exporting mid-flight and importing into a fresh chain preserves pools, orders, the order
// counter and the in-flight records a later acknowledgement needs.
func (s *SwapTestSuite) TestGenesisRoundTrip() {
	poolID := s.activePool()
	orderID := s.proposeDeposit(poolID)
	_, err := s.swap(s.swapMsg(poolID, types.SwapLeft, 10_000, 9_900, 100))
	s.Require().NoError(err)

	exported, err := s.a.Keeper.ExportGenesis(s.a.Ctx)
	s.Require().NoError(err)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.Pools, 1)
	s.Require().Len(exported.Orders, 1)
	s.Require().Len(exported.InFlight, 1)
	s.Require().Equal(types.MessageTypeSwap, exported.InFlight[0].Type)

	fresh := keepertest.NewChain(s.T(), s.a.ChainID)
	s.Require().NoError(fresh.Keeper.InitGenesis(fresh.Ctx, *exported))

	reexported, err := fresh.Keeper.ExportGenesis(fresh.Ctx)
	s.Require().NoError(err)
	s.Require().Equal(exported.Params, reexported.Params)
	s.Require().Equal(exported.Config, reexported.Config)
	s.Require().Equal(exported.PortId, reexported.PortId)
	s.Require().Equal(exported.Pools[0].Id, reexported.Pools[0].Id)
	s.Require().True(exported.Pools[0].Supply.Amount.Equal(reexported.Pools[0].Supply.Amount))
	s.Require().Equal(orderID, reexported.Orders[0].Id)
	s.Require().Equal(exported.InFlight[0].Sequence, reexported.InFlight[0].Sequence)
	s.Require().True(exported.InFlight[0].Escrowed.Equal(reexported.InFlight[0].Escrowed))

	s.Require().True(fresh.Keeper.HasActiveOrder(fresh.Ctx, s.maker.String(), poolID, s.taker.String()))
	denom, found := fresh.Keeper.GetPoolToken(fresh.Ctx, poolID)
	s.Require().True(found)
	s.Require().Equal(poolID, denom)
}
