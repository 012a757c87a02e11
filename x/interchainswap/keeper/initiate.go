package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// Initiating side of every operation. Each method validates the request against local
// state, escrows exactly what the request declares, stages whatever local change the
// operation makes before the counterparty answers, and sends the packet.

func (k Keeper) requireEnabled(ctx sdk.Context) (types.Params, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Params{}, err
	}
	if !params.Enabled {
		return types.Params{}, types.ErrModuleDisabled
	}
	return params, nil
}

// activePool returns a pool that can take deposits, withdrawals and swaps.
func (k Keeper) activePool(ctx sdk.Context, poolID string) (types.InterchainLiquidityPool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.InterchainLiquidityPool{}, err
	}
	if pool.Status != types.PoolStatusActive {
		return types.InterchainLiquidityPool{}, errorsmod.Wrapf(types.ErrPoolNotActive, "pool %s is %s", pool.Id, pool.Status)
	}
	return pool, nil
}

// requireNative checks that token is the asset this chain holds for the pool.
func requireNative(pool types.InterchainLiquidityPool, side types.PoolAssetSide, denom string) error {
	asset, err := pool.FindAssetBySide(side)
	if err != nil {
		return err
	}
	if asset.Balance.Denom != denom {
		return errorsmod.Wrapf(types.ErrInvalidDenomPair, "%s is not the %s asset %s of pool %s", denom, side, asset.Balance.Denom, pool.Id)
	}
	return nil
}

// MakePool escrows the creator's asset, stores the pool as initialized and proposes it to
// the counterparty chain.
func (k Keeper) MakePool(ctx sdk.Context, msg types.MsgMakePool) (string, uint64, error) {
	params, err := k.requireEnabled(ctx)
	if err != nil {
		return "", 0, err
	}
	if msg.SwapFee > params.MaxFeeRate {
		return "", 0, errorsmod.Wrapf(types.ErrInvalidFeeRate, "swap fee %d above maximum %d", msg.SwapFee, params.MaxFeeRate)
	}

	localChainID := ctx.ChainID()
	if msg.DestinationChainId == localChainID {
		return "", 0, errorsmod.Wrapf(types.ErrInvalidChainID, "destination chain %s is this chain", msg.DestinationChainId)
	}
	if _, found := k.channelKeeper.GetChannel(ctx, msg.SourcePort, msg.SourceChannel); !found {
		return "", 0, errorsmod.Wrapf(types.ErrChannelNotFound, "port: %s, channel: %s", msg.SourcePort, msg.SourceChannel)
	}

	pool := types.NewInterchainLiquidityPool(
		msg.Creator, msg.CounterPartyCreator,
		msg.Liquidity, msg.SwapFee,
		msg.SourcePort, msg.SourceChannel,
		localChainID, msg.DestinationChainId,
	)
	if k.HasPool(ctx, pool.Id) {
		return "", 0, errorsmod.Wrapf(types.ErrPoolAlreadyExists, "pool %s", pool.Id)
	}

	sourceAsset, err := pool.FindAssetBySide(types.PoolSideSource)
	if err != nil {
		return "", 0, err
	}
	escrowed := sdk.NewCoins(sourceAsset.Balance)
	if err := k.escrow(ctx, msg.Creator, escrowed); err != nil {
		return "", 0, err
	}

	if err := k.SetPool(ctx, pool); err != nil {
		return "", 0, err
	}
	k.SetPoolToken(ctx, pool.Id, pool.Supply.Denom)

	data, err := types.NewIBCSwapPacketData(types.MessageTypeMakePool, msg, &types.StateChange{
		PoolId:        pool.Id,
		SourceChainId: localChainID,
	})
	if err != nil {
		return "", 0, err
	}
	sequence, err := k.sendPacket(ctx, msg.SourcePort, msg.SourceChannel, msg.PacketTimeout, data, msg.Creator, escrowed)
	if err != nil {
		return "", 0, err
	}

	emitStageEvent(ctx, types.MessageTypeMakePool, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyTokensIn, escrowed.String()),
	)
	return pool.Id, sequence, nil
}

// TakePool escrows the counterparty creator's asset and asks the proposing chain to
// activate the pool.
func (k Keeper) TakePool(ctx sdk.Context, msg types.MsgTakePool) (uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return 0, err
	}

	pool, err := k.GetPool(ctx, msg.PoolId)
	if err != nil {
		return 0, err
	}
	if pool.Status != types.PoolStatusInitialized {
		return 0, errorsmod.Wrapf(types.ErrPoolNotInitialized, "pool %s is %s", pool.Id, pool.Status)
	}
	if pool.DestinationChainId != ctx.ChainID() {
		return 0, errorsmod.Wrapf(types.ErrWrongChain, "pool %s is taken on %s", pool.Id, pool.DestinationChainId)
	}
	if msg.Creator != pool.DestinationCreator {
		return 0, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the counterparty creator of pool %s", msg.Creator, pool.Id)
	}

	sourceAsset, err := pool.FindAssetBySide(types.PoolSideSource)
	if err != nil {
		return 0, err
	}
	shares, err := types.NewInterchainMarketMaker(pool).InitialShares(ctx.ChainID())
	if err != nil {
		return 0, err
	}

	escrowed := sdk.NewCoins(sourceAsset.Balance)
	if err := k.escrow(ctx, msg.Creator, escrowed); err != nil {
		return 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeTakePool, msg, &types.StateChange{
		InTokens:      []sdk.Coin{sourceAsset.Balance},
		PoolTokens:    shares,
		PoolId:        pool.Id,
		SourceChainId: ctx.ChainID(),
	})
	if err != nil {
		return 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Creator, escrowed)
	if err != nil {
		return 0, err
	}

	emitStageEvent(ctx, types.MessageTypeTakePool, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyTokensIn, escrowed.String()),
	)
	return sequence, nil
}

// CancelPool withdraws a proposal the counterparty has not taken. The creator's escrow is
// released once the counterparty confirms it dropped its copy.
func (k Keeper) CancelPool(ctx sdk.Context, msg types.MsgCancelPool) (uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return 0, err
	}

	pool, err := k.GetPool(ctx, msg.PoolId)
	if err != nil {
		return 0, err
	}
	if pool.SourceChainId != ctx.ChainID() {
		return 0, errorsmod.Wrapf(types.ErrWrongChain, "pool %s can only be cancelled on %s", pool.Id, pool.SourceChainId)
	}
	if msg.Creator != pool.SourceCreator {
		return 0, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the creator of pool %s", msg.Creator, pool.Id)
	}
	if pool.Status != types.PoolStatusInitialized {
		return 0, errorsmod.Wrapf(types.ErrPoolNotInitialized, "pool %s is %s", pool.Id, pool.Status)
	}
	if pool.PendingCancel {
		return 0, errorsmod.Wrapf(types.ErrPoolCancelPending, "pool %s", pool.Id)
	}

	pool.PendingCancel = true
	if err := k.SetPool(ctx, pool); err != nil {
		return 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeCancelPool, msg, &types.StateChange{
		PoolId:        pool.Id,
		SourceChainId: ctx.ChainID(),
	})
	if err != nil {
		return 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Creator, nil)
	if err != nil {
		return 0, err
	}

	emitStageEvent(ctx, types.MessageTypeCancelPool, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
	)
	return sequence, nil
}

// SingleAssetDeposit escrows one local asset and quotes the shares it mints. The pool and
// the shares are only updated once the counterparty has applied the deposit.
func (k Keeper) SingleAssetDeposit(ctx sdk.Context, msg types.MsgSingleAssetDeposit) (sdk.Coin, uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return sdk.Coin{}, 0, err
	}

	pool, err := k.activePool(ctx, msg.PoolId)
	if err != nil {
		return sdk.Coin{}, 0, err
	}
	if err := requireNative(pool, types.PoolSideSource, msg.Token.Denom); err != nil {
		return sdk.Coin{}, 0, err
	}

	shares, err := types.NewInterchainMarketMaker(pool).DepositSingleAsset(msg.Token)
	if err != nil {
		return sdk.Coin{}, 0, err
	}
	if !shares.IsPositive() {
		return sdk.Coin{}, 0, errorsmod.Wrapf(types.ErrInvalidAmount, "deposit %s mints no shares", msg.Token)
	}

	escrowed := sdk.NewCoins(msg.Token)
	if err := k.escrow(ctx, msg.Sender, escrowed); err != nil {
		return sdk.Coin{}, 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeSingleAssetDeposit, msg, &types.StateChange{
		InTokens:      []sdk.Coin{msg.Token},
		PoolTokens:    []sdk.Coin{shares},
		PoolId:        pool.Id,
		SourceChainId: ctx.ChainID(),
	})
	if err != nil {
		return sdk.Coin{}, 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Sender, escrowed)
	if err != nil {
		return sdk.Coin{}, 0, err
	}

	emitStageEvent(ctx, types.MessageTypeSingleAssetDeposit, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyTokensIn, msg.Token.String()),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, shares.String()),
	)
	return shares, sequence, nil
}

// MakeMultiAssetDeposit opens a two-sided deposit order. Only the ratio-matched part of
// each leg is accepted; the maker's accepted leg is escrowed here and the taker pays the
// other leg on the counterparty chain.
func (k Keeper) MakeMultiAssetDeposit(ctx sdk.Context, msg types.MsgMakeMultiAssetDeposit) (types.MultiAssetDepositOrder, []sdk.Coin, uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}

	pool, err := k.activePool(ctx, msg.PoolId)
	if err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}
	if err := requireNative(pool, types.PoolSideSource, msg.Deposits[0].Balance.Denom); err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}
	if err := requireNative(pool, types.PoolSideDestination, msg.Deposits[1].Balance.Denom); err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}

	maker, taker := msg.Maker(), msg.Taker()
	if k.HasActiveOrder(ctx, maker, pool.Id, taker) {
		return types.MultiAssetDepositOrder{}, nil, 0, errorsmod.Wrapf(types.ErrPreviousOrderNotCompleted, "%s/%s/%s", maker, pool.Id, taker)
	}

	_, accepted, remainder, err := types.NewInterchainMarketMaker(pool).DepositMultiAsset([]sdk.Coin{
		msg.Deposits[0].Balance,
		msg.Deposits[1].Balance,
	})
	if err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}
	for _, token := range accepted {
		if !token.IsPositive() {
			return types.MultiAssetDepositOrder{}, nil, 0, errorsmod.Wrapf(types.ErrInvalidAmount, "deposit leg %s rounds to zero", token.Denom)
		}
	}

	orderID, err := k.NextOrderID(ctx, maker)
	if err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}
	order := types.MultiAssetDepositOrder{
		Id:               orderID,
		PoolId:           pool.Id,
		ChainId:          ctx.ChainID(),
		SourceMaker:      maker,
		DestinationTaker: taker,
		Deposits:         accepted,
		Status:           types.OrderStatusPending,
		CreatedAt:        ctx.BlockHeight(),
	}

	escrowed := sdk.NewCoins(accepted[0])
	if err := k.escrow(ctx, maker, escrowed); err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}
	if err := k.SetOrder(ctx, order); err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeMakeMultiDeposit, msg, &types.StateChange{
		InTokens:            accepted,
		PoolId:              pool.Id,
		MultiDepositOrderId: order.Id,
		SourceChainId:       ctx.ChainID(),
	})
	if err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, maker, escrowed)
	if err != nil {
		return types.MultiAssetDepositOrder{}, nil, 0, err
	}

	emitStageEvent(ctx, types.MessageTypeMakeMultiDeposit, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeySender, maker),
		sdk.NewAttribute(types.AttributeKeyTokensIn, sdk.NewCoins(accepted...).String()),
	)
	return order, remainder, sequence, nil
}

// TakeMultiAssetDeposit pays the taker leg of a pending order. The order is marked complete
// here straight away so it cannot be taken twice; the shares are minted once the maker
// chain confirms.
func (k Keeper) TakeMultiAssetDeposit(ctx sdk.Context, msg types.MsgTakeMultiAssetDeposit) ([]sdk.Coin, uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return nil, 0, err
	}

	order, err := k.GetOrder(ctx, msg.PoolId, msg.OrderId)
	if err != nil {
		return nil, 0, err
	}
	if err := requirePending(order); err != nil {
		return nil, 0, err
	}
	if order.ChainId == ctx.ChainID() {
		return nil, 0, errorsmod.Wrapf(types.ErrWrongChain, "order %s must be taken on the counterparty chain", order.Id)
	}
	if msg.Sender != order.DestinationTaker {
		return nil, 0, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the taker of order %s", msg.Sender, order.Id)
	}

	pool, err := k.activePool(ctx, order.PoolId)
	if err != nil {
		return nil, 0, err
	}
	if err := requireNative(pool, types.PoolSideSource, order.Deposits[1].Denom); err != nil {
		return nil, 0, err
	}

	minted, accepted, _, err := types.NewInterchainMarketMaker(pool).DepositMultiAsset(order.Deposits)
	if err != nil {
		return nil, 0, err
	}
	shares, err := splitShares(pool, minted, order.Deposits[0].Denom)
	if err != nil {
		return nil, 0, err
	}

	escrowed := sdk.NewCoins(accepted[1])
	if err := k.escrow(ctx, msg.Sender, escrowed); err != nil {
		return nil, 0, err
	}

	order.Status = types.OrderStatusComplete
	if err := k.SetOrder(ctx, order); err != nil {
		return nil, 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeTakeMultiDeposit, msg, &types.StateChange{
		InTokens:            accepted,
		PoolTokens:          shares,
		PoolId:              pool.Id,
		MultiDepositOrderId: order.Id,
		SourceChainId:       ctx.ChainID(),
	})
	if err != nil {
		return nil, 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Sender, escrowed)
	if err != nil {
		return nil, 0, err
	}

	emitStageEvent(ctx, types.MessageTypeTakeMultiDeposit, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyTokensIn, escrowed.String()),
	)
	return shares, sequence, nil
}

// CancelMultiAssetDeposit withdraws a pending order. The maker cancels on the chain that
// holds its escrow; the taker declines from the other chain.
func (k Keeper) CancelMultiAssetDeposit(ctx sdk.Context, msg types.MsgCancelMultiAssetDeposit) (uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return 0, err
	}

	order, err := k.GetOrder(ctx, msg.PoolId, msg.OrderId)
	if err != nil {
		return 0, err
	}
	if err := requirePending(order); err != nil {
		return 0, err
	}

	makerChain := order.ChainId == ctx.ChainID()
	switch {
	case makerChain && msg.Sender == order.SourceMaker:
	case !makerChain && msg.Sender == order.DestinationTaker:
	default:
		return 0, errorsmod.Wrapf(types.ErrUnauthorized, "%s cannot cancel order %s on this chain", msg.Sender, order.Id)
	}

	pool, err := k.GetPool(ctx, order.PoolId)
	if err != nil {
		return 0, err
	}

	order.Status = types.OrderStatusCancelled
	if err := k.SetOrder(ctx, order); err != nil {
		return 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeCancelMultiDeposit, msg, &types.StateChange{
		PoolId:              pool.Id,
		MultiDepositOrderId: order.Id,
		SourceChainId:       ctx.ChainID(),
	})
	if err != nil {
		return 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Sender, nil)
	if err != nil {
		return 0, err
	}

	emitStageEvent(ctx, types.MessageTypeCancelMultiDeposit, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
	)
	return sequence, nil
}

// MultiAssetWithdraw escrows LP shares and quotes what each chain pays out for them.
func (k Keeper) MultiAssetWithdraw(ctx sdk.Context, msg types.MsgMultiAssetWithdraw) ([]sdk.Coin, uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return nil, 0, err
	}

	pool, err := k.activePool(ctx, msg.PoolId)
	if err != nil {
		return nil, 0, err
	}
	outs, err := types.NewInterchainMarketMaker(pool).MultiAssetWithdraw(msg.PoolToken)
	if err != nil {
		return nil, 0, err
	}

	escrowed := sdk.NewCoins(msg.PoolToken)
	if err := k.escrow(ctx, msg.Receiver, escrowed); err != nil {
		return nil, 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeMultiWithdraw, msg, &types.StateChange{
		OutTokens:     outs,
		PoolTokens:    []sdk.Coin{msg.PoolToken},
		PoolId:        pool.Id,
		SourceChainId: ctx.ChainID(),
	})
	if err != nil {
		return nil, 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Receiver, escrowed)
	if err != nil {
		return nil, 0, err
	}

	emitStageEvent(ctx, types.MessageTypeMultiWithdraw, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Receiver),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, msg.PoolToken.String()),
		sdk.NewAttribute(types.AttributeKeyTokensOut, sdk.NewCoins(outs...).String()),
	)
	return outs, sequence, nil
}

// Swap prices a trade of the local asset for the counterparty asset and escrows the input.
// Left swaps sell exactly TokenIn and fail below the slippage floor on TokenOut. Right
// swaps buy exactly TokenOut and fail when the required input exceeds TokenIn.
func (k Keeper) Swap(ctx sdk.Context, msg types.MsgSwap) (sdk.Coin, sdk.Coin, uint64, error) {
	if _, err := k.requireEnabled(ctx); err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}

	pool, err := k.activePool(ctx, msg.PoolId)
	if err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}
	if err := requireNative(pool, types.PoolSideSource, msg.TokenIn.Denom); err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}
	if err := requireNative(pool, types.PoolSideDestination, msg.TokenOut.Denom); err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}

	tokenIn, tokenOut, err := quoteSwap(types.NewInterchainMarketMaker(pool), msg)
	if err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}

	escrowed := sdk.NewCoins(tokenIn)
	if err := k.escrow(ctx, msg.Sender, escrowed); err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}

	data, err := types.NewIBCSwapPacketData(types.MessageTypeSwap, msg, &types.StateChange{
		InTokens:      []sdk.Coin{tokenIn},
		OutTokens:     []sdk.Coin{tokenOut},
		PoolId:        pool.Id,
		SourceChainId: ctx.ChainID(),
	})
	if err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}
	sequence, err := k.sendPacket(ctx, pool.CounterPartyPort, pool.CounterPartyChannel, msg.PacketTimeout, data, msg.Sender, escrowed)
	if err != nil {
		return sdk.Coin{}, sdk.Coin{}, 0, err
	}

	emitStageEvent(ctx, types.MessageTypeSwap, types.StageInitiate, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyReceiver, msg.Recipient),
		sdk.NewAttribute(types.AttributeKeyTokensIn, tokenIn.String()),
		sdk.NewAttribute(types.AttributeKeyTokensOut, tokenOut.String()),
	)
	return tokenIn, tokenOut, sequence, nil
}

// quoteSwap returns the input actually charged and the output actually paid for msg.
func quoteSwap(mm types.InterchainMarketMaker, msg types.MsgSwap) (sdk.Coin, sdk.Coin, error) {
	switch msg.SwapType {
	case types.SwapLeft:
		out, err := mm.ComputeSwap(msg.TokenIn, msg.TokenOut.Denom)
		if err != nil {
			return sdk.Coin{}, sdk.Coin{}, err
		}
		minOut := MinimumOutput(msg.TokenOut.Amount, msg.Slippage)
		if out.Amount.LT(minOut) || !out.IsPositive() {
			return sdk.Coin{}, sdk.Coin{}, errorsmod.Wrapf(types.ErrSlippageExceeded, "output %s below minimum %s%s", out, minOut, msg.TokenOut.Denom)
		}
		return msg.TokenIn, out, nil

	case types.SwapRight:
		offer, err := mm.ComputeOfferAmount(msg.TokenIn.Denom, msg.TokenOut)
		if err != nil {
			return sdk.Coin{}, sdk.Coin{}, err
		}
		if offer.Amount.GT(msg.TokenIn.Amount) {
			return sdk.Coin{}, sdk.Coin{}, errorsmod.Wrapf(types.ErrSlippageExceeded, "required input %s above offered %s", offer, msg.TokenIn)
		}
		return offer, msg.TokenOut, nil

	default:
		return sdk.Coin{}, sdk.Coin{}, errorsmod.Wrapf(types.ErrInvalidSwapType, "%s", msg.SwapType)
	}
}

// MinimumOutput applies a slippage tolerance in basis points to an expected output.
func MinimumOutput(expected sdkmath.Int, slippage uint64) sdkmath.Int {
	if slippage >= types.FeePrecision {
		return sdkmath.ZeroInt()
	}
	return expected.MulRaw(int64(types.FeePrecision - slippage)).QuoRaw(types.FeePrecision)
}

// splitShares divides minted between the maker and the taker of a multi-asset deposit by
// the weight of the maker's asset: [maker, taker].
func splitShares(pool types.InterchainLiquidityPool, minted sdkmath.Int, makerDenom string) ([]sdk.Coin, error) {
	makerAsset, err := pool.FindAssetByDenom(makerDenom)
	if err != nil {
		return nil, err
	}
	makerShares := minted.MulRaw(int64(makerAsset.Weight)).QuoRaw(100)
	return []sdk.Coin{
		sdk.NewCoin(pool.Supply.Denom, makerShares),
		sdk.NewCoin(pool.Supply.Denom, minted.Sub(makerShares)),
	}, nil
}

func requirePending(order types.MultiAssetDepositOrder) error {
	switch order.Status {
	case types.OrderStatusPending:
		return nil
	case types.OrderStatusComplete:
		return errorsmod.Wrapf(types.ErrOrderAlreadyCompleted, "order %s", order.Id)
	case types.OrderStatusCancelled:
		return errorsmod.Wrapf(types.ErrOrderCancelled, "order %s", order.Id)
	default:
		return fmt.Errorf("order %s has unknown status %d", order.Id, order.Status)
	}
}
