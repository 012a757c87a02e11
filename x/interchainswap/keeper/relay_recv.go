package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// receiveHandler applies packets sent by the counterparty chain. It trusts the amounts in
// the state change but checks every record it touches against local state.
type receiveHandler struct {
	k Keeper
}

// channelPool returns a pool and checks that it is bound to the channel the packet used.
func (k Keeper) channelPool(ctx sdk.Context, poolID, channelID string) (types.InterchainLiquidityPool, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return types.InterchainLiquidityPool{}, err
	}
	if pool.CounterPartyChannel != channelID {
		return types.InterchainLiquidityPool{}, errorsmod.Wrapf(types.ErrInvalidPacket, "pool %s is bound to channel %s, not %s", pool.Id, pool.CounterPartyChannel, channelID)
	}
	return pool, nil
}

func (h receiveHandler) activePool(ctx sdk.Context, pc packetContext) (types.InterchainLiquidityPool, error) {
	pool, err := h.k.channelPool(ctx, pc.stateChange.PoolId, pc.packet.DestinationChannel)
	if err != nil {
		return types.InterchainLiquidityPool{}, err
	}
	if pool.Status != types.PoolStatusActive {
		return types.InterchainLiquidityPool{}, errorsmod.Wrapf(types.ErrPoolNotActive, "pool %s is %s", pool.Id, pool.Status)
	}
	return pool, nil
}

func (h receiveHandler) MakePool(ctx sdk.Context, pc packetContext, msg types.MsgMakePool) error {
	localChainID := ctx.ChainID()
	sourceChainID := pc.stateChange.SourceChainId
	if msg.DestinationChainId != localChainID {
		return errorsmod.Wrapf(types.ErrInvalidChainID, "pool is proposed to %s, this is %s", msg.DestinationChainId, localChainID)
	}
	if sourceChainID == "" || sourceChainID == localChainID {
		return errorsmod.Wrapf(types.ErrInvalidChainID, "invalid proposing chain %q", sourceChainID)
	}
	if len(msg.Liquidity) != 2 {
		return errorsmod.Wrapf(types.ErrInvalidDenomPair, "pool needs exactly two assets, got %d", len(msg.Liquidity))
	}
	if err := types.ValidateAssets(msg.Liquidity); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(msg.CounterPartyCreator); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidAddress, "counterparty creator: %s", err)
	}

	params, err := h.k.GetParams(ctx)
	if err != nil {
		return err
	}
	if msg.SwapFee > params.MaxFeeRate {
		return errorsmod.Wrapf(types.ErrInvalidFeeRate, "swap fee %d above maximum %d", msg.SwapFee, params.MaxFeeRate)
	}

	proposed := types.NewInterchainLiquidityPool(
		msg.Creator, msg.CounterPartyCreator,
		msg.Liquidity, msg.SwapFee,
		msg.SourcePort, msg.SourceChannel,
		sourceChainID, localChainID,
	)
	if proposed.Id != pc.stateChange.PoolId {
		return errorsmod.Wrapf(types.ErrInvalidPoolID, "derived %s, packet carries %s", proposed.Id, pc.stateChange.PoolId)
	}
	if h.k.HasPool(ctx, proposed.Id) {
		return errorsmod.Wrapf(types.ErrPoolAlreadyExists, "pool %s", proposed.Id)
	}

	pool := proposed.Mirror(pc.packet.DestinationPort, pc.packet.DestinationChannel)
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	h.k.SetPoolToken(ctx, pool.Id, pool.Supply.Denom)

	emitStageEvent(ctx, types.MessageTypeMakePool, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyStatus, pool.Status.String()),
	)
	return nil
}

func (h receiveHandler) TakePool(ctx sdk.Context, pc packetContext, msg types.MsgTakePool) error {
	pool, err := h.k.channelPool(ctx, pc.stateChange.PoolId, pc.packet.DestinationChannel)
	if err != nil {
		return err
	}
	if pool.Status != types.PoolStatusInitialized {
		return errorsmod.Wrapf(types.ErrPoolNotInitialized, "pool %s is %s", pool.Id, pool.Status)
	}
	if pool.PendingCancel {
		return errorsmod.Wrapf(types.ErrPoolCancelPending, "pool %s", pool.Id)
	}
	if pool.SourceChainId != ctx.ChainID() {
		return errorsmod.Wrapf(types.ErrWrongChain, "pool %s was proposed by %s", pool.Id, pool.SourceChainId)
	}
	if msg.Creator != pool.DestinationCreator {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the counterparty creator of pool %s", msg.Creator, pool.Id)
	}

	takerAsset, err := pool.FindAssetBySide(types.PoolSideDestination)
	if err != nil {
		return err
	}
	if !coinsEqual(pc.stateChange.InTokens, []sdk.Coin{takerAsset.Balance}) {
		return errorsmod.Wrapf(types.ErrFundsMismatch, "taker escrowed %v, pool declares %s", pc.stateChange.InTokens, takerAsset.Balance)
	}

	shares, err := types.NewInterchainMarketMaker(pool).InitialShares(ctx.ChainID())
	if err != nil {
		return err
	}
	if !coinsEqual(shares, pc.stateChange.PoolTokens) {
		return errorsmod.Wrapf(types.ErrInvalidPacket, "initial shares %v, packet carries %v", shares, pc.stateChange.PoolTokens)
	}

	if _, err := pool.AddSupply(pc.stateChange.TotalPoolTokens(pool.Supply.Denom)); err != nil {
		return err
	}
	pool.Status = types.PoolStatusActive
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := h.k.mintShares(ctx, pool.SourceCreator, shares[0]); err != nil {
		return err
	}

	h.k.metrics.PoolsActivated.Inc()
	h.k.metrics.SharesMinted.WithLabelValues(pool.Id).Add(toFloat(shares[0].Amount))
	emitStageEvent(ctx, types.MessageTypeTakePool, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, shares[0].String()),
		sdk.NewAttribute(types.AttributeKeyStatus, pool.Status.String()),
	)
	return nil
}

func (h receiveHandler) CancelPool(ctx sdk.Context, pc packetContext, msg types.MsgCancelPool) error {
	pool, err := h.k.channelPool(ctx, pc.stateChange.PoolId, pc.packet.DestinationChannel)
	if err != nil {
		return err
	}
	if pool.Status != types.PoolStatusInitialized {
		return errorsmod.Wrapf(types.ErrPoolNotInitialized, "pool %s is %s", pool.Id, pool.Status)
	}
	if msg.Creator != pool.SourceCreator {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the creator of pool %s", msg.Creator, pool.Id)
	}

	h.k.DeletePool(ctx, pool.Id)

	emitStageEvent(ctx, types.MessageTypeCancelPool, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Creator),
		sdk.NewAttribute(types.AttributeKeyStatus, types.PoolStatusCancelled.String()),
	)
	return nil
}

func (h receiveHandler) SingleAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgSingleAssetDeposit) error {
	pool, err := h.activePool(ctx, pc)
	if err != nil {
		return err
	}
	if len(pc.stateChange.InTokens) != 1 || len(pc.stateChange.PoolTokens) != 1 {
		return errorsmod.Wrap(types.ErrInvalidPacket, "single asset deposit carries one token and one share amount")
	}
	token, shares := pc.stateChange.InTokens[0], pc.stateChange.PoolTokens[0]
	if err := requireNative(pool, types.PoolSideDestination, token.Denom); err != nil {
		return err
	}

	if _, err := pool.AddAsset(token); err != nil {
		return err
	}
	if _, err := pool.AddSupply(shares); err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}

	emitStageEvent(ctx, types.MessageTypeSingleAssetDeposit, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyTokensIn, token.String()),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, shares.String()),
	)
	return nil
}

func (h receiveHandler) MakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgMakeMultiAssetDeposit) error {
	pool, err := h.activePool(ctx, pc)
	if err != nil {
		return err
	}
	if len(msg.Deposits) != 2 || len(pc.stateChange.InTokens) != 2 {
		return errorsmod.Wrap(types.ErrInvalidPacket, "multi asset deposit carries two legs")
	}
	if pc.stateChange.MultiDepositOrderId == "" {
		return errorsmod.Wrap(types.ErrInvalidOrderID, "packet carries no order id")
	}
	if _, err := sdk.AccAddressFromBech32(msg.Taker()); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidAddress, "taker: %s", err)
	}
	if err := requireNative(pool, types.PoolSideDestination, pc.stateChange.InTokens[0].Denom); err != nil {
		return err
	}
	if err := requireNative(pool, types.PoolSideSource, pc.stateChange.InTokens[1].Denom); err != nil {
		return err
	}
	if h.k.HasOrder(ctx, pool.Id, pc.stateChange.MultiDepositOrderId) {
		return errorsmod.Wrapf(types.ErrInvalidOrderID, "order %s already exists", pc.stateChange.MultiDepositOrderId)
	}

	order := types.MultiAssetDepositOrder{
		Id:               pc.stateChange.MultiDepositOrderId,
		PoolId:           pool.Id,
		ChainId:          pc.stateChange.SourceChainId,
		SourceMaker:      msg.Maker(),
		DestinationTaker: msg.Taker(),
		Deposits:         pc.stateChange.InTokens,
		Status:           types.OrderStatusPending,
		CreatedAt:        ctx.BlockHeight(),
	}
	if err := h.k.SetOrder(ctx, order); err != nil {
		return err
	}

	emitStageEvent(ctx, types.MessageTypeMakeMultiDeposit, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeySender, order.SourceMaker),
		sdk.NewAttribute(types.AttributeKeyStatus, order.Status.String()),
	)
	return nil
}

func (h receiveHandler) TakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgTakeMultiAssetDeposit) error {
	if msg.OrderId != pc.stateChange.MultiDepositOrderId {
		return errorsmod.Wrapf(types.ErrInvalidPacket, "order %s does not match state change order %s", msg.OrderId, pc.stateChange.MultiDepositOrderId)
	}
	order, err := h.k.GetOrder(ctx, pc.stateChange.PoolId, msg.OrderId)
	if err != nil {
		return err
	}
	if err := requirePending(order); err != nil {
		return err
	}
	if order.ChainId != ctx.ChainID() {
		return errorsmod.Wrapf(types.ErrWrongChain, "order %s was made on %s", order.Id, order.ChainId)
	}
	if msg.Sender != order.DestinationTaker {
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the taker of order %s", msg.Sender, order.Id)
	}

	pool, err := h.activePool(ctx, pc)
	if err != nil {
		return err
	}
	sc := pc.stateChange
	if len(sc.InTokens) != 2 || len(sc.PoolTokens) != 2 {
		return errorsmod.Wrap(types.ErrInvalidPacket, "multi asset deposit carries two legs and two share amounts")
	}
	makerLeg := sc.InTokens[0]
	if makerLeg.Denom != order.Deposits[0].Denom || makerLeg.Amount.GT(order.Deposits[0].Amount) {
		return errorsmod.Wrapf(types.ErrFundsMismatch, "maker leg %s exceeds escrowed %s", makerLeg, order.Deposits[0])
	}

	order.Status = types.OrderStatusComplete
	if err := h.k.SetOrder(ctx, order); err != nil {
		return err
	}

	for _, token := range sc.InTokens {
		if _, err := pool.AddAsset(token); err != nil {
			return err
		}
	}
	if _, err := pool.AddSupply(sc.TotalPoolTokens(pool.Supply.Denom)); err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}

	if err := h.k.mintShares(ctx, order.SourceMaker, sc.PoolTokens[0]); err != nil {
		return err
	}
	if unused := order.Deposits[0].Sub(makerLeg); unused.IsPositive() {
		if err := h.k.refund(ctx, order.SourceMaker, sdk.NewCoins(unused)); err != nil {
			return err
		}
	}

	h.k.metrics.SharesMinted.WithLabelValues(pool.Id).Add(toFloat(sc.PoolTokens[0].Amount))
	emitStageEvent(ctx, types.MessageTypeTakeMultiDeposit, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeyPoolTokens, sc.PoolTokens[0].String()),
		sdk.NewAttribute(types.AttributeKeyStatus, order.Status.String()),
	)
	return nil
}

func (h receiveHandler) CancelMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgCancelMultiAssetDeposit) error {
	order, err := h.k.GetOrder(ctx, pc.stateChange.PoolId, msg.OrderId)
	if err != nil {
		return err
	}

	makerChain := order.ChainId == ctx.ChainID()
	switch {
	case makerChain && msg.Sender == order.DestinationTaker:
	case !makerChain && msg.Sender == order.SourceMaker:
	default:
		return errorsmod.Wrapf(types.ErrUnauthorized, "%s cannot cancel order %s", msg.Sender, order.Id)
	}

	switch order.Status {
	case types.OrderStatusCancelled:
		// Both sides cancelled concurrently; the maker chain refunds on its own path.
		return nil
	case types.OrderStatusComplete:
		return errorsmod.Wrapf(types.ErrOrderAlreadyCompleted, "order %s", order.Id)
	}

	order.Status = types.OrderStatusCancelled
	if err := h.k.SetOrder(ctx, order); err != nil {
		return err
	}
	if makerChain {
		if err := h.k.refund(ctx, order.SourceMaker, sdk.NewCoins(order.Deposits[0])); err != nil {
			return err
		}
	}

	emitStageEvent(ctx, types.MessageTypeCancelMultiDeposit, types.StageReceive, order.PoolId,
		sdk.NewAttribute(types.AttributeKeyOrderID, order.Id),
		sdk.NewAttribute(types.AttributeKeySender, msg.Sender),
		sdk.NewAttribute(types.AttributeKeyStatus, order.Status.String()),
	)
	return nil
}

func (h receiveHandler) MultiAssetWithdraw(ctx sdk.Context, pc packetContext, msg types.MsgMultiAssetWithdraw) error {
	pool, err := h.activePool(ctx, pc)
	if err != nil {
		return err
	}
	native, err := applyWithdraw(&pool, pc.stateChange)
	if err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := h.k.release(ctx, msg.CounterPartyReceiver, sdk.NewCoins(native)); err != nil {
		return err
	}

	emitStageEvent(ctx, types.MessageTypeMultiWithdraw, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeyReceiver, msg.CounterPartyReceiver),
		sdk.NewAttribute(types.AttributeKeyTokensOut, native.String()),
	)
	return nil
}

func (h receiveHandler) Swap(ctx sdk.Context, pc packetContext, msg types.MsgSwap) error {
	pool, err := h.activePool(ctx, pc)
	if err != nil {
		return err
	}
	tokenIn, tokenOut, err := applySwap(&pool, pc.stateChange, types.PoolSideDestination)
	if err != nil {
		return err
	}
	if err := h.k.SetPool(ctx, pool); err != nil {
		return err
	}
	if err := h.k.release(ctx, msg.Recipient, sdk.NewCoins(tokenOut)); err != nil {
		return err
	}

	emitStageEvent(ctx, types.MessageTypeSwap, types.StageReceive, pool.Id,
		sdk.NewAttribute(types.AttributeKeyReceiver, msg.Recipient),
		sdk.NewAttribute(types.AttributeKeyTokensIn, tokenIn.String()),
		sdk.NewAttribute(types.AttributeKeyTokensOut, tokenOut.String()),
	)
	return nil
}

// applyWithdraw removes the withdrawn assets and shares from a pool record and returns
// the output that the chain holding the record pays out.
func applyWithdraw(pool *types.InterchainLiquidityPool, sc types.StateChange) (sdk.Coin, error) {
	if len(sc.OutTokens) != 2 || len(sc.PoolTokens) != 1 {
		return sdk.Coin{}, errorsmod.Wrap(types.ErrInvalidPacket, "withdraw carries two outputs and one share amount")
	}
	for _, token := range sc.OutTokens {
		if _, err := pool.SubtractAsset(token); err != nil {
			return sdk.Coin{}, err
		}
	}
	if _, err := pool.SubtractSupply(sc.PoolTokens[0]); err != nil {
		return sdk.Coin{}, err
	}

	local, err := pool.FindAssetBySide(types.PoolSideSource)
	if err != nil {
		return sdk.Coin{}, err
	}
	for _, token := range sc.OutTokens {
		if token.Denom == local.Balance.Denom {
			return token, nil
		}
	}
	return sdk.Coin{}, errorsmod.Wrapf(types.ErrDenomNotFound, "no output in %s", local.Balance.Denom)
}

// applySwap moves the swap amounts through a pool record. inSide is the side of the input
// asset as seen by the chain holding the record.
func applySwap(pool *types.InterchainLiquidityPool, sc types.StateChange, inSide types.PoolAssetSide) (sdk.Coin, sdk.Coin, error) {
	if len(sc.InTokens) != 1 || len(sc.OutTokens) != 1 {
		return sdk.Coin{}, sdk.Coin{}, errorsmod.Wrap(types.ErrInvalidPacket, "swap carries one input and one output")
	}
	tokenIn, tokenOut := sc.InTokens[0], sc.OutTokens[0]
	if err := requireNative(*pool, inSide, tokenIn.Denom); err != nil {
		return sdk.Coin{}, sdk.Coin{}, err
	}
	if err := requireNative(*pool, inSide.Opposite(), tokenOut.Denom); err != nil {
		return sdk.Coin{}, sdk.Coin{}, err
	}

	if _, err := pool.AddAsset(tokenIn); err != nil {
		return sdk.Coin{}, sdk.Coin{}, err
	}
	if _, err := pool.SubtractAsset(tokenOut); err != nil {
		return sdk.Coin{}, sdk.Coin{}, err
	}
	return tokenIn, tokenOut, nil
}

func coinsEqual(a, b []sdk.Coin) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Denom != b[i].Denom || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}
