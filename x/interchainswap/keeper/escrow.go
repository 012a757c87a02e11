package keeper

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// escrow moves exactly coins from sender into the module account. Insufficient funds
// abort the request before any state is written.
func (k Keeper) escrow(ctx sdk.Context, sender string, coins sdk.Coins) error {
	addr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidAddress, "sender %s: %s", sender, err)
	}
	if coins.IsZero() {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, addr, types.ModuleName, coins); err != nil {
		return errorsmod.Wrapf(types.ErrFundsMismatch, "escrow %s from %s: %s", coins, sender, err)
	}
	return nil
}

// release pays coins out of the module account
func (k Keeper) release(ctx sdk.Context, recipient string, coins sdk.Coins) error {
	addr, err := sdk.AccAddressFromBech32(recipient)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidAddress, "recipient %s: %s", recipient, err)
	}
	if coins.IsZero() {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, coins); err != nil {
		return fmt.Errorf("release %s to %s: %w", coins, recipient, err)
	}
	return nil
}

// mintShares mints LP shares straight to recipient
func (k Keeper) mintShares(ctx sdk.Context, recipient string, shares sdk.Coin) error {
	if !shares.IsPositive() {
		return nil
	}
	coins := sdk.NewCoins(shares)
	if err := k.bankKeeper.MintCoins(ctx, types.ModuleName, coins); err != nil {
		return fmt.Errorf("mint %s: %w", shares, err)
	}
	return k.release(ctx, recipient, coins)
}

// burnShares burns LP shares held in escrow
func (k Keeper) burnShares(ctx sdk.Context, shares sdk.Coin) error {
	if !shares.IsPositive() {
		return nil
	}
	if err := k.bankKeeper.BurnCoins(ctx, types.ModuleName, sdk.NewCoins(shares)); err != nil {
		return fmt.Errorf("burn %s: %w", shares, err)
	}
	return nil
}

// refund returns escrowed coins. The amounts were escrowed by this module, so a failure
// here means the escrow invariant is already broken.
func (k Keeper) refund(ctx sdk.Context, recipient string, coins sdk.Coins) error {
	if err := k.release(ctx, recipient, coins); err != nil {
		k.Logger(ctx).Error("refund failed", "recipient", recipient, "amount", coins.String(), "error", err)
		return errorsmod.Wrap(types.ErrRefundFailed, err.Error())
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRefund,
			sdk.NewAttribute(types.AttributeKeyReceiver, recipient),
			sdk.NewAttribute(types.AttributeKeyRefund, coins.String()),
		),
	)
	return nil
}
