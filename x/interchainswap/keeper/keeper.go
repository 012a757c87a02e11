package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// Keeper of the interchainswap store
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	ics4Wrapper   types.ICS4Wrapper
	channelKeeper types.ChannelKeeper
	portKeeper    types.PortKeeper
	scopedKeeper  types.ScopedKeeper
	authority     string
	metrics       *SwapMetrics
}

// NewKeeper creates a new interchainswap Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	ics4Wrapper types.ICS4Wrapper,
	channelKeeper types.ChannelKeeper,
	portKeeper types.PortKeeper,
	scopedKeeper types.ScopedKeeper,
	authority string,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		bankKeeper:    bankKeeper,
		ics4Wrapper:   ics4Wrapper,
		channelKeeper: channelKeeper,
		portKeeper:    portKeeper,
		scopedKeeper:  scopedKeeper,
		authority:     authority,
		metrics:       NewSwapMetrics(),
	}
}

// GetAuthority returns the address allowed to update params
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore of the module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// ModuleAddress returns the address of the account holding escrowed assets
func (k Keeper) ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// ClaimCapability claims a channel capability for later authentication.
func (k Keeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, cap, name)
}

// AuthenticateCapability checks a capability handed in by IBC core.
func (k Keeper) AuthenticateCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) bool {
	return k.scopedKeeper.AuthenticateCapability(ctx, cap, name)
}

// GetChannelCapability retrieves a previously claimed channel capability.
func (k Keeper) GetChannelCapability(ctx sdk.Context, portID, channelID string) (*capabilitytypes.Capability, bool) {
	return k.scopedKeeper.GetCapability(ctx, host.ChannelCapabilityPath(portID, channelID))
}

// IsBound reports whether the module already owns the port capability.
func (k Keeper) IsBound(ctx sdk.Context, portID string) bool {
	_, ok := k.scopedKeeper.GetCapability(ctx, host.PortPath(portID))
	return ok
}

// BindPort binds the module port and claims its capability.
func (k Keeper) BindPort(ctx sdk.Context, portID string) error {
	if k.IsBound(ctx, portID) {
		return nil
	}
	if k.portKeeper.IsBound(ctx, portID) {
		return fmt.Errorf("port %s is bound by another module", portID)
	}

	portCap := k.portKeeper.BindPort(ctx, portID)
	return k.ClaimCapability(ctx, portCap, host.PortPath(portID))
}

// GetPort returns the port the module is bound to
func (k Keeper) GetPort(ctx sdk.Context) string {
	bz := k.getStore(ctx).Get(PortKey)
	if bz == nil {
		return types.PortID
	}
	return string(bz)
}

// SetPort records the port the module is bound to
func (k Keeper) SetPort(ctx sdk.Context, portID string) {
	k.getStore(ctx).Set(PortKey, []byte(portID))
}
