package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	capabilitykeeper "github.com/cosmos/ibc-go/modules/capability/keeper"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	portkeeper "github.com/cosmos/ibc-go/v8/modules/core/05-port/keeper"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"
	"github.com/stretchr/testify/require"

	"github.com/ics101/interchainswap/x/interchainswap"
	"github.com/ics101/interchainswap/x/interchainswap/keeper"
	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// GenesisTime is the block time every test chain starts at.
var GenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Chain is one in-memory chain running the interchainswap module against real auth,
// bank and capability keepers.
type Chain struct {
	t testing.TB

	ChainID   string
	Ctx       sdk.Context
	Keeper    *keeper.Keeper
	Module    interchainswap.IBCModule
	Bank      bankkeeper.BaseKeeper
	ICS4      *MockICS4Wrapper
	Channels  *MockChannelKeeper
	ScopedIBC capabilitykeeper.ScopedKeeper
}

// InterchainSwapKeeper creates a single test chain with default genesis applied.
func InterchainSwapKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	chain := NewChain(t, "chain-a")
	return chain.Keeper, chain.Ctx
}

// NewChain wires a test chain with the given chain id.
func NewChain(t testing.TB, chainID string) *Chain {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)
	capStoreKey := storetypes.NewKVStoreKey(capabilitytypes.StoreKey)
	capMemStoreKey := storetypes.NewMemoryStoreKey(capabilitytypes.MemStoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(capStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(capMemStoreKey, storetypes.StoreTypeMemory, nil)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		minttypes.ModuleName: {authtypes.Minter},
		types.ModuleName:     {authtypes.Minter, authtypes.Burner},
	}
	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)
	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	capKeeper := capabilitykeeper.NewKeeper(cdc, capStoreKey, capMemStoreKey)
	scopedSwapKeeper := capKeeper.ScopeToModule(types.ModuleName)
	scopedPortKeeper := capKeeper.ScopeToModule(porttypes.SubModuleName)
	scopedIBCKeeper := capKeeper.ScopeToModule(ibcexported.ModuleName)
	capKeeper.Seal()
	portKeeper := portkeeper.NewKeeper(scopedPortKeeper)

	channels := NewMockChannelKeeper()
	ics4 := NewMockICS4Wrapper(scopedIBCKeeper, channels)

	k := keeper.NewKeeper(
		storeKey,
		bankKeeper,
		ics4,
		channels,
		&portKeeper,
		scopedSwapKeeper,
		authority.String(),
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{ChainID: chainID, Height: 1, Time: GenesisTime}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return &Chain{
		t:         t,
		ChainID:   chainID,
		Ctx:       ctx,
		Keeper:    k,
		Module:    interchainswap.NewIBCModule(k),
		Bank:      bankKeeper,
		ICS4:      ics4,
		Channels:  channels,
		ScopedIBC: scopedIBCKeeper,
	}
}

// Fund mints coins straight into an account.
func (c *Chain) Fund(addr sdk.AccAddress, coins ...sdk.Coin) {
	require.NoError(c.t, banktestutil.FundAccount(c.Ctx, c.Bank, addr, sdk.NewCoins(coins...)))
}

// Balance returns the balance of addr in denom.
func (c *Chain) Balance(addr sdk.AccAddress, denom string) sdk.Coin {
	return c.Bank.GetBalance(c.Ctx, addr, denom)
}

// Escrowed returns what the module account holds in denom.
func (c *Chain) Escrowed(denom string) sdk.Coin {
	return c.Bank.GetBalance(c.Ctx, c.Keeper.ModuleAddress(), denom)
}

// Exec runs fn as one transaction: its writes are kept only when it succeeds.
func (c *Chain) Exec(fn func(ctx sdk.Context) error) error {
	cacheCtx, write := c.Ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

// AdvanceTime moves the block clock forward.
func (c *Chain) AdvanceTime(d time.Duration) {
	c.Ctx = c.Ctx.WithBlockTime(c.Ctx.BlockTime().Add(d)).WithBlockHeight(c.Ctx.BlockHeight() + 1)
}

// Path is an ORDERED channel between two test chains, opened through the module's own
// handshake callbacks.
type Path struct {
	A, B     *Chain
	ChannelA string
	ChannelB string
	relayer  sdk.AccAddress
}

// NewPath creates chain-a and chain-b and opens a channel between them.
func NewPath(t testing.TB) *Path {
	path := &Path{
		A:        NewChain(t, "chain-a"),
		B:        NewChain(t, "chain-b"),
		ChannelA: "channel-0",
		ChannelB: "channel-1",
		relayer:  sdk.AccAddress([]byte("relayer_____________")),
	}
	path.open(t)
	return path
}

func (p *Path) open(t testing.TB) {
	capA, err := p.A.ScopedIBC.NewCapability(p.A.Ctx, host.ChannelCapabilityPath(types.PortID, p.ChannelA))
	require.NoError(t, err)
	capB, err := p.B.ScopedIBC.NewCapability(p.B.Ctx, host.ChannelCapabilityPath(types.PortID, p.ChannelB))
	require.NoError(t, err)

	counterpartyB := channeltypes.NewCounterparty(types.PortID, p.ChannelB)
	counterpartyA := channeltypes.NewCounterparty(types.PortID, p.ChannelA)

	version, err := p.A.Module.OnChanOpenInit(p.A.Ctx, channeltypes.ORDERED, []string{"connection-0"}, types.PortID, p.ChannelA, capA, counterpartyB, types.Version)
	require.NoError(t, err)
	version, err = p.B.Module.OnChanOpenTry(p.B.Ctx, channeltypes.ORDERED, []string{"connection-0"}, types.PortID, p.ChannelB, capB, counterpartyA, version)
	require.NoError(t, err)
	require.NoError(t, p.A.Module.OnChanOpenAck(p.A.Ctx, types.PortID, p.ChannelA, p.ChannelB, version))
	require.NoError(t, p.B.Module.OnChanOpenConfirm(p.B.Ctx, types.PortID, p.ChannelB))

	p.A.Channels.SetChannel(types.PortID, p.ChannelA, channeltypes.NewChannel(channeltypes.OPEN, channeltypes.ORDERED, counterpartyB, []string{"connection-0"}, version))
	p.B.Channels.SetChannel(types.PortID, p.ChannelB, channeltypes.NewChannel(channeltypes.OPEN, channeltypes.ORDERED, counterpartyA, []string{"connection-0"}, version))
}

// Counterparty returns the other end of the path.
func (p *Path) Counterparty(c *Chain) *Chain {
	if c == p.A {
		return p.B
	}
	return p.A
}

// Channel returns the local channel id of c.
func (p *Path) Channel(c *Chain) string {
	if c == p.A {
		return p.ChannelA
	}
	return p.ChannelB
}

// Deliver relays the oldest packet sent by from to its counterparty and returns the
// acknowledgement without processing it on the sender. Like IBC core, the receive writes
// are kept only for a successful acknowledgement.
func (p *Path) Deliver(from *Chain) (channeltypes.Packet, channeltypes.Acknowledgement) {
	packet, ok := from.ICS4.Pop()
	require.True(from.t, ok, "no pending packet on %s", from.ChainID)

	to := p.Counterparty(from)
	cacheCtx, write := to.Ctx.CacheContext()
	ack := to.Module.OnRecvPacket(cacheCtx, packet, p.relayer)
	if ack.Success() {
		write()
	}

	acknowledgement, isAck := ack.(channeltypes.Acknowledgement)
	require.True(from.t, isAck)
	return packet, acknowledgement
}

// Acknowledge hands an acknowledgement back to the sender. Writes are discarded when the
// callback fails, as they are in a failed transaction.
func (p *Path) Acknowledge(from *Chain, packet channeltypes.Packet, ack channeltypes.Acknowledgement) error {
	cacheCtx, write := from.Ctx.CacheContext()
	if err := from.Module.OnAcknowledgementPacket(cacheCtx, packet, ack.Acknowledgement(), p.relayer); err != nil {
		return err
	}
	write()
	return nil
}

// Relay delivers the oldest packet sent by from and processes its acknowledgement.
func (p *Path) Relay(from *Chain) channeltypes.Acknowledgement {
	packet, ack := p.Deliver(from)
	require.NoError(from.t, p.Acknowledge(from, packet, ack))
	return ack
}

// Timeout drops the oldest packet sent by from and runs the sender's timeout callback.
func (p *Path) Timeout(from *Chain) error {
	packet, ok := from.ICS4.Pop()
	require.True(from.t, ok, "no pending packet on %s", from.ChainID)

	cacheCtx, write := from.Ctx.CacheContext()
	if err := from.Module.OnTimeoutPacket(cacheCtx, packet, p.relayer); err != nil {
		return err
	}
	write()
	return nil
}
