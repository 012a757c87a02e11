package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitykeeper "github.com/cosmos/ibc-go/modules/capability/keeper"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// MockChannelKeeper stores the channel ends opened by the test relayer.
type MockChannelKeeper struct {
	channels map[string]channeltypes.Channel
}

// NewMockChannelKeeper returns a channel keeper without channels.
func NewMockChannelKeeper() *MockChannelKeeper {
	return &MockChannelKeeper{channels: make(map[string]channeltypes.Channel)}
}

// SetChannel registers a channel end.
func (m *MockChannelKeeper) SetChannel(portID, channelID string, channel channeltypes.Channel) {
	m.channels[host.ChannelPath(portID, channelID)] = channel
}

// GetChannel implements types.ChannelKeeper.
func (m *MockChannelKeeper) GetChannel(_ sdk.Context, portID, channelID string) (channeltypes.Channel, bool) {
	channel, found := m.channels[host.ChannelPath(portID, channelID)]
	return channel, found
}

// MockICS4Wrapper stands in for IBC core on the sending side. It authenticates the
// channel capability the way core does and queues the packet for the relayer.
type MockICS4Wrapper struct {
	scopedIBC capabilitykeeper.ScopedKeeper
	channels  *MockChannelKeeper
	sequences map[string]uint64
	// FailNext makes the next SendPacket call fail.
	FailNext bool
	// Pending holds sent packets that have not been relayed yet, oldest first.
	Pending []channeltypes.Packet
}

// NewMockICS4Wrapper creates an ICS4 wrapper that authenticates against scopedIBC.
func NewMockICS4Wrapper(scopedIBC capabilitykeeper.ScopedKeeper, channels *MockChannelKeeper) *MockICS4Wrapper {
	return &MockICS4Wrapper{
		scopedIBC: scopedIBC,
		channels:  channels,
		sequences: make(map[string]uint64),
	}
}

// SendPacket implements types.ICS4Wrapper.
func (m *MockICS4Wrapper) SendPacket(
	ctx sdk.Context,
	chanCap *capabilitytypes.Capability,
	sourcePort string,
	sourceChannel string,
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (uint64, error) {
	if m.FailNext {
		m.FailNext = false
		return 0, fmt.Errorf("send packet failed")
	}
	if !m.scopedIBC.AuthenticateCapability(ctx, chanCap, host.ChannelCapabilityPath(sourcePort, sourceChannel)) {
		return 0, channeltypes.ErrChannelCapabilityNotFound
	}
	channel, found := m.channels.GetChannel(ctx, sourcePort, sourceChannel)
	if !found {
		return 0, channeltypes.ErrChannelNotFound
	}

	path := host.ChannelPath(sourcePort, sourceChannel)
	m.sequences[path]++
	sequence := m.sequences[path]

	m.Pending = append(m.Pending, channeltypes.NewPacket(
		data,
		sequence,
		sourcePort,
		sourceChannel,
		channel.Counterparty.PortId,
		channel.Counterparty.ChannelId,
		timeoutHeight,
		timeoutTimestamp,
	))
	return sequence, nil
}

// Pop removes and returns the oldest pending packet.
func (m *MockICS4Wrapper) Pop() (channeltypes.Packet, bool) {
	if len(m.Pending) == 0 {
		return channeltypes.Packet{}, false
	}
	packet := m.Pending[0]
	m.Pending = m.Pending[1:]
	return packet, true
}
