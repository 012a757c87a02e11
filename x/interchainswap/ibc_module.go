package interchainswap

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"

	"github.com/ics101/interchainswap/x/interchainswap/keeper"
	"github.com/ics101/interchainswap/x/interchainswap/types"
	sharedibc "github.com/ics101/interchainswap/x/shared/ibc"
)

var (
	_ porttypes.IBCModule = (*IBCModule)(nil)
)

// successAck is the result carried by every successful acknowledgement
var successAck = []byte{1}

// IBCModule implements the ICS26 interface for the interchainswap module.
// Swap packets must be delivered in order, so only ORDERED channels are accepted.
type IBCModule struct {
	keeper    *keeper.Keeper
	validator *sharedibc.ChannelOpenValidator
}

// NewIBCModule creates a new IBCModule given the keeper
func NewIBCModule(k *keeper.Keeper) IBCModule {
	return IBCModule{
		keeper:    k,
		validator: sharedibc.NewChannelOpenValidator(types.Version, types.PortID, channeltypes.ORDERED, k),
	}
}

// OnChanOpenInit implements the IBCModule interface
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	version, err := im.validator.ValidateChannelOpenInit(ctx, order, portID, channelID, chanCap, version)
	if err != nil {
		return "", err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChannelOpen,
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
			sdk.NewAttribute(types.AttributeKeyCounterpartyPortID, counterparty.PortId),
			sdk.NewAttribute(types.AttributeKeyCounterpartyChannelID, counterparty.ChannelId),
		),
	)

	return version, nil
}

// OnChanOpenTry implements the IBCModule interface
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	version, err := im.validator.ValidateChannelOpenTry(ctx, order, portID, channelID, chanCap, counterpartyVersion)
	if err != nil {
		return "", err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChannelOpen,
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
			sdk.NewAttribute(types.AttributeKeyCounterpartyPortID, counterparty.PortId),
			sdk.NewAttribute(types.AttributeKeyCounterpartyChannelID, counterparty.ChannelId),
		),
	)

	return version, nil
}

// OnChanOpenAck implements the IBCModule interface
func (im IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	if err := im.validator.ValidateChannelOpenAck(counterpartyVersion); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChannelOpenAck,
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
			sdk.NewAttribute(types.AttributeKeyCounterpartyChannelID, counterpartyChannelID),
		),
	)

	return nil
}

// OnChanOpenConfirm implements the IBCModule interface
func (im IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChannelOpenConfirm,
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
		),
	)

	return nil
}

// OnChanCloseInit implements the IBCModule interface
func (im IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	return errorsmod.Wrap(types.ErrCannotCloseChannel, "user cannot close channel")
}

// OnChanCloseConfirm implements the IBCModule interface. Packets still in flight on a
// closed ORDERED channel are refunded through OnTimeoutPacket.
func (im IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeChannelClose,
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
		),
	)

	return nil
}

// OnRecvPacket implements the IBCModule interface
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	packetData, err := types.ParsePacketData(packet.GetData())
	if err != nil {
		return sharedibc.RejectPacket(ctx, packet, err)
	}

	ack := channeltypes.NewResultAcknowledgement(successAck)
	attributes := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyPacketType, packetData.Type.String()),
		sdk.NewAttribute(types.AttributeKeyChannelID, packet.DestinationChannel),
		sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		sdk.NewAttribute(types.AttributeKeyPoolID, packetData.StateChange.PoolId),
	}
	if err := im.keeper.OnRecvPacket(ctx, packet, packetData); err != nil {
		ack = channeltypes.NewErrorAcknowledgement(err)
		attributes = append(attributes,
			sdk.NewAttribute(types.AttributeKeyAckSuccess, "false"),
			sdk.NewAttribute(types.AttributeKeyAckError, err.Error()),
		)
	} else {
		attributes = append(attributes, sdk.NewAttribute(types.AttributeKeyAckSuccess, "true"))
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypePacketReceive, attributes...))

	return ack
}

// OnAcknowledgementPacket implements the IBCModule interface
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	ack, err := sharedibc.UnmarshalAck(acknowledgement)
	if err != nil {
		return err
	}

	if err := im.keeper.OnAcknowledgementPacket(ctx, packet, ack); err != nil {
		return err
	}

	attributes := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyChannelID, packet.SourceChannel),
		sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		sdk.NewAttribute(types.AttributeKeyAckSuccess, fmt.Sprintf("%t", ack.Success())),
	}
	if !ack.Success() {
		attributes = append(attributes, sdk.NewAttribute(types.AttributeKeyAckError, ack.GetError()))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypePacketAck, attributes...))

	return nil
}

// OnTimeoutPacket implements the IBCModule interface
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	if err := im.keeper.OnTimeoutPacket(ctx, packet); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketTimeout,
			sdk.NewAttribute(types.AttributeKeyChannelID, packet.SourceChannel),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		),
	)

	return nil
}
