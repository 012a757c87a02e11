package ibc

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	"github.com/hashicorp/go-metrics"
)

// MaxAcknowledgementSize bounds the acknowledgements an application will decode.
const MaxAcknowledgementSize = 1024 * 1024

// EventTypePacketRejected is emitted when an inbound packet fails decoding or validation.
const EventTypePacketRejected = "ibc_packet_validation_failed"

// UnmarshalAck validates the size of a raw acknowledgement and decodes it.
func UnmarshalAck(acknowledgement []byte) (channeltypes.Acknowledgement, error) {
	if len(acknowledgement) > MaxAcknowledgementSize {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrInvalidRequest,
			"ack too large: %d > %d bytes", len(acknowledgement), MaxAcknowledgementSize)
	}

	var ack channeltypes.Acknowledgement
	if err := channeltypes.SubModuleCdc.UnmarshalJSON(acknowledgement, &ack); err != nil {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrUnknownRequest,
			"cannot unmarshal packet acknowledgement: %v", err)
	}
	return ack, nil
}

// RejectPacket records an inbound packet that could not be decoded and returns the error
// acknowledgement for it.
func RejectPacket(ctx sdk.Context, packet channeltypes.Packet, err error) channeltypes.Acknowledgement {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			EventTypePacketRejected,
			sdk.NewAttribute("port", packet.DestinationPort),
			sdk.NewAttribute("channel", packet.DestinationChannel),
			sdk.NewAttribute("reason", err.Error()),
		),
	)
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "packet_validation_failed"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("port", packet.DestinationPort),
			telemetry.NewLabel("channel", packet.DestinationChannel),
		},
	)
	return channeltypes.NewErrorAcknowledgement(err)
}
