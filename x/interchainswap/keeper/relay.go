package keeper

import (
	"fmt"
	"time"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// packetContext is everything a handler needs about one packet beyond its decoded request.
type packetContext struct {
	packet      channeltypes.Packet
	data        types.IBCSwapPacketData
	stateChange types.StateChange
	// inflight is the sender-side record of the packet; zero on the receiving chain.
	inflight types.InFlightPacket
	// timedOut is set when the refund path runs because the packet never arrived.
	timedOut bool
}

// packetHandler is one stage of the packet protocol. The receive, acknowledge and refund
// stages each implement it in full, so adding an operation without handling it in every
// stage does not compile.
type packetHandler interface {
	MakePool(ctx sdk.Context, pc packetContext, msg types.MsgMakePool) error
	TakePool(ctx sdk.Context, pc packetContext, msg types.MsgTakePool) error
	CancelPool(ctx sdk.Context, pc packetContext, msg types.MsgCancelPool) error
	SingleAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgSingleAssetDeposit) error
	MakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgMakeMultiAssetDeposit) error
	TakeMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgTakeMultiAssetDeposit) error
	CancelMultiAssetDeposit(ctx sdk.Context, pc packetContext, msg types.MsgCancelMultiAssetDeposit) error
	MultiAssetWithdraw(ctx sdk.Context, pc packetContext, msg types.MsgMultiAssetWithdraw) error
	Swap(ctx sdk.Context, pc packetContext, msg types.MsgSwap) error
}

var (
	_ packetHandler = receiveHandler{}
	_ packetHandler = ackHandler{}
	_ packetHandler = refundHandler{}
)

// routePacket decodes the request carried by a packet and hands it to the matching
// method of the stage handler.
func routePacket(ctx sdk.Context, h packetHandler, pc packetContext) error {
	switch pc.data.Type {
	case types.MessageTypeMakePool:
		var msg types.MsgMakePool
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.MakePool(ctx, pc, msg)
	case types.MessageTypeTakePool:
		var msg types.MsgTakePool
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.TakePool(ctx, pc, msg)
	case types.MessageTypeCancelPool:
		var msg types.MsgCancelPool
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.CancelPool(ctx, pc, msg)
	case types.MessageTypeSingleAssetDeposit:
		var msg types.MsgSingleAssetDeposit
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.SingleAssetDeposit(ctx, pc, msg)
	case types.MessageTypeMakeMultiDeposit:
		var msg types.MsgMakeMultiAssetDeposit
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.MakeMultiAssetDeposit(ctx, pc, msg)
	case types.MessageTypeTakeMultiDeposit:
		var msg types.MsgTakeMultiAssetDeposit
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.TakeMultiAssetDeposit(ctx, pc, msg)
	case types.MessageTypeCancelMultiDeposit:
		var msg types.MsgCancelMultiAssetDeposit
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.CancelMultiAssetDeposit(ctx, pc, msg)
	case types.MessageTypeMultiWithdraw:
		var msg types.MsgMultiAssetWithdraw
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.MultiAssetWithdraw(ctx, pc, msg)
	case types.MessageTypeSwap:
		var msg types.MsgSwap
		if err := pc.data.DecodeMsg(&msg); err != nil {
			return err
		}
		return h.Swap(ctx, pc, msg)
	default:
		return errorsmod.Wrapf(types.ErrInvalidPacket, "unknown packet type: %s", pc.data.Type)
	}
}

// packetTimeout resolves the timeout of an outbound packet. A request that sets neither
// timeout gets the default from params, counted from the current block time.
func (k Keeper) packetTimeout(ctx sdk.Context, timeout types.PacketTimeout) (clienttypes.Height, uint64, error) {
	if !timeout.IsZero() {
		if timeout.TimeoutTimestamp != 0 && timeout.TimeoutTimestamp <= uint64(ctx.BlockTime().UnixNano()) {
			return clienttypes.Height{}, 0, errorsmod.Wrapf(types.ErrInvalidTimeout, "timeout timestamp %d already passed", timeout.TimeoutTimestamp)
		}
		return timeout.TimeoutHeight, timeout.TimeoutTimestamp, nil
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return clienttypes.Height{}, 0, err
	}
	deadline := ctx.BlockTime().Add(time.Duration(params.DefaultTimeoutSeconds) * time.Second)
	return clienttypes.ZeroHeight(), uint64(deadline.UnixNano()), nil
}

// sendPacket hands a packet to IBC core and records what the sender escrowed for it.
func (k Keeper) sendPacket(
	ctx sdk.Context,
	portID, channelID string,
	timeout types.PacketTimeout,
	data types.IBCSwapPacketData,
	sender string,
	escrowed sdk.Coins,
) (uint64, error) {
	if err := data.ValidateBasic(); err != nil {
		return 0, err
	}

	chanCap, found := k.GetChannelCapability(ctx, portID, channelID)
	if !found {
		return 0, errorsmod.Wrapf(types.ErrChannelCapNotFound, "port: %s, channel: %s", portID, channelID)
	}

	timeoutHeight, timeoutTimestamp, err := k.packetTimeout(ctx, timeout)
	if err != nil {
		return 0, err
	}

	sequence, err := k.ics4Wrapper.SendPacket(ctx, chanCap, portID, channelID, timeoutHeight, timeoutTimestamp, data.GetBytes())
	if err != nil {
		return 0, errorsmod.Wrap(err, "failed to send packet")
	}

	record := types.InFlightPacket{
		Channel:   channelID,
		Sequence:  sequence,
		Type:      data.Type,
		PoolId:    data.StateChange.PoolId,
		OrderId:   data.StateChange.MultiDepositOrderId,
		Sender:    sender,
		Escrowed:  escrowed,
		CreatedAt: ctx.BlockTime().Unix(),
	}
	if err := k.SetInFlight(ctx, record); err != nil {
		return 0, err
	}

	k.metrics.PacketsSent.WithLabelValues(data.Type.String()).Inc()
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketSend,
			sdk.NewAttribute(types.AttributeKeyPacketType, data.Type.String()),
			sdk.NewAttribute(types.AttributeKeyPortID, portID),
			sdk.NewAttribute(types.AttributeKeyChannelID, channelID),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", sequence)),
			sdk.NewAttribute(types.AttributeKeyPoolID, record.PoolId),
		),
	)
	return sequence, nil
}

// OnRecvPacket applies an inbound packet. A returned error becomes an error
// acknowledgement and IBC core discards every write made while handling it.
func (k Keeper) OnRecvPacket(ctx sdk.Context, packet channeltypes.Packet, data types.IBCSwapPacketData) error {
	pc := packetContext{
		packet:      packet,
		data:        data,
		stateChange: *data.StateChange,
	}

	err := routePacket(ctx, receiveHandler{k}, pc)
	result := "success"
	if err != nil {
		result = "error"
		k.metrics.recordError(types.StageReceive, data.Type, err)
		k.Logger(ctx).Error("failed to apply swap packet",
			"type", data.Type.String(),
			"channel", packet.DestinationChannel,
			"sequence", packet.Sequence,
			"error", err,
		)
	}
	k.metrics.PacketsReceived.WithLabelValues(data.Type.String(), result).Inc()
	return err
}

// OnAcknowledgementPacket finalizes the sender side of a packet on success and rolls it
// back on an error acknowledgement.
func (k Keeper) OnAcknowledgementPacket(ctx sdk.Context, packet channeltypes.Packet, ack channeltypes.Acknowledgement) error {
	pc, err := k.outboundContext(ctx, packet)
	if err != nil {
		return err
	}

	if !ack.Success() {
		k.metrics.PacketAcks.WithLabelValues(pc.data.Type.String(), "error").Inc()
		k.Logger(ctx).Info("swap packet rejected by counterparty",
			"type", pc.data.Type.String(),
			"sequence", packet.Sequence,
			"reason", ack.GetError(),
		)
		return k.rollback(ctx, pc)
	}

	if err := routePacket(ctx, ackHandler{k}, pc); err != nil {
		k.metrics.recordError(types.StageAck, pc.data.Type, err)
		return errorsmod.Wrapf(err, "acknowledge %s packet %d", pc.data.Type, packet.Sequence)
	}
	k.metrics.PacketAcks.WithLabelValues(pc.data.Type.String(), "success").Inc()
	return nil
}

// OnTimeoutPacket rolls back the sender side of a packet that was never delivered.
func (k Keeper) OnTimeoutPacket(ctx sdk.Context, packet channeltypes.Packet) error {
	pc, err := k.outboundContext(ctx, packet)
	if err != nil {
		return err
	}
	pc.timedOut = true

	k.metrics.PacketTimeouts.WithLabelValues(pc.data.Type.String()).Inc()
	return k.rollback(ctx, pc)
}

// outboundContext loads and clears the in-flight record of a packet this chain sent.
func (k Keeper) outboundContext(ctx sdk.Context, packet channeltypes.Packet) (packetContext, error) {
	data, err := types.ParsePacketData(packet.GetData())
	if err != nil {
		return packetContext{}, err
	}

	record, err := k.GetInFlight(ctx, packet.SourceChannel, packet.Sequence)
	if err != nil {
		return packetContext{}, err
	}
	k.DeleteInFlight(ctx, packet.SourceChannel, packet.Sequence)

	return packetContext{
		packet:      packet,
		data:        data,
		stateChange: *data.StateChange,
		inflight:    record,
	}, nil
}

func (k Keeper) rollback(ctx sdk.Context, pc packetContext) error {
	if err := routePacket(ctx, refundHandler{k}, pc); err != nil {
		k.metrics.recordError(types.StageRefund, pc.data.Type, err)
		k.Logger(ctx).Error("failed to roll back swap packet",
			"type", pc.data.Type.String(),
			"sequence", pc.packet.Sequence,
			"error", err,
		)
		return errorsmod.Wrapf(err, "roll back %s packet %d", pc.data.Type, pc.packet.Sequence)
	}
	k.metrics.Refunds.WithLabelValues(pc.data.Type.String()).Inc()
	return nil
}

// emitStageEvent emits the per-operation event of one protocol stage.
func emitStageEvent(ctx sdk.Context, msgType types.SwapMessageType, stage, poolID string, attrs ...sdk.Attribute) {
	attributes := append([]sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyStage, stage),
		sdk.NewAttribute(types.AttributeKeyPoolID, poolID),
	}, attrs...)
	ctx.EventManager().EmitEvent(sdk.NewEvent(operationEventType(msgType), attributes...))
}

func operationEventType(msgType types.SwapMessageType) string {
	switch msgType {
	case types.MessageTypeMakePool:
		return types.EventTypeMakePool
	case types.MessageTypeTakePool:
		return types.EventTypeTakePool
	case types.MessageTypeCancelPool:
		return types.EventTypeCancelPool
	case types.MessageTypeSingleAssetDeposit:
		return types.EventTypeSingleAssetDeposit
	case types.MessageTypeMakeMultiDeposit:
		return types.EventTypeMakeMultiAssetDeposit
	case types.MessageTypeTakeMultiDeposit:
		return types.EventTypeTakeMultiAssetDeposit
	case types.MessageTypeCancelMultiDeposit:
		return types.EventTypeCancelMultiAssetDeposit
	case types.MessageTypeMultiWithdraw:
		return types.EventTypeMultiAssetWithdraw
	default:
		return types.EventTypeSwap
	}
}
