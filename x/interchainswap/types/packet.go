package types

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Packets are serialized as JSON for IBC transmission.

// SwapMessageType tags the operation carried by a packet.
type SwapMessageType int32

const (
	MessageTypeUnspecified SwapMessageType = iota
	MessageTypeMakePool
	MessageTypeTakePool
	MessageTypeCancelPool
	MessageTypeSingleAssetDeposit
	MessageTypeMakeMultiDeposit
	MessageTypeTakeMultiDeposit
	MessageTypeCancelMultiDeposit
	MessageTypeMultiWithdraw
	MessageTypeSwap
)

var swapMessageTypeNames = map[SwapMessageType]string{
	MessageTypeUnspecified:        "UNSPECIFIED",
	MessageTypeMakePool:           "MAKE_POOL",
	MessageTypeTakePool:           "TAKE_POOL",
	MessageTypeCancelPool:         "CANCEL_POOL",
	MessageTypeSingleAssetDeposit: "SINGLE_ASSET_DEPOSIT",
	MessageTypeMakeMultiDeposit:   "MAKE_MULTI_DEPOSIT",
	MessageTypeTakeMultiDeposit:   "TAKE_MULTI_DEPOSIT",
	MessageTypeCancelMultiDeposit: "CANCEL_MULTI_DEPOSIT",
	MessageTypeMultiWithdraw:      "MULTI_WITHDRAW",
	MessageTypeSwap:               "SWAP",
}

func (t SwapMessageType) String() string { return enumString(t, swapMessageTypeNames) }

func (t SwapMessageType) MarshalJSON() ([]byte, error) { return marshalEnum(t, swapMessageTypeNames) }

func (t *SwapMessageType) UnmarshalJSON(bz []byte) (err error) {
	*t, err = unmarshalEnum(bz, swapMessageTypeNames)
	return err
}

// IsValid reports whether t names one of the nine operations.
func (t SwapMessageType) IsValid() bool {
	return t > MessageTypeUnspecified && t <= MessageTypeSwap
}

// AllMessageTypes lists every valid packet type.
func AllMessageTypes() []SwapMessageType {
	return []SwapMessageType{
		MessageTypeMakePool,
		MessageTypeTakePool,
		MessageTypeCancelPool,
		MessageTypeSingleAssetDeposit,
		MessageTypeMakeMultiDeposit,
		MessageTypeTakeMultiDeposit,
		MessageTypeCancelMultiDeposit,
		MessageTypeMultiWithdraw,
		MessageTypeSwap,
	}
}

// StateChange carries the amounts the sending chain computed so the receiver can apply
// them without repeating the math.
type StateChange struct {
	InTokens            []sdk.Coin `json:"in_tokens,omitempty"`
	OutTokens           []sdk.Coin `json:"out_tokens,omitempty"`
	PoolTokens          []sdk.Coin `json:"pool_tokens,omitempty"`
	PoolId              string     `json:"pool_id,omitempty"`
	MultiDepositOrderId string     `json:"multi_deposit_order_id,omitempty"`
	SourceChainId       string     `json:"source_chain_id,omitempty"`
}

// TotalPoolTokens sums the LP shares carried in the state change.
func (sc StateChange) TotalPoolTokens(denom string) sdk.Coin {
	total := sdk.NewInt64Coin(denom, 0)
	for _, token := range sc.PoolTokens {
		total.Amount = total.Amount.Add(token.Amount)
	}
	return total
}

// IBCSwapPacketData is the packet exchanged between the two swap modules.
type IBCSwapPacketData struct {
	Type        SwapMessageType `json:"type"`
	Data        []byte          `json:"data"`
	StateChange *StateChange    `json:"state_change,omitempty"`
}

// NewIBCSwapPacketData encodes a request into a packet.
func NewIBCSwapPacketData(msgType SwapMessageType, msg any, stateChange *StateChange) (IBCSwapPacketData, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return IBCSwapPacketData{}, errorsmod.Wrapf(ErrInvalidPacket, "encode %s request: %s", msgType, err)
	}
	return IBCSwapPacketData{
		Type:        msgType,
		Data:        bz,
		StateChange: stateChange,
	}, nil
}

// ValidateBasic checks the packet envelope. The payload is validated by the handler
// that decodes it.
func (p IBCSwapPacketData) ValidateBasic() error {
	if !p.Type.IsValid() {
		return errorsmod.Wrapf(ErrInvalidPacket, "invalid packet type: %s", p.Type)
	}
	if len(p.Data) == 0 {
		return errorsmod.Wrap(ErrInvalidPacket, "empty packet payload")
	}
	if p.StateChange == nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "%s packet without state change", p.Type)
	}
	if p.StateChange.PoolId == "" {
		return errorsmod.Wrapf(ErrInvalidPacket, "%s packet without pool id", p.Type)
	}
	for _, coins := range [][]sdk.Coin{p.StateChange.InTokens, p.StateChange.OutTokens, p.StateChange.PoolTokens} {
		for _, coin := range coins {
			if !coin.IsValid() {
				return errorsmod.Wrapf(ErrInvalidPacket, "invalid coin %s in state change", coin)
			}
		}
	}
	return nil
}

// GetBytes returns the JSON encoding of the packet.
func (p IBCSwapPacketData) GetBytes() []byte {
	bz, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	return bz
}

// DecodeMsg unmarshals the payload into msg. Addresses in the payload belong to both
// chains, so the receiving handler checks only the fields it acts on.
func (p IBCSwapPacketData) DecodeMsg(msg any) error {
	if err := json.Unmarshal(p.Data, msg); err != nil {
		return errorsmod.Wrapf(ErrInvalidPacket, "decode %s payload: %s", p.Type, err)
	}
	return nil
}

// ParsePacketData decodes and validates raw packet bytes.
func ParsePacketData(data []byte) (IBCSwapPacketData, error) {
	var packet IBCSwapPacketData
	if err := json.Unmarshal(data, &packet); err != nil {
		return IBCSwapPacketData{}, errorsmod.Wrapf(ErrInvalidPacket, "failed to unmarshal packet: %s", err)
	}
	if err := packet.ValidateBasic(); err != nil {
		return IBCSwapPacketData{}, err
	}
	return packet, nil
}
