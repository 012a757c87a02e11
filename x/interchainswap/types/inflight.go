package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// InFlightPacket records what an outbound packet escrowed so an error acknowledgement or
// a timeout can refund exactly that amount. It is written when the packet is sent and
// removed when the acknowledgement or timeout is processed.
type InFlightPacket struct {
	Channel   string          `json:"channel"`
	Sequence  uint64          `json:"sequence"`
	Type      SwapMessageType `json:"type"`
	PoolId    string          `json:"pool_id"`
	OrderId   string          `json:"order_id,omitempty"`
	Sender    string          `json:"sender"`
	Escrowed  sdk.Coins       `json:"escrowed"`
	CreatedAt int64           `json:"created_at"`
}
