package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// OrderStatus is the lifecycle status of a multi-asset deposit order.
type OrderStatus int32

const (
	OrderStatusPending OrderStatus = iota
	OrderStatusComplete
	OrderStatusCancelled
)

var orderStatusNames = map[OrderStatus]string{
	OrderStatusPending:   "PENDING",
	OrderStatusComplete:  "COMPLETE",
	OrderStatusCancelled: "CANCELLED",
}

func (s OrderStatus) String() string { return enumString(s, orderStatusNames) }

// IsTerminal reports whether no further transition may leave this status.
func (s OrderStatus) IsTerminal() bool { return s != OrderStatusPending }

func (s OrderStatus) MarshalJSON() ([]byte, error) { return marshalEnum(s, orderStatusNames) }

func (s *OrderStatus) UnmarshalJSON(bz []byte) (err error) {
	*s, err = unmarshalEnum(bz, orderStatusNames)
	return err
}

// MultiAssetDepositOrder is a two-sided deposit proposed by a maker on one chain and
// completed by a taker on the other. Deposits[0] is the maker's asset. CreatedAt is the
// block height at which the order was recorded on each chain.
type MultiAssetDepositOrder struct {
	Id               string      `json:"id"`
	PoolId           string      `json:"pool_id"`
	ChainId          string      `json:"chain_id"`
	SourceMaker      string      `json:"source_maker"`
	DestinationTaker string      `json:"destination_taker"`
	Deposits         []sdk.Coin  `json:"deposits"`
	Status           OrderStatus `json:"status"`
	CreatedAt        int64       `json:"created_at"`
}

// GetOrderId derives an order id from its maker and the module order counter.
func GetOrderId(maker string, counter uint64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s/%d", maker, counter)))
	return hex.EncodeToString(hash[:])
}

// IsLive reports whether the order still owns its active-order index entry.
func (o MultiAssetDepositOrder) IsLive() bool {
	return o.Status == OrderStatusPending
}

// Validate checks the structural invariants of an order record.
func (o MultiAssetDepositOrder) Validate() error {
	if strings.TrimSpace(o.Id) == "" {
		return errorsmod.Wrap(ErrInvalidOrderID, "empty order id")
	}
	if strings.TrimSpace(o.PoolId) == "" {
		return errorsmod.Wrap(ErrInvalidPoolID, "empty pool id")
	}
	if o.SourceMaker == "" || o.DestinationTaker == "" {
		return errorsmod.Wrap(ErrInvalidAddress, "maker and taker are required")
	}
	if o.ChainId == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "empty order chain id")
	}
	if len(o.Deposits) != 2 {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "order needs two deposits, got %d", len(o.Deposits))
	}
	if o.Deposits[0].Denom == o.Deposits[1].Denom {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "duplicate deposit denom %s", o.Deposits[0].Denom)
	}
	for _, deposit := range o.Deposits {
		if !deposit.IsValid() || !deposit.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidAmount, "deposit %s", deposit)
		}
	}
	if _, ok := orderStatusNames[o.Status]; !ok {
		return errorsmod.Wrapf(ErrInvalidOrderID, "unknown status %d", o.Status)
	}
	return nil
}

// Config is the process-wide state shared by every order
type Config struct {
	Counter     uint64 `json:"counter"`
	TokenCodeId uint64 `json:"token_code_id"`
}

// DefaultConfig returns the config a fresh chain starts with
func DefaultConfig() Config {
	return Config{}
}
