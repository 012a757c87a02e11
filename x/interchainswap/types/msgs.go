package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
)

// PacketTimeout is embedded in every request that sends a packet. When both fields are
// zero the module applies its default timeout.
type PacketTimeout struct {
	TimeoutHeight    clienttypes.Height `json:"timeout_height"`
	TimeoutTimestamp uint64             `json:"timeout_timestamp"`
}

// IsZero reports whether neither timeout is set
func (t PacketTimeout) IsZero() bool {
	return t.TimeoutHeight.IsZero() && t.TimeoutTimestamp == 0
}

// MsgMakePool proposes a pool to the counterparty chain and escrows the creator's asset.
type MsgMakePool struct {
	SourcePort          string      `json:"source_port"`
	SourceChannel       string      `json:"source_channel"`
	Creator             string      `json:"creator"`
	CounterPartyCreator string      `json:"counter_party_creator"`
	Liquidity           []PoolAsset `json:"liquidity"`
	SwapFee             uint32      `json:"swap_fee"`
	DestinationChainId  string      `json:"destination_chain_id"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgMakePool) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	if strings.TrimSpace(msg.CounterPartyCreator) == "" {
		return errorsmod.Wrap(ErrInvalidAddress, "counterparty creator cannot be empty")
	}
	if msg.SourcePort == "" || msg.SourceChannel == "" {
		return errorsmod.Wrap(ErrInvalidPort, "source port and channel are required")
	}
	if msg.DestinationChainId == "" {
		return errorsmod.Wrap(ErrInvalidChainID, "destination chain id cannot be empty")
	}
	if len(msg.Liquidity) != 2 {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "pool needs exactly two assets, got %d", len(msg.Liquidity))
	}
	if err := ValidateAssets(msg.Liquidity); err != nil {
		return err
	}
	for _, asset := range msg.Liquidity {
		if !asset.Balance.Amount.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidAmount, "initial liquidity %s must be positive", asset.Balance)
		}
	}
	if msg.SwapFee > FeePrecision {
		return errorsmod.Wrapf(ErrInvalidFeeRate, "%d above %d", msg.SwapFee, FeePrecision)
	}
	return nil
}

// MsgTakePool accepts a proposed pool on the counterparty chain and escrows the taker's asset.
type MsgTakePool struct {
	Creator string `json:"creator"`
	PoolId  string `json:"pool_id"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgTakePool) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	return validatePoolID(msg.PoolId)
}

// MsgCancelPool withdraws a pool proposal that has not been taken yet.
type MsgCancelPool struct {
	Creator string `json:"creator"`
	PoolId  string `json:"pool_id"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgCancelPool) ValidateBasic() error {
	if err := validateAddress(msg.Creator, "creator"); err != nil {
		return err
	}
	return validatePoolID(msg.PoolId)
}

// MsgSingleAssetDeposit deposits one local asset into an active pool.
type MsgSingleAssetDeposit struct {
	PoolId string   `json:"pool_id"`
	Sender string   `json:"sender"`
	Token  sdk.Coin `json:"token"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgSingleAssetDeposit) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if err := validatePoolID(msg.PoolId); err != nil {
		return err
	}
	return validatePositiveCoin(msg.Token, "token")
}

// DepositAsset is one leg of a multi-asset deposit: who pays and what.
type DepositAsset struct {
	Sender  string   `json:"sender"`
	Balance sdk.Coin `json:"balance"`
}

// MsgMakeMultiAssetDeposit offers a two-sided deposit. Deposits[0] is paid by the maker on
// this chain, Deposits[1] by the taker on the counterparty chain.
type MsgMakeMultiAssetDeposit struct {
	PoolId   string         `json:"pool_id"`
	Deposits []DepositAsset `json:"deposits"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgMakeMultiAssetDeposit) ValidateBasic() error {
	if err := validatePoolID(msg.PoolId); err != nil {
		return err
	}
	if len(msg.Deposits) != 2 {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "need exactly two deposits, got %d", len(msg.Deposits))
	}
	if err := validateAddress(msg.Deposits[0].Sender, "maker"); err != nil {
		return err
	}
	if strings.TrimSpace(msg.Deposits[1].Sender) == "" {
		return errorsmod.Wrap(ErrInvalidAddress, "taker cannot be empty")
	}
	if msg.Deposits[0].Balance.Denom == msg.Deposits[1].Balance.Denom {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "duplicate deposit denom %s", msg.Deposits[0].Balance.Denom)
	}
	for _, deposit := range msg.Deposits {
		if err := validatePositiveCoin(deposit.Balance, "deposit"); err != nil {
			return err
		}
	}
	return nil
}

// Maker returns the maker address
func (msg MsgMakeMultiAssetDeposit) Maker() string { return msg.Deposits[0].Sender }

// Taker returns the taker address on the counterparty chain
func (msg MsgMakeMultiAssetDeposit) Taker() string { return msg.Deposits[1].Sender }

// MsgTakeMultiAssetDeposit completes a pending order by paying the taker's leg.
type MsgTakeMultiAssetDeposit struct {
	Sender  string `json:"sender"`
	PoolId  string `json:"pool_id"`
	OrderId string `json:"order_id"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgTakeMultiAssetDeposit) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if err := validatePoolID(msg.PoolId); err != nil {
		return err
	}
	return validateOrderID(msg.OrderId)
}

// MsgCancelMultiAssetDeposit withdraws a pending order. The maker may cancel on the maker
// chain, the taker may decline on the taker chain.
type MsgCancelMultiAssetDeposit struct {
	Sender  string `json:"sender"`
	PoolId  string `json:"pool_id"`
	OrderId string `json:"order_id"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgCancelMultiAssetDeposit) ValidateBasic() error {
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if err := validatePoolID(msg.PoolId); err != nil {
		return err
	}
	return validateOrderID(msg.OrderId)
}

// MsgMultiAssetWithdraw redeems LP shares for both pool assets. Each chain pays out its
// native asset: Receiver here, CounterPartyReceiver on the counterparty chain.
type MsgMultiAssetWithdraw struct {
	PoolId               string   `json:"pool_id"`
	Receiver             string   `json:"receiver"`
	CounterPartyReceiver string   `json:"counter_party_receiver"`
	PoolToken            sdk.Coin `json:"pool_token"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgMultiAssetWithdraw) ValidateBasic() error {
	if err := validateAddress(msg.Receiver, "receiver"); err != nil {
		return err
	}
	if strings.TrimSpace(msg.CounterPartyReceiver) == "" {
		return errorsmod.Wrap(ErrInvalidAddress, "counterparty receiver cannot be empty")
	}
	if err := validatePoolID(msg.PoolId); err != nil {
		return err
	}
	if msg.PoolToken.Denom != msg.PoolId {
		return errorsmod.Wrapf(ErrDenomMismatch, "pool token %s is not a share of %s", msg.PoolToken.Denom, msg.PoolId)
	}
	return validatePositiveCoin(msg.PoolToken, "pool token")
}

// SwapMsgType selects the pricing direction of a swap.
type SwapMsgType int32

const (
	// SwapLeft sells exactly TokenIn.
	SwapLeft SwapMsgType = iota
	// SwapRight buys exactly TokenOut, spending at most TokenIn.
	SwapRight
)

var swapMsgTypeNames = map[SwapMsgType]string{
	SwapLeft:  "LEFT",
	SwapRight: "RIGHT",
}

func (t SwapMsgType) String() string { return enumString(t, swapMsgTypeNames) }

func (t SwapMsgType) MarshalJSON() ([]byte, error) { return marshalEnum(t, swapMsgTypeNames) }

func (t *SwapMsgType) UnmarshalJSON(bz []byte) (err error) {
	*t, err = unmarshalEnum(bz, swapMsgTypeNames)
	return err
}

// MsgSwap trades a local asset for the counterparty asset of a pool. Slippage is in basis
// points of TokenOut for left swaps and of TokenIn for right swaps.
type MsgSwap struct {
	SwapType  SwapMsgType `json:"swap_type"`
	Sender    string      `json:"sender"`
	PoolId    string      `json:"pool_id"`
	TokenIn   sdk.Coin    `json:"token_in"`
	TokenOut  sdk.Coin    `json:"token_out"`
	Slippage  uint64      `json:"slippage"`
	Recipient string      `json:"recipient"`
	PacketTimeout
}

// ValidateBasic performs stateless validation
func (msg MsgSwap) ValidateBasic() error {
	if _, ok := swapMsgTypeNames[msg.SwapType]; !ok {
		return errorsmod.Wrapf(ErrInvalidSwapType, "%d", msg.SwapType)
	}
	if err := validateAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if strings.TrimSpace(msg.Recipient) == "" {
		return errorsmod.Wrap(ErrInvalidAddress, "recipient cannot be empty")
	}
	if err := validatePoolID(msg.PoolId); err != nil {
		return err
	}
	if err := validatePositiveCoin(msg.TokenIn, "token in"); err != nil {
		return err
	}
	if err := validatePositiveCoin(msg.TokenOut, "token out"); err != nil {
		return err
	}
	if msg.TokenIn.Denom == msg.TokenOut.Denom {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "cannot swap %s for itself", msg.TokenIn.Denom)
	}
	if msg.Slippage > FeePrecision {
		return errorsmod.Wrapf(ErrInvalidSlippage, "%d above %d", msg.Slippage, FeePrecision)
	}
	return nil
}

// MsgUpdateParams replaces the module parameters. Only the governance authority may send it.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// ValidateBasic performs stateless validation
func (msg MsgUpdateParams) ValidateBasic() error {
	if err := validateAddress(msg.Authority, "authority"); err != nil {
		return err
	}
	return msg.Params.Validate()
}

func validateAddress(addr, field string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errorsmod.Wrapf(ErrInvalidAddress, "invalid %s address: %s", field, err)
	}
	return nil
}

func validatePoolID(poolID string) error {
	if strings.TrimSpace(poolID) == "" {
		return errorsmod.Wrap(ErrInvalidPoolID, "pool id cannot be empty")
	}
	return nil
}

func validateOrderID(orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return errorsmod.Wrap(ErrInvalidOrderID, "order id cannot be empty")
	}
	return nil
}

func validatePositiveCoin(coin sdk.Coin, field string) error {
	if !coin.IsValid() || !coin.IsPositive() {
		return errorsmod.Wrapf(ErrInvalidAmount, "invalid %s %s", field, coin)
	}
	return nil
}
