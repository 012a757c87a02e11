package types

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PoolAssetSide tells whether an asset is native to the chain holding the pool record
// (SOURCE) or to the counterparty chain (DESTINATION).
type PoolAssetSide int32

const (
	PoolSideSource PoolAssetSide = iota
	PoolSideDestination
)

var poolSideNames = map[PoolAssetSide]string{
	PoolSideSource:      "SOURCE",
	PoolSideDestination: "DESTINATION",
}

func (s PoolAssetSide) String() string { return enumString(s, poolSideNames) }

// Opposite returns the side as seen from the counterparty chain.
func (s PoolAssetSide) Opposite() PoolAssetSide {
	if s == PoolSideSource {
		return PoolSideDestination
	}
	return PoolSideSource
}

func (s PoolAssetSide) MarshalJSON() ([]byte, error) { return marshalEnum(s, poolSideNames) }

func (s *PoolAssetSide) UnmarshalJSON(bz []byte) (err error) {
	*s, err = unmarshalEnum(bz, poolSideNames)
	return err
}

// PoolStatus is the lifecycle status of a pool.
type PoolStatus int32

const (
	PoolStatusInitialized PoolStatus = iota
	PoolStatusActive
	PoolStatusCancelled
)

var poolStatusNames = map[PoolStatus]string{
	PoolStatusInitialized: "INITIALIZED",
	PoolStatusActive:      "ACTIVE",
	PoolStatusCancelled:   "CANCELLED",
}

func (s PoolStatus) String() string { return enumString(s, poolStatusNames) }

func (s PoolStatus) MarshalJSON() ([]byte, error) { return marshalEnum(s, poolStatusNames) }

func (s *PoolStatus) UnmarshalJSON(bz []byte) (err error) {
	*s, err = unmarshalEnum(bz, poolStatusNames)
	return err
}

// PoolAsset is one weighted reserve of a pool
type PoolAsset struct {
	Side    PoolAssetSide `json:"side"`
	Balance sdk.Coin      `json:"balance"`
	Weight  uint32        `json:"weight"`
	Decimal uint32        `json:"decimal"`
}

// InterchainLiquidityPool is the pool record mirrored on both chains of a channel.
// Source creator and chain always name the chain that proposed the pool; asset sides
// are relative to the chain holding the record.
type InterchainLiquidityPool struct {
	Id                  string      `json:"id"`
	SourceCreator       string      `json:"source_creator"`
	DestinationCreator  string      `json:"destination_creator"`
	Assets              []PoolAsset `json:"assets"`
	Supply              sdk.Coin    `json:"supply"`
	SwapFee             uint32      `json:"swap_fee"`
	Status              PoolStatus  `json:"status"`
	CounterPartyPort    string      `json:"counter_party_port"`
	CounterPartyChannel string      `json:"counter_party_channel"`
	SourceChainId       string      `json:"source_chain_id"`
	DestinationChainId  string      `json:"destination_chain_id"`
	PendingCancel       bool        `json:"pending_cancel,omitempty"`
}

// GetPoolId derives the pool id from its token denoms and the two chain ids. Both lists
// are sorted so either chain derives the same id.
func GetPoolId(sourceChainID, destinationChainID string, denoms []string) string {
	sortedDenoms := append([]string{}, denoms...)
	sort.Strings(sortedDenoms)
	chains := []string{sourceChainID, destinationChainID}
	sort.Strings(chains)

	hash := sha256.Sum256([]byte(strings.Join(sortedDenoms, "") + strings.Join(chains, "")))
	return "pool" + hex.EncodeToString(hash[:])
}

// NewInterchainLiquidityPool builds a freshly proposed pool with zero supply.
func NewInterchainLiquidityPool(
	sourceCreator, destinationCreator string,
	assets []PoolAsset,
	swapFee uint32,
	portID, channelID string,
	sourceChainID, destinationChainID string,
) InterchainLiquidityPool {
	denoms := make([]string, 0, len(assets))
	for _, asset := range assets {
		denoms = append(denoms, asset.Balance.Denom)
	}
	id := GetPoolId(sourceChainID, destinationChainID, denoms)

	return InterchainLiquidityPool{
		Id:                  id,
		SourceCreator:       sourceCreator,
		DestinationCreator:  destinationCreator,
		Assets:              append([]PoolAsset{}, assets...),
		Supply:              sdk.NewCoin(id, sdkmath.ZeroInt()),
		SwapFee:             swapFee,
		Status:              PoolStatusInitialized,
		CounterPartyPort:    portID,
		CounterPartyChannel: channelID,
		SourceChainId:       sourceChainID,
		DestinationChainId:  destinationChainID,
	}
}

// Mirror returns the record the counterparty chain stores for this pool: identical
// except that asset sides are flipped and the channel end is the counterparty's.
func (p InterchainLiquidityPool) Mirror(portID, channelID string) InterchainLiquidityPool {
	mirrored := p
	mirrored.Assets = make([]PoolAsset, len(p.Assets))
	for i, asset := range p.Assets {
		asset.Side = asset.Side.Opposite()
		mirrored.Assets[i] = asset
	}
	mirrored.CounterPartyPort = portID
	mirrored.CounterPartyChannel = channelID
	mirrored.PendingCancel = false
	return mirrored
}

// FindAssetByDenom returns a copy of the asset with the given denom.
func (p *InterchainLiquidityPool) FindAssetByDenom(denom string) (PoolAsset, error) {
	for _, asset := range p.Assets {
		if asset.Balance.Denom == denom {
			return asset, nil
		}
	}
	return PoolAsset{}, errorsmod.Wrapf(ErrDenomNotFound, "%s in pool %s", denom, p.Id)
}

// FindAssetBySide returns a copy of the asset on the given side.
func (p *InterchainLiquidityPool) FindAssetBySide(side PoolAssetSide) (PoolAsset, error) {
	for _, asset := range p.Assets {
		if asset.Side == side {
			return asset, nil
		}
	}
	return PoolAsset{}, errorsmod.Wrapf(ErrAssetSideNotFound, "%s in pool %s", side, p.Id)
}

// AddAsset credits a pool asset balance and returns the new balance.
func (p *InterchainLiquidityPool) AddAsset(token sdk.Coin) (sdk.Coin, error) {
	for i := range p.Assets {
		if p.Assets[i].Balance.Denom == token.Denom {
			balance, err := p.Assets[i].Balance.Amount.SafeAdd(token.Amount)
			if err != nil {
				return sdk.Coin{}, errorsmod.Wrap(ErrArithmetic, err.Error())
			}
			p.Assets[i].Balance.Amount = balance
			return p.Assets[i].Balance, nil
		}
	}
	return sdk.Coin{}, errorsmod.Wrapf(ErrDenomNotFound, "%s in pool %s", token.Denom, p.Id)
}

// SubtractAsset debits a pool asset balance and returns the new balance.
func (p *InterchainLiquidityPool) SubtractAsset(token sdk.Coin) (sdk.Coin, error) {
	for i := range p.Assets {
		if p.Assets[i].Balance.Denom == token.Denom {
			if p.Assets[i].Balance.Amount.LT(token.Amount) {
				return sdk.Coin{}, errorsmod.Wrapf(ErrInsufficientBalance, "%s < %s", p.Assets[i].Balance, token)
			}
			p.Assets[i].Balance.Amount = p.Assets[i].Balance.Amount.Sub(token.Amount)
			return p.Assets[i].Balance, nil
		}
	}
	return sdk.Coin{}, errorsmod.Wrapf(ErrDenomNotFound, "%s in pool %s", token.Denom, p.Id)
}

// AddSupply increases the LP supply.
func (p *InterchainLiquidityPool) AddSupply(token sdk.Coin) (sdk.Coin, error) {
	if token.Denom != p.Supply.Denom {
		return sdk.Coin{}, errorsmod.Wrapf(ErrDenomMismatch, "got %s, expected %s", token.Denom, p.Supply.Denom)
	}
	supply, err := p.Supply.Amount.SafeAdd(token.Amount)
	if err != nil {
		return sdk.Coin{}, errorsmod.Wrap(ErrArithmetic, err.Error())
	}
	p.Supply.Amount = supply
	return p.Supply, nil
}

// SubtractSupply decreases the LP supply.
func (p *InterchainLiquidityPool) SubtractSupply(token sdk.Coin) (sdk.Coin, error) {
	if token.Denom != p.Supply.Denom {
		return sdk.Coin{}, errorsmod.Wrapf(ErrDenomMismatch, "got %s, expected %s", token.Denom, p.Supply.Denom)
	}
	if p.Supply.Amount.LT(token.Amount) {
		return sdk.Coin{}, errorsmod.Wrapf(ErrInsufficientSupply, "%s < %s", p.Supply, token)
	}
	p.Supply.Amount = p.Supply.Amount.Sub(token.Amount)
	return p.Supply, nil
}

// NativeAsset returns the asset native to chainID, given the chain holding this record.
func (p *InterchainLiquidityPool) NativeAsset(chainID, localChainID string) (PoolAsset, error) {
	if chainID == localChainID {
		return p.FindAssetBySide(PoolSideSource)
	}
	return p.FindAssetBySide(PoolSideDestination)
}

// Denoms returns the asset denoms in pool order.
func (p *InterchainLiquidityPool) Denoms() []string {
	denoms := make([]string, 0, len(p.Assets))
	for _, asset := range p.Assets {
		denoms = append(denoms, asset.Balance.Denom)
	}
	return denoms
}

// Validate checks the structural invariants of a pool record.
func (p InterchainLiquidityPool) Validate() error {
	if strings.TrimSpace(p.Id) == "" {
		return errorsmod.Wrap(ErrInvalidPoolID, "empty pool id")
	}
	if len(p.Assets) != 2 {
		return errorsmod.Wrapf(ErrInvalidDenomPair, "pool needs exactly two assets, got %d", len(p.Assets))
	}
	if err := ValidateAssets(p.Assets); err != nil {
		return err
	}
	if p.Supply.Denom != p.Id {
		return errorsmod.Wrapf(ErrDenomMismatch, "supply denom %s must equal pool id %s", p.Supply.Denom, p.Id)
	}
	if p.Supply.Amount.IsNil() || p.Supply.Amount.IsNegative() {
		return errorsmod.Wrapf(ErrInvalidAmount, "supply %s", p.Supply)
	}
	if p.SwapFee > FeePrecision {
		return errorsmod.Wrapf(ErrInvalidFeeRate, "%d above %d", p.SwapFee, FeePrecision)
	}
	if p.SourceChainId == "" || p.DestinationChainId == "" || p.SourceChainId == p.DestinationChainId {
		return errorsmod.Wrapf(ErrInvalidChainID, "source %q destination %q", p.SourceChainId, p.DestinationChainId)
	}
	if _, ok := poolStatusNames[p.Status]; !ok {
		return errorsmod.Wrapf(ErrInvalidPoolID, "unknown status %d", p.Status)
	}
	return nil
}

// ValidateAssets checks denom uniqueness, side coverage, weights summing to 100 and decimals.
func ValidateAssets(assets []PoolAsset) error {
	var (
		weightSum uint32
		seen      = make(map[string]bool, len(assets))
		sides     = make(map[PoolAssetSide]bool, len(assets))
	)
	for _, asset := range assets {
		if err := sdk.ValidateDenom(asset.Balance.Denom); err != nil {
			return errorsmod.Wrap(ErrInvalidDenomPair, err.Error())
		}
		if seen[asset.Balance.Denom] {
			return errorsmod.Wrapf(ErrInvalidDenomPair, "duplicate denom %s", asset.Balance.Denom)
		}
		seen[asset.Balance.Denom] = true

		if _, ok := poolSideNames[asset.Side]; !ok || sides[asset.Side] {
			return errorsmod.Wrapf(ErrInvalidDenomPair, "invalid or duplicate side %s", asset.Side)
		}
		sides[asset.Side] = true

		if asset.Balance.Amount.IsNil() || asset.Balance.Amount.IsNegative() {
			return errorsmod.Wrapf(ErrInvalidAmount, "balance %s", asset.Balance)
		}
		if asset.Weight == 0 || asset.Weight > 100 {
			return errorsmod.Wrapf(ErrInvalidWeightPair, "weight %d of %s", asset.Weight, asset.Balance.Denom)
		}
		if asset.Decimal > MaxTokenDecimals {
			return errorsmod.Wrapf(ErrInvalidDecimalPair, "decimal %d of %s", asset.Decimal, asset.Balance.Denom)
		}
		weightSum += asset.Weight
	}
	if weightSum != 100 {
		return errorsmod.Wrapf(ErrInvalidWeightPair, "weights sum to %d, expected 100", weightSum)
	}
	return nil
}
