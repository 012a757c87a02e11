package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"

	"github.com/ics101/interchainswap/x/interchainswap/types"
)

// SetInFlight records what an outbound packet escrowed
func (k Keeper) SetInFlight(ctx context.Context, record types.InFlightPacket) error {
	bz, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("SetInFlight: marshal: %w", err)
	}
	k.getStore(ctx).Set(InFlightKey(record.Channel, record.Sequence), bz)
	return nil
}

// GetInFlight returns the record of an outbound packet
func (k Keeper) GetInFlight(ctx context.Context, channelID string, sequence uint64) (types.InFlightPacket, error) {
	bz := k.getStore(ctx).Get(InFlightKey(channelID, sequence))
	if bz == nil {
		return types.InFlightPacket{}, errorsmod.Wrapf(types.ErrInFlightNotFound, "%s/%d", channelID, sequence)
	}

	var record types.InFlightPacket
	if err := json.Unmarshal(bz, &record); err != nil {
		return types.InFlightPacket{}, fmt.Errorf("GetInFlight: unmarshal: %w", err)
	}
	return record, nil
}

// DeleteInFlight removes the record of an outbound packet
func (k Keeper) DeleteInFlight(ctx context.Context, channelID string, sequence uint64) {
	k.getStore(ctx).Delete(InFlightKey(channelID, sequence))
}

// IterateInFlight walks every packet still waiting for its acknowledgement
func (k Keeper) IterateInFlight(ctx context.Context, cb func(record types.InFlightPacket) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), InFlightKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var record types.InFlightPacket
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			return fmt.Errorf("IterateInFlight: unmarshal: %w", err)
		}
		if cb(record) {
			break
		}
	}
	return nil
}
