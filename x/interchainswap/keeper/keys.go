package keeper

import (
	"encoding/binary"
)

// Store prefixes. Every key is a one-byte prefix followed by the record identity.
var (
	PoolKeyPrefix        = []byte{0x01}
	OrderKeyPrefix       = []byte{0x02}
	ActiveOrderKeyPrefix = []byte{0x03}
	ConfigKey            = []byte{0x04}
	ParamsKey            = []byte{0x05}
	InFlightKeyPrefix    = []byte{0x06}
	PoolTokenKeyPrefix   = []byte{0x07}
	PortKey              = []byte{0x08}
)

const keySeparator = "/"

// PoolKey returns the store key of a pool
func PoolKey(poolID string) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), []byte(poolID)...)
}

// OrderPoolPrefix returns the prefix under which every order of a pool is stored
func OrderPoolPrefix(poolID string) []byte {
	key := append(append([]byte{}, OrderKeyPrefix...), []byte(poolID)...)
	return append(key, keySeparator...)
}

// OrderKey returns the store key of a multi-asset deposit order
func OrderKey(poolID, orderID string) []byte {
	return append(OrderPoolPrefix(poolID), []byte(orderID)...)
}

// ActiveOrderKey returns the index key of the live order for a (maker, pool, taker) triple
func ActiveOrderKey(maker, poolID, taker string) []byte {
	return append(append([]byte{}, ActiveOrderKeyPrefix...), []byte(maker+keySeparator+poolID+keySeparator+taker)...)
}

// InFlightKey returns the key of the pending record of an outbound packet
func InFlightKey(channelID string, sequence uint64) []byte {
	seqBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBytes, sequence)

	key := append(append([]byte{}, InFlightKeyPrefix...), []byte(channelID+keySeparator)...)
	return append(key, seqBytes...)
}

// PoolTokenKey returns the key of the LP token registration of a pool
func PoolTokenKey(poolID string) []byte {
	return append(append([]byte{}, PoolTokenKeyPrefix...), []byte(poolID)...)
}
