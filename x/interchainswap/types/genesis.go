package types

import (
	"fmt"
)

// GenesisState defines the module's genesis state
type GenesisState struct {
	Params   Params                    `json:"params"`
	Config   Config                    `json:"config"`
	PortId   string                    `json:"port_id"`
	Pools    []InterchainLiquidityPool `json:"pools"`
	Orders   []MultiAssetDepositOrder  `json:"orders"`
	InFlight []InFlightPacket          `json:"in_flight,omitempty"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:   DefaultParams(),
		Config:   DefaultConfig(),
		PortId:   PortID,
		Pools:    []InterchainLiquidityPool{},
		Orders:   []MultiAssetDepositOrder{},
		InFlight: []InFlightPacket{},
	}
}

// Validate ensures the genesis state is well-formed
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.PortId == "" {
		return fmt.Errorf("port id cannot be empty")
	}

	pools := make(map[string]bool, len(gs.Pools))
	for _, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return fmt.Errorf("pool %s: %w", pool.Id, err)
		}
		if pools[pool.Id] {
			return fmt.Errorf("duplicate pool %s", pool.Id)
		}
		pools[pool.Id] = true
	}

	orders := make(map[string]bool, len(gs.Orders))
	live := make(map[string]string)
	for _, order := range gs.Orders {
		if err := order.Validate(); err != nil {
			return fmt.Errorf("order %s: %w", order.Id, err)
		}
		if !pools[order.PoolId] {
			return fmt.Errorf("order %s references unknown pool %s", order.Id, order.PoolId)
		}
		key := order.PoolId + "/" + order.Id
		if orders[key] {
			return fmt.Errorf("duplicate order %s", key)
		}
		orders[key] = true

		if order.IsLive() {
			triple := order.SourceMaker + "/" + order.PoolId + "/" + order.DestinationTaker
			if other, ok := live[triple]; ok {
				return fmt.Errorf("orders %s and %s are both pending for %s", other, order.Id, triple)
			}
			live[triple] = order.Id
		}
	}

	packets := make(map[string]bool, len(gs.InFlight))
	for _, record := range gs.InFlight {
		if record.Channel == "" || record.Sequence == 0 {
			return fmt.Errorf("in-flight record without channel or sequence")
		}
		if !record.Type.IsValid() {
			return fmt.Errorf("in-flight record %s/%d has invalid type", record.Channel, record.Sequence)
		}
		if !record.Escrowed.IsValid() {
			return fmt.Errorf("in-flight record %s/%d has invalid escrow %s", record.Channel, record.Sequence, record.Escrowed)
		}
		key := fmt.Sprintf("%s/%d", record.Channel, record.Sequence)
		if packets[key] {
			return fmt.Errorf("duplicate in-flight record %s", key)
		}
		packets[key] = true
	}
	return nil
}
