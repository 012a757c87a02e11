package types

import (
	"time"

	errorsmod "cosmossdk.io/errors"
)

// DefaultTimeout is the packet timeout applied when a request sets neither timeout.
const DefaultTimeout = 600 * time.Second

// Params defines the governance-controlled settings of the module
type Params struct {
	// Enabled gates every state-changing request. Inbound packets are still processed.
	Enabled bool `json:"enabled"`
	// MaxFeeRate caps the swap fee a new pool may declare, in basis points.
	MaxFeeRate uint32 `json:"max_fee_rate"`
	// DefaultTimeoutSeconds is used when a request carries no timeout.
	DefaultTimeoutSeconds uint64 `json:"default_timeout_seconds"`
}

// DefaultParams returns default parameters for the module
func DefaultParams() Params {
	return Params{
		Enabled:               true,
		MaxFeeRate:            1000, // 10%
		DefaultTimeoutSeconds: uint64(DefaultTimeout / time.Second),
	}
}

// Validate checks parameter bounds
func (p Params) Validate() error {
	if p.MaxFeeRate > FeePrecision {
		return errorsmod.Wrapf(ErrInvalidParams, "max fee rate %d above %d", p.MaxFeeRate, FeePrecision)
	}
	if p.DefaultTimeoutSeconds == 0 {
		return errorsmod.Wrap(ErrInvalidParams, "default timeout must be positive")
	}
	return nil
}
