package types

import (
	"errors"

	errorsmod "cosmossdk.io/errors"
)

// Validation errors: malformed requests, rejected before any state is touched.
var (
	ErrInvalidAddress     = errorsmod.Register(ModuleName, 2, "invalid address")
	ErrInvalidAmount      = errorsmod.Register(ModuleName, 3, "invalid amount")
	ErrInvalidDenomPair   = errorsmod.Register(ModuleName, 4, "invalid token denom pair")
	ErrInvalidWeightPair  = errorsmod.Register(ModuleName, 5, "invalid weight pair")
	ErrInvalidDecimalPair = errorsmod.Register(ModuleName, 6, "invalid decimal pair")
	ErrInvalidFeeRate     = errorsmod.Register(ModuleName, 7, "invalid fee rate")
	ErrInvalidSlippage    = errorsmod.Register(ModuleName, 8, "invalid slippage tolerance")
	ErrSlippageExceeded   = errorsmod.Register(ModuleName, 9, "slippage tolerance exceeded")
	ErrFundsMismatch      = errorsmod.Register(ModuleName, 10, "attached funds do not match declared amount")
	ErrInvalidChainID     = errorsmod.Register(ModuleName, 11, "invalid chain id")
	ErrInvalidSwapType    = errorsmod.Register(ModuleName, 12, "invalid swap type")
	ErrInvalidPoolID      = errorsmod.Register(ModuleName, 13, "invalid pool id")
	ErrInvalidOrderID     = errorsmod.Register(ModuleName, 14, "invalid order id")
	ErrInvalidTimeout     = errorsmod.Register(ModuleName, 15, "invalid packet timeout")
	ErrInvalidParams      = errorsmod.Register(ModuleName, 16, "invalid module parameters")
	ErrInvalidGenesis     = errorsmod.Register(ModuleName, 17, "invalid genesis state")
)

// Not-found errors.
var (
	ErrPoolNotFound      = errorsmod.Register(ModuleName, 20, "pool not found")
	ErrOrderNotFound     = errorsmod.Register(ModuleName, 21, "multi-asset deposit order not found")
	ErrDenomNotFound     = errorsmod.Register(ModuleName, 22, "denom not found in pool")
	ErrAssetSideNotFound = errorsmod.Register(ModuleName, 23, "asset side not found in pool")
	ErrAssetNotFound     = errorsmod.Register(ModuleName, 24, "asset not found in pool")
	ErrInFlightNotFound  = errorsmod.Register(ModuleName, 25, "in-flight packet record not found")
)

// State-conflict errors: the request is well formed but the target is in the wrong state.
var (
	ErrPoolAlreadyExists         = errorsmod.Register(ModuleName, 30, "pool already exists")
	ErrPoolNotActive             = errorsmod.Register(ModuleName, 31, "pool is not active")
	ErrPoolNotInitialized        = errorsmod.Register(ModuleName, 32, "pool is not in initialized status")
	ErrPoolCancelPending         = errorsmod.Register(ModuleName, 33, "pool cancellation is in flight")
	ErrPreviousOrderNotCompleted = errorsmod.Register(ModuleName, 34, "previous order is not completed")
	ErrOrderAlreadyCompleted     = errorsmod.Register(ModuleName, 35, "order already completed")
	ErrOrderCancelled            = errorsmod.Register(ModuleName, 36, "order already cancelled")
	ErrUnauthorized              = errorsmod.Register(ModuleName, 37, "sender is not authorized for this operation")
	ErrModuleDisabled            = errorsmod.Register(ModuleName, 38, "interchain swap is disabled")
	ErrWrongChain                = errorsmod.Register(ModuleName, 39, "operation is not allowed on this chain")
)

// Arithmetic errors: a computation breach rather than a malformed request.
var (
	ErrMath                  = errorsmod.Register(ModuleName, 40, "invariant math failure")
	ErrArithmetic            = errorsmod.Register(ModuleName, 41, "arithmetic overflow")
	ErrInsufficientBalance   = errorsmod.Register(ModuleName, 42, "insufficient pool asset balance")
	ErrInsufficientSupply    = errorsmod.Register(ModuleName, 43, "insufficient pool supply")
	ErrDenomMismatch         = errorsmod.Register(ModuleName, 44, "denom does not match pool supply")
	ErrInvalidWithdrawAmount = errorsmod.Register(ModuleName, 45, "invalid withdraw amount")
)

// Protocol errors.
var (
	ErrInvalidPacket          = errorsmod.Register(ModuleName, 50, "invalid packet data")
	ErrInvalidVersion         = errorsmod.Register(ModuleName, 51, "invalid channel version")
	ErrInvalidChannelOrdering = errorsmod.Register(ModuleName, 52, "invalid channel ordering")
	ErrInvalidPort            = errorsmod.Register(ModuleName, 53, "invalid port")
	ErrChannelNotFound        = errorsmod.Register(ModuleName, 54, "channel not found")
	ErrChannelCapNotFound     = errorsmod.Register(ModuleName, 55, "channel capability not found")
	ErrCannotCloseChannel     = errorsmod.Register(ModuleName, 56, "user cannot close channel")
	ErrRefundFailed           = errorsmod.Register(ModuleName, 57, "refund failed")
)

// ErrorClass groups module errors by how a caller should react to them.
type ErrorClass string

const (
	ErrorClassValidation ErrorClass = "validation"
	ErrorClassNotFound   ErrorClass = "not_found"
	ErrorClassConflict   ErrorClass = "state_conflict"
	ErrorClassArithmetic ErrorClass = "arithmetic"
	ErrorClassProtocol   ErrorClass = "protocol"
	ErrorClassUnknown    ErrorClass = "unknown"
)

// Classify maps a (possibly wrapped) error onto its class using the code ranges above.
// Errors registered by other codespaces classify as unknown.
func Classify(err error) ErrorClass {
	var registered *errorsmod.Error
	if !errors.As(err, &registered) || registered.Codespace() != ModuleName {
		return ErrorClassUnknown
	}

	switch code := registered.ABCICode(); {
	case code < 20:
		return ErrorClassValidation
	case code < 30:
		return ErrorClassNotFound
	case code < 40:
		return ErrorClassConflict
	case code < 50:
		return ErrorClassArithmetic
	case code < 60:
		return ErrorClassProtocol
	default:
		return ErrorClassUnknown
	}
}
