package ibc

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
)

// CapabilityClaimer claims channel capabilities handed out by IBC core.
type CapabilityClaimer interface {
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// ChannelOpenValidator checks the handshake callbacks of an application bound to a
// single port, ordering and version.
type ChannelOpenValidator struct {
	expectedVersion  string
	expectedPort     string
	expectedOrdering channeltypes.Order
	claimer          CapabilityClaimer
}

// NewChannelOpenValidator creates a new channel open validator.
func NewChannelOpenValidator(
	version string,
	port string,
	ordering channeltypes.Order,
	claimer CapabilityClaimer,
) *ChannelOpenValidator {
	return &ChannelOpenValidator{
		expectedVersion:  version,
		expectedPort:     port,
		expectedOrdering: ordering,
		claimer:          claimer,
	}
}

// ValidateChannelOpenInit validates the initiating side of the handshake and claims the
// channel capability. An empty version is answered with the expected one.
func (cov *ChannelOpenValidator) ValidateChannelOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	version string,
) (string, error) {
	if version == "" {
		version = cov.expectedVersion
	}
	if err := cov.validate(order, portID, version); err != nil {
		return "", err
	}
	if err := cov.claim(ctx, portID, channelID, chanCap); err != nil {
		return "", err
	}
	return version, nil
}

// ValidateChannelOpenTry validates the counterparty side of the handshake and claims the
// channel capability.
func (cov *ChannelOpenValidator) ValidateChannelOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterpartyVersion string,
) (string, error) {
	if err := cov.validate(order, portID, counterpartyVersion); err != nil {
		return "", err
	}
	if err := cov.claim(ctx, portID, channelID, chanCap); err != nil {
		return "", err
	}
	return cov.expectedVersion, nil
}

// ValidateChannelOpenAck validates the version chosen by the counterparty.
func (cov *ChannelOpenValidator) ValidateChannelOpenAck(counterpartyVersion string) error {
	if counterpartyVersion != cov.expectedVersion {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelVersion,
			"invalid counterparty version: expected %s, got %s", cov.expectedVersion, counterpartyVersion)
	}
	return nil
}

func (cov *ChannelOpenValidator) validate(order channeltypes.Order, portID, version string) error {
	if order != cov.expectedOrdering {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", cov.expectedOrdering, order)
	}
	if version != cov.expectedVersion {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelVersion,
			"expected version %s, got %s", cov.expectedVersion, version)
	}
	if portID != cov.expectedPort {
		return errorsmod.Wrapf(porttypes.ErrInvalidPort,
			"expected port %s, got %s", cov.expectedPort, portID)
	}
	return nil
}

func (cov *ChannelOpenValidator) claim(ctx sdk.Context, portID, channelID string, chanCap *capabilitytypes.Capability) error {
	if err := cov.claimer.ClaimCapability(ctx, chanCap, host.ChannelCapabilityPath(portID, channelID)); err != nil {
		return errorsmod.Wrap(err, "failed to claim channel capability")
	}
	return nil
}
