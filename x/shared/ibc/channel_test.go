package ibc

import (
	"errors"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	"github.com/stretchr/testify/require"
)

type mockCapabilityClaimer struct {
	shouldFail bool
	claimed    []string
}

func (m *mockCapabilityClaimer) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	if m.shouldFail {
		return errors.New("failed to claim capability")
	}
	m.claimed = append(m.claimed, name)
	return nil
}

func TestChannelOpenValidator_ValidateChannelOpenInit(t *testing.T) {
	tests := []struct {
		name        string
		order       channeltypes.Order
		portID      string
		version     string
		claimFails  bool
		wantVersion string
		wantErr     error
	}{
		{
			name:        "valid",
			order:       channeltypes.ORDERED,
			portID:      "swap",
			version:     "swap-1",
			wantVersion: "swap-1",
		},
		{
			name:        "empty version is negotiated",
			order:       channeltypes.ORDERED,
			portID:      "swap",
			wantVersion: "swap-1",
		},
		{
			name:    "unordered channel",
			order:   channeltypes.UNORDERED,
			portID:  "swap",
			version: "swap-1",
			wantErr: channeltypes.ErrInvalidChannelOrdering,
		},
		{
			name:    "wrong version",
			order:   channeltypes.ORDERED,
			portID:  "swap",
			version: "swap-2",
			wantErr: channeltypes.ErrInvalidChannelVersion,
		},
		{
			name:    "wrong port",
			order:   channeltypes.ORDERED,
			portID:  "transfer",
			version: "swap-1",
			wantErr: porttypes.ErrInvalidPort,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claimer := &mockCapabilityClaimer{shouldFail: tc.claimFails}
			validator := NewChannelOpenValidator("swap-1", "swap", channeltypes.ORDERED, claimer)

			version, err := validator.ValidateChannelOpenInit(sdk.Context{}, tc.order, tc.portID, "channel-0", &capabilitytypes.Capability{}, tc.version)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, claimer.claimed)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantVersion, version)
			require.Equal(t, []string{host.ChannelCapabilityPath("swap", "channel-0")}, claimer.claimed)
		})
	}
}

func TestChannelOpenValidator_ClaimFailure(t *testing.T) {
	validator := NewChannelOpenValidator("swap-1", "swap", channeltypes.ORDERED, &mockCapabilityClaimer{shouldFail: true})

	_, err := validator.ValidateChannelOpenTry(sdk.Context{}, channeltypes.ORDERED, "swap", "channel-0", &capabilitytypes.Capability{}, "swap-1")
	require.ErrorContains(t, err, "failed to claim channel capability")
}

func TestChannelOpenValidator_ValidateChannelOpenTry(t *testing.T) {
	claimer := &mockCapabilityClaimer{}
	validator := NewChannelOpenValidator("swap-1", "swap", channeltypes.ORDERED, claimer)

	version, err := validator.ValidateChannelOpenTry(sdk.Context{}, channeltypes.ORDERED, "swap", "channel-3", &capabilitytypes.Capability{}, "swap-1")
	require.NoError(t, err)
	require.Equal(t, "swap-1", version)
	require.Len(t, claimer.claimed, 1)

	_, err = validator.ValidateChannelOpenTry(sdk.Context{}, channeltypes.ORDERED, "swap", "channel-3", &capabilitytypes.Capability{}, "")
	require.ErrorIs(t, err, channeltypes.ErrInvalidChannelVersion)
}

func TestChannelOpenValidator_ValidateChannelOpenAck(t *testing.T) {
	validator := NewChannelOpenValidator("swap-1", "swap", channeltypes.ORDERED, &mockCapabilityClaimer{})

	require.NoError(t, validator.ValidateChannelOpenAck("swap-1"))
	require.ErrorIs(t, validator.ValidateChannelOpenAck("swap-2"), channeltypes.ErrInvalidChannelVersion)
}
