package keeper_test

import (
	"testing"

	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/ics101/interchainswap/x/shared/keeper"
)

func TestValidateAuthority(t *testing.T) {
	const (
		gov   = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"
		other = "cosmos1fl48vsnmsdzcv85q5d2q4z5ajdha8yu34mf0eh"
	)

	tests := []struct {
		name     string
		expected string
		actual   string
		wantErr  bool
	}{
		{"match", gov, gov, false},
		{"mismatch", gov, other, true},
		{"empty signer", gov, "", true},
		{"keeper without authority", "", "", true},
		{"keeper without authority rejects any signer", "", gov, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := keeper.ValidateAuthority(tt.expected, tt.actual)
			if tt.wantErr {
				require.ErrorIs(t, err, govtypes.ErrInvalidSigner)
				return
			}
			require.NoError(t, err)
		})
	}
}
