// Package keeper holds helpers shared by module keepers.
package keeper

import (
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// ValidateAuthority checks that the signer of a governance-only message is the authority
// the keeper was built with.
//
//	if err := keeper.ValidateAuthority(ms.authority, msg.Authority); err != nil {
//	    return nil, err
//	}
func ValidateAuthority(expected, actual string) error {
	if expected == "" || expected != actual {
		return govtypes.ErrInvalidSigner.Wrapf(
			"invalid authority; expected %s, got %s",
			expected,
			actual,
		)
	}
	return nil
}
