package keeper_test

import (
	"testing"

	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/liquidityhub/x/shared/keeper"
)

func TestValidateAuthority(t *testing.T) {
	const gov = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"

	tests := []struct {
		name     string
		expected string
		actual   string
		wantErr  bool
	}{
		{name: "valid authority match", expected: gov, actual: gov},
		{name: "authority mismatch", expected: gov, actual: "cosmos1fl48vsnmsdzcv85q5d2q4z5ajdha8yu34mf0eh", wantErr: true},
		{name: "empty actual authority", expected: gov, actual: "", wantErr: true},
		{name: "unconfigured authority", expected: "", actual: "", wantErr: true},
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
