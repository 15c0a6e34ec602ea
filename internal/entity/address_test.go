package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x6802669e33c20E371dE7A33Fc74aF8534eDAfA57")
	require.NoError(t, err)
	assert.Equal(t, Address("0x6802669e33c20e371de7a33fc74af8534edafa57"), addr)

	noPrefix, err := ParseAddress("6802669e33c20e371de7a33fc74af8534edafa57")
	require.NoError(t, err)
	assert.Equal(t, addr, noPrefix)
}

func TestParseAddressRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "0x", "0x1234", "0xzz02669e33c20e371de7a33fc74af8534edafa57", "0x6802669e33c20e371de7a33fc74af8534edafa5700"} {
		_, err := ParseAddress(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, in)
	}
}

func TestAddressValid(t *testing.T) {
	assert.True(t, Address("0x6802669e33c20e371de7a33fc74af8534edafa57").Valid())
	assert.False(t, ZeroAddress.Valid())
	assert.False(t, Address("").Valid())
	assert.False(t, Address("0x6802669E33C20E371DE7A33FC74AF8534EDAFA57").Valid(), "upper case is not normalised")
}

func TestAddressBech32RoundTrip(t *testing.T) {
	addr := MustParseAddress("0x6802669e33c20e371de7a33fc74af8534edafa57")

	b32 := addr.Bech32()
	require.NotEmpty(t, b32)
	assert.Equal(t, "zil1", b32[:4])

	back, err := ParseAddress(b32)
	require.NoError(t, err)
	assert.Equal(t, addr, back)
}

func TestDeriveAddress(t *testing.T) {
	deployer := MustParseAddress("0x36c4406399ed3d79f6baca37720c188d4353d5f0")

	first := DeriveAddress(deployer, 0)
	second := DeriveAddress(deployer, 1)

	assert.True(t, first.Valid())
	assert.True(t, second.Valid())
	assert.NotEqual(t, first, second)
	assert.Equal(t, first, DeriveAddress(deployer, 0))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	var body struct {
		To   Address `json:"to"`
		From Address `json:"from"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"to":"0x6802669E33C20E371DE7A33FC74AF8534EDAFA57","from":""}`), &body))
	assert.Equal(t, Address("0x6802669e33c20e371de7a33fc74af8534edafa57"), body.To)
	assert.Equal(t, Address(""), body.From)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"to":"0x1234"}`), &body), ErrInvalidAddress)
}
