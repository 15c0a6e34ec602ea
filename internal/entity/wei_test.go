package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeiArithmetic(t *testing.T) {
	sum, err := NewWei(90).Add(NewWei(10))
	require.NoError(t, err)
	assert.Equal(t, NewWei(100), sum)

	diff, err := NewWei(100).Sub(NewWei(10))
	require.NoError(t, err)
	assert.Equal(t, NewWei(90), diff)

	_, err = NewWei(1).Sub(NewWei(2))
	assert.ErrorIs(t, err, ErrAmountOverflow)

	assert.True(t, NewWei(1).LessThan(NewWei(2)))
	assert.Equal(t, 0, NewWei(7).Cmp(NewWei(7)))
	assert.True(t, Wei{}.IsZero())
}

func TestWeiShare(t *testing.T) {
	tests := []struct {
		amount uint64
		bps    uint64
		want   uint64
	}{
		{100, 10, 0},
		{10000, 10, 10},
		{1000, 250, 25},
		{999, 5000, 499},
		{100, 10000, 100},
		{100, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, NewWei(tt.want), NewWei(tt.amount).Share(tt.bps), "%d @ %d bps", tt.amount, tt.bps)
	}
}

func TestWeiShareDoesNotOverflow(t *testing.T) {
	max, err := ParseWei("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	require.NoError(t, err)

	share := max.Share(BasisPoints)
	assert.Equal(t, max, share)
}

func TestWeiJson(t *testing.T) {
	b, err := json.Marshal(struct {
		Price Wei `json:"price"`
	}{NewWei(1000000000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"1000000000"}`, string(b))

	var out struct {
		Price Wei `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"42"}`), &out))
	assert.Equal(t, NewWei(42), out.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"price":42}`), &out))
	assert.Equal(t, NewWei(42), out.Price)

	assert.Error(t, json.Unmarshal([]byte(`{"price":"-1"}`), &out))
}
