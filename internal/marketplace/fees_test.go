package marketplace

import (
	"testing"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		price, fee, bps uint64
		royalty         uint64
		proceeds        uint64
	}{
		{100, 10, 10, 0, 90},
		{10000, 10, 1000, 1000, 8990},
		{100, 10, 10000, 90, 0},
		{100, 99, 5000, 1, 0},
		{1000, 0, 250, 25, 975},
	}

	for _, tt := range tests {
		split, err := ComputeSplit(entity.NewWei(tt.price), entity.NewWei(tt.fee), tt.bps)
		require.NoError(t, err)
		assert.Equal(t, entity.NewWei(tt.royalty), split.Royalty, "royalty for %+v", tt)
		assert.Equal(t, entity.NewWei(tt.proceeds), split.SellerProceeds, "proceeds for %+v", tt)

		total, _ := split.Fee.Add(split.Royalty)
		total, _ = total.Add(split.SellerProceeds)
		assert.Equal(t, split.Price, total)
	}
}

func TestComputeSplitPriceTooLow(t *testing.T) {
	_, err := ComputeSplit(entity.NewWei(1), entity.NewWei(10), 10)
	assert.ErrorIs(t, err, ErrPriceTooLow)

	_, err = ComputeSplit(entity.NewWei(10), entity.NewWei(10), 10)
	assert.ErrorIs(t, err, ErrPriceTooLow)
}
