package marketplace

import (
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
)

// Split is how a sale price is divided. Fee + Royalty + SellerProceeds == Price.
type Split struct {
	Price          entity.Wei
	Fee            entity.Wei
	Royalty        entity.Wei
	RoyaltyBps     uint64
	SellerProceeds entity.Wei
}

// ComputeSplit takes the flat platform fee off the top and the royalty as basis
// points of the price, capped to what remains after the fee.
func ComputeSplit(price, fee entity.Wei, royaltyBps uint64) (Split, error) {
	if price.Cmp(fee) <= 0 {
		return Split{}, ErrPriceTooLow
	}

	remaining, err := price.Sub(fee)
	if err != nil {
		return Split{}, ErrPriceTooLow
	}

	royalty := price.Share(royaltyBps)
	if remaining.LessThan(royalty) {
		royalty = remaining
	}

	proceeds, err := remaining.Sub(royalty)
	if err != nil {
		return Split{}, err
	}

	return Split{
		Price:          price,
		Fee:            fee,
		Royalty:        royalty,
		RoyaltyBps:     royaltyBps,
		SellerProceeds: proceeds,
	}, nil
}
