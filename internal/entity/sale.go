package entity

import (
	"time"

	"github.com/nu7hatch/gouuid"
)

type Sale struct {
	ID               string    `json:"id"`
	Collection       Address   `json:"collection"`
	TokenId          uint64    `json:"tokenId"`
	Seller           Address   `json:"seller"`
	Buyer            Address   `json:"buyer"`
	Price            Wei       `json:"price"`
	Fee              Wei       `json:"fee"`
	FeeRecipient     Address   `json:"feeRecipient"`
	Royalty          Wei       `json:"royalty"`
	RoyaltyBps       uint64    `json:"royaltyBps"`
	RoyaltyRecipient Address   `json:"royaltyRecipient"`
	SellerProceeds   Wei       `json:"sellerProceeds"`
	SoldAt           time.Time `json:"soldAt"`
}

func (s Sale) Slug() string {
	return "sale-" + s.ID
}

func NewSaleID() string {
	u, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return u.String()
}
