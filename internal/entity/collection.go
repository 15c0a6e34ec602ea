package entity

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

type Collection struct {
	Address          Address   `json:"address"`
	Owner            Address   `json:"owner"`
	Name             string    `json:"name"`
	Symbol           string    `json:"symbol"`
	RoyaltyFee       uint64    `json:"royaltyFee"`
	RoyaltyRecipient Address   `json:"royaltyRecipient"`
	TotalSupply      uint64    `json:"totalSupply"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (c Collection) Slug() string {
	return CreateCollectionSlug(c.Address)
}

func CreateCollectionSlug(address Address) string {
	return slug.Make(fmt.Sprintf("collection-%s", address))
}
