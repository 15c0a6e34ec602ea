package entity

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
)

type ListingStatus string

const (
	ListingActive    ListingStatus = "listed"
	ListingSold      ListingStatus = "sold"
	ListingCancelled ListingStatus = "cancelled"
)

type Listing struct {
	Collection  Address       `json:"collection"`
	TokenId     uint64        `json:"tokenId"`
	Seller      Address       `json:"seller"`
	Price       Wei           `json:"price"`
	PlatformFee Wei           `json:"platformFee"`
	Status      ListingStatus `json:"status"`
	ListedAt    time.Time     `json:"listedAt"`
	ClosedAt    *time.Time    `json:"closedAt,omitempty"`
}

func (l Listing) Active() bool {
	return l.Status == ListingActive
}

func (l Listing) Slug() string {
	return CreateListingSlug(l.Collection, l.TokenId, l.ListedAt)
}

func CreateListingSlug(collection Address, tokenId uint64, listedAt time.Time) string {
	return slug.Make(fmt.Sprintf("listing-%s-%d-%d", collection, tokenId, listedAt.UnixNano()))
}
