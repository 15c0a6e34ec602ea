package factory

import (
	"fmt"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
)

func CreateMintAction(token entity.Token, mintedBy entity.Address) entity.Action {
	return entity.Action{
		Collection: token.Collection,
		TokenId:    token.TokenId,
		Action:     entity.MintAction,
		From:       mintedBy,
		To:         token.Owner,
		Reference:  fmt.Sprintf("%d", token.MintedAt.UnixNano()),
		Time:       token.MintedAt,
	}
}

func CreateTransferAction(token entity.Token, from, to entity.Address, at time.Time) entity.Action {
	return entity.Action{
		Collection: token.Collection,
		TokenId:    token.TokenId,
		Action:     entity.TransferAction,
		From:       from,
		To:         to,
		Reference:  fmt.Sprintf("%d-%s-%s", at.UnixNano(), from, to),
		Time:       at,
	}
}

func CreateBurnAction(token entity.Token, burnedBy entity.Address) entity.Action {
	action := entity.Action{
		Collection: token.Collection,
		TokenId:    token.TokenId,
		Action:     entity.BurnAction,
		From:       burnedBy,
		To:         entity.ZeroAddress,
		Reference:  "burn",
	}
	if token.BurnedAt != nil {
		action.Time = *token.BurnedAt
	}

	return action
}

func CreateListingAction(listing entity.Listing) entity.Action {
	return entity.Action{
		Collection: listing.Collection,
		TokenId:    listing.TokenId,
		Action:     entity.ListingAction,
		From:       listing.Seller,
		Cost:       listing.Price.String(),
		Fee:        listing.PlatformFee.String(),
		Reference:  listing.Slug(),
		Time:       listing.ListedAt,
	}
}

func CreateDelistingAction(listing entity.Listing) entity.Action {
	action := entity.Action{
		Collection: listing.Collection,
		TokenId:    listing.TokenId,
		Action:     entity.DelistingAction,
		To:         listing.Seller,
		Reference:  listing.Slug(),
	}
	if listing.ClosedAt != nil {
		action.Time = *listing.ClosedAt
	}

	return action
}

func CreateSaleAction(sale entity.Sale) entity.Action {
	return entity.Action{
		Collection: sale.Collection,
		TokenId:    sale.TokenId,
		Action:     entity.SaleAction,
		From:       sale.Seller,
		To:         sale.Buyer,
		Cost:       sale.Price.String(),
		Fee:        sale.Fee.String(),
		Royalty:    sale.Royalty.String(),
		Reference:  sale.ID,
		Time:       sale.SoldAt,
	}
}
