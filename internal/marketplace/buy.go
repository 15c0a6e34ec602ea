package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/ZilDuck/elysium-marketplace/internal/ledger"
	"go.uber.org/zap"
)

type settlement struct {
	listing          entity.Listing
	collection       collection.Collection
	split            Split
	royaltyRecipient entity.Address
}

// BuyToken settles a single listing. The buyer is charged the listing price;
// payment only has to cover it.
func (e engine) BuyToken(ctx context.Context, buyer, collectionAddr entity.Address, tokenId uint64, payment entity.Wei) (entity.Sale, error) {
	key := listingKey{collectionAddr, tokenId}

	var sale entity.Sale
	err := e.locked(ctx, []listingKey{key}, func(events *event.Batch) error {
		s, err := e.prepare(buyer, key, payment)
		if err != nil {
			zap.L().With(
				zap.Error(err),
				zap.String("collection", collectionAddr.String()),
				zap.Uint64("tokenId", tokenId),
				zap.String("buyer", buyer.String()),
			).Warn("Marketplace: Buy rejected")
			return err
		}

		sales, err := e.settle(ctx, events, buyer, []settlement{s}, func(_ int, err error) error { return err })
		if err != nil {
			return err
		}

		sale = sales[0]
		return nil
	})
	if err != nil {
		return entity.Sale{}, err
	}

	return sale, nil
}

// BuyTokensBulk settles every item or none of them. Errors name the failing item index.
func (e engine) BuyTokensBulk(ctx context.Context, buyer entity.Address, items []BuyItem) ([]entity.Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	keys := make([]listingKey, len(items))
	seen := make(map[listingKey]bool, len(items))
	for i, item := range items {
		keys[i] = listingKey{item.Collection, item.TokenId}
		if seen[keys[i]] {
			return nil, itemError(i, ErrDuplicateItem)
		}
		seen[keys[i]] = true
	}

	var sales []entity.Sale
	err := e.locked(ctx, keys, func(events *event.Batch) error {
		settlements := make([]settlement, len(items))
		for i, item := range items {
			s, err := e.prepare(buyer, keys[i], item.Payment)
			if err != nil {
				zap.L().With(
					zap.Error(err),
					zap.Int("item", i),
					zap.Int("items", len(items)),
					zap.String("buyer", buyer.String()),
				).Warn("Marketplace: Bulk buy rejected")
				return itemError(i, err)
			}
			settlements[i] = s
		}

		var err error
		sales, err = e.settle(ctx, events, buyer, settlements, itemError)
		return err
	})
	if err != nil {
		return nil, err
	}

	return sales, nil
}

func itemError(i int, err error) error {
	return fmt.Errorf("item %d: %w", i, err)
}

// prepare validates a purchase without changing any state. The stripe for key must be held.
func (e engine) prepare(buyer entity.Address, key listingKey, payment entity.Wei) (settlement, error) {
	if !buyer.Valid() {
		return settlement{}, ErrInvalidAddress
	}

	listing, ok := e.activeListing(key)
	if !ok {
		return settlement{}, ErrNotListed
	}
	if payment.LessThan(listing.Price) {
		return settlement{}, ErrInsufficientPayment
	}

	c, err := e.collections.GetCollection(key.collection)
	if err != nil {
		return settlement{}, err
	}

	split, err := ComputeSplit(listing.Price, listing.PlatformFee, c.RoyaltyFee())
	if err != nil {
		return settlement{}, err
	}

	return settlement{
		listing:          listing,
		collection:       c,
		split:            split,
		royaltyRecipient: c.RoyaltyRecipient(),
	}, nil
}

// settle is the commit point. Nothing after the ctx check is cancellable.
// Payouts are staged in one ledger transaction and token moves are journaled,
// so a failure leaves no partial state behind. Transfer events are held back
// until the ledger has committed and are dropped when it aborts.
func (e engine) settle(ctx context.Context, events *event.Batch, buyer entity.Address, settlements []settlement, wrap func(int, error) error) ([]entity.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	feeRecipient := e.GetFeeRecipient()
	moved := &event.Batch{}
	j := &journal{}

	err := e.ledger.Atomic(func(tx ledger.Tx) error {
		for i, s := range settlements {
			if err := payout(tx, buyer, feeRecipient, s); err != nil {
				return wrap(i, err)
			}
		}

		for i, s := range settlements {
			c := s.collection.WithEmitter(moved)
			if _, err := c.Transfer(e.address, e.address, buyer, s.listing.TokenId); err != nil {
				j.revert()
				return wrap(i, err)
			}
			j.append(tokenMove{collection: c, tokenId: s.listing.TokenId, from: e.address, to: buyer})
		}

		return nil
	})
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("buyer", buyer.String()), zap.Int("items", len(settlements))).
			Warn("Marketplace: Settlement aborted")
		return nil, err
	}
	events.Append(moved)

	now := time.Now().UTC()
	sales := make([]entity.Sale, len(settlements))
	for i, s := range settlements {
		listing := e.closeListing(s.listing, entity.ListingSold, now)
		sales[i] = entity.Sale{
			ID:               entity.NewSaleID(),
			Collection:       listing.Collection,
			TokenId:          listing.TokenId,
			Seller:           listing.Seller,
			Buyer:            buyer,
			Price:            s.split.Price,
			Fee:              s.split.Fee,
			FeeRecipient:     feeRecipient,
			Royalty:          s.split.Royalty,
			RoyaltyBps:       s.split.RoyaltyBps,
			RoyaltyRecipient: s.royaltyRecipient,
			SellerProceeds:   s.split.SellerProceeds,
			SoldAt:           now,
		}

		zap.L().With(
			zap.String("collection", listing.Collection.String()),
			zap.Uint64("tokenId", listing.TokenId),
			zap.String("seller", listing.Seller.String()),
			zap.String("buyer", buyer.String()),
			zap.String("price", s.split.Price.String()),
			zap.String("fee", s.split.Fee.String()),
			zap.String("royalty", s.split.Royalty.String()),
		).Info("Marketplace: Token sold")

		events.EmitEvent(event.TokenSoldEvent, event.TokenSold{Listing: listing, Sale: sales[i]})
	}

	return sales, nil
}

func payout(tx ledger.Tx, buyer, feeRecipient entity.Address, s settlement) error {
	if err := tx.Transfer(buyer, feeRecipient, s.split.Fee); err != nil {
		return err
	}
	if err := tx.Transfer(buyer, s.royaltyRecipient, s.split.Royalty); err != nil {
		return err
	}

	return tx.Transfer(buyer, s.listing.Seller, s.split.SellerProceeds)
}
