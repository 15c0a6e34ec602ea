package marketplace

import (
	"context"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"go.uber.org/zap"
)

// ListToken puts the caller's token up for sale and takes custody of it.
// A token with an open listing cannot be listed again until that listing closes.
func (e engine) ListToken(ctx context.Context, caller, collectionAddr entity.Address, tokenId uint64, price entity.Wei) (entity.Listing, error) {
	key := listingKey{collectionAddr, tokenId}

	var listing entity.Listing
	err := e.locked(ctx, []listingKey{key}, func(events *event.Batch) error {
		var err error
		listing, err = e.list(ctx, events, caller, key, price)
		return err
	})

	return listing, err
}

// list expects the stripe for key to be held.
func (e engine) list(ctx context.Context, events *event.Batch, caller entity.Address, key listingKey, price entity.Wei) (entity.Listing, error) {
	collectionAddr, tokenId := key.collection, key.tokenId

	logger := zap.L().With(
		zap.String("collection", collectionAddr.String()),
		zap.Uint64("tokenId", tokenId),
		zap.String("caller", caller.String()),
		zap.String("price", price.String()),
	)

	if !e.collections.IsElysiumCollection(collectionAddr) {
		logger.Warn("Marketplace: List rejected, unknown collection")
		return entity.Listing{}, ErrUnknownCollection
	}
	c, err := e.collections.GetCollection(collectionAddr)
	if err != nil {
		return entity.Listing{}, err
	}

	if listing, ok := e.activeListing(key); ok {
		if listing.Seller == caller {
			return entity.Listing{}, ErrAlreadyListed
		}
		return entity.Listing{}, ErrNotOwner
	}

	owner, err := c.OwnerOf(tokenId)
	if err != nil {
		return entity.Listing{}, err
	}
	if owner != caller {
		logger.Warn("Marketplace: List rejected, not token owner")
		return entity.Listing{}, ErrNotOwner
	}

	fee := e.GetPlatformFee()
	if price.Cmp(fee) <= 0 {
		logger.With(zap.String("fee", fee.String())).Warn("Marketplace: List rejected, price too low")
		return entity.Listing{}, ErrPriceTooLow
	}

	approved, err := c.IsApprovedOrOwner(e.address, tokenId)
	if err != nil {
		return entity.Listing{}, err
	}
	if !approved {
		return entity.Listing{}, ErrNotApproved
	}

	if err := ctx.Err(); err != nil {
		return entity.Listing{}, err
	}

	if _, err := c.WithEmitter(events).Transfer(e.address, caller, e.address, tokenId); err != nil {
		logger.With(zap.Error(err)).Error("Marketplace: Failed to take custody")
		return entity.Listing{}, err
	}

	listing := entity.Listing{
		Collection:  collectionAddr,
		TokenId:     tokenId,
		Seller:      caller,
		Price:       price,
		PlatformFee: fee,
		Status:      entity.ListingActive,
		ListedAt:    time.Now().UTC(),
	}
	e.storeListing(listing)

	logger.Info("Marketplace: Token listed")
	events.EmitEvent(event.TokenListedEvent, event.TokenListed{Listing: listing})

	return listing, nil
}

// CancelListToken closes the seller's listing and returns the token to them.
func (e engine) CancelListToken(ctx context.Context, caller, collectionAddr entity.Address, tokenId uint64) (entity.Listing, error) {
	key := listingKey{collectionAddr, tokenId}

	var listing entity.Listing
	err := e.locked(ctx, []listingKey{key}, func(events *event.Batch) error {
		var err error
		listing, err = e.cancel(ctx, events, caller, key)
		return err
	})

	return listing, err
}

// cancel expects the stripe for key to be held.
func (e engine) cancel(ctx context.Context, events *event.Batch, caller entity.Address, key listingKey) (entity.Listing, error) {
	logger := zap.L().With(
		zap.String("collection", key.collection.String()),
		zap.Uint64("tokenId", key.tokenId),
		zap.String("caller", caller.String()),
	)

	listing, ok := e.activeListing(key)
	if !ok {
		return entity.Listing{}, ErrNotListed
	}
	if listing.Seller != caller {
		logger.Warn("Marketplace: Cancel rejected, not seller")
		return entity.Listing{}, ErrNotOwner
	}

	c, err := e.collections.GetCollection(key.collection)
	if err != nil {
		return entity.Listing{}, err
	}

	if err := ctx.Err(); err != nil {
		return entity.Listing{}, err
	}

	if _, err := c.WithEmitter(events).Transfer(e.address, e.address, listing.Seller, key.tokenId); err != nil {
		logger.With(zap.Error(err)).Error("Marketplace: Failed to return custody")
		return entity.Listing{}, err
	}

	listing = e.closeListing(listing, entity.ListingCancelled, time.Now().UTC())

	logger.Info("Marketplace: Listing cancelled")
	events.EmitEvent(event.ListingCancelledEvent, event.ListingCancelled{Listing: listing})

	return listing, nil
}

// BurnToken burns through the marketplace so a listed token has its listing
// cancelled first. Only the seller can burn a listed token.
func (e engine) BurnToken(ctx context.Context, caller, collectionAddr entity.Address, tokenId uint64) (entity.Token, error) {
	key := listingKey{collectionAddr, tokenId}

	var burned entity.Token
	err := e.locked(ctx, []listingKey{key}, func(events *event.Batch) error {
		c, err := e.collections.GetCollection(collectionAddr)
		if err != nil {
			return err
		}

		if _, listed := e.activeListing(key); listed {
			if _, err := e.cancel(ctx, events, caller, key); err != nil {
				return err
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		burned, err = c.WithEmitter(events).Burn(caller, tokenId)
		return err
	})

	return burned, err
}
