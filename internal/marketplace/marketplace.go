package marketplace

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/ZilDuck/elysium-marketplace/internal/ledger"
)

// Collections resolves the collections the marketplace is allowed to trade.
type Collections interface {
	IsElysiumCollection(address entity.Address) bool
	GetCollection(address entity.Address) (collection.Collection, error)
}

type Engine interface {
	Address() entity.Address
	Owner() entity.Address

	ListToken(ctx context.Context, caller, collection entity.Address, tokenId uint64, price entity.Wei) (entity.Listing, error)
	CancelListToken(ctx context.Context, caller, collection entity.Address, tokenId uint64) (entity.Listing, error)
	BuyToken(ctx context.Context, buyer, collection entity.Address, tokenId uint64, payment entity.Wei) (entity.Sale, error)
	BuyTokensBulk(ctx context.Context, buyer entity.Address, items []BuyItem) ([]entity.Sale, error)
	BurnToken(ctx context.Context, caller, collection entity.Address, tokenId uint64) (entity.Token, error)

	UpdatePlatformFee(caller entity.Address, fee entity.Wei) (entity.PlatformConfig, error)
	ChangeFeeRecipient(caller, recipient entity.Address) (entity.PlatformConfig, error)
	GetPlatformFee() entity.Wei
	GetFeeRecipient() entity.Address
	Platform() entity.PlatformConfig

	GetListing(collection entity.Address, tokenId uint64) (entity.Listing, error)
	ActiveListings() []entity.Listing
}

type BuyItem struct {
	Collection entity.Address `json:"collection"`
	TokenId    uint64         `json:"tokenId"`
	Payment    entity.Wei     `json:"payment"`
}

type engine struct {
	address entity.Address

	platformMu *sync.RWMutex
	platform   *entity.PlatformConfig

	listingsMu *sync.RWMutex
	listings   map[listingKey]entity.Listing

	locks       lockTable
	collections Collections
	ledger      ledger.Ledger
	emitter     event.Emitter
}

// New creates the marketplace. The fee recipient starts as the owner.
func New(
	owner, address entity.Address,
	fee entity.Wei,
	lockStripes int,
	collections Collections,
	l ledger.Ledger,
	emitter event.Emitter,
) (Engine, error) {
	if !owner.Valid() || !address.Valid() {
		return nil, ErrInvalidAddress
	}

	return engine{
		address:    address,
		platformMu: &sync.RWMutex{},
		platform: &entity.PlatformConfig{
			Owner:        owner,
			Fee:          fee,
			FeeRecipient: owner,
		},
		listingsMu:  &sync.RWMutex{},
		listings:    make(map[listingKey]entity.Listing),
		locks:       newLockTable(lockStripes),
		collections: collections,
		ledger:      l,
		emitter:     emitter,
	}, nil
}

func (e engine) Address() entity.Address {
	return e.address
}

func (e engine) Owner() entity.Address {
	return e.Platform().Owner
}

func (e engine) GetListing(collection entity.Address, tokenId uint64) (entity.Listing, error) {
	e.listingsMu.RLock()
	defer e.listingsMu.RUnlock()

	listing, ok := e.listings[listingKey{collection, tokenId}]
	if !ok {
		return entity.Listing{}, ErrNotListed
	}

	return listing, nil
}

// ActiveListings returns the open listings, oldest first.
func (e engine) ActiveListings() []entity.Listing {
	e.listingsMu.RLock()
	listings := make([]entity.Listing, 0, len(e.listings))
	for _, listing := range e.listings {
		if listing.Active() {
			listings = append(listings, listing)
		}
	}
	e.listingsMu.RUnlock()

	sort.Slice(listings, func(i, j int) bool {
		if listings[i].ListedAt.Equal(listings[j].ListedAt) {
			if listings[i].Collection == listings[j].Collection {
				return listings[i].TokenId < listings[j].TokenId
			}
			return listings[i].Collection < listings[j].Collection
		}
		return listings[i].ListedAt.Before(listings[j].ListedAt)
	})

	return listings
}

func (e engine) activeListing(key listingKey) (entity.Listing, bool) {
	e.listingsMu.RLock()
	defer e.listingsMu.RUnlock()

	listing, ok := e.listings[key]
	return listing, ok && listing.Active()
}

func (e engine) storeListing(listing entity.Listing) {
	e.listingsMu.Lock()
	defer e.listingsMu.Unlock()

	e.listings[listingKey{listing.Collection, listing.TokenId}] = listing
}

func (e engine) closeListing(listing entity.Listing, status entity.ListingStatus, at time.Time) entity.Listing {
	listing.Status = status
	listing.ClosedAt = &at
	e.storeListing(listing)

	return listing
}

func (e engine) emit(eventType event.Type, msg interface{}) {
	if e.emitter != nil {
		e.emitter.EmitEvent(eventType, msg)
	}
}
