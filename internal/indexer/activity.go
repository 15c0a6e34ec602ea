package indexer

import (
	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/ZilDuck/elysium-marketplace/internal/factory"
	"go.uber.org/zap"
)

// ActivityIndexer projects marketplace and collection events onto the read side indices.
// It only buffers requests; the daemon persists them.
type ActivityIndexer interface {
	Subscribe(events event.Manager)
	Handle(eventType event.Type, msg interface{})
}

type activityIndexer struct {
	elastic elastic_search.Index
}

func NewActivityIndexer(elastic elastic_search.Index) ActivityIndexer {
	return activityIndexer{elastic}
}

var activityEvents = []event.Type{
	event.CollectionCreatedEvent,
	event.RoyaltyUpdatedEvent,
	event.TokenMintedEvent,
	event.TokenTransferredEvent,
	event.TokenBurnedEvent,
	event.TokenListedEvent,
	event.ListingCancelledEvent,
	event.TokenSoldEvent,
}

func (i activityIndexer) Subscribe(events event.Manager) {
	events.AddEventsListener(activityEvents, i.Handle)
}

func (i activityIndexer) Handle(eventType event.Type, msg interface{}) {
	switch e := msg.(type) {
	case event.CollectionCreated:
		i.elastic.AddIndexRequest(elastic_search.CollectionIndex.Get(), e.Collection, elastic_search.CollectionCreate)

	case event.RoyaltyUpdated:
		i.elastic.AddUpdateRequest(elastic_search.CollectionIndex.Get(), e.Collection, elastic_search.CollectionUpdate)

	case event.TokenMinted:
		i.elastic.AddIndexRequest(elastic_search.TokenIndex.Get(), e.Token, elastic_search.TokenMint)
		i.addAction(factory.CreateMintAction(e.Token, e.MintedBy))

	case event.TokenTransferred:
		i.elastic.AddUpdateRequest(elastic_search.TokenIndex.Get(), e.Token, elastic_search.TokenTransfer)
		i.addAction(factory.CreateTransferAction(e.Token, e.From, e.To, e.At))

	case event.TokenBurned:
		i.elastic.AddUpdateRequest(elastic_search.TokenIndex.Get(), e.Token, elastic_search.TokenBurn)
		i.addAction(factory.CreateBurnAction(e.Token, e.BurnedBy))

	case event.TokenListed:
		i.elastic.AddIndexRequest(elastic_search.ListingIndex.Get(), e.Listing, elastic_search.ListingCreate)
		i.addAction(factory.CreateListingAction(e.Listing))

	case event.ListingCancelled:
		i.elastic.AddUpdateRequest(elastic_search.ListingIndex.Get(), e.Listing, elastic_search.ListingClose)
		i.addAction(factory.CreateDelistingAction(e.Listing))

	case event.TokenSold:
		i.elastic.AddUpdateRequest(elastic_search.ListingIndex.Get(), e.Listing, elastic_search.ListingClose)
		i.elastic.AddIndexRequest(elastic_search.SaleIndex.Get(), e.Sale, elastic_search.SaleCreate)
		i.addAction(factory.CreateSaleAction(e.Sale))

	default:
		zap.L().With(zap.String("type", string(eventType))).Warn("ActivityIndexer: Unhandled event")
	}
}

func (i activityIndexer) addAction(action entity.Action) {
	i.elastic.AddIndexRequest(elastic_search.ActionIndex.Get(), action, elastic_search.ActionCreate)
}
