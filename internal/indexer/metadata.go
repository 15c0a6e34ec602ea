package indexer

import (
	"encoding/json"

	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/ZilDuck/elysium-marketplace/internal/marketplace"
	"github.com/ZilDuck/elysium-marketplace/internal/messenger"
	"github.com/ZilDuck/elysium-marketplace/internal/metadata"
	"go.uber.org/zap"
)

type MetadataIndexer interface {
	Subscribe(events event.Manager)
	TriggerMetadataRefresh(el interface{})
	HandleRefreshMessage(msg []byte)
	RefreshMetadata(collection entity.Address, tokenId uint64) (entity.Token, error)
}

type metadataIndexer struct {
	elastic         elastic_search.Index
	collections     marketplace.Collections
	messageService  messenger.MessageService
	metadataService metadata.Service
}

// NewMetadataIndexer refreshes token metadata once tokens are indexed. With a
// message service the refresh is queued, otherwise it runs in the listener.
// Refreshed tokens are left buffered for the daemon to persist.
func NewMetadataIndexer(
	elastic elastic_search.Index,
	collections marketplace.Collections,
	messageService messenger.MessageService,
	metadataService metadata.Service,
) MetadataIndexer {
	return metadataIndexer{elastic, collections, messageService, metadataService}
}

func (i metadataIndexer) Subscribe(events event.Manager) {
	events.AddEventListener(event.TokenIndexedEvent, i.TriggerMetadataRefresh)
}

func (i metadataIndexer) TriggerMetadataRefresh(el interface{}) {
	token, ok := el.(entity.Token)
	if !ok || token.TokenUri == "" {
		return
	}

	if i.messageService == nil {
		_, _ = i.RefreshMetadata(token.Collection, token.TokenId)
		return
	}

	msgJson, _ := json.Marshal(messenger.Token{Collection: token.Collection, TokenId: token.TokenId})
	if err := i.messageService.SendMessage(messenger.MetadataRefresh, msgJson, false); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to queue metadata refresh")
		return
	}
	zap.L().With(zap.String("collection", token.Collection.String()), zap.Uint64("tokenId", token.TokenId)).Info("Trigger MetaData Refresh")
}

func (i metadataIndexer) HandleRefreshMessage(msg []byte) {
	var token messenger.Token
	if err := json.Unmarshal(msg, &token); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to decode metadata refresh")
		return
	}

	_, _ = i.RefreshMetadata(token.Collection, token.TokenId)
}

func (i metadataIndexer) RefreshMetadata(collectionAddr entity.Address, tokenId uint64) (entity.Token, error) {
	logger := zap.L().With(zap.String("collection", collectionAddr.String()), zap.Uint64("tokenId", tokenId))
	logger.Info("Token Refresh Metadata")

	c, err := i.collections.GetCollection(collectionAddr)
	if err != nil {
		return entity.Token{}, err
	}

	token, err := c.Token(tokenId)
	if err != nil {
		return entity.Token{}, err
	}

	data, err := i.metadataService.FetchMetadata(token)
	if err != nil {
		logger.With(zap.Error(err), zap.String("tokenUri", token.TokenUri)).Warn("Failed to get token metadata")

		token.MetadataError = err.Error()
		i.elastic.AddUpdateRequest(elastic_search.TokenIndex.Get(), token, elastic_search.TokenMetadata)

		return entity.Token{}, err
	}

	token.Metadata = data
	token.MetadataError = ""

	i.elastic.AddUpdateRequest(elastic_search.TokenIndex.Get(), token, elastic_search.TokenMetadata)

	return token, nil
}
