package repository

import (
	"context"
	"fmt"

	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
)

type ActionRepository interface {
	GetActions(ctx context.Context, collection entity.Address, tokenId uint64, size int) ([]entity.Action, error)
	GetCollectionActions(ctx context.Context, collection entity.Address, size int) ([]entity.Action, error)
}

type actionRepository struct {
	elastic elastic_search.Index
	cache   *cache.Cache
}

// NewActionRepository reads the activity log, caching results in queryCache.
func NewActionRepository(elastic elastic_search.Index, queryCache *cache.Cache) ActionRepository {
	return actionRepository{elastic, queryCache}
}

// GetActions returns the activity of one token, newest first.
func (r actionRepository) GetActions(ctx context.Context, collection entity.Address, tokenId uint64, size int) ([]entity.Action, error) {
	query := elastic.NewBoolQuery().Must(
		elastic.NewTermQuery("collection", collection.String()),
		elastic.NewTermQuery("tokenId", tokenId),
	)

	return r.find(ctx, fmt.Sprintf("actions-%s-%d-%d", collection, tokenId, size), query, size)
}

func (r actionRepository) GetCollectionActions(ctx context.Context, collection entity.Address, size int) ([]entity.Action, error) {
	query := elastic.NewTermQuery("collection", collection.String())

	return r.find(ctx, fmt.Sprintf("actions-%s-%d", collection, size), query, size)
}

func (r actionRepository) find(ctx context.Context, key string, query elastic.Query, size int) ([]entity.Action, error) {
	if cached, found := r.cache.Get(key); found {
		return cached.([]entity.Action), nil
	}

	results, err := search(ctx, r.elastic.GetClient().
		Search(elastic_search.ActionIndex.Get()).
		Query(query).
		Sort("time", false).
		Size(pageSize(size)))
	if err != nil {
		return nil, err
	}

	actions, err := decodeHits[entity.Action](results)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(key, actions)

	return actions, nil
}
