package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
)

var (
	ErrSaleNotFound = errors.New("sale not found")
)

type SaleRepository interface {
	GetSale(ctx context.Context, id string) (entity.Sale, error)
	GetSales(ctx context.Context, collection entity.Address, size int) ([]entity.Sale, error)
	GetSalesByBuyer(ctx context.Context, buyer entity.Address, size int) ([]entity.Sale, error)
}

type saleRepository struct {
	elastic elastic_search.Index
	cache   *cache.Cache
}

func NewSaleRepository(elastic elastic_search.Index, queryCache *cache.Cache) SaleRepository {
	return saleRepository{elastic, queryCache}
}

func (r saleRepository) GetSale(ctx context.Context, id string) (entity.Sale, error) {
	if pending := r.elastic.GetRequest(entity.Sale{ID: id}.Slug()); pending != nil {
		return pending.Entity.(entity.Sale), nil
	}

	sales, err := r.find(ctx, "", elastic.NewTermQuery("id", id), 1)
	if err != nil {
		return entity.Sale{}, err
	}
	if len(sales) == 0 {
		return entity.Sale{}, ErrSaleNotFound
	}

	return sales[0], nil
}

func (r saleRepository) GetSales(ctx context.Context, collection entity.Address, size int) ([]entity.Sale, error) {
	query := elastic.NewTermQuery("collection", collection.String())

	return r.find(ctx, fmt.Sprintf("sales-%s-%d", collection, size), query, size)
}

func (r saleRepository) GetSalesByBuyer(ctx context.Context, buyer entity.Address, size int) ([]entity.Sale, error) {
	query := elastic.NewTermQuery("buyer", buyer.String())

	return r.find(ctx, fmt.Sprintf("sales-buyer-%s-%d", buyer, size), query, size)
}

func (r saleRepository) find(ctx context.Context, key string, query elastic.Query, size int) ([]entity.Sale, error) {
	if key != "" {
		if cached, found := r.cache.Get(key); found {
			return cached.([]entity.Sale), nil
		}
	}

	results, err := search(ctx, r.elastic.GetClient().
		Search(elastic_search.SaleIndex.Get()).
		Query(query).
		Sort("soldAt", false).
		Size(pageSize(size)))
	if err != nil {
		return nil, err
	}

	sales, err := decodeHits[entity.Sale](results)
	if err != nil {
		return nil, err
	}
	if key != "" {
		r.cache.SetDefault(key, sales)
	}

	return sales, nil
}
