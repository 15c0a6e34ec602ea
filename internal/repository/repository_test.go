package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	collectionAddr = entity.MustParseAddress("0xc0ffee0000000000000000000000000000000001")
	buyer          = entity.MustParseAddress("0x0000000000000000000000000000000000000b01")
)

type searchServer struct {
	*httptest.Server
	calls  *int32
	bodies chan string
}

func newSearchServer(t *testing.T, status int, docs ...interface{}) searchServer {
	calls := new(int32)
	bodies := make(chan string, 16)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		b, _ := io.ReadAll(r.Body)
		select {
		case bodies <- string(b):
		default:
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"type":"too_many_requests"},"status":429}`))
			return
		}

		hits := make([]map[string]interface{}, 0, len(docs))
		for _, doc := range docs {
			hits = append(hits, map[string]interface{}{"_index": "test", "_id": "1", "_source": doc})
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"took": 1,
			"hits": map[string]interface{}{
				"total": map[string]interface{}{"value": len(docs), "relation": "eq"},
				"hits":  hits,
			},
		})
	}))
	t.Cleanup(srv.Close)

	return searchServer{srv, calls, bodies}
}

func (s searchServer) index(t *testing.T) elastic_search.Index {
	client, err := elastic.NewClient(elastic.SetURL(s.URL), elastic.SetSniff(false), elastic.SetHealthcheck(false))
	require.NoError(t, err)

	return elastic_search.NewIndex(client, "false", 10, nil)
}

func TestGetActionsQueriesTokenActivity(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK,
		entity.Action{Collection: collectionAddr, TokenId: 1, Action: entity.SaleAction, To: buyer},
		entity.Action{Collection: collectionAddr, TokenId: 1, Action: entity.MintAction},
	)
	repo := NewActionRepository(srv.index(t), NewQueryCache(time.Minute))

	actions, err := repo.GetActions(context.Background(), collectionAddr, 1, 0)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, entity.SaleAction, actions[0].Action)
	assert.Equal(t, buyer, actions[0].To)

	body := <-srv.bodies
	assert.True(t, strings.Contains(body, collectionAddr.String()))
	assert.True(t, strings.Contains(body, `"size":100`))

	_, err = repo.GetActions(context.Background(), collectionAddr, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(srv.calls), "second read is served from the cache")
}

func TestGetSalesWithoutCache(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK, entity.Sale{ID: "abc", Collection: collectionAddr, Price: entity.NewWei(100)})
	repo := NewSaleRepository(srv.index(t), NewQueryCache(0))

	for i := 0; i < 2; i++ {
		sales, err := repo.GetSales(context.Background(), collectionAddr, 5000)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, entity.NewWei(100), sales[0].Price)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(srv.calls))
	assert.True(t, strings.Contains(<-srv.bodies, `"size":1000`))
}

func TestGetSalePrefersPendingRequest(t *testing.T) {
	srv := newSearchServer(t, http.StatusOK)
	index := srv.index(t)
	pending := entity.Sale{ID: "pending", Collection: collectionAddr, Buyer: buyer}
	index.AddIndexRequest(elastic_search.SaleIndex.Get(), pending, elastic_search.SaleCreate)

	repo := NewSaleRepository(index, NewQueryCache(time.Minute))

	sale, err := repo.GetSale(context.Background(), "pending")
	require.NoError(t, err)
	assert.Equal(t, buyer, sale.Buyer)

	_, err = repo.GetSale(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestSearchGivesUpAfterRepeatedThrottling(t *testing.T) {
	srv := newSearchServer(t, http.StatusTooManyRequests)
	repo := NewSaleRepository(srv.index(t), NewQueryCache(0))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := repo.GetSalesByBuyer(ctx, buyer, 10)
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(srv.calls))
}
