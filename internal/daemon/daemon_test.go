package daemon

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func newIndex(t *testing.T) (elastic_search.Index, *int32) {
	bulks := new(int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		atomic.AddInt32(bulks, 1)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
	}))
	t.Cleanup(srv.Close)

	client, err := elastic.NewClient(elastic.SetURL(srv.URL), elastic.SetSniff(false), elastic.SetHealthcheck(false))
	require.NoError(t, err)
	t.Cleanup(client.Stop)

	return elastic_search.NewIndex(client, "false", 100, nil), bulks
}

func collection(n uint64) entity.Collection {
	return entity.Collection{Address: entity.DeriveAddress(entity.MustParseAddress("0xfac7000000000000000000000000000000000001"), n)}
}

func TestDaemonPersistsOnTick(t *testing.T) {
	index, bulks := newIndex(t)
	index.AddIndexRequest(elastic_search.CollectionIndex.Get(), collection(1), elastic_search.CollectionCreate)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewDaemon(index, 10*time.Millisecond).Execute(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(index.GetRequests()) == 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(bulks))

	cancel()
	<-done
}

func TestDaemonFlushesOnShutdown(t *testing.T) {
	index, bulks := newIndex(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewDaemon(index, time.Hour).Execute(ctx)
		close(done)
	}()

	index.AddIndexRequest(elastic_search.CollectionIndex.Get(), collection(1), elastic_search.CollectionCreate)
	index.AddIndexRequest(elastic_search.CollectionIndex.Get(), collection(2), elastic_search.CollectionCreate)
	cancel()
	<-done

	assert.Empty(t, index.GetRequests())
	assert.Equal(t, int32(1), atomic.LoadInt32(bulks))
}

func TestDaemonSkipsEmptyTicks(t *testing.T) {
	index, bulks := newIndex(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	NewDaemon(index, 5*time.Millisecond).Execute(ctx)

	assert.Equal(t, int32(0), atomic.LoadInt32(bulks))
}
