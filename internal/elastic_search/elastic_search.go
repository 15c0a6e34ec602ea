package elastic_search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/config"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

var (
	ErrSaveFailed = errors.New("failed to save entity")
)

type Index interface {
	GetClient() *elastic.Client

	InstallMappings() error

	AddIndexRequest(index string, entity entity.Entity, reqAction RequestAction)
	AddUpdateRequest(index string, entity entity.Entity, reqAction RequestAction)
	HasRequest(entity entity.Entity) bool
	AddRequest(index string, entity entity.Entity, reqType RequestType, reqAction RequestAction)
	GetEntitiesByIndex(index string) []entity.Entity
	GetRequests() []Request
	GetRequest(id string) *Request
	ClearRequests()

	Save(index string, entity entity.Entity) error
	BatchPersist() bool
	Persist() int
}

type index struct {
	client    *elastic.Client
	cache     *cache.Cache
	refresh   string
	bulkCount int
	emitter   event.Emitter

	// mu guards read-modify-write of pending requests; persistMu serialises Persist.
	mu        *sync.Mutex
	persistMu *sync.Mutex
	version   *uint64
}

type Request struct {
	Index  string
	Entity entity.Entity
	Type   RequestType
	Action RequestAction

	// version changes every time the pending request for a slug is replaced.
	version uint64
}

type RequestType string

const (
	IndexRequest  RequestType = "index"
	UpdateRequest RequestType = "update"
)

type RequestAction string

const (
	CollectionCreate RequestAction = "CollectionCreate"
	CollectionUpdate RequestAction = "CollectionUpdate"

	TokenMint     RequestAction = "TokenMint"
	TokenTransfer RequestAction = "TokenTransfer"
	TokenBurn     RequestAction = "TokenBurn"
	TokenMetadata RequestAction = "TokenMetadata"

	ListingCreate RequestAction = "ListingCreate"
	ListingClose  RequestAction = "ListingClose"

	SaleCreate   RequestAction = "SaleCreate"
	ActionCreate RequestAction = "ActionCreate"
)

const (
	saveAttempts     int = 3
	bulkAttempts     int = 3
	batchPersistSize int = 250
)

func New(emitter event.Emitter) (Index, error) {
	client, err := newClient()
	if err != nil {
		zap.L().With(zap.Error(err)).Error("ElasticSearch: Failed to create client")
		return nil, err
	}

	return NewIndex(client, config.Get().ElasticSearch.Refresh, config.Get().ElasticSearch.BulkPersistCount, emitter), nil
}

// NewIndex buffers requests for the client. Persisting requires a client; the
// buffer works without one.
func NewIndex(client *elastic.Client, refresh string, bulkCount int, emitter event.Emitter) Index {
	if bulkCount <= 0 {
		bulkCount = 300
	}

	return index{
		client:    client,
		cache:     cache.New(5*time.Minute, 10*time.Minute),
		refresh:   refresh,
		bulkCount: bulkCount,
		emitter:   emitter,
		mu:        &sync.Mutex{},
		persistMu: &sync.Mutex{},
		version:   new(uint64),
	}
}

func (i index) GetClient() *elastic.Client {
	return i.client
}

func (i index) InstallMappings() error {
	zap.L().Info("ElasticSearch: Install Mappings")

	dir := config.Get().ElasticSearch.MappingDir
	files, err := os.ReadDir(dir)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("ElasticSearch: Elastic mappings directory error")
		return err
	}

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("file", f.Name())).Error("ElasticSearch: Elastic mappings file error")
			return err
		}

		idx, ok := ParseIndices(strings.TrimSuffix(f.Name(), filepath.Ext(f.Name())))
		if !ok {
			zap.L().With(zap.String("file", f.Name())).Warn("ElasticSearch: Skipping unknown mapping")
			continue
		}

		name := idx.Get()
		if err = i.createIndex(name, b); err != nil {
			zap.S().With(zap.Error(err)).Errorf("ElasticSearch: Failed to create index %s", name)
			return err
		}
	}

	return nil
}

func (i index) createIndex(index string, mapping []byte) error {
	ctx := context.Background()
	client := i.client

	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		return err
	}

	if exists && config.Get().Reindex {
		zap.S().Infof("ElasticSearch: Deleting index %s", index)
		if _, err = client.DeleteIndex(index).Do(ctx); err != nil {
			return err
		}
		exists = false
	}

	if !exists {
		createIndex, err := client.CreateIndex(index).BodyString(string(mapping)).Do(ctx)
		if err != nil {
			return err
		}

		if createIndex.Acknowledged {
			zap.S().Infof("ElasticSearch: Created index %s", index)
		}
	}

	return nil
}

func (i index) AddIndexRequest(index string, entity entity.Entity, reqAction RequestAction) {
	zap.L().With(
		zap.String("index", index),
		zap.String("slug", entity.Slug()),
		zap.String("action", string(reqAction)),
	).Debug("ElasticSearch: AddIndexRequest")

	i.AddRequest(index, entity, IndexRequest, reqAction)
}

// AddUpdateRequest merges into a pending request for the same entity. A pending
// index request stays an index request.
func (i index) AddUpdateRequest(index string, entity entity.Entity, reqAction RequestAction) {
	zap.L().With(
		zap.String("index", index),
		zap.String("slug", entity.Slug()),
		zap.String("action", string(reqAction)),
	).Debug("ElasticSearch: AddUpdateRequest")

	i.mu.Lock()
	defer i.mu.Unlock()

	if cached, found := i.cache.Get(entity.Slug()); found {
		entity = mergeRequests(cached.(Request), reqAction, entity)
		if cached.(Request).Type == IndexRequest {
			i.setRequest(index, entity, IndexRequest, cached.(Request).Action)
			return
		}
	}

	i.setRequest(index, entity, UpdateRequest, reqAction)
}

func (i index) HasRequest(entity entity.Entity) bool {
	_, found := i.cache.Get(entity.Slug())

	return found
}

func (i index) AddRequest(index string, entity entity.Entity, reqType RequestType, reqAction RequestAction) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.setRequest(index, entity, reqType, reqAction)
}

// setRequest expects mu to be held.
func (i index) setRequest(index string, entity entity.Entity, reqType RequestType, reqAction RequestAction) {
	*i.version++
	i.cache.Set(entity.Slug(), Request{index, entity, reqType, reqAction, *i.version}, cache.NoExpiration)
}

func (i index) GetEntitiesByIndex(index string) []entity.Entity {
	entities := make([]entity.Entity, 0)
	for _, req := range i.GetRequests() {
		if req.Index == index {
			entities = append(entities, req.Entity)
		}
	}

	return entities
}

func (i index) GetRequests() []Request {
	requests := make([]Request, 0)

	for _, item := range i.cache.Items() {
		requests = append(requests, item.Object.(Request))
	}

	return requests
}

func (i index) GetRequest(id string) *Request {
	if item, found := i.cache.Get(id); found {
		req := item.(Request)
		return &req
	}

	return nil
}

func (i index) ClearRequests() {
	i.cache.Flush()
}

func (i index) Save(index string, entity entity.Entity) error {
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		_, err := i.client.Index().
			Index(index).
			Id(entity.Slug()).
			BodyJson(entity).
			Do(context.Background())
		if err == nil {
			return nil
		}

		zap.L().With(zap.Error(err), zap.String("index", index), zap.String("slug", entity.Slug()), zap.Int("attempt", attempt)).
			Error("ElasticSearch: Failed to save entity")
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	return fmt.Errorf("%w: %s/%s", ErrSaveFailed, index, entity.Slug())
}

func (i index) BatchPersist() bool {
	if len(i.GetRequests()) < batchPersistSize {
		return false
	}

	actions := len(i.GetRequests())
	start := time.Now()
	i.Persist()

	zap.L().With(
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("actions", actions),
	).Info("ElasticSearch: Persisting data")

	return true
}

// Persist bulk writes every pending request and returns how many were written.
// Requests that fail to persist, or change while being written, stay pending for
// the next call. Concurrent calls run one at a time.
func (i index) Persist() int {
	i.persistMu.Lock()
	defer i.persistMu.Unlock()

	requests := i.GetRequests()
	if len(requests) == 0 {
		return 0
	}
	if i.client == nil {
		zap.L().With(zap.Int("pending", len(requests))).Warn("ElasticSearch: No client, requests not persisted")
		return 0
	}

	persisted := 0
	batch := make([]Request, 0, i.bulkCount)
	bulk := i.client.Bulk()
	for _, r := range requests {
		switch r.Type {
		case IndexRequest:
			bulk.Add(elastic.NewBulkIndexRequest().Index(r.Index).Id(r.Entity.Slug()).Doc(r.Entity))
		case UpdateRequest:
			bulk.Add(elastic.NewBulkUpdateRequest().Index(r.Index).Id(r.Entity.Slug()).Doc(r.Entity).DocAsUpsert(true))
		}
		batch = append(batch, r)

		if bulk.NumberOfActions() >= i.bulkCount {
			persisted += i.persist(bulk, batch)
			bulk = i.client.Bulk()
			batch = make([]Request, 0, i.bulkCount)
		}
	}

	if bulk.NumberOfActions() != 0 {
		persisted += i.persist(bulk, batch)
	}

	return persisted
}

func (i index) persist(bulk *elastic.BulkService, batch []Request) int {
	actions := bulk.NumberOfActions()
	zap.S().Debugf("ElasticSearch: Persisting %d actions", actions)

	var response *elastic.BulkResponse
	var err error
	for attempt := 1; attempt <= bulkAttempts; attempt++ {
		response, err = bulk.Refresh(i.refresh).Do(context.Background())
		if err == nil || !elastic.IsStatusCode(err, 429) || attempt == bulkAttempts {
			break
		}
		zap.L().With(zap.Error(err), zap.Int("attempt", attempt)).Warn("ElasticSearch: 429 (Too Many Requests)")
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		zap.L().With(zap.Error(err), zap.Int("actions", actions)).Error("ElasticSearch: Failed to persist requests")
		return 0
	}

	failed := make(map[string]bool)
	for _, item := range response.Failed() {
		zap.L().With(
			zap.Any("error", item.Error),
			zap.String("index", item.Index),
			zap.String("id", item.Id),
		).Error("ElasticSearch: Failed to persist request. Retrying...")

		if req := i.GetRequest(item.Id); req != nil {
			if err := i.Save(item.Index, req.Entity); err != nil {
				failed[item.Id] = true
			}
		}
	}

	i.flush(batch, failed)

	return len(batch) - len(failed)
}

// flush drops the persisted requests that have not been replaced since they were sent.
func (i index) flush(batch []Request, failed map[string]bool) {
	indexed := make([]entity.Entity, 0)

	i.mu.Lock()
	for _, req := range batch {
		slug := req.Entity.Slug()
		if failed[slug] {
			continue
		}
		if req.Action == TokenMint && req.Type == IndexRequest {
			indexed = append(indexed, req.Entity)
		}

		if cached, found := i.cache.Get(slug); found && cached.(Request).version != req.version {
			zap.L().With(zap.String("slug", slug)).Debug("ElasticSearch: Request changed while persisting")
			continue
		}
		i.cache.Delete(slug)
	}
	i.mu.Unlock()

	if i.emitter != nil {
		for _, e := range indexed {
			i.emitter.EmitEvent(event.TokenIndexedEvent, e)
		}
	}

	zap.L().Debug("ElasticSearch: Flushed persisted requests")
}
