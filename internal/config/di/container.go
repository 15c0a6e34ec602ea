package di

import (
	"github.com/ZilDuck/elysium-marketplace/internal/api"
	"github.com/ZilDuck/elysium-marketplace/internal/daemon"
	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/ZilDuck/elysium-marketplace/internal/factory"
	"github.com/ZilDuck/elysium-marketplace/internal/indexer"
	"github.com/ZilDuck/elysium-marketplace/internal/ledger"
	"github.com/ZilDuck/elysium-marketplace/internal/marketplace"
	"github.com/ZilDuck/elysium-marketplace/internal/messenger"
	"github.com/ZilDuck/elysium-marketplace/internal/metadata"
	"github.com/ZilDuck/elysium-marketplace/internal/repository"
	"github.com/patrickmn/go-cache"
	"github.com/sarulabs/di/v2"
)

type Container struct {
	ctn di.Container
}

func NewContainer() (*Container, error) {
	builder, err := di.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	return &Container{builder.Build()}, nil
}

// Delete closes every built object.
func (c *Container) Delete() error {
	return c.ctn.Delete()
}

func (c *Container) GetEvents() event.Manager {
	return c.ctn.Get("events").(event.Manager)
}

func (c *Container) GetElastic() elastic_search.Index {
	return c.ctn.Get("elastic").(elastic_search.Index)
}

func (c *Container) GetCache() *cache.Cache {
	return c.ctn.Get("cache").(*cache.Cache)
}

func (c *Container) GetLedger() ledger.Ledger {
	return c.ctn.Get("ledger").(ledger.Ledger)
}

func (c *Container) GetRegistry() factory.Registry {
	return c.ctn.Get("registry").(factory.Registry)
}

func (c *Container) GetFactory() factory.Factory {
	return c.ctn.Get("factory").(factory.Factory)
}

func (c *Container) GetMarketplace() marketplace.Engine {
	return c.ctn.Get("marketplace").(marketplace.Engine)
}

func (c *Container) GetMessenger() messenger.MessageService {
	return c.ctn.Get("messenger").(messenger.MessageService)
}

func (c *Container) GetMetadata() metadata.Service {
	return c.ctn.Get("metadata").(metadata.Service)
}

func (c *Container) GetActionRepo() repository.ActionRepository {
	return c.ctn.Get("action.repo").(repository.ActionRepository)
}

func (c *Container) GetSaleRepo() repository.SaleRepository {
	return c.ctn.Get("sale.repo").(repository.SaleRepository)
}

func (c *Container) GetActivityIndexer() indexer.ActivityIndexer {
	return c.ctn.Get("activity.indexer").(indexer.ActivityIndexer)
}

func (c *Container) GetMetadataIndexer() indexer.MetadataIndexer {
	return c.ctn.Get("metadata.indexer").(indexer.MetadataIndexer)
}

func (c *Container) GetApi() api.Server {
	return c.ctn.Get("api").(api.Server)
}

func (c *Container) GetDaemon() *daemon.Daemon {
	return c.ctn.Get("daemon").(*daemon.Daemon)
}
