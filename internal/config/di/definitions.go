package di

import (
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/api"
	"github.com/ZilDuck/elysium-marketplace/internal/config"
	"github.com/ZilDuck/elysium-marketplace/internal/daemon"
	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
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
	"go.uber.org/zap"
)

// Default addresses used when the environment does not provide them.
var (
	defaultOwner       = entity.MustParseAddress("0x0000000000000000000000000000000000000a01")
	defaultMarketplace = entity.MustParseAddress("0x3a2ce70000000000000000000000000000000001")
	defaultFactory     = entity.MustParseAddress("0xfac7000000000000000000000000000000000001")
)

var Definitions = []di.Def{
	{
		Name: "events",
		Build: func(ctn di.Container) (interface{}, error) {
			return event.NewManager(), nil
		},
		Close: func(obj interface{}) error {
			obj.(event.Manager).Close()
			return nil
		},
	},
	{
		Name: "elastic",
		Build: func(ctn di.Container) (interface{}, error) {
			events := ctn.Get("events").(event.Manager)
			if !config.Get().ElasticSearch.Enabled {
				zap.L().Warn("ElasticSearch disabled, index requests are buffered only")
				return elastic_search.NewIndex(nil, config.Get().ElasticSearch.Refresh, config.Get().ElasticSearch.BulkPersistCount, events), nil
			}

			return elastic_search.New(events)
		},
	},
	{
		Name: "cache",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewQueryCache(queryCacheTtl()), nil
		},
	},
	{
		Name: "ledger",
		Build: func(ctn di.Container) (interface{}, error) {
			return ledger.NewLedger(), nil
		},
	},
	{
		Name: "registry",
		Build: func(ctn di.Container) (interface{}, error) {
			return factory.NewRegistry(), nil
		},
	},
	{
		Name: "factory",
		Build: func(ctn di.Container) (interface{}, error) {
			address, err := addressOrDefault(config.Get().Marketplace.FactoryAddress, defaultFactory)
			if err != nil {
				return nil, err
			}

			return factory.NewFactory(address, ctn.Get("registry").(factory.Registry), ctn.Get("events").(event.Manager)), nil
		},
	},
	{
		Name: "marketplace",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Marketplace

			owner, err := addressOrDefault(cfg.Owner, defaultOwner)
			if err != nil {
				return nil, err
			}
			address, err := addressOrDefault(cfg.Address, defaultMarketplace)
			if err != nil {
				return nil, err
			}
			fee, err := entity.ParseWei(cfg.PlatformFee)
			if err != nil {
				return nil, err
			}

			return marketplace.New(
				owner,
				address,
				fee,
				cfg.LockStripes,
				ctn.Get("factory").(factory.Factory),
				ctn.Get("ledger").(ledger.Ledger),
				ctn.Get("events").(event.Manager),
			)
		},
	},
	{
		Name: "messenger",
		Build: func(ctn di.Container) (interface{}, error) {
			return messenger.NewMessenger(config.Get().Amqp.Uri), nil
		},
		Close: func(obj interface{}) error {
			return obj.(messenger.MessageService).Close()
		},
	},
	{
		Name: "metadata",
		Build: func(ctn di.Container) (interface{}, error) {
			cfg := config.Get().Metadata
			client := metadata.NewClient(cfg.Retries, cfg.IpfsTimeout)

			return metadata.NewMetadataService(client, cfg.IpfsHosts), nil
		},
	},
	{
		Name: "action.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewActionRepository(ctn.Get("elastic").(elastic_search.Index), ctn.Get("cache").(*cache.Cache)), nil
		},
	},
	{
		Name: "sale.repo",
		Build: func(ctn di.Container) (interface{}, error) {
			return repository.NewSaleRepository(ctn.Get("elastic").(elastic_search.Index), ctn.Get("cache").(*cache.Cache)), nil
		},
	},
	{
		Name: "activity.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			return indexer.NewActivityIndexer(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "metadata.indexer",
		Build: func(ctn di.Container) (interface{}, error) {
			var messageService messenger.MessageService
			if config.Get().Amqp.Uri != "" {
				messageService = ctn.Get("messenger").(messenger.MessageService)
			}

			return indexer.NewMetadataIndexer(
				ctn.Get("elastic").(elastic_search.Index),
				ctn.Get("factory").(factory.Factory),
				messageService,
				ctn.Get("metadata").(metadata.Service),
			), nil
		},
	},
	{
		Name: "api",
		Build: func(ctn di.Container) (interface{}, error) {
			var actionRepo repository.ActionRepository
			var saleRepo repository.SaleRepository
			if config.Get().ElasticSearch.Enabled {
				actionRepo = ctn.Get("action.repo").(repository.ActionRepository)
				saleRepo = ctn.Get("sale.repo").(repository.SaleRepository)
			}

			return api.NewServer(
				ctn.Get("factory").(factory.Factory),
				ctn.Get("marketplace").(marketplace.Engine),
				ctn.Get("ledger").(ledger.Ledger),
				ctn.Get("metadata").(metadata.Service),
				actionRepo,
				saleRepo,
			), nil
		},
	},
	{
		Name: "daemon",
		Build: func(ctn di.Container) (interface{}, error) {
			interval := time.Duration(config.Get().PersistInterval) * time.Second
			return daemon.NewDaemon(ctn.Get("elastic").(elastic_search.Index), interval), nil
		},
	},
}

func addressOrDefault(value string, defaultValue entity.Address) (entity.Address, error) {
	if value == "" {
		return defaultValue, nil
	}

	return entity.ParseAddress(value)
}

func queryCacheTtl() time.Duration {
	return time.Duration(config.Get().ElasticSearch.QueryCacheTtl) * time.Second
}
