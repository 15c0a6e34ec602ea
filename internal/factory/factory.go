package factory

import (
	"sync"

	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"go.uber.org/zap"
)

type Factory interface {
	Address() entity.Address
	CreateCollection(caller entity.Address, name, symbol string, royaltyFee uint64, royaltyRecipient entity.Address) (entity.Collection, error)
	GetUserCollections(owner entity.Address) []entity.Address
	GetOwnCollections(caller entity.Address) []entity.Address
	IsElysiumCollection(address entity.Address) bool
	GetCollection(address entity.Address) (collection.Collection, error)
	Collections() []collection.Collection
}

type factory struct {
	address  entity.Address
	mu       *sync.Mutex
	nonce    *uint64
	registry Registry
	emitter  event.Emitter
}

func NewFactory(address entity.Address, registry Registry, emitter event.Emitter) Factory {
	nonce := uint64(0)

	return factory{
		address:  address,
		mu:       &sync.Mutex{},
		nonce:    &nonce,
		registry: registry,
		emitter:  emitter,
	}
}

func (f factory) Address() entity.Address {
	return f.address
}

// CreateCollection deploys a collection owned by the caller at the next derived address.
func (f factory) CreateCollection(
	caller entity.Address,
	name, symbol string,
	royaltyFee uint64,
	royaltyRecipient entity.Address,
) (entity.Collection, error) {
	if !caller.Valid() {
		return entity.Collection{}, entity.ErrInvalidAddress
	}

	f.mu.Lock()
	address := entity.DeriveAddress(f.address, *f.nonce)

	c, err := collection.New(address, name, symbol, caller, royaltyFee, royaltyRecipient, f.emitter)
	if err != nil {
		f.mu.Unlock()
		zap.L().With(zap.Error(err), zap.String("caller", caller.String())).Warn("Factory: Invalid collection")
		return entity.Collection{}, err
	}

	if err := f.registry.Register(caller, c); err != nil {
		f.mu.Unlock()
		return entity.Collection{}, err
	}
	*f.nonce++
	f.mu.Unlock()

	info := c.Info()
	zap.L().With(
		zap.String("collection", info.Address.String()),
		zap.String("owner", caller.String()),
		zap.String("name", info.Name),
		zap.String("symbol", info.Symbol),
		zap.Uint64("royaltyFee", info.RoyaltyFee),
	).Info("Factory: Created collection")

	if f.emitter != nil {
		f.emitter.EmitEvent(event.CollectionCreatedEvent, event.CollectionCreated{Collection: info})
	}

	return info, nil
}

func (f factory) GetUserCollections(owner entity.Address) []entity.Address {
	return f.registry.ByCreator(owner)
}

// GetOwnCollections is the caller-scoped form of GetUserCollections.
func (f factory) GetOwnCollections(caller entity.Address) []entity.Address {
	return f.GetUserCollections(caller)
}

func (f factory) IsElysiumCollection(address entity.Address) bool {
	return f.registry.Contains(address)
}

func (f factory) GetCollection(address entity.Address) (collection.Collection, error) {
	return f.registry.Get(address)
}

func (f factory) Collections() []collection.Collection {
	return f.registry.All()
}
