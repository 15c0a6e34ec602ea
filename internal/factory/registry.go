package factory

import (
	"errors"
	"sync"

	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCollectionExists   = errors.New("collection already registered")
)

// Registry tracks every collection created by the factory, by address and by creator.
type Registry interface {
	Register(creator entity.Address, c collection.Collection) error
	Get(address entity.Address) (collection.Collection, error)
	Contains(address entity.Address) bool
	ByCreator(creator entity.Address) []entity.Address
	All() []collection.Collection
}

type registry struct {
	mu          *sync.RWMutex
	collections map[entity.Address]collection.Collection
	order       *[]entity.Address
	byCreator   map[entity.Address][]entity.Address
}

func NewRegistry() Registry {
	order := make([]entity.Address, 0)

	return registry{
		mu:          &sync.RWMutex{},
		collections: make(map[entity.Address]collection.Collection),
		order:       &order,
		byCreator:   make(map[entity.Address][]entity.Address),
	}
}

func (r registry) Register(creator entity.Address, c collection.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.collections[c.Address()]; ok {
		return ErrCollectionExists
	}

	r.collections[c.Address()] = c
	*r.order = append(*r.order, c.Address())
	r.byCreator[creator] = append(r.byCreator[creator], c.Address())

	return nil
}

func (r registry) Get(address entity.Address) (collection.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[address]
	if !ok {
		return nil, ErrCollectionNotFound
	}

	return c, nil
}

func (r registry) Contains(address entity.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.collections[address]
	return ok
}

// ByCreator returns the creator's collections in creation order.
func (r registry) ByCreator(creator entity.Address) []entity.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addresses := make([]entity.Address, len(r.byCreator[creator]))
	copy(addresses, r.byCreator[creator])

	return addresses
}

func (r registry) All() []collection.Collection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collections := make([]collection.Collection, 0, len(*r.order))
	for _, address := range *r.order {
		collections = append(collections, r.collections[address])
	}

	return collections
}
