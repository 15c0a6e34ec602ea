package marketplace

import (
	"errors"

	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/factory"
	"github.com/ZilDuck/elysium-marketplace/internal/ledger"
)

var (
	ErrNotListed           = errors.New("not listed")
	ErrPriceTooLow         = errors.New("price must be greater than platform fee")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrAlreadyListed       = errors.New("token already listed")
	ErrNotApproved         = errors.New("marketplace is not approved for token")
	ErrUnknownCollection   = errors.New("collection was not created by the factory")
	ErrDuplicateItem       = errors.New("token appears more than once in batch")
	ErrEmptyBatch          = errors.New("batch contains no items")

	ErrNotOwner           = collection.ErrNotOwner
	ErrUnauthorized       = collection.ErrUnauthorized
	ErrTokenNotFound      = collection.ErrTokenNotFound
	ErrCollectionNotFound = factory.ErrCollectionNotFound
	ErrInsufficientFunds  = ledger.ErrInsufficientFunds
	ErrInvalidAddress     = entity.ErrInvalidAddress
)
