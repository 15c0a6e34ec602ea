package event

import (
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
)

type Type string

const (
	CollectionCreatedEvent   Type = "CollectionCreatedEvent"
	TokenMintedEvent         Type = "TokenMintedEvent"
	TokenTransferredEvent    Type = "TokenTransferredEvent"
	TokenBurnedEvent         Type = "TokenBurnedEvent"
	TokenListedEvent         Type = "TokenListedEvent"
	ListingCancelledEvent    Type = "ListingCancelledEvent"
	TokenSoldEvent           Type = "TokenSoldEvent"
	PlatformFeeUpdatedEvent  Type = "PlatformFeeUpdatedEvent"
	FeeRecipientChangedEvent Type = "FeeRecipientChangedEvent"
	RoyaltyUpdatedEvent      Type = "RoyaltyUpdatedEvent"

	// TokenIndexedEvent is raised once a minted token has been persisted to the token index.
	TokenIndexedEvent Type = "TokenIndexedEvent"
)

type CollectionCreated struct {
	Collection entity.Collection
}

type TokenMinted struct {
	Token    entity.Token
	MintedBy entity.Address
}

type TokenTransferred struct {
	Token entity.Token
	From  entity.Address
	To    entity.Address
	At    time.Time
}

type TokenBurned struct {
	Token    entity.Token
	BurnedBy entity.Address
}

type TokenListed struct {
	Listing entity.Listing
}

type ListingCancelled struct {
	Listing entity.Listing
}

type TokenSold struct {
	Listing entity.Listing
	Sale    entity.Sale
}

type PlatformUpdated struct {
	Platform entity.PlatformConfig
	At       time.Time
}

type RoyaltyUpdated struct {
	Collection entity.Collection
}
