package elastic_search

import (
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
)

func mergeRequests(cached Request, action RequestAction, e entity.Entity) entity.Entity {
	switch result := cached.Entity.(type) {
	case entity.Token:
		next, ok := e.(entity.Token)
		if !ok {
			return e
		}

		switch action {
		case TokenMetadata:
			result.Metadata = next.Metadata
			result.MetadataError = next.MetadataError
			return result
		case TokenTransfer:
			result.Owner = next.Owner
			return result
		case TokenBurn:
			result.Owner = next.Owner
			result.BurnedAt = next.BurnedAt
			return result
		}

		if next.Metadata == nil {
			next.Metadata = result.Metadata
			next.MetadataError = result.MetadataError
		}
		return next

	case entity.Collection:
		next, ok := e.(entity.Collection)
		if !ok {
			return e
		}
		if action == CollectionUpdate {
			result.Owner = next.Owner
			result.RoyaltyFee = next.RoyaltyFee
			result.RoyaltyRecipient = next.RoyaltyRecipient
			result.TotalSupply = next.TotalSupply
			return result
		}
		return next
	}

	return e
}
