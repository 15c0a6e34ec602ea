package marketplace

import (
	"github.com/ZilDuck/elysium-marketplace/internal/collection"
	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"go.uber.org/zap"
)

type tokenMove struct {
	collection collection.Collection
	tokenId    uint64
	from       entity.Address
	to         entity.Address
}

// journal records the token moves of a settlement so a failure part way
// through can hand every token back to where it was.
type journal struct {
	moves []tokenMove
}

func (j *journal) append(move tokenMove) {
	j.moves = append(j.moves, move)
}

func (j *journal) revert() {
	for i := len(j.moves) - 1; i >= 0; i-- {
		move := j.moves[i]
		if _, err := move.collection.Transfer(move.to, move.to, move.from, move.tokenId); err != nil {
			zap.L().With(
				zap.Error(err),
				zap.String("collection", move.collection.Address().String()),
				zap.Uint64("tokenId", move.tokenId),
			).Error("Marketplace: Failed to revert token move")
		}
	}
	j.moves = nil
}
