package marketplace

import (
	"context"
	"encoding/binary"
	"sort"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/cespare/xxhash/v2"
)

const defaultLockStripes = 256

type listingKey struct {
	collection entity.Address
	tokenId    uint64
}

// lockTable serialises work per (collection, tokenId) over a fixed set of stripes.
// Each stripe is a one slot channel so acquisition can be abandoned on ctx.Done.
type lockTable struct {
	stripes []chan struct{}
}

func newLockTable(stripes int) lockTable {
	if stripes <= 0 {
		stripes = defaultLockStripes
	}

	t := lockTable{stripes: make([]chan struct{}, stripes)}
	for i := range t.stripes {
		t.stripes[i] = make(chan struct{}, 1)
	}

	return t
}

func (t lockTable) stripe(key listingKey) int {
	var id [8]byte
	binary.BigEndian.PutUint64(id[:], key.tokenId)

	d := xxhash.New()
	_, _ = d.WriteString(string(key.collection))
	_, _ = d.Write(id[:])

	return int(d.Sum64() % uint64(len(t.stripes)))
}

// acquire locks the stripes of every key in ascending stripe order and returns
// the function releasing them.
func (t lockTable) acquire(ctx context.Context, keys ...listingKey) (func(), error) {
	seen := make(map[int]bool, len(keys))
	stripes := make([]int, 0, len(keys))
	for _, key := range keys {
		s := t.stripe(key)
		if !seen[s] {
			seen[s] = true
			stripes = append(stripes, s)
		}
	}
	sort.Ints(stripes)

	held := make([]int, 0, len(stripes))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-t.stripes[held[i]]
		}
	}

	for _, s := range stripes {
		select {
		case t.stripes[s] <- struct{}{}:
			held = append(held, s)
		case <-ctx.Done():
			release()
			return nil, ctx.Err()
		}
	}

	return release, nil
}

// locked runs fn holding the stripes of keys. Events fn queues on the batch are
// published after the stripes are released.
func (e engine) locked(ctx context.Context, keys []listingKey, fn func(events *event.Batch) error) error {
	release, err := e.locks.acquire(ctx, keys...)
	if err != nil {
		return err
	}

	events := &event.Batch{}
	err = fn(events)
	release()

	events.Publish(e.emitter)

	return err
}
