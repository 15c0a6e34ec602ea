package marketplace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/entity"
	"github.com/ZilDuck/elysium-marketplace/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmitter struct {
	mu    sync.Mutex
	types []event.Type
}

func (r *recordingEmitter) EmitEvent(eventType event.Type, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = append(r.types, eventType)
}

func (r *recordingEmitter) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = nil
}

func (r *recordingEmitter) emitted() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]event.Type(nil), r.types...)
}

func TestBulkBuyPublishesTransfersBeforeSales(t *testing.T) {
	recorder := &recordingEmitter{}
	fx := setupWithEmitter(t, 10, 0, recorder)
	a, b := fx.list(t, 100), fx.list(t, 100)
	fx.fund(t, buyer, 1000)
	recorder.reset()

	_, err := fx.market.BuyTokensBulk(context.Background(), buyer, fx.items(100, a, b))
	require.NoError(t, err)

	assert.Equal(t, []event.Type{
		event.TokenTransferredEvent,
		event.TokenTransferredEvent,
		event.TokenSoldEvent,
		event.TokenSoldEvent,
	}, recorder.emitted())
}

func TestSlowListenerDoesNotHoldLocks(t *testing.T) {
	events := event.NewManager()
	fx := setupWithEmitter(t, 10, 10, events)
	tokenId := fx.list(t, 100)
	fx.fund(t, buyer, 100)

	gate := make(chan struct{})
	events.AddEventListener(event.TokenTransferredEvent, func(interface{}) { <-gate })
	// One delivery held in the callback and a full buffer behind it.
	for i := 0; i < 257; i++ {
		events.EmitEvent(event.TokenTransferredEvent, event.TokenTransferred{})
	}

	bought := make(chan error, 1)
	go func() {
		_, err := fx.market.BuyToken(context.Background(), buyer, fx.collection.Address(), tokenId, entity.NewWei(100))
		bought <- err
	}()

	require.Eventually(t, func() bool {
		ownerOf, err := fx.collection.OwnerOf(tokenId)
		return err == nil && ownerOf == buyer
	}, time.Second, 5*time.Millisecond)

	deposited := make(chan error, 1)
	go func() {
		_, err := fx.ledger.Deposit(stranger, entity.NewWei(5))
		deposited <- err
	}()

	select {
	case err := <-deposited:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("deposit blocked behind a slow listener")
	}
	assert.Equal(t, entity.NewWei(5), fx.ledger.BalanceOf(stranger))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := fx.market.BuyToken(ctx, stranger, fx.collection.Address(), tokenId, entity.NewWei(100))
	assert.ErrorIs(t, err, ErrNotListed, "the stripe is released before publishing")

	close(gate)
	require.NoError(t, <-bought)
	events.Close()
}
