package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchPublishesInOrderOnce(t *testing.T) {
	m := NewManager()

	received := make([]Type, 0)
	m.AddEventsListener([]Type{TokenTransferredEvent, TokenSoldEvent}, func(eventType Type, _ interface{}) {
		received = append(received, eventType)
	})

	b := &Batch{}
	b.EmitEvent(TokenTransferredEvent, 1)

	settlement := &Batch{}
	settlement.EmitEvent(TokenSoldEvent, 2)
	b.Append(settlement)
	assert.Equal(t, 0, settlement.Len())
	assert.Equal(t, 2, b.Len())

	b.Publish(m)
	b.Publish(m)
	m.Close()

	assert.Equal(t, []Type{TokenTransferredEvent, TokenSoldEvent}, received)
}

func TestBatchPublishToNilEmitterDiscards(t *testing.T) {
	b := &Batch{}
	b.EmitEvent(TokenSoldEvent, 1)
	b.Publish(nil)

	assert.Equal(t, 0, b.Len())
}
