package event

import "sync"

// Batch queues events so they can be published once the work raising them
// has committed. The zero value is ready to use.
type Batch struct {
	mu     sync.Mutex
	queued []envelope
}

func (b *Batch) EmitEvent(eventType Type, msg interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queued = append(b.queued, envelope{eventType, msg})
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.queued)
}

// Append moves the events queued on other to the end of b.
func (b *Batch) Append(other *Batch) {
	other.mu.Lock()
	queued := other.queued
	other.queued = nil
	other.mu.Unlock()

	b.mu.Lock()
	b.queued = append(b.queued, queued...)
	b.mu.Unlock()
}

// Publish emits the queued events in order and empties the batch. A nil emitter discards them.
func (b *Batch) Publish(emitter Emitter) {
	b.mu.Lock()
	queued := b.queued
	b.queued = nil
	b.mu.Unlock()

	if emitter == nil {
		return
	}
	for _, e := range queued {
		emitter.EmitEvent(e.eventType, e.msg)
	}
}
