package event

import (
	"sync"

	"go.uber.org/zap"
)

const listenerBuffer = 256

// Emitter is the publishing half of the Manager, handed to the components that raise events.
type Emitter interface {
	EmitEvent(eventType Type, msg interface{})
}

type Manager interface {
	Emitter
	AddEventListener(eventType Type, callback func(msg interface{}))
	AddEventsListener(eventTypes []Type, callback func(eventType Type, msg interface{}))
	Close()
}

type manager struct {
	mu        *sync.RWMutex
	wg        *sync.WaitGroup
	listeners *[]*listener
	closed    *bool
}

type listener struct {
	eventTypes map[Type]bool
	channel    chan envelope
}

type envelope struct {
	eventType Type
	msg       interface{}
}

func NewManager() Manager {
	closed := false
	listeners := make([]*listener, 0)

	return manager{
		mu:        &sync.RWMutex{},
		wg:        &sync.WaitGroup{},
		listeners: &listeners,
		closed:    &closed,
	}
}

// AddEventListener registers a callback. Each listener receives its events in
// emission order on its own goroutine.
func (m manager) AddEventListener(eventType Type, callback func(msg interface{})) {
	m.AddEventsListener([]Type{eventType}, func(_ Type, msg interface{}) {
		callback(msg)
	})
}

// AddEventsListener registers one callback for several event types, keeping
// emission order across all of them.
func (m manager) AddEventsListener(eventTypes []Type, callback func(eventType Type, msg interface{})) {
	zap.L().With(zap.Int("types", len(eventTypes))).Debug("EventManager: AddListener")

	m.mu.Lock()
	defer m.mu.Unlock()

	if *m.closed {
		zap.L().Warn("EventManager: Listener added after close")
		return
	}

	l := &listener{
		eventTypes: make(map[Type]bool, len(eventTypes)),
		channel:    make(chan envelope, listenerBuffer),
	}
	for _, eventType := range eventTypes {
		l.eventTypes[eventType] = true
	}
	*m.listeners = append(*m.listeners, l)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for e := range l.channel {
			callback(e.eventType, e.msg)
		}
	}()
}

func (m manager) EmitEvent(eventType Type, msg interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if *m.closed {
		return
	}

	for _, l := range *m.listeners {
		if l.eventTypes[eventType] {
			zap.L().With(zap.String("type", string(eventType))).Debug("EventManager: Emitting event")
			l.channel <- envelope{eventType, msg}
		}
	}
}

// Close stops accepting events and waits for every listener to drain.
func (m manager) Close() {
	m.mu.Lock()
	if *m.closed {
		m.mu.Unlock()
		return
	}
	*m.closed = true
	for _, l := range *m.listeners {
		close(l.channel)
	}
	m.mu.Unlock()

	m.wg.Wait()
	zap.L().Debug("EventManager: Closed")
}
