// Package event is an in-process, synchronous event bus.
package event

import "sync"

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Bus holds named listeners. The zero value is not usable; call New.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
// A nil Bus drops the event.
func (b *Bus) Fire(event string, payload interface{}) {
	if b == nil {
		return
	}
	for _, h := range b.snapshot(event) {
		h(payload)
	}
}
