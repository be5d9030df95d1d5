// Package signalx implements a tiny in-process broadcast: a payload-less
// signal with multiple subscribers. It replaces a global notification
// registry with an explicit dependency injected into both the emitter and
// the subscribers.
package signalx

import "sync"

// Bus fans out a payload-less signal to all current subscribers.
// The zero value is not usable; call NewBus.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a function that removes the
// subscription. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish invokes every subscriber synchronously, in unspecified order.
// Subscribers run outside the bus lock, so they may subscribe or
// unsubscribe from within the callback.
func (b *Bus) Publish() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
