// Package eventbus is a small synchronous publish/subscribe bus.
package eventbus

import "sync"

// Bus delivers events of type T to subscribers in subscription order.
type Bus[T any] struct {
	mu     sync.RWMutex
	next   int
	subs   []subscriber[T]
	closed bool
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// New creates an empty bus.
func New[T any]() *Bus[T] { return &Bus[T]{} }

// Publish calls every subscriber with e before returning. Publishing on a
// closed bus is a no-op.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	subs := append([]subscriber[T](nil), b.subs...)
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return
	}
	for _, s := range subs {
		s.fn(e)
	}
}

// Subscribe registers fn and returns a function removing it.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}
	id := b.next
	b.next++
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	return func() { b.remove(id) }
}

func (b *Bus[T]) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Close drops every subscriber; later publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	b.closed = true
	b.subs = nil
	b.mu.Unlock()
}
