package module

import "sync"

// Lazy builds a value on first use and caches it. A failed build leaves the
// value unset, so the next Get runs the initializer again.
type Lazy[P any] struct {
	mu      sync.Mutex
	init    func() (P, error)
	product P
	ready   bool
	running bool
}

// NewLazy wraps init.
func NewLazy[P any](init func() (P, error)) *Lazy[P] {
	return &Lazy[P]{init: init}
}

// Get returns the cached product, building it first if needed.
// Materialization is not meant to race: a second caller arriving while the
// initializer runs gets ErrReentrantInitialization.
func (l *Lazy[P]) Get() (P, error) {
	l.mu.Lock()
	if l.ready {
		defer l.mu.Unlock()
		return l.product, nil
	}
	if l.running {
		l.mu.Unlock()
		var zero P
		return zero, ErrReentrantInitialization
	}
	l.running = true
	l.mu.Unlock()
	return l.build()
}

func (l *Lazy[P]) build() (P, error) {
	var (
		product P
		built   bool
	)
	defer func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.running = false
		if built {
			l.product, l.ready = product, true
		}
	}()
	product, err := l.init()
	if err != nil {
		var zero P
		return zero, err
	}
	built = true
	return product, nil
}

// Ready reports whether the product has been built.
func (l *Lazy[P]) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Reset drops the cached product.
func (l *Lazy[P]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero P
	l.product, l.ready = zero, false
}
