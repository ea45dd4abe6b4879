package factory

import (
	"reflect"
	"sync"

	"github.com/kilianp07/hmcmod/core/reader"
)

type registryKey struct {
	product reflect.Type
	reader  reflect.Type
}

var (
	instancesMu sync.Mutex
	instances   = map[registryKey]any{}
)

// Instance returns the process-wide registry for products P read from R,
// creating it on first use.
func Instance[P any, R reader.Reader]() *Registry[P, R] {
	key := registryKey{product: reflect.TypeFor[P](), reader: reflect.TypeFor[R]()}
	instancesMu.Lock()
	defer instancesMu.Unlock()
	if reg, ok := instances[key]; ok {
		return reg.(*Registry[P, R])
	}
	reg := NewRegistry[P, R]()
	instances[key] = reg
	return reg
}
