package state

import "sync"

// Atom is a settable value at the root of the graph.
type Atom[T any] struct {
	links

	name     string
	mu       sync.RWMutex
	initial  T
	value    T
	version  uint64
	watchers []func(T)
}

// NewAtom creates an atom holding initial.
func NewAtom[T any](name string, initial T) *Atom[T] {
	return &Atom[T]{name: name, initial: initial, value: initial}
}

// Name returns the atom's name.
func (a *Atom[T]) Name() string { return a.name }

// Get returns the current value.
func (a *Atom[T]) Get() T {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.value
}

// Version increases by one on every Set or Reset.
func (a *Atom[T]) Version() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.version
}

// Set replaces the value and invalidates every dependent.
func (a *Atom[T]) Set(v T) {
	a.mu.Lock()
	a.value = v
	a.version++
	watchers := append([]func(T){}, a.watchers...)
	a.mu.Unlock()

	for _, w := range watchers {
		w(v)
	}
	a.propagate(a.name)
}

// Reset restores the initial value.
func (a *Atom[T]) Reset() {
	a.Set(a.initial)
}

// Watch registers fn to run synchronously after every Set or Reset, e.g. to
// persist the value.
func (a *Atom[T]) Watch(fn func(T)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watchers = append(a.watchers, fn)
}
