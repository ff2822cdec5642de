package state

import "sync"

// Family lazily creates one query per parameter value. Parameters are
// compared by the canonical string keyOf returns.
type Family[P any, T any] struct {
	keyOf func(P) string
	build func(P) *Query[T]

	mu      sync.Mutex
	members map[string]*Query[T]
}

// NewFamily creates a family.
func NewFamily[P any, T any](keyOf func(P) string, build func(P) *Query[T]) *Family[P, T] {
	return &Family[P, T]{keyOf: keyOf, build: build, members: make(map[string]*Query[T])}
}

// Get returns the query for p, creating it on first use.
func (f *Family[P, T]) Get(p P) *Query[T] {
	k := f.keyOf(p)
	f.mu.Lock()
	defer f.mu.Unlock()
	if q, ok := f.members[k]; ok {
		return q
	}
	q := f.build(p)
	f.members[k] = q
	return q
}

// Len returns how many members have been created.
func (f *Family[P, T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members)
}
