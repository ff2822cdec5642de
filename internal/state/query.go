package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultMemoSize bounds how many input combinations a query remembers.
const DefaultMemoSize = 64

// maxSupersede caps how many times Get restarts because its inputs changed
// while a fetch was in flight.
const maxSupersede = 3

// FlightTimeout bounds a shared fetch. The fetch outlives the caller that
// started it so other callers waiting on the same key are not cut short.
var FlightTimeout = 30 * time.Second

// Resolver reads a query's inputs. It returns the input values that make up
// the memo key and a fetch function closed over those inputs. It returns an
// error wrapping ErrUnavailable when an input is missing.
type Resolver[T any] func(ctx context.Context) (key []any, fetch func(context.Context) (T, error), err error)

// Query is a derived node: cached value, dirty flag and recompute function.
type Query[T any] struct {
	links

	name    string
	resolve Resolver[T]
	memo    *lru.Cache[string, T]
	flight  singleflight.Group

	mu         sync.Mutex
	dirty      bool
	generation uint64
	currentKey string
	current    T
	hasCurrent bool
}

// NewQuery creates a query that recomputes through resolve.
func NewQuery[T any](name string, resolve Resolver[T]) *Query[T] {
	memo, err := lru.New[string, T](DefaultMemoSize)
	if err != nil {
		panic(fmt.Sprintf("state: creating memo for %s: %v", name, err))
	}
	return &Query[T]{name: name, resolve: resolve, memo: memo, dirty: true}
}

// Name returns the query's name.
func (q *Query[T]) Name() string { return q.name }

// DependsOn declares that q must be recomputed when any of nodes changes.
func (q *Query[T]) DependsOn(nodes ...Node) *Query[T] {
	for _, n := range nodes {
		n.addDependent(q)
	}
	return q
}

// Dirty reports whether the query must recompute on the next Get.
func (q *Query[T]) Dirty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dirty
}

// Peek returns the last resolved value without recomputing.
func (q *Query[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.current, q.hasCurrent
}

// Get returns the value for the current inputs. A clean query answers from
// its cached value; a dirty one resolves its inputs and either finds the
// result memoized under their key or fetches it. When inputs change while
// the fetch is in flight, the newer inputs supersede it and Get starts over.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		q.mu.Lock()
		if !q.dirty && q.hasCurrent {
			v := q.current
			q.mu.Unlock()
			return v, nil
		}
		gen := q.generation
		q.mu.Unlock()

		parts, fetch, err := q.resolve(ctx)
		if err != nil {
			return zero, fmt.Errorf("%s: %w", q.name, err)
		}
		key := Key(parts...)

		v, ok := q.memo.Get(key)
		if !ok {
			ch := q.flight.DoChan(key, func() (any, error) {
				if hit, ok := q.memo.Get(key); ok {
					return hit, nil
				}
				fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FlightTimeout)
				defer cancel()
				fetched, err := fetch(fctx)
				if err != nil {
					return nil, err
				}
				q.memo.Add(key, fetched)
				return fetched, nil
			})
			var res singleflight.Result
			select {
			case res = <-ch:
			case <-ctx.Done():
				return zero, fmt.Errorf("%s: %w", q.name, ctx.Err())
			}
			if res.Err != nil {
				return zero, fmt.Errorf("%s: %w", q.name, res.Err)
			}
			v = res.Val.(T)
		}

		q.mu.Lock()
		if q.generation != gen && attempt < maxSupersede {
			q.mu.Unlock()
			continue
		}
		changed := !q.hasCurrent || q.currentKey != key
		q.current, q.currentKey, q.hasCurrent = v, key, true
		q.dirty = false
		q.mu.Unlock()

		if changed {
			q.feed.Send(Event{Node: q.name})
		}
		return v, nil
	}
}

// Invalidate forgets every memoized result, e.g. when prices are refreshed,
// and marks the query and its dependents dirty.
func (q *Query[T]) Invalidate() {
	q.memo.Purge()
	q.markDirty()
}

func (q *Query[T]) markDirty() {
	q.mu.Lock()
	q.dirty = true
	q.generation++
	q.mu.Unlock()
	q.propagate(q.name)
}
