package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doubler derives 2×src and counts how often it fetches.
func doubler(src *Atom[int], calls *atomic.Int32) *Query[int] {
	return NewQuery("double", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		v := src.Get()
		return []any{v}, func(context.Context) (int, error) {
			calls.Add(1)
			return v * 2, nil
		}, nil
	}).DependsOn(src)
}

func TestAtomSetGetReset(t *testing.T) {
	a := NewAtom("token", "tnam1native")
	assert.Equal(t, "tnam1native", a.Get())

	a.Set("tnam1atom")
	assert.Equal(t, "tnam1atom", a.Get())
	assert.Equal(t, uint64(1), a.Version())

	a.Reset()
	assert.Equal(t, "tnam1native", a.Get())
	assert.Equal(t, uint64(2), a.Version())
}

func TestAtomWatchRunsOnSetAndReset(t *testing.T) {
	a := NewAtom("pref", "")
	var seen []string
	a.Watch(func(v string) { seen = append(seen, v) })

	a.Set("x")
	a.Reset()
	assert.Equal(t, []string{"x", ""}, seen)
}

func TestQueryMemoizesUnchangedInputs(t *testing.T) {
	src := NewAtom("src", 2)
	var calls atomic.Int32
	q := doubler(src, &calls)

	v, err := q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	v, err = q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, int32(1), calls.Load(), "clean query must not refetch")
}

func TestQueryRecomputesWhenDependencyChanges(t *testing.T) {
	src := NewAtom("src", 2)
	var calls atomic.Int32
	q := doubler(src, &calls)

	_, err := q.Get(context.Background())
	require.NoError(t, err)

	src.Set(5)
	assert.True(t, q.Dirty())

	v, err := q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQueryReusesMemoWhenInputsReturn(t *testing.T) {
	src := NewAtom("src", 2)
	var calls atomic.Int32
	q := doubler(src, &calls)

	_, _ = q.Get(context.Background())
	src.Set(3)
	_, _ = q.Get(context.Background())
	src.Set(2)
	v, err := q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	assert.Equal(t, int32(2), calls.Load(), "inputs seen before are answered from the memo")
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := NewAtom("src", 1)
	var calls atomic.Int32
	q := doubler(src, &calls)

	_, _ = q.Get(context.Background())
	q.Invalidate()
	_, _ = q.Get(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestDirtinessPropagatesTransitively(t *testing.T) {
	src := NewAtom("src", 1)
	var calls atomic.Int32
	mid := doubler(src, &calls)
	top := NewQuery("plus-one", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		m, err := mid.Get(ctx)
		if err != nil {
			return nil, nil, err
		}
		return []any{m}, func(context.Context) (int, error) { return m + 1, nil }, nil
	}).DependsOn(mid)

	v, err := top.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	src.Set(10)
	assert.True(t, top.Dirty())
	v, err = top.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 21, v)
}

func TestUnavailableInputDoesNotResolve(t *testing.T) {
	token := NewAtom("token", "")
	q := NewQuery("price", func(ctx context.Context) ([]any, func(context.Context) (string, error), error) {
		tok := token.Get()
		if tok == "" {
			return nil, nil, Unavailable("gas token")
		}
		return []any{tok}, func(context.Context) (string, error) { return "price of " + tok, nil }, nil
	}).DependsOn(token)

	_, err := q.Get(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	_, ok := q.Peek()
	assert.False(t, ok, "no partial value is recorded")

	token.Set("tnam1a")
	v, err := q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "price of tnam1a", v)
}

func TestFetchErrorIsNotMemoized(t *testing.T) {
	fail := true
	q := NewQuery("flaky", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		return []any{"k"}, func(context.Context) (int, error) {
			if fail {
				return 0, errors.New("indexer down")
			}
			return 7, nil
		}, nil
	})

	_, err := q.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flaky: indexer down")

	fail = false
	v, err := q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	q := NewQuery("slow", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		return []any{"same"}, func(context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 1, nil
		}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := q.Get(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, 1, v)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestExpiredCallerDoesNotCancelSharedFetch(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	q := NewQuery("slow", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		return []any{"same"}, func(ctx context.Context) (int, error) {
			if calls.Add(1) == 1 {
				close(started)
			}
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(100 * time.Millisecond):
				return 7, nil
			}
		}, nil
	})

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	shortErr := make(chan error, 1)
	go func() {
		_, err := q.Get(short)
		shortErr <- err
	}()
	<-started

	v, err := q.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.ErrorIs(t, <-shortErr, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSharedFetchIsBoundedByFlightTimeout(t *testing.T) {
	prev := FlightTimeout
	FlightTimeout = 20 * time.Millisecond
	t.Cleanup(func() { FlightTimeout = prev })

	q := NewQuery("stuck", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		return []any{"same"}, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		}, nil
	})

	_, err := q.Get(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	_, ok := q.Peek()
	assert.False(t, ok)
}

func TestNewerInputsSupersedeInFlightFetch(t *testing.T) {
	src := NewAtom("src", 1)
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	q := NewQuery("superseded", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
		v := src.Get()
		return []any{v}, func(context.Context) (int, error) {
			if v == 1 {
				started <- struct{}{}
				<-release
			}
			return v * 100, nil
		}, nil
	}).DependsOn(src)

	done := make(chan int, 1)
	go func() {
		v, err := q.Get(context.Background())
		assert.NoError(t, err)
		done <- v
	}()

	<-started
	src.Set(2)
	close(release)

	assert.Equal(t, 200, <-done, "result for stale inputs is superseded")
	cur, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 200, cur)
}

func TestSubscribeReceivesEvents(t *testing.T) {
	src := NewAtom("src", 1)
	var calls atomic.Int32
	q := doubler(src, &calls)

	ch := make(chan Event, 8)
	sub := q.Subscribe(ch)
	defer sub.Unsubscribe()

	src.Set(2)
	select {
	case ev := <-ch:
		assert.Equal(t, "double", ev.Node)
	case <-time.After(time.Second):
		t.Fatal("no event after dependency change")
	}
}

func TestFamilyCreatesOneQueryPerKey(t *testing.T) {
	built := 0
	f := NewFamily(func(p []string) string { return Key(p) }, func(p []string) *Query[int] {
		built++
		n := len(p)
		return NewQuery("len", func(ctx context.Context) ([]any, func(context.Context) (int, error), error) {
			return []any{n}, func(context.Context) (int, error) { return n, nil }, nil
		})
	})

	a := f.Get([]string{"Bond"})
	b := f.Get([]string{"Bond"})
	c := f.Get([]string{"Bond", "Unbond"})

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, built)
	assert.Equal(t, 2, f.Len())
}

func TestKeyIsStableForDecimals(t *testing.T) {
	k1 := Key("gas", math.LegacyMustNewDecFromStr("0.5"))
	k2 := Key("gas", math.LegacyMustNewDecFromStr("0.50"))
	k3 := Key("gas", math.LegacyMustNewDecFromStr("0.6"))
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 32)
}
