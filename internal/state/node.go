// Package state is a small dependency-tracking graph of derived values.
//
// Atoms hold values set from outside (the selected account, the preferred
// gas token). Queries derive values from atoms, other queries and remote
// calls; each query memoizes results by a digest of its inputs, so asking
// again with unchanged inputs never refetches. Setting an atom marks every
// transitive dependent dirty and publishes an Event to subscribers.
package state

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"golang.org/x/crypto/sha3"
)

// ErrUnavailable is returned when a required input of a query is not
// available yet. The query does not resolve to a partial result.
var ErrUnavailable = errors.New("state: input unavailable")

// Unavailable wraps ErrUnavailable with the name of the missing input.
func Unavailable(what string) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, what)
}

// Event is published on a node's feed whenever it changes or is marked dirty.
type Event struct {
	Node string
}

// Node is anything that can be depended upon.
type Node interface {
	Name() string
	Subscribe(ch chan<- Event) event.Subscription
	addDependent(d dependent)
}

type dependent interface {
	markDirty()
}

// links holds the outgoing edges and change feed shared by every node kind.
type links struct {
	edgesMu    sync.Mutex
	dependents []dependent
	feed       event.Feed
}

func (l *links) addDependent(d dependent) {
	l.edgesMu.Lock()
	defer l.edgesMu.Unlock()
	l.dependents = append(l.dependents, d)
}

// Subscribe delivers an Event on ch every time the node changes. Sends block
// until received, so ch should be buffered and drained.
func (l *links) Subscribe(ch chan<- Event) event.Subscription {
	return l.feed.Subscribe(ch)
}

// propagate marks every dependent dirty and publishes an event for name.
// It must be called without holding any node lock.
func (l *links) propagate(name string) {
	l.edgesMu.Lock()
	deps := make([]dependent, len(l.dependents))
	copy(deps, l.dependents)
	l.edgesMu.Unlock()

	for _, d := range deps {
		d.markDirty()
	}
	l.feed.Send(Event{Node: name})
}

// Key digests the inputs of a query into a fixed-size memo key. Inputs are
// JSON encoded, so maps and decimals give stable keys.
func Key(parts ...any) string {
	buf, err := json.Marshal(parts)
	if err != nil {
		buf = []byte(fmt.Sprintf("%#v", parts))
	}
	sum := sha3.Sum256(buf)
	return hex.EncodeToString(sum[:16])
}
