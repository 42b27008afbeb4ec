package receiverqueue

import (
	"sync"

	"github.com/free-creations/a-j-midi/internal/midisource"
)

// node is the Go rendering of spec.md's "pending handle": a one-shot slot
// eventually fulfilled with either an EventBatch plus a successor node, or an
// interrupted marker, or a fatal error. Fulfilling a node is a lock-free
// publication — readers observe it by waiting on ready, never by taking a
// lock (spec.md §4.3 "Concurrent access").
type node struct {
	ready chan struct{}
	once  sync.Once

	batch       midisource.EventBatch
	next        *node
	interrupted bool
	err         error
}

func newNode() *node {
	return &node{ready: make(chan struct{})}
}

// newResolvedNode builds a node that is already fulfilled with batch/next.
// Used by DrainUntil to re-package a batch peeked past the deadline — see
// spec.md §4.3 "Drain semantics".
func newResolvedNode(batch midisource.EventBatch, next *node) *node {
	n := newNode()
	n.fulfillBatch(batch, next)
	return n
}

func (n *node) fulfillBatch(batch midisource.EventBatch, next *node) {
	n.once.Do(func() {
		n.batch = batch
		n.next = next
		close(n.ready)
	})
}

func (n *node) fulfillInterrupted() {
	n.once.Do(func() {
		n.interrupted = true
		close(n.ready)
	})
}

func (n *node) fulfillErr(err error) {
	n.once.Do(func() {
		n.err = err
		close(n.ready)
	})
}

// isReady reports whether this node has been fulfilled, without blocking.
func (n *node) isReady() bool {
	select {
	case <-n.ready:
		return true
	default:
		return false
	}
}
