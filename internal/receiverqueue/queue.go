// Package receiverqueue implements C3, the receiver queue: the lock-light
// FIFO chain of timestamped MIDI event batches that mediates between the
// background listener (blocked on the MIDI source's pollable descriptors) and
// the realtime audio callback's bounded-latency drain.
//
// The chain-of-pending-handles model below mirrors
// _examples/original_source/src/alsa_receiver_queue.cpp's future/promise
// chain; spec.md §9 notes an SPSC-ring-buffer rendering is an equally valid
// model, but tests must not assume one — this module keeps the chain because
// it is what the teacher's concurrency idioms (sync/atomic, sync.Once,
// sync.Mutex) translate to most directly.
package receiverqueue

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/free-creations/a-j-midi/internal/logging"
	"github.com/free-creations/a-j-midi/internal/midisource"
	"github.com/free-creations/a-j-midi/internal/sysclock"
)

// State is the lifecycle of the Queue (spec.md §3 "Overall lifecycle").
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// ShutdownPollPeriod is the listener's bounded poll timeout — the default
// matches spec.md §6's SHUTDOWN_POLL_PERIOD constant (10ms).
const ShutdownPollPeriod = 10 * time.Millisecond

// ErrAlreadyRunning is returned by Start when the queue is already Running —
// spec.md §4.3 classifies this as a fatal caller error.
var ErrAlreadyRunning = errors.New("receiverqueue: already running")

// Visitor receives each event in a drained batch, along with the batch's
// timestamp (spec.md §6 "Sink callback").
type Visitor func(event midisource.RawEvent, timestamp sysclock.Timestamp)

// Queue is the receiver queue described in spec.md §3/§4.3.
type Queue struct {
	clock  sysclock.Clock
	logger logging.Logger

	shutdownPollPeriod time.Duration

	mu    sync.Mutex
	head  *node
	state State

	carryOn atomic.Bool
	pending atomic.Int64 // pending_batch_count
}

// New constructs a Stopped Queue. shutdownPollPeriod is the listener's
// bounded poll timeout (config.BridgeOptions.ShutdownPollPeriod); a
// non-positive value falls back to ShutdownPollPeriod.
func New(clock sysclock.Clock, logger logging.Logger, shutdownPollPeriod time.Duration) *Queue {
	if shutdownPollPeriod <= 0 {
		shutdownPollPeriod = ShutdownPollPeriod
	}
	return &Queue{clock: clock, logger: logger, shutdownPollPeriod: shutdownPollPeriod}
}

// Start installs the head pending handle and spawns the first listener task.
// Calling Start while already Running is a fatal caller error: the existing
// listener chain is torn down (as if Stop had been called) and
// ErrAlreadyRunning is returned, leaving the queue Stopped — spec.md §8
// scenario 6.
func (q *Queue) Start(src midisource.Source) error {
	q.mu.Lock()
	if q.state == Running {
		q.logger.Error("receiverqueue: start called while already running")
		q.stopLocked()
		q.mu.Unlock()
		return fmt.Errorf("%w: cannot start, a listener is already active", ErrAlreadyRunning)
	}

	q.carryOn.Store(true)
	head := newNode()
	q.head = head
	q.state = Running
	q.mu.Unlock()

	go q.listen(src, head)
	return nil
}

// Stop clears the carry-on flag, waits long enough for the listener blocked
// in its bounded poll to observe it, then drops the chain. It never fails —
// spec.md §4.3 "Shutdown discipline".
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopLocked()
}

func (q *Queue) stopLocked() {
	q.carryOn.Store(false)
	time.Sleep(2 * q.shutdownPollPeriod)
	q.dropChainLocked()
	q.state = Stopped
}

// dropChainLocked discards the chain from head onward, decrementing the
// pending-batch counter for every already-ready, still-unconsumed batch it
// finds — matching the original's recursive future-destructor teardown.
func (q *Queue) dropChainLocked() {
	n := q.head
	for n != nil && n.isReady() {
		if n.err == nil && !n.interrupted {
			q.pending.Add(-1)
		}
		n = n.next
	}
	q.head = nil
}

// State reports whether the queue is Stopped or Running.
func (q *Queue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// HasResult reports whether the head pending handle has been fulfilled.
func (q *Queue) HasResult() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head != nil && q.head.isReady()
}

// PendingBatchCount returns the diagnostic count of ready, unconsumed
// batches currently held in the chain.
func (q *Queue) PendingBatchCount() int {
	return int(q.pending.Load())
}

// DrainUntil consumes zero or more ready batches from the head whose
// timestamp is at most deadline, invoking visitor for every event in order.
// It never blocks: processing stops at the first node that is still
// waiting. A batch peeked past the deadline is re-packaged into a fresh,
// already-satisfied node and reinstalled as the head, so no event is ever
// lost by being observed too early. A fatal error raised by the listener is
// surfaced here exactly once, after which the queue transitions to Stopped.
func (q *Queue) DrainUntil(deadline sysclock.Timestamp, visitor Visitor) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head != nil && q.head.isReady() {
		n := q.head

		if n.err != nil {
			q.logger.Error("receiverqueue: fatal listener error surfaced", q.logger.Field().Error("error", n.err))
			q.head = nil
			q.state = Stopped
			return n.err
		}
		if n.interrupted {
			q.head = nil
			return nil
		}
		if n.batch.Timestamp.After(deadline) {
			// Give the batch back: re-install it, unconsumed, as a fresh head.
			q.head = newResolvedNode(n.batch, n.next)
			return nil
		}

		for _, e := range n.batch.Events {
			visitor(e, n.batch.Timestamp)
		}
		q.pending.Add(-1)
		q.head = n.next
	}
	return nil
}
