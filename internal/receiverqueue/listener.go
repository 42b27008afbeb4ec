package receiverqueue

import (
	"github.com/free-creations/a-j-midi/internal/midisource"
)

// listen is the listener task body (spec.md §4.3 "Listener task"). Exactly
// one listener is ever live across the whole chain: it runs until either the
// carry-on flag is cleared, in which case it fulfills n as interrupted and
// returns without spawning a successor, or a non-empty batch is drained, in
// which case it spawns the next listener *before* fulfilling n — so a
// consumer that immediately consumes the newly-ready node never observes a
// node with no live successor handle.
func (q *Queue) listen(src midisource.Source, n *node) {
	for q.carryOn.Load() {
		readable, err := src.WaitReadable(q.shutdownPollPeriod)
		if err != nil {
			n.fulfillErr(err)
			return
		}

		if readable && q.carryOn.Load() {
			batch, ok, err := midisource.Drain(src, q.clock)
			if err != nil {
				n.fulfillErr(err)
				return
			}
			if ok {
				next := newNode()
				q.pending.Add(1)
				go q.listen(src, next)
				n.fulfillBatch(batch, next)
				return
			}
		}
	}
	n.fulfillInterrupted()
}
