// Package midisource defines the MIDI source adapter contract (C2, C6) — a
// pollable, non-blocking FIFO the receiver queue's listener drains on each
// wakeup, and the EventBatch value it produces.
//
// This generalizes the ALSA-sequencer-specific contract in
// _examples/original_source/src/alsa_receiver_queue.h (snd_seq_poll_descriptors,
// snd_seq_event_input) to any pollable MIDI source, the way spec.md §6 requires.
package midisource

import (
	"time"

	"github.com/free-creations/a-j-midi/internal/sysclock"
)

// RawEvent is an opaque, bounded MIDI event payload. Its internal structure
// (status byte, data bytes, sysex framing, ...) is never interpreted by the
// core — see spec.md §1 Non-goals: no MIDI data transformation or filtering.
type RawEvent []byte

// EventBatch is the immutable record produced at the moment a poll returns
// with data. Events preserves source FIFO order; it is always non-empty —
// an empty drain never produces a batch (see Drain).
type EventBatch struct {
	Timestamp sysclock.Timestamp
	Events    []RawEvent
}

// PollFD names one OS file descriptor the source wants polled, along with the
// event mask that indicates readability (POLLIN-equivalent).
type PollFD struct {
	FD     int
	Events int16
}

// Source is the opaque MIDI source handle described in spec.md §6: it exposes
// poll-descriptor enumeration and a non-blocking single-event read.
type Source interface {
	// PollFDs returns the descriptors that should be polled for input.
	PollFDs() ([]PollFD, error)

	// WaitReadable blocks for at most timeout waiting for PollFDs to become
	// readable. It is the listener's bounded-timeout poll (spec.md §4.3 step
	// 2) — the bound lets the listener re-check the carry-on flag within
	// bounded wall-clock latency of a stop request.
	WaitReadable(timeout time.Duration) (readable bool, err error)

	// ReadEvent pulls at most one event from the source's internal FIFO
	// without blocking. wouldBlock is true when the FIFO is currently empty;
	// in that case event is nil and err is nil.
	ReadEvent() (event RawEvent, wouldBlock bool, err error)

	// Close releases any resources held by the source.
	Close() error

	// String names the source for logging.
	String() string
}

// Drain repeatedly pulls events from src until it reports would-block,
// concatenating them in source order (C2 "drain"). If no events were pulled
// it returns ok=false — no batch is produced for an empty drain. A non-nil
// err other than would-block is fatal and must terminate the listener (see
// spec.md §7.3).
func Drain(src Source, clock sysclock.Clock) (batch EventBatch, ok bool, err error) {
	var events []RawEvent
	for {
		event, wouldBlock, rerr := src.ReadEvent()
		if rerr != nil {
			return EventBatch{}, false, rerr
		}
		if wouldBlock {
			break
		}
		events = append(events, event)
	}
	if len(events) == 0 {
		return EventBatch{}, false, nil
	}
	// The timestamp reflects the instant events were removed from the source
	// FIFO, captured after the drain completes — spec.md §4.3 step 4.
	return EventBatch{Timestamp: clock.Now(), Events: events}, true, nil
}
