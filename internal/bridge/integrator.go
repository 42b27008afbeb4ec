// Package bridge implements C5, the process integrator: the glue invoked
// once per audio cycle that computes the deadline, drains the receiver
// queue, and emits (event, frame_offset) pairs to the sink — spec.md §4.5.
package bridge

import (
	"errors"
	"fmt"

	"github.com/free-creations/a-j-midi/internal/logging"
	"github.com/free-creations/a-j-midi/internal/midisource"
	"github.com/free-creations/a-j-midi/internal/receiverqueue"
	"github.com/free-creations/a-j-midi/internal/scheduler"
	"github.com/free-creations/a-j-midi/internal/sysclock"
)

// ErrFrameOffsetOverflow is raised when an event's computed frame offset
// would fall at or beyond the current cycle's frame count — spec.md §4.5
// treats this as a scheduler bug, hence fatal.
var ErrFrameOffsetOverflow = errors.New("bridge: frame offset exceeds cycle size")

// Sink receives one event per call, tagged with its offset (in frames) from
// the start of the current audio cycle — spec.md §6 "Sink callback", recast
// in frame-offset rather than Timestamp terms since that's what the audio
// engine adapter actually consumes when writing into the cycle's MIDI buffer.
type Sink func(event midisource.RawEvent, frameOffset uint32)

// CycleTimer is the subset of the audio engine adapter the integrator needs
// to convert event timestamps into frame offsets within the current cycle.
type CycleTimer interface {
	CycleTimes() (framesSinceCycleStart uint32, periodEstimateUsec float64, err error)
}

// Integrator wires a Scheduler and a Queue together on behalf of the audio
// engine's realtime callback.
type Integrator struct {
	clock      sysclock.Clock
	scheduler  *scheduler.Scheduler
	queue      *receiverqueue.Queue
	engine     CycleTimer
	sampleRate uint32
	sink       Sink
	logger     logging.Logger
}

// New constructs an Integrator. sampleRate is the engine's fixed sample
// rate, used for the integrator's own frame↔duration conversions; the
// scheduler receives its sample rate separately, through scheduler.New.
func New(clock sysclock.Clock, sched *scheduler.Scheduler, queue *receiverqueue.Queue, engine CycleTimer, sampleRate uint32, sink Sink, logger logging.Logger) *Integrator {
	return &Integrator{
		clock:      clock,
		scheduler:  sched,
		queue:      queue,
		engine:     engine,
		sampleRate: sampleRate,
		sink:       sink,
		logger:     logger,
	}
}

// Process executes once per audio cycle (spec.md §4.5): it computes the
// deadline, drains the queue up to it, and converts each delivered event's
// timestamp into a sample-frame offset within the cycle of frameCount
// frames. Returns a non-nil error only for a fatal condition (listener
// fault surfaced by the queue, or a frame-offset overflow bug) — both of
// which should stop the audio client, per spec.md §6's process-callback
// contract ("non-zero = stop client").
func (b *Integrator) Process(frameCount uint32) error {
	deadline := b.scheduler.NewDeadline()

	cycleStart, err := b.cycleStart()
	if err != nil {
		// Non-fatal per spec.md §4.4: the scheduler itself already logged
		// and invalidated; fall back to the deadline as an approximation so
		// this cycle still makes forward progress instead of stalling.
		cycleStart = deadline
	}

	var fatal error
	drainErr := b.queue.DrainUntil(deadline, func(event midisource.RawEvent, ts sysclock.Timestamp) {
		if fatal != nil {
			return
		}
		offset, offsetErr := b.frameOffset(ts, cycleStart, frameCount)
		if offsetErr != nil {
			fatal = offsetErr
			return
		}
		b.sink(event, offset)
	})
	if drainErr != nil {
		return drainErr
	}
	return fatal
}

func (b *Integrator) cycleStart() (sysclock.Timestamp, error) {
	framesSinceCycleStart, _, err := b.engine.CycleTimes()
	if err != nil {
		return sysclock.Timestamp{}, err
	}
	return b.clock.Now().Add(-b.clock.FramesToDuration(framesSinceCycleStart, b.sampleRate)), nil
}

// frameOffset converts an event's timestamp into a frame offset relative to
// cycleStart. Negative offsets (events slightly older than this cycle's
// start, within jitter tolerance) are clamped to zero; offsets at or beyond
// frameCount indicate a scheduler bug and are fatal.
func (b *Integrator) frameOffset(ts, cycleStart sysclock.Timestamp, frameCount uint32) (uint32, error) {
	elapsed := ts.Sub(cycleStart)
	if elapsed <= 0 {
		return 0, nil
	}
	frames := elapsed / (b.clock.FramesToDuration(1, b.sampleRate))
	if frames < 0 {
		return 0, nil
	}
	if uint32(frames) >= frameCount {
		return 0, fmt.Errorf("%w: offset %d at sample rate %d exceeds cycle size %d", ErrFrameOffsetOverflow, frames, b.sampleRate, frameCount)
	}
	return uint32(frames), nil
}
