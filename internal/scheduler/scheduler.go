// Package scheduler implements C4, the cycle scheduler: per-cycle deadline
// computation with adaptive resync, grounded on
// _examples/original_source/src/jack_client.cpp's resetTiming/isPlausible/
// newDeadline trio.
package scheduler

import (
	"time"

	"github.com/free-creations/a-j-midi/internal/logging"
	"github.com/free-creations/a-j-midi/internal/sysclock"
)

// JitterCompensation absorbs synchronization noise between the audio
// engine's timing model and the host clock — spec.md §6's JITTER_COMPENSATION
// constant (500µs).
const JitterCompensation = 500 * time.Microsecond

// EngineTiming is the cycle-timing query the audio engine adapter exposes
// (spec.md §6 "Audio engine adapter"): the number of frames elapsed since the
// current cycle started, and the engine's current best estimate of the
// cycle period in microseconds.
type EngineTiming interface {
	CycleTimes() (framesSinceCycleStart uint32, periodEstimateUsec float64, err error)
}

// Scheduler holds the three process-wide timing values from spec.md §3
// "Scheduler state" and computes NewDeadline once per realtime cycle.
//
// Scheduler is not internally synchronized: spec.md §5 places it solely on
// the realtime callback's thread. Invalidate is called only from New (before
// the engine is activated) and from resync.
type Scheduler struct {
	clock      sysclock.Clock
	engine     EngineTiming
	logger     logging.Logger
	sampleRate uint32

	jitterCompensation time.Duration

	previousDeadline sysclock.Timestamp
	cycleLength      time.Duration
	resetCount       int
}

// New constructs a Scheduler already invalidated, forcing a resync on the
// first NewDeadline call. sampleRate is the audio engine's fixed sample
// rate, used to convert frames-since-cycle-start into a duration.
// jitterCompensation is the synchronization-noise margin
// (config.BridgeOptions.JitterCompensation); a non-positive value falls back
// to JitterCompensation.
func New(clock sysclock.Clock, engine EngineTiming, logger logging.Logger, sampleRate uint32, jitterCompensation time.Duration) *Scheduler {
	if jitterCompensation <= 0 {
		jitterCompensation = JitterCompensation
	}
	s := &Scheduler{clock: clock, engine: engine, logger: logger, sampleRate: sampleRate, jitterCompensation: jitterCompensation}
	s.Invalidate()
	return s
}

// Invalidate zeroes all scheduler state, forcing the slow path on the next
// NewDeadline call. Called by New and after a failed resync.
func (s *Scheduler) Invalidate() {
	s.previousDeadline = sysclock.Zero
	s.cycleLength = 0
	s.resetCount = 0
}

// ResetCount is the diagnostic count of resyncs performed so far.
func (s *Scheduler) ResetCount() int {
	return s.resetCount
}

// NewDeadline computes the deadline timestamp for the current cycle —
// spec.md §4.4. The fast path simply advances the previous deadline by the
// cached cycle length; if the result isn't plausible, the slow path
// re-queries the engine and resyncs.
func (s *Scheduler) NewDeadline() sysclock.Timestamp {
	tentative := s.previousDeadline.Add(s.cycleLength)
	if s.isPlausible(tentative) {
		s.previousDeadline = tentative
		return tentative
	}
	return s.resync()
}

// isPlausible reports whether d could legitimately be this cycle's deadline:
// not in the future, and not further in the past than one cycle plus jitter.
func (s *Scheduler) isPlausible(d sysclock.Timestamp) bool {
	now := s.clock.Now()
	if !d.Before(now) {
		return false // too late: d >= now
	}
	earliestPossible := now.Add(-s.cycleLength - s.jitterCompensation)
	if d.Before(earliestPossible) {
		return false // too early: the callback fell behind (xrun) or state is stale
	}
	return true
}

// resync re-queries the engine for its current cycle-period estimate and
// frame position, and recomputes the deadline from first principles. If the
// engine query fails, it logs the fault, leaves state invalidated so the
// next call also resyncs, and returns now() as a safe over-approximation —
// spec.md §4.4 "Failure".
func (s *Scheduler) resync() sysclock.Timestamp {
	framesSinceCycleStart, periodUsec, err := s.engine.CycleTimes()
	if err != nil {
		s.logger.Error("scheduler: resync failed to query engine cycle times",
			s.logger.Field().Error("error", err))
		s.Invalidate()
		return s.clock.Now()
	}

	s.resetCount++
	s.cycleLength = usecToDuration(periodUsec)

	deadline := s.clock.Now().
		Add(-s.clock.FramesToDuration(framesSinceCycleStart, s.sampleRate)).
		Add(-s.jitterCompensation)
	s.previousDeadline = deadline
	return deadline
}

func usecToDuration(usec float64) time.Duration {
	return time.Duration(usec * float64(time.Microsecond))
}
