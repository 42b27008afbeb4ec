package scheduler_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/free-creations/a-j-midi/internal/logging"
	"github.com/free-creations/a-j-midi/internal/scheduler"
	"github.com/free-creations/a-j-midi/internal/sysclock"
)

const sampleRate = 48000

type fakeEngine struct {
	framesSinceStart uint32
	periodUsec       float64
	err              error
	calls            int
}

func (f *fakeEngine) CycleTimes() (uint32, float64, error) {
	f.calls++
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.framesSinceStart, f.periodUsec, nil
}

func TestFirstCallAlwaysResyncs(t *testing.T) {
	clk := sysclock.NewFake()
	eng := &fakeEngine{periodUsec: 21333.33} // ~1024 frames @ 48kHz
	s := scheduler.New(clk, eng, logging.NewNoop(), sampleRate, 0)

	d := s.NewDeadline()
	assert.Equal(t, 1, s.ResetCount())
	assert.False(t, d.After(clk.Now()))
}

func TestRegularCyclesResyncOnlyOnce(t *testing.T) {
	clk := sysclock.NewFake()
	cycleLen := 21333333 * time.Nanosecond // ~21.33ms, matches 1024 frames @ 48kHz
	eng := &fakeEngine{framesSinceStart: 0, periodUsec: float64(cycleLen.Microseconds())}
	s := scheduler.New(clk, eng, logging.NewNoop(), sampleRate, 0)

	clk.Advance(cycleLen)
	s.NewDeadline()
	require.Equal(t, 1, s.ResetCount())

	for i := 0; i < 50; i++ {
		clk.Advance(cycleLen)
		s.NewDeadline()
	}
	assert.Equal(t, 1, s.ResetCount(), "regular cycles must take the fast path after the initial resync")
}

func TestNewDeadlineNeverExceedsNow(t *testing.T) {
	clk := sysclock.NewFake()
	cycleLen := 10 * time.Millisecond
	eng := &fakeEngine{periodUsec: float64(cycleLen.Microseconds())}
	s := scheduler.New(clk, eng, logging.NewNoop(), sampleRate, 0)

	for i := 0; i < 20; i++ {
		clk.Advance(cycleLen)
		d := s.NewDeadline()
		assert.False(t, d.After(clk.Now()))
	}
}

func TestXrunForcesResync(t *testing.T) {
	clk := sysclock.NewFake()
	cycleLen := 10 * time.Millisecond
	eng := &fakeEngine{periodUsec: float64(cycleLen.Microseconds())}
	s := scheduler.New(clk, eng, logging.NewNoop(), sampleRate, 0)

	clk.Advance(cycleLen)
	s.NewDeadline()
	require.Equal(t, 1, s.ResetCount())

	// Simulate an xrun: the callback is invoked only after several cycle
	// lengths worth of wall-clock time have passed, well beyond the
	// plausibility window of a single missed cycle plus jitter.
	clk.Advance(5 * cycleLen)
	eng.framesSinceStart = 0
	d := s.NewDeadline()

	assert.Equal(t, 2, s.ResetCount())
	earliest := clk.Now().Add(-cycleLen - scheduler.JitterCompensation)
	assert.False(t, d.Before(earliest))
	assert.False(t, d.After(clk.Now()))
}

func TestResyncFailureReturnsNowAndStaysInvalidated(t *testing.T) {
	clk := sysclock.NewFake()
	eng := &fakeEngine{err: errors.New("engine gone")}
	s := scheduler.New(clk, eng, logging.NewNoop(), sampleRate, 0)

	d := s.NewDeadline()
	assert.Equal(t, clk.Now(), d)
	assert.Equal(t, 0, s.ResetCount())

	// Still invalidated: the next call must resync again, not take the fast
	// path off of a zeroed cycle length.
	d2 := s.NewDeadline()
	assert.Equal(t, clk.Now(), d2)
}

func TestInvalidateForcesSlowPath(t *testing.T) {
	clk := sysclock.NewFake()
	cycleLen := 10 * time.Millisecond
	eng := &fakeEngine{periodUsec: float64(cycleLen.Microseconds())}
	s := scheduler.New(clk, eng, logging.NewNoop(), sampleRate, 0)

	clk.Advance(cycleLen)
	s.NewDeadline()
	require.Equal(t, 1, s.ResetCount())

	s.Invalidate()
	clk.Advance(cycleLen)
	s.NewDeadline()
	assert.Equal(t, 1, s.ResetCount(), "Invalidate resets resetCount to 0, then resync increments it back to 1")
}
