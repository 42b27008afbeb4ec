// Package noopengine is a fully functional but silent audioengine.Engine,
// used by the --dry-run flag to exercise the whole bridge (receiver queue,
// scheduler, process integrator) without a live JACK server, the way the
// teacher's dummy adapters (mididarwin/client_dummy.go,
// midiwindows/client_dummy.go) stand in for a missing backend — except this
// one actually completes every call instead of failing them, since a dry
// run needs the pipeline to run end to end.
package noopengine

import (
	"fmt"
	"sync"

	"github.com/free-creations/a-j-midi/internal/audioengine"
)

// NominalSampleRate and NominalBufferSize describe the simulated audio
// cycle a dry run pretends to run at, in the absence of a real server to
// query.
const (
	NominalSampleRate = 48000
	NominalBufferSize = 1024
)

// Engine is a no-op audioengine.Engine: every call succeeds and advances
// the same state machine jackengine.Client uses, but no MIDI ever actually
// leaves the process.
type Engine struct {
	mu         sync.Mutex
	state      audioengine.State
	clientName string
}

// New returns a closed Engine.
func New() *Engine { return &Engine{state: audioengine.Closed} }

func (e *Engine) Open(clientName string, _ bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != audioengine.Closed {
		return fmt.Errorf("%w: cannot open, state is %s", audioengine.ErrWrongState, e.state)
	}
	e.clientName = clientName
	e.state = audioengine.Idle
	return nil
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = audioengine.Closed
	e.clientName = ""
	return nil
}

func (e *Engine) State() audioengine.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) ClientName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clientName
}

func (e *Engine) SampleRate() uint32 { return NominalSampleRate }

func (e *Engine) RegisterProcessCallback(cb audioengine.ProcessCallback) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != audioengine.Idle {
		return fmt.Errorf("%w: cannot register callback, state is %s", audioengine.ErrWrongState, e.state)
	}
	_ = cb // a dry run doesn't drive the callback itself; cmd/a2jmidi ticks it.
	return nil
}

func (e *Engine) Activate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != audioengine.Idle {
		return fmt.Errorf("%w: cannot activate, state is %s", audioengine.ErrWrongState, e.state)
	}
	e.state = audioengine.Running
	return nil
}

func (e *Engine) Deactivate() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != audioengine.Running {
		return fmt.Errorf("%w: cannot deactivate, state is %s", audioengine.ErrWrongState, e.state)
	}
	e.state = audioengine.Idle
	return nil
}

// CycleTimes reports a synthetic, always-on-time cycle at NominalBufferSize/
// NominalSampleRate — there is no real callback thread to measure.
func (e *Engine) CycleTimes() (uint32, float64, error) {
	const periodUsec = 1e6 * float64(NominalBufferSize) / float64(NominalSampleRate)
	return 0, periodUsec, nil
}

// WriteMIDIEvent discards the event: a dry run has nowhere to send it.
func (e *Engine) WriteMIDIEvent(uint32, []byte) error { return nil }
