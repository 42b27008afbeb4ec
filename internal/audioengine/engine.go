// Package audioengine defines C7, the audio engine adapter contract, and the
// realtime client lifecycle state machine it carries — generalizing
// _examples/original_source/src/jack_client.cpp's jackClient namespace
// (State, open/close/activate/stop, registerProcessCallback) to any realtime
// audio engine, the way spec.md §6 requires.
package audioengine

import "errors"

// State is the realtime client's lifecycle — supplemented from
// jack_client.cpp's jackClient::State enum (spec.md §1's distillation left
// this implicit; SPEC_FULL.md's "SUPPLEMENTED FEATURES" makes it explicit).
type State int

const (
	Closed State = iota
	Idle
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return "closed"
	}
}

// ErrWrongState is returned when an operation is attempted from a state that
// doesn't permit it — jack_client.cpp's BadStateException.
var ErrWrongState = errors.New("audioengine: operation not permitted in current state")

// ErrServer wraps a failure reported by the underlying engine server —
// jack_client.cpp's ServerException/ServerNotRunningException.
var ErrServer = errors.New("audioengine: server error")

// ProcessCallback is invoked once per realtime cycle. Returning a non-nil
// error stops the client — mirrors jack_client.cpp's jackInternalCallback
// contract ("returning a non-zero value will stop the client").
type ProcessCallback func(frameCount uint32) error

// Engine is the realtime audio engine adapter (C7, spec.md §6 "Audio engine
// adapter"). scheduler.EngineTiming and bridge.CycleTimer are both satisfied
// by its CycleTimes method, so an Engine can be wired directly into both
// without an adapter shim.
type Engine interface {
	// Open connects to the engine server, requesting clientName — the
	// server may return a modified, unique variant. Only valid from Closed;
	// succeeds into Idle.
	Open(clientName string, noStartServer bool) error

	// Close disconnects from the server, deactivating first if necessary.
	// Valid from any state; always returns to Closed.
	Close() error

	// State reports the current lifecycle state.
	State() State

	// ClientName returns the server-assigned name, or "" if Closed.
	ClientName() string

	// SampleRate returns the engine's fixed sample rate. Only meaningful
	// once past Closed.
	SampleRate() uint32

	// RegisterProcessCallback installs cb as the per-cycle callback. Only
	// valid from Idle.
	RegisterProcessCallback(cb ProcessCallback) error

	// Activate starts realtime processing: cb begins being invoked on every
	// cycle. Only valid from Idle; succeeds into Running.
	Activate() error

	// Deactivate stops realtime processing. Valid from Running; returns to
	// Idle.
	Deactivate() error

	// CycleTimes reports the number of frames elapsed since the current
	// cycle started and the engine's current best estimate of the cycle
	// period in microseconds — spec.md §6, scheduler.EngineTiming.
	CycleTimes() (framesSinceCycleStart uint32, periodEstimateUsec float64, err error)

	// WriteMIDIEvent appends one outgoing MIDI event at the given frame
	// offset within the current cycle's output port buffer. Only valid to
	// call from within the ProcessCallback — spec.md §4.5's Sink.
	WriteMIDIEvent(frameOffset uint32, event []byte) error
}
