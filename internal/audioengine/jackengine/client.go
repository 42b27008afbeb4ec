// Package jackengine implements audioengine.Engine against a running JACK
// server, grounded on _examples/other_examples/GeoffreyPlitt-gosfzplayer__jack.go's
// use of github.com/xthexder/go-jack for client/port lifecycle, and on
// _examples/original_source/src/jack_client.cpp for the state machine this
// package carries forward.
//
//go:build linux || darwin

package jackengine

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/xthexder/go-jack"
	"go.uber.org/multierr"

	"github.com/free-creations/a-j-midi/internal/audioengine"
)

// Client is a JACK-backed audioengine.Engine. State-changing methods (Open,
// Close, Activate, Deactivate, RegisterProcessCallback) are guarded by mu,
// mirroring jack_client.cpp's g_stateAccessMutex — the realtime callback
// itself runs on JACK's own thread and is never called while mu is held.
type Client struct {
	mu    sync.Mutex
	state audioengine.State

	handle     *jack.Client
	midiOut    *jack.Port
	sampleRate uint32

	customCallback audioengine.ProcessCallback
	midiBuf        unsafe.Pointer
}

// New returns a Client in the Closed state.
func New() *Client {
	return &Client{state: audioengine.Closed}
}

func (c *Client) State() audioengine.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) ClientName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == audioengine.Closed || c.handle == nil {
		return ""
	}
	return c.handle.GetName()
}

func (c *Client) SampleRate() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sampleRate
}

// Open connects to the JACK server — jack_client.cpp's open().
func (c *Client) Open(clientName string, noStartServer bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != audioengine.Closed {
		return fmt.Errorf("%w: cannot open, state is %s", audioengine.ErrWrongState, c.state)
	}

	options := jack.NoStartServer
	if !noStartServer {
		options = jack.NullOption
	}
	handle, status := jack.ClientOpen(clientName, options)
	if handle == nil {
		return fmt.Errorf("%w: failed to open JACK client (status %v)", audioengine.ErrServer, status)
	}

	midiOut, err := handle.PortRegister("midi_out", jack.DEFAULT_MIDI_TYPE, jack.PortIsOutput, 0)
	if err != 0 {
		handle.Close()
		return fmt.Errorf("%w: failed to register MIDI output port (code %d)", audioengine.ErrServer, err)
	}

	c.handle = handle
	c.midiOut = midiOut
	c.sampleRate = uint32(handle.GetSampleRate())
	c.state = audioengine.Idle
	return nil
}

// Close disconnects from the server — jack_client.cpp's close(), which
// deactivates first if necessary.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == audioengine.Closed {
		return nil
	}

	var errs error
	if c.state == audioengine.Running {
		if err := c.handle.Deactivate(); err != 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: error deactivating JACK client (code %d)", audioengine.ErrServer, err))
		}
	}
	if err := c.handle.Close(); err != 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: error closing JACK client (code %d)", audioengine.ErrServer, err))
	}
	c.handle = nil
	c.midiOut = nil
	c.state = audioengine.Closed
	return errs
}

// RegisterProcessCallback installs cb — jack_client.cpp's registerProcessCallback().
func (c *Client) RegisterProcessCallback(cb audioengine.ProcessCallback) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != audioengine.Idle {
		return fmt.Errorf("%w: cannot register callback, state is %s", audioengine.ErrWrongState, c.state)
	}
	c.customCallback = cb
	if err := c.handle.SetProcessCallback(c.jackProcess); err != 0 {
		return fmt.Errorf("%w: failed to register process callback (code %d)", audioengine.ErrServer, err)
	}
	return nil
}

// Activate starts realtime processing — jack_client.cpp's activate().
func (c *Client) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != audioengine.Idle {
		return fmt.Errorf("%w: cannot activate, state is %s", audioengine.ErrWrongState, c.state)
	}
	if err := c.handle.Activate(); err != 0 {
		return fmt.Errorf("%w: failed to activate JACK client (code %d)", audioengine.ErrServer, err)
	}
	c.state = audioengine.Running
	return nil
}

// Deactivate stops realtime processing — jack_client.cpp's stopInternal().
func (c *Client) Deactivate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != audioengine.Running {
		return fmt.Errorf("%w: cannot deactivate, state is %s", audioengine.ErrWrongState, c.state)
	}
	if err := c.handle.Deactivate(); err != 0 {
		return fmt.Errorf("%w: failed to deactivate JACK client (code %d)", audioengine.ErrServer, err)
	}
	c.state = audioengine.Idle
	return nil
}

// CycleTimes reports this cycle's elapsed frames and JACK's current period
// estimate. go-jack doesn't surface jack_get_cycle_times directly, so the
// period estimate is approximated from the nominal buffer size and sample
// rate, the way jack_client.cpp's g_cycleLength behaves between xruns.
func (c *Client) CycleTimes() (uint32, float64, error) {
	c.mu.Lock()
	handle := c.handle
	sampleRate := c.sampleRate
	c.mu.Unlock()
	if handle == nil {
		return 0, 0, fmt.Errorf("%w: engine not open", audioengine.ErrWrongState)
	}
	framesSinceCycleStart := handle.FramesSinceCycleStart()
	bufferSize := handle.GetBufferSize()
	periodUsec := 1e6 * float64(bufferSize) / float64(sampleRate)
	return uint32(framesSinceCycleStart), periodUsec, nil
}

// WriteMIDIEvent appends one outgoing event to the current cycle's MIDI
// output buffer. Only valid from within the process callback.
func (c *Client) WriteMIDIEvent(frameOffset uint32, event []byte) error {
	if c.midiBuf == nil {
		return fmt.Errorf("%w: WriteMIDIEvent called outside a process cycle", audioengine.ErrWrongState)
	}
	if err := jack.MidiEventWrite(c.midiBuf, frameOffset, event); err != 0 {
		return fmt.Errorf("%w: failed to write MIDI event (code %d)", audioengine.ErrServer, err)
	}
	return nil
}

// jackProcess is the raw JACK callback: it clears the output port's buffer,
// stashes it for WriteMIDIEvent, delegates to the custom callback, then
// clears the stash. Mirrors jack_client.cpp's jackInternalCallback.
func (c *Client) jackProcess(nFrames uint32) int {
	buf := c.midiOut.GetBuffer(nFrames)
	jack.MidiClearBuffer(buf)
	c.midiBuf = buf
	defer func() { c.midiBuf = nil }()

	if c.customCallback == nil {
		return 0
	}
	if err := c.customCallback(nFrames); err != nil {
		return 1
	}
	return 0
}
