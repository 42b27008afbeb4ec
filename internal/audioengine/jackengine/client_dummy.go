// Dummy stand-in for platforms without a JACK binding, following the
// teacher's mididarwin/client_dummy.go, midiwindows/client_dummy.go pattern:
// the package always exists, but only builds the real client where the
// underlying library is available.
//
//go:build !linux && !darwin

package jackengine

import (
	"errors"

	"github.com/free-creations/a-j-midi/internal/audioengine"
)

// ErrUnsupportedPlatform is returned by every Client operation on platforms
// without a JACK binding wired in.
var ErrUnsupportedPlatform = errors.New("jackengine: JACK is not available on this platform")

// Client is a stub audioengine.Engine that always reports Closed.
type Client struct{}

// New returns a Client that fails on Open.
func New() *Client { return &Client{} }

func (c *Client) Open(string, bool) error                      { return ErrUnsupportedPlatform }
func (c *Client) Close() error                                  { return nil }
func (c *Client) State() audioengine.State                      { return audioengine.Closed }
func (c *Client) ClientName() string                            { return "" }
func (c *Client) SampleRate() uint32                             { return 0 }
func (c *Client) RegisterProcessCallback(audioengine.ProcessCallback) error {
	return ErrUnsupportedPlatform
}
func (c *Client) Activate() error   { return ErrUnsupportedPlatform }
func (c *Client) Deactivate() error { return ErrUnsupportedPlatform }
func (c *Client) CycleTimes() (uint32, float64, error) {
	return 0, 0, ErrUnsupportedPlatform
}
func (c *Client) WriteMIDIEvent(uint32, []byte) error { return ErrUnsupportedPlatform }
