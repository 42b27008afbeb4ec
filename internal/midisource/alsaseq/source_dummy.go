// Non-Linux stand-in for the ALSA sequencer adapter, following the teacher's
// mididarwin/client_dummy.go, midiwindows/client_dummy.go pattern: the
// package always exists under one name, but only the build that has a real
// backing kernel interface implements it for real.
//
//go:build !linux

package alsaseq

import (
	"errors"
	"time"

	"github.com/free-creations/a-j-midi/internal/midisource"
)

// ErrUnsupportedPlatform is returned by Open and by every Source read or
// poll operation: this build has no ALSA sequencer available.
var ErrUnsupportedPlatform = errors.New("alsaseq: no ALSA sequencer available on this platform")

// Source is a stub midisource.Source.
type Source struct{}

// Open always fails with ErrUnsupportedPlatform.
func Open(string) (*Source, error) { return nil, ErrUnsupportedPlatform }

func (*Source) PollFDs() ([]midisource.PollFD, error) { return nil, ErrUnsupportedPlatform }
func (*Source) WaitReadable(time.Duration) (bool, error) {
	return false, ErrUnsupportedPlatform
}
func (*Source) ReadEvent() (midisource.RawEvent, bool, error) {
	return nil, false, ErrUnsupportedPlatform
}
func (*Source) Close() error   { return nil }
func (*Source) String() string { return "alsaseq(unsupported)" }
