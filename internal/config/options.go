// Package config gathers the bridge's configuration into a single
// functional-options surface, generalized from
// _examples/leandrodaf-midi/sdk/contracts/options.go's ClientOptions/Option
// pair and _examples/leandrodaf-midi/sdk/midi/options_setup.go's default-
// filling pass.
package config

import (
	"time"

	"github.com/free-creations/a-j-midi/internal/logging"
)

// BridgeOptions holds every knob the bridge needs: client and port naming,
// audio engine selection, the ambient logging setup, and the listener and
// scheduler timing overrides.
type BridgeOptions struct {
	ClientName string // name requested from the audio engine server.

	ALSASeqClientName string // name of the input port this process creates on its ALSA sequencer client.
	NoStartServer     bool   // don't auto-start the audio engine server if it isn't running.
	DryRun            bool   // use internal/audioengine/noopengine instead of a real audio engine.

	Logger          logging.Logger
	LogLevel        logging.Level
	LogDestination  logging.Destination
	LogFilePath     string

	ShutdownPollPeriod time.Duration
	JitterCompensation time.Duration
}

// Option mutates a BridgeOptions under construction.
type Option func(*BridgeOptions)

// WithClientName sets the name requested from the audio engine server.
func WithClientName(name string) Option {
	return func(o *BridgeOptions) { o.ClientName = name }
}

// WithALSASeqClientName sets the name this process registers under with the
// MIDI source.
func WithALSASeqClientName(name string) Option {
	return func(o *BridgeOptions) { o.ALSASeqClientName = name }
}

// WithNoStartServer requests the audio engine adapter not auto-start its
// server when it isn't already running.
func WithNoStartServer(noStart bool) Option {
	return func(o *BridgeOptions) { o.NoStartServer = noStart }
}

// WithDryRun selects internal/audioengine/noopengine in place of a real
// audio engine, for exercising the bridge's wiring without a live server.
func WithDryRun(dryRun bool) Option {
	return func(o *BridgeOptions) { o.DryRun = dryRun }
}

// WithLogger overrides the default logger entirely.
func WithLogger(l logging.Logger) Option {
	return func(o *BridgeOptions) { o.Logger = l }
}

// WithLogLevel sets the minimum level the logger emits.
func WithLogLevel(level logging.Level) Option {
	return func(o *BridgeOptions) { o.LogLevel = level }
}

// WithLogDestination routes log output to the console or a file.
func WithLogDestination(dest logging.Destination, filePath string) Option {
	return func(o *BridgeOptions) {
		o.LogDestination = dest
		o.LogFilePath = filePath
	}
}

// WithShutdownPollPeriod overrides the listener's bounded poll timeout.
func WithShutdownPollPeriod(d time.Duration) Option {
	return func(o *BridgeOptions) { o.ShutdownPollPeriod = d }
}

// WithJitterCompensation overrides the scheduler's synchronization-noise
// margin.
func WithJitterCompensation(d time.Duration) Option {
	return func(o *BridgeOptions) { o.JitterCompensation = d }
}

// Apply folds opts onto a BridgeOptions with sane defaults already filled
// in, mirroring the teacher's applyDefaultOptions.
func Apply(opts ...Option) *BridgeOptions {
	o := &BridgeOptions{
		ClientName:         "a2jmidi",
		ALSASeqClientName:  "a2jmidi",
		LogLevel:           logging.InfoLevel,
		LogDestination:     logging.ConsoleDestination,
		ShutdownPollPeriod: 10 * time.Millisecond,
		JitterCompensation: 500 * time.Microsecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = logging.NewZapLogger()
	}
	o.Logger.SetLevel(o.LogLevel)
	if o.LogDestination == logging.FileDestination {
		_ = o.Logger.SetDestination(o.LogDestination, o.LogFilePath)
	}
	return o
}
