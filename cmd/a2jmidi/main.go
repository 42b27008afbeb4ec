// Command a2jmidi bridges a MIDI source into a realtime audio engine's MIDI
// input, completing what _examples/leandrodaf-midi/example/simple_use.go
// only sketched with a bare `select {}`: real signal-driven shutdown wired
// through every component built in this module.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/free-creations/a-j-midi/internal/audioengine"
	"github.com/free-creations/a-j-midi/internal/audioengine/jackengine"
	"github.com/free-creations/a-j-midi/internal/audioengine/noopengine"
	"github.com/free-creations/a-j-midi/internal/bridge"
	"github.com/free-creations/a-j-midi/internal/config"
	"github.com/free-creations/a-j-midi/internal/logging"
	"github.com/free-creations/a-j-midi/internal/midisource"
	"github.com/free-creations/a-j-midi/internal/midisource/alsaseq"
	"github.com/free-creations/a-j-midi/internal/receiverqueue"
	"github.com/free-creations/a-j-midi/internal/scheduler"
	"github.com/free-creations/a-j-midi/internal/sysclock"
)

func main() {
	clientName := flag.String("name", "a2jmidi", "client name requested from the audio engine")
	alsaName := flag.String("alsa-name", "a2jmidi", "name of the input port this process registers with the MIDI source")
	noStartServer := flag.Bool("no-start-server", false, "don't auto-start the audio engine server")
	dryRun := flag.Bool("dry-run", false, "wire the bridge to a no-op audio engine instead of a live one")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "write logs to this file instead of the console")
	flag.Parse()

	opts := []config.Option{
		config.WithClientName(*clientName),
		config.WithALSASeqClientName(*alsaName),
		config.WithNoStartServer(*noStartServer),
		config.WithDryRun(*dryRun),
		config.WithLogLevel(parseLevel(*logLevel)),
	}
	if *logFile != "" {
		opts = append(opts, config.WithLogDestination(logging.FileDestination, *logFile))
	}
	cfg := config.Apply(opts...)
	logger := cfg.Logger

	if err := run(cfg, logger); err != nil {
		logger.Error("a2jmidi: fatal", logger.Field().Error("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.BridgeOptions, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var engine audioengine.Engine
	if cfg.DryRun {
		engine = noopengine.New()
	} else {
		engine = jackengine.New()
	}
	if err := engine.Open(cfg.ClientName, cfg.NoStartServer); err != nil {
		return fmt.Errorf("opening audio engine: %w", err)
	}
	defer engine.Close()

	src, err := alsaseq.Open(cfg.ALSASeqClientName)
	if err != nil {
		return fmt.Errorf("opening MIDI source: %w", err)
	}
	defer src.Close()

	clock := &sysclock.System{}
	queue := receiverqueue.New(clock, logger.With(logger.Field().String("component", "receiverqueue")), cfg.ShutdownPollPeriod)
	if err := queue.Start(src); err != nil {
		return fmt.Errorf("starting receiver queue: %w", err)
	}
	defer queue.Stop()

	sched := scheduler.New(clock, engine, logger.With(logger.Field().String("component", "scheduler")), engine.SampleRate(), cfg.JitterCompensation)

	integrator := bridge.New(clock, sched, queue, engine, engine.SampleRate(),
		func(event midisource.RawEvent, frameOffset uint32) {
			if err := engine.WriteMIDIEvent(frameOffset, event); err != nil {
				logger.Error("a2jmidi: dropping event, engine write failed", logger.Field().Error("error", err))
			}
		},
		logger.With(logger.Field().String("component", "bridge")),
	)

	if err := engine.RegisterProcessCallback(integrator.Process); err != nil {
		return fmt.Errorf("registering process callback: %w", err)
	}
	if err := engine.Activate(); err != nil {
		return fmt.Errorf("activating audio engine: %w", err)
	}
	defer engine.Deactivate()

	logger.Info("a2jmidi: running", logger.Field().String("client", engine.ClientName()))

	if cfg.DryRun {
		// noopengine never drives its own process callback — there's no
		// live server to call us back from — so this process ticks it
		// instead, at the nominal cycle period, to exercise the bridge
		// end to end.
		go driveDryRunCycles(ctx, integrator, logger)
	}

	<-ctx.Done()
	logger.Info("a2jmidi: shutting down")
	// Give an in-flight cycle a moment to finish before the deferred
	// Deactivate/Stop/Close calls tear everything down.
	time.Sleep(50 * time.Millisecond)
	return nil
}

// driveDryRunCycles ticks integrator.Process at noopengine's nominal cycle
// period for as long as ctx is alive, standing in for the realtime callback
// a live audio engine would otherwise drive.
func driveDryRunCycles(ctx context.Context, integrator *bridge.Integrator, logger logging.Logger) {
	period := time.Second * time.Duration(noopengine.NominalBufferSize) / time.Duration(noopengine.NominalSampleRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := integrator.Process(noopengine.NominalBufferSize); err != nil {
				logger.Error("a2jmidi: dry-run cycle failed", logger.Field().Error("error", err))
				return
			}
		}
	}
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.DebugLevel
	case "warn":
		return logging.WarnLevel
	case "error":
		return logging.ErrorLevel
	default:
		return logging.InfoLevel
	}
}
