package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/free-creations/a-j-midi/internal/config"
	"github.com/free-creations/a-j-midi/internal/logging"
)

func TestApplyDefaults(t *testing.T) {
	o := config.Apply()
	assert.Equal(t, "a2jmidi", o.ClientName)
	assert.Equal(t, "a2jmidi", o.ALSASeqClientName)
	assert.Equal(t, logging.InfoLevel, o.LogLevel)
	assert.Equal(t, logging.ConsoleDestination, o.LogDestination)
	assert.Equal(t, 10*time.Millisecond, o.ShutdownPollPeriod)
	assert.Equal(t, 500*time.Microsecond, o.JitterCompensation)
	assert.NotNil(t, o.Logger)
}

func TestApplyOverridesDefaults(t *testing.T) {
	o := config.Apply(
		config.WithClientName("custom"),
		config.WithALSASeqClientName("custom-seq"),
		config.WithLogLevel(logging.ErrorLevel),
		config.WithShutdownPollPeriod(5*time.Millisecond),
		config.WithJitterCompensation(time.Millisecond),
		config.WithLogger(logging.NewNoop()),
	)
	assert.Equal(t, "custom", o.ClientName)
	assert.Equal(t, "custom-seq", o.ALSASeqClientName)
	assert.Equal(t, logging.ErrorLevel, o.LogLevel)
	assert.Equal(t, 5*time.Millisecond, o.ShutdownPollPeriod)
	assert.Equal(t, time.Millisecond, o.JitterCompensation)
}
