package logging_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/free-creations/a-j-midi/internal/logging"
)

func TestZapLoggerLevelGating(t *testing.T) {
	// SetLevel above Info must not panic and must still accept calls at any
	// level — this only verifies the gate doesn't crash, since capturing
	// zap's actual sink output is out of scope for a unit test.
	l := logging.NewZapLogger()
	l.SetLevel(logging.ErrorLevel)
	l.Info("should be gated out")
	l.Error("should pass", l.Field().Error("error", errors.New("boom")))
}

func TestFieldBuilderChaining(t *testing.T) {
	l := logging.NewZapLogger()
	f := l.Field().String("a", "1").Int("b", 2).Bool("c", true)
	require.NotNil(t, f)
}

func TestWithReturnsChildLogger(t *testing.T) {
	l := logging.NewZapLogger()
	child := l.With(l.Field().String("component", "queue"))
	assert.NotNil(t, child)
	child.Info("from child")
}

func TestNoopLoggerNeverPanics(t *testing.T) {
	l := logging.NewNoop()
	l.Info("x")
	l.Debug("x", l.Field().Int("n", 1))
	l.Warn("x")
	l.Error("x")
	l.Fatal("x")
	require.NoError(t, l.SetDestination(logging.ConsoleDestination))
}
