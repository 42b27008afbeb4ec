package noopengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/free-creations/a-j-midi/internal/audioengine"
	"github.com/free-creations/a-j-midi/internal/audioengine/noopengine"
)

func TestEngineRunsThroughFullLifecycle(t *testing.T) {
	e := noopengine.New()
	assert.Equal(t, audioengine.Closed, e.State())

	require.NoError(t, e.Open("test-client", true))
	assert.Equal(t, audioengine.Idle, e.State())
	assert.Equal(t, "test-client", e.ClientName())
	assert.Equal(t, uint32(noopengine.NominalSampleRate), e.SampleRate())

	require.NoError(t, e.RegisterProcessCallback(func(uint32) error { return nil }))
	require.NoError(t, e.Activate())
	assert.Equal(t, audioengine.Running, e.State())

	frames, periodUsec, err := e.CycleTimes()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), frames)
	assert.Greater(t, periodUsec, 0.0)

	require.NoError(t, e.WriteMIDIEvent(0, []byte{0x90, 1, 2}))

	require.NoError(t, e.Deactivate())
	assert.Equal(t, audioengine.Idle, e.State())
	require.NoError(t, e.Close())
	assert.Equal(t, audioengine.Closed, e.State())
}

func TestEngineRejectsOperationsInWrongState(t *testing.T) {
	e := noopengine.New()
	assert.ErrorIs(t, e.Activate(), audioengine.ErrWrongState)
	assert.ErrorIs(t, e.Deactivate(), audioengine.ErrWrongState)

	require.NoError(t, e.Open("test", true))
	assert.ErrorIs(t, e.Open("test", true), audioengine.ErrWrongState)
	assert.ErrorIs(t, e.Deactivate(), audioengine.ErrWrongState)
}
