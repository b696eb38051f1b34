package adc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHAL scripts the completion flag and records every call.
type fakeHAL struct {
	configureErr error
	doneAfter    int // ConversionDone returns true on this poll (1-based); 0 never
	value        RawSample

	calls     []string
	polls     int
	triggered bool
	done      bool
}

func (f *fakeHAL) Configure() error {
	f.calls = append(f.calls, "configure")
	return f.configureErr
}

func (f *fakeHAL) TriggerConversion() {
	f.calls = append(f.calls, "trigger")
	f.triggered = true
	f.polls = 0
}

func (f *fakeHAL) ConversionDone() bool {
	if f.triggered && !f.done {
		f.polls++
		if f.doneAfter > 0 && f.polls >= f.doneAfter {
			f.done = true
		}
	}
	return f.done
}

func (f *fakeHAL) ClearDone() {
	f.calls = append(f.calls, "clear")
	f.done = false
	f.triggered = false
}

func (f *fakeHAL) ReadRaw() RawSample {
	f.calls = append(f.calls, "read")
	return f.value
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestConverter_Configure(t *testing.T) {
	hal := &fakeHAL{}
	c := New(hal)
	require.NoError(t, c.Configure())
	assert.Equal(t, []string{"configure"}, hal.calls)

	hal = &fakeHAL{configureErr: ErrInvalidChannel}
	err := New(hal).Configure()
	assert.ErrorIs(t, err, ErrInvalidChannel)
}

func TestConverter_ReadSample(t *testing.T) {
	hal := &fakeHAL{doneAfter: 3, value: 205}

	var slept []time.Duration
	c := New(hal, WithSleeper(func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}))

	got, err := c.ReadSample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RawSample(205), got)
	assert.Equal(t, []time.Duration{DefaultSettleDelay}, slept)
	assert.Equal(t, []string{"trigger", "clear", "read"}, hal.calls)
	assert.Equal(t, 3, hal.polls)
}

func TestConverter_ReadSample_OneClearPerSample(t *testing.T) {
	hal := &fakeHAL{doneAfter: 2, value: 1023}
	c := New(hal, WithSleeper(noSleep))

	for range 5 {
		_, err := c.ReadSample(context.Background())
		require.NoError(t, err)
	}

	var triggers, clears, reads int
	for _, call := range hal.calls {
		switch call {
		case "trigger":
			triggers++
		case "clear":
			clears++
		case "read":
			reads++
		}
	}
	assert.Equal(t, 5, triggers)
	assert.Equal(t, 5, clears)
	assert.Equal(t, 5, reads)
}

func TestConverter_ReadSample_Timeout(t *testing.T) {
	hal := &fakeHAL{doneAfter: 0}
	c := New(hal, WithSleeper(noSleep), WithMaxPolls(50))

	_, err := c.ReadSample(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConversionTimeout))
	assert.Equal(t, 50, hal.polls)
	assert.Equal(t, []string{"trigger"}, hal.calls, "no clear or read after a timeout")
}

func TestConverter_ReadSample_Cancelled(t *testing.T) {
	hal := &fakeHAL{doneAfter: 0}
	c := New(hal, WithSettleDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ReadSample(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, hal.calls)
}

func TestSleepContext(t *testing.T) {
	start := time.Now()
	require.NoError(t, SleepContext(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := SleepContext(ctx, time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
