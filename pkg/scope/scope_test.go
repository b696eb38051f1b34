package scope

import (
	"testing"
	"time"

	"github.com/itohio/govm/pkg/meter"
	"github.com/itohio/govm/pkg/sample"
	"github.com/stretchr/testify/assert"
)

func TestAutoScale_Empty(t *testing.T) {
	now := time.Now()
	yMin, yMax, xMin, xMax := autoScale(nil, 10*time.Second, now)
	assert.Equal(t, 0.0, yMin)
	assert.InDelta(t, 4.995, yMax, 1e-9)
	assert.Equal(t, now, xMin)
	assert.Equal(t, now.Add(10*time.Second), xMax)
}

func TestAutoScale(t *testing.T) {
	now := time.Now()
	samples := []sample.Sample{
		{Timestamp: now, Voltage: 1.0},
		{Timestamp: now.Add(time.Second), Voltage: 2.0},
		{Timestamp: now.Add(30 * time.Second), Voltage: 1.5},
	}

	yMin, yMax, xMin, xMax := autoScale(samples, 10*time.Second, now)
	assert.InDelta(t, 0.9, yMin, 1e-9)
	assert.InDelta(t, 2.1, yMax, 1e-9)
	assert.Equal(t, now, xMin)
	assert.Equal(t, now.Add(30*time.Second), xMax)
}

func TestAutoScale_Clamped(t *testing.T) {
	now := time.Now()
	samples := []sample.Sample{
		{Timestamp: now, Voltage: 0},
		{Timestamp: now.Add(time.Second), Voltage: 4.995},
	}

	yMin, yMax, _, xMax := autoScale(samples, 10*time.Second, now)
	assert.Equal(t, 0.0, yMin)
	assert.InDelta(t, 4.995, yMax, 1e-9)
	assert.Equal(t, now.Add(10*time.Second), xMax, "at least one window wide")
}

func TestAutoScale_Flat(t *testing.T) {
	now := time.Now()
	samples := []sample.Sample{{Timestamp: now, Voltage: 1.0}}

	yMin, yMax, _, _ := autoScale(samples, time.Second, now)
	assert.Less(t, yMin, 1.0)
	assert.Greater(t, yMax, 1.0)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.000V", formatVoltage(1))
	assert.Equal(t, "0.50s", formatTime(500*time.Millisecond))
	assert.Equal(t, "12s", formatTime(12*time.Second))
	assert.Equal(t, "no readings", formatStats(meter.Stats{}))
	assert.Contains(t, formatStats(meter.Stats{Count: 2, Last: 1, Mean: 1}), "1.000V")
}
