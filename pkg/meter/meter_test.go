package meter

import (
	"testing"
	"time"

	"github.com/itohio/govm/pkg/config"
	"github.com/itohio/govm/pkg/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(window float64) *config.Config {
	cfg := config.Default()
	cfg.Display.WindowSeconds = window
	return cfg
}

func feed(m *Meter, start time.Time, values ...float64) {
	for i, v := range values {
		m.processSample(sample.Sample{
			Timestamp: start.Add(time.Duration(i) * time.Second),
			Voltage:   v,
		})
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Now()
	samples := []sample.Sample{
		{Timestamp: now, Voltage: 1.0},
		{Timestamp: now.Add(time.Second), Voltage: 3.0},
		{Timestamp: now.Add(2 * time.Second), Voltage: 2.0},
	}

	st := computeStats(samples)
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 2.0, st.Last, 1e-6)
	assert.InDelta(t, 1.0, st.Min, 1e-6)
	assert.InDelta(t, 3.0, st.Max, 1e-6)
	assert.InDelta(t, 2.0, st.Mean, 1e-6)
	assert.InDelta(t, 0.8165, st.Noise, 1e-3)

	assert.Equal(t, Stats{}, computeStats(nil))
}

func TestMeter_Window(t *testing.T) {
	m := New(testConfig(3))
	feed(m, time.Now(), 1, 2, 3, 4, 5, 6)

	samples := m.Samples()
	require.Len(t, samples, 3)
	assert.Equal(t, 4.0, samples[0].Voltage)
	assert.Equal(t, 6.0, samples[2].Voltage)

	st := m.Stats()
	assert.Equal(t, 3, st.Count)
	assert.InDelta(t, 5.0, st.Mean, 1e-6)
	assert.InDelta(t, 6.0, st.Last, 1e-6)
}

func TestMeter_SamplesIsACopy(t *testing.T) {
	m := New(testConfig(10))
	feed(m, time.Now(), 1)

	s := m.Samples()
	s[0].Voltage = 99
	assert.Equal(t, 1.0, m.Samples()[0].Voltage)
}

func TestMeter_OnUpdate(t *testing.T) {
	m := New(testConfig(10))

	var calls int
	var last Stats
	m.OnUpdate(func(samples []sample.Sample, stats Stats) {
		calls++
		last = stats
		assert.Len(t, samples, stats.Count)
	})

	feed(m, time.Now(), 1.0, 1.0, 1.0)
	assert.Equal(t, 3, calls)
	assert.InDelta(t, 0.0, last.Noise, 1e-6)
}

func TestMeter_ResetShutdown(t *testing.T) {
	m := New(testConfig(10))
	in := make(chan sample.Sample, 1)
	in <- sample.Sample{Timestamp: time.Now(), Voltage: 1}
	close(in)
	m.ProcessSamples(in)

	m.ResetShutdown()
	assert.Empty(t, m.Samples())
	assert.Equal(t, Stats{}, m.Stats())
}
