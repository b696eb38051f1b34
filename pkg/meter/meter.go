package meter

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/itohio/govm/pkg/config"
	"github.com/itohio/govm/pkg/sample"
)

var _ VoltMeter = (*Meter)(nil)

// Stats summarises the samples inside the time window. Values are in volts.
type Stats struct {
	Count int
	Last  float32
	Min   float32
	Max   float32
	Mean  float32
	Noise float32 // Standard deviation around Mean
}

// VoltMeter processes samples and keeps windowed statistics.
type VoltMeter interface {
	ProcessSamples(input <-chan sample.Sample)
	Samples() []sample.Sample                            // Current samples (FIFO, ordered first to last)
	Stats() Stats                                        // Statistics over Samples
	OnUpdate(func(samples []sample.Sample, stats Stats)) // Register callback for updates
}

// Meter implements VoltMeter.
// Samples older than the window (by timestamp, not count) are dropped.
type Meter struct {
	samples []sample.Sample
	stats   Stats

	mu sync.RWMutex

	callbacks []func(samples []sample.Sample, stats Stats)
	cbMu      sync.RWMutex

	windowDuration time.Duration

	// Set when the input channel closes, prevents further callbacks
	shutdown bool
}

// New creates a new Meter instance.
func New(cfg *config.Config) *Meter {
	return &Meter{
		samples:        make([]sample.Sample, 0),
		windowDuration: time.Duration(cfg.Display.WindowSeconds * float64(time.Second)),
	}
}

// ProcessSamples consumes samples until the input channel closes.
// When it closes, the shutdown flag is set to prevent further callbacks.
func (m *Meter) ProcessSamples(input <-chan sample.Sample) {
	for s := range input {
		m.processSample(s)
	}
	m.mu.Lock()
	m.shutdown = true
	m.mu.Unlock()
}

// processSample adds a sample, trims the window and recomputes statistics.
func (m *Meter) processSample(s sample.Sample) {
	m.mu.Lock()

	m.samples = append(m.samples, s)

	// Remove samples outside time window
	cutoffTime := s.Timestamp.Add(-m.windowDuration)
	cutoffIndex := 0
	for i, old := range m.samples {
		if old.Timestamp.After(cutoffTime) {
			cutoffIndex = i
			break
		}
	}
	if cutoffIndex > 0 {
		m.samples = m.samples[cutoffIndex:]
	}

	m.stats = computeStats(m.samples)
	shouldNotify := !m.shutdown
	m.mu.Unlock()

	if shouldNotify {
		m.notifyCallbacks()
	}
}

// computeStats computes window statistics in float32.
func computeStats(samples []sample.Sample) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	first := float32(samples[0].Voltage)
	st := Stats{
		Count: len(samples),
		Last:  float32(samples[len(samples)-1].Voltage),
		Min:   first,
		Max:   first,
	}

	var sum float32
	for _, s := range samples {
		v := float32(s.Voltage)
		sum += v
		st.Min = math32.Min(st.Min, v)
		st.Max = math32.Max(st.Max, v)
	}
	st.Mean = sum / float32(len(samples))

	var sq float32
	for _, s := range samples {
		d := float32(s.Voltage) - st.Mean
		sq += d * d
	}
	st.Noise = math32.Sqrt(sq / float32(len(samples)))

	return st
}

// Samples returns a copy of the samples inside the window.
func (m *Meter) Samples() []sample.Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]sample.Sample, len(m.samples))
	copy(result, m.samples)
	return result
}

// Stats returns the latest window statistics.
func (m *Meter) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// OnUpdate registers a callback function that will be called when samples are updated.
// The callback should copy data quickly and return as fast as possible.
func (m *Meter) OnUpdate(callback func(samples []sample.Sample, stats Stats)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// ResetShutdown resets the shutdown flag and clears the window, allowing
// callbacks to be sent again for a new connection.
func (m *Meter) ResetShutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown = false
	m.samples = m.samples[:0]
	m.stats = Stats{}
}

// notifyCallbacks invokes all registered callbacks with current data.
// Makes copies of data while holding read lock, then calls callbacks without lock.
func (m *Meter) notifyCallbacks() {
	samples := m.Samples()
	stats := m.Stats()

	m.cbMu.RLock()
	callbacks := make([]func(samples []sample.Sample, stats Stats), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.RUnlock()

	for _, cb := range callbacks {
		cb(samples, stats)
	}
}
