package device

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/itohio/govm/pkg/adc"
	"github.com/itohio/govm/pkg/config"
	"github.com/itohio/govm/pkg/cycle"
	"github.com/itohio/govm/pkg/report"
)

// Mock runs the firmware's sample-and-report cycle on the host against a
// simulated converter and parses its output like a serial device would.
type Mock struct {
	cfg *config.Config

	readings  chan Reading
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// NewMock creates a new mocked device instance. A nil cfg uses defaults.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:      cfg,
		readings: make(chan Reading, DefaultBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// NewEmulator builds the simulated converter described by cfg.
func NewEmulator(cfg *config.Config) (*adc.Converter, *adc.Simulator) {
	src := &adc.Sine{
		Bias:      float32(cfg.Emulator.BiasMV),
		Amplitude: float32(cfg.Emulator.AmplitudeMV),
		Period:    cfg.Emulator.Period,
		Noise:     float32(cfg.Emulator.NoiseMV),
	}
	sim := adc.NewSimulator(src, cfg.Emulator.ConversionPolls)
	conv := adc.New(adc.NewRegisterHAL(sim, 0),
		adc.WithSettleDelay(cfg.Converter.SettleDelay),
		adc.WithMaxPolls(cfg.Converter.MaxPolls),
	)
	return conv, sim
}

// Connect starts the emulated firmware.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	conv, _ := NewEmulator(m.cfg)
	if err := conv.Configure(); err != nil {
		return err
	}

	r, w := io.Pipe()
	m.connected = true

	c := cycle.New(conv, report.NewChannel(report.NewStreamLink(w)))

	go func() {
		if err := c.Run(m.ctx); m.ctx.Err() == nil {
			log.Printf("Emulated cycle stopped: %v", err)
		}
		w.CloseWithError(io.EOF)
	}()

	go func() {
		defer close(m.done)
		defer close(m.readings)
		readLines(m.ctx, r, m.readings, time.Now)
		// Unblock the cycle if the reader stopped first.
		r.Close()
	}()

	return nil
}

// Close stops the emulated firmware and waits for the readings channel to close.
func (m *Mock) Close() error {
	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return nil
	}
	m.connected = false
	m.cancel()
	m.mu.Unlock()

	<-m.done
	return nil
}

// Readings returns the channel of parsed readings.
func (m *Mock) Readings() <-chan Reading {
	return m.readings
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}
