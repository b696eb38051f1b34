package cycle

import (
	"context"
	"fmt"

	"github.com/itohio/govm/pkg/adc"
	"github.com/itohio/govm/pkg/report"
)

// State is a phase of the sample-and-report cycle.
type State uint8

const (
	// Sampling waits for one conversion.
	Sampling State = iota
	// Reporting transmits the last sample.
	Reporting
)

func (s State) String() string {
	switch s {
	case Sampling:
		return "SAMPLING"
	case Reporting:
		return "REPORTING"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Sampler produces one raw sample per call.
type Sampler interface {
	ReadSample(ctx context.Context) (adc.RawSample, error)
}

// Transmitter sends one display value as a line.
type Transmitter interface {
	TransmitLine(v adc.DisplayValue) error
}

var (
	_ Sampler     = (*adc.Converter)(nil)
	_ Transmitter = (*report.Channel)(nil)
)

// Cycle alternates between Sampling and Reporting forever.
// It is driven by a single goroutine and holds no locks.
type Cycle struct {
	sampler     Sampler
	transmitter Transmitter
	onLine      func(raw adc.RawSample, v adc.DisplayValue)

	state   State
	pending adc.DisplayValue
	raw     adc.RawSample
	lines   uint64
}

// Option configures a Cycle.
type Option func(*Cycle)

// OnLine registers a hook called after every transmitted line.
func OnLine(fn func(raw adc.RawSample, v adc.DisplayValue)) Option {
	return func(c *Cycle) {
		c.onLine = fn
	}
}

// New creates a cycle in the Sampling state.
func New(sampler Sampler, transmitter Transmitter, opts ...Option) *Cycle {
	c := &Cycle{
		sampler:     sampler,
		transmitter: transmitter,
		state:       Sampling,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current phase.
func (c *Cycle) State() State {
	return c.state
}

// Lines returns the number of lines transmitted so far.
func (c *Cycle) Lines() uint64 {
	return c.lines
}

// Step performs one transition. From Sampling it reads a sample and moves
// to Reporting; from Reporting it transmits the sample and moves back.
// On error the state is left unchanged.
func (c *Cycle) Step(ctx context.Context) error {
	switch c.state {
	case Sampling:
		raw, err := c.sampler.ReadSample(ctx)
		if err != nil {
			return fmt.Errorf("sampling: %w", err)
		}
		c.raw = raw
		c.pending = adc.Millivolts(raw)
		c.state = Reporting

	case Reporting:
		if err := c.transmitter.TransmitLine(c.pending); err != nil {
			return fmt.Errorf("reporting: %w", err)
		}
		c.lines++
		c.state = Sampling
		if c.onLine != nil {
			c.onLine(c.raw, c.pending)
		}
	}
	return nil
}

// Run steps the cycle until ctx is done or a step fails. It never returns nil.
func (c *Cycle) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Step(ctx); err != nil {
			return err
		}
	}
}
