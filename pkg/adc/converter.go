package adc

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultSettleDelay is the pause before each conversion is triggered.
	// It throttles the reporting rate to about one sample per second.
	DefaultSettleDelay = time.Second

	// DefaultMaxPolls bounds the completion wait. At a /128 prescaler a
	// conversion takes at most 25 ADC clocks (3200 CPU cycles), so this is
	// far beyond any healthy conversion.
	DefaultMaxPolls = 100000
)

// ErrConversionTimeout is reported when the completion flag is not observed
// within the poll budget. It replaces a silent hang on unresponsive hardware.
var ErrConversionTimeout = errors.New("adc: conversion timeout")

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Converter owns a HAL handle and implements the blocking
// take-one-sample protocol on top of it.
type Converter struct {
	hal      HAL
	settle   time.Duration
	maxPolls int
	sleep    Sleeper
}

// Option configures a Converter.
type Option func(*Converter)

// WithSettleDelay overrides the pre-trigger delay.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Converter) {
		c.settle = d
	}
}

// WithMaxPolls overrides the number of completion polls before giving up.
func WithMaxPolls(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxPolls = n
		}
	}
}

// WithSleeper replaces the function used for the settle delay.
func WithSleeper(s Sleeper) Option {
	return func(c *Converter) {
		if s != nil {
			c.sleep = s
		}
	}
}

// New creates a converter over hal. The hardware is not touched until
// Configure is called.
func New(hal HAL, opts ...Option) *Converter {
	c := &Converter{
		hal:      hal,
		settle:   DefaultSettleDelay,
		maxPolls: DefaultMaxPolls,
		sleep:    SleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure performs the one-time hardware setup.
func (c *Converter) Configure() error {
	if err := c.hal.Configure(); err != nil {
		return fmt.Errorf("failed to configure converter: %w", err)
	}
	return nil
}

// ReadSample waits the settle delay, triggers one conversion, polls for
// completion, clears the completion flag and returns the assembled sample.
//
// The poll is the only suspension point besides the settle delay. It is
// bounded by the poll budget and returns ErrConversionTimeout when the
// hardware never signals completion.
func (c *Converter) ReadSample(ctx context.Context) (RawSample, error) {
	if err := c.sleep(ctx, c.settle); err != nil {
		return 0, err
	}

	c.hal.TriggerConversion()

	polls := 0
	for !c.hal.ConversionDone() {
		polls++
		if polls >= c.maxPolls {
			return 0, fmt.Errorf("%w after %d polls", ErrConversionTimeout, polls)
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}

	// No interrupt handler runs, so the flag has to be cleared by hand.
	c.hal.ClearDone()

	return c.hal.ReadRaw(), nil
}

// SleepContext sleeps for d unless ctx is done first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
