//go:build tinygo && !avr

package main

import (
	"machine"

	"github.com/itohio/govm/pkg/adc"
)

// machineHAL samples through the portable machine.ADC driver on boards
// without the AVR register layout. Get blocks until the conversion is
// complete, so the result is latched at trigger time.
type machineHAL struct {
	adc machine.ADC
	raw adc.RawSample
}

func newHAL() adc.HAL {
	return &machineHAL{adc: machine.ADC{Pin: machine.ADC0}}
}

func (h *machineHAL) Configure() error {
	machine.InitADC()
	h.adc.Configure(machine.ADCConfig{Resolution: adc.Resolution})
	return nil
}

func (h *machineHAL) TriggerConversion() {
	// machine.ADC scales every result to 16 bits
	h.raw = adc.RawSample(h.adc.Get() >> (16 - adc.Resolution))
}

func (h *machineHAL) ConversionDone() bool { return true }

func (h *machineHAL) ClearDone() {}

func (h *machineHAL) ReadRaw() adc.RawSample { return h.raw }
