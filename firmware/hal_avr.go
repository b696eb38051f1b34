//go:build tinygo && avr

package main

import (
	"device/avr"
	"runtime/volatile"

	"github.com/itohio/govm/pkg/adc"
)

// avrRegisters maps the converter register names onto the memory-mapped
// registers of the chip.
type avrRegisters [5]*volatile.Register8

func (r *avrRegisters) Get(reg adc.Register) uint8 {
	return r[reg].Get()
}

func (r *avrRegisters) Set(reg adc.Register, v uint8) {
	r[reg].Set(v)
}

func newHAL() adc.HAL {
	regs := &avrRegisters{
		adc.DIDR0:  avr.DIDR0,
		adc.ADMUX:  avr.ADMUX,
		adc.ADCSRA: avr.ADCSRA,
		adc.ADCL:   avr.ADCL,
		adc.ADCH:   avr.ADCH,
	}
	return adc.NewRegisterHAL(regs, ADC_CHANNEL)
}
