package adc

import (
	"errors"
	"fmt"
)

// Register names one 8-bit register of the ATmega32U4 converter block.
type Register uint8

const (
	DIDR0  Register = iota // Digital input disable register 0
	ADMUX                  // Multiplexer selection
	ADCSRA                 // Control and status register A
	ADCL                   // Result, low byte
	ADCH                   // Result, high byte

	numRegisters
)

func (r Register) String() string {
	switch r {
	case DIDR0:
		return "DIDR0"
	case ADMUX:
		return "ADMUX"
	case ADCSRA:
		return "ADCSRA"
	case ADCL:
		return "ADCL"
	case ADCH:
		return "ADCH"
	}
	return fmt.Sprintf("Register(%d)", uint8(r))
}

// ADMUX bits.
const (
	REFS1   uint8 = 1 << 7
	REFS0   uint8 = 1 << 6 // AVcc reference
	ADLAR   uint8 = 1 << 5 // left-adjust result
	MUXMask uint8 = 0x1f
)

// ADCSRA bits.
const (
	ADEN  uint8 = 1 << 7 // enable
	ADSC  uint8 = 1 << 6 // start conversion, reads 1 while converting
	ADATE uint8 = 1 << 5 // auto trigger enable
	ADIF  uint8 = 1 << 4 // conversion complete, cleared by writing 1
	ADIE  uint8 = 1 << 3 // interrupt enable
	ADPS2 uint8 = 1 << 2
	ADPS1 uint8 = 1 << 1
	ADPS0 uint8 = 1 << 0

	// Prescale128 divides a 16 MHz system clock down to 125 kHz, inside
	// the 50-200 kHz window required for full 10-bit resolution.
	Prescale128 = ADPS2 | ADPS1 | ADPS0
)

// ErrInvalidChannel is returned for channels without a single-ended input.
var ErrInvalidChannel = errors.New("adc: invalid channel")

// Registers is an 8-bit register file. On hardware it maps onto the
// memory-mapped registers; in tests and the emulator it is a Simulator.
type Registers interface {
	Get(r Register) uint8
	Set(r Register, v uint8)
}

// RegisterHAL implements HAL on the ATmega32U4 converter registers.
type RegisterHAL struct {
	regs    Registers
	channel uint8
}

var _ HAL = (*RegisterHAL)(nil)

// NewRegisterHAL returns a HAL sampling the given single-ended channel.
func NewRegisterHAL(regs Registers, channel uint8) *RegisterHAL {
	return &RegisterHAL{
		regs:    regs,
		channel: channel,
	}
}

// Configure disables the digital buffer on the channel pin, selects the
// channel with a right-adjusted result against AVcc and enables the
// converter at a /128 prescaler.
func (h *RegisterHAL) Configure() error {
	// ADC2 and ADC3 are not bonded out on the 32U4.
	if h.channel > 7 || h.channel == 2 || h.channel == 3 {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, h.channel)
	}

	h.regs.Set(DIDR0, h.regs.Get(DIDR0)|1<<h.channel)
	h.regs.Set(ADMUX, REFS0|(h.channel&MUXMask))
	h.regs.Set(ADCSRA, h.regs.Get(ADCSRA)|ADEN|Prescale128)
	return nil
}

// TriggerConversion sets ADSC.
func (h *RegisterHAL) TriggerConversion() {
	// ADIF is clear at this point, so the read-modify-write cannot
	// acknowledge a pending completion by accident.
	h.regs.Set(ADCSRA, h.regs.Get(ADCSRA)|ADSC)
}

// ConversionDone reports ADIF.
func (h *RegisterHAL) ConversionDone() bool {
	return h.regs.Get(ADCSRA)&ADIF != 0
}

// ClearDone acknowledges ADIF by writing a one to it.
func (h *RegisterHAL) ClearDone() {
	h.regs.Set(ADCSRA, h.regs.Get(ADCSRA)|ADIF)
}

// ReadRaw reads ADCL then ADCH. Reading ADCL latches ADCH until it is read,
// so the order keeps both bytes from the same conversion.
func (h *RegisterHAL) ReadRaw() RawSample {
	low := h.regs.Get(ADCL)
	high := h.regs.Get(ADCH)
	return RawSample(uint16(high&0x03)<<8 | uint16(low))
}
