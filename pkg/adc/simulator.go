package adc

// Simulator is an in-memory Registers implementation modelling the
// converter block closely enough to exercise RegisterHAL and Converter
// without hardware.
//
// A conversion starts when ADSC is written with ADEN set. It completes
// after Latency reads of ADCSRA, at which point the result registers are
// loaded from Source, ADSC drops and ADIF rises. ADIF is cleared by
// writing a one to it. Reading ADCL latches ADCH until ADCH is read.
type Simulator struct {
	// Source provides the analog input. Nil reads 0 mV.
	Source Source
	// Latency is the number of ADCSRA polls a conversion takes.
	// A negative latency never completes.
	Latency int

	regs       [numRegisters]uint8
	pending    int
	converting bool
	latched    bool
	latchHigh  uint8

	// Counters for assertions.
	Triggers    int // conversions started
	Completions int // conversions finished
	Clears      int // writes of 1 to ADIF
	Reads       int // ADCL reads
	Polls       int // ADCSRA reads
	AutoTrigger bool // ADATE was ever written
}

var _ Registers = (*Simulator)(nil)

// NewSimulator returns a simulator with the given input and latency.
func NewSimulator(src Source, latency int) *Simulator {
	return &Simulator{
		Source:  src,
		Latency: latency,
	}
}

// Get reads a register, advancing any running conversion on ADCSRA reads.
func (s *Simulator) Get(r Register) uint8 {
	if r >= numRegisters {
		return 0
	}

	switch r {
	case ADCSRA:
		s.Polls++
		if s.converting && s.Latency >= 0 {
			s.pending--
			if s.pending <= 0 {
				s.complete()
			}
		}
	case ADCL:
		s.Reads++
		s.latched = true
		s.latchHigh = s.regs[ADCH]
	case ADCH:
		if s.latched {
			s.latched = false
			return s.latchHigh
		}
	}
	return s.regs[r]
}

// Set writes a register. ADCL and ADCH are read-only.
func (s *Simulator) Set(r Register, v uint8) {
	if r >= numRegisters {
		return
	}

	switch r {
	case ADCL, ADCH:
		return
	case ADCSRA:
		s.setControl(v)
	default:
		s.regs[r] = v
	}
}

// Enabled reports whether ADEN is set.
func (s *Simulator) Enabled() bool {
	return s.regs[ADCSRA]&ADEN != 0
}

// Register returns the stored value of r without side effects.
func (s *Simulator) Register(r Register) uint8 {
	if r >= numRegisters {
		return 0
	}
	return s.regs[r]
}

func (s *Simulator) setControl(v uint8) {
	old := s.regs[ADCSRA]

	if v&ADATE != 0 {
		s.AutoTrigger = true
	}

	next := v &^ (ADIF | ADSC)
	if v&ADIF != 0 {
		s.Clears++
	} else {
		next |= old & ADIF
	}
	if s.converting {
		next |= ADSC
	}
	s.regs[ADCSRA] = next

	if v&ADSC != 0 && next&ADEN != 0 && !s.converting {
		s.start()
	}
}

func (s *Simulator) start() {
	s.Triggers++
	s.converting = true
	s.regs[ADCSRA] |= ADSC
	s.pending = s.Latency
	if s.Latency == 0 {
		s.complete()
	}
}

func (s *Simulator) complete() {
	var mv float32
	if s.Source != nil {
		mv = s.Source.Millivolts()
	}
	raw := Quantize(mv)

	// Right-adjusted unless ADLAR is set.
	if s.regs[ADMUX]&ADLAR != 0 {
		s.regs[ADCH] = uint8(raw >> 2)
		s.regs[ADCL] = uint8(raw << 6)
	} else {
		s.regs[ADCH] = uint8(raw >> 8)
		s.regs[ADCL] = uint8(raw)
	}

	s.converting = false
	s.Completions++
	s.regs[ADCSRA] = (s.regs[ADCSRA] &^ ADSC) | ADIF
}
