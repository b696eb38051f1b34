package adc

import (
	"math/rand"
	"time"

	"github.com/chewxy/math32"
)

// Source is an analog input voltage in millivolts.
type Source interface {
	Millivolts() float32
}

// Constant is a fixed input voltage in millivolts.
type Constant float32

// Millivolts returns c.
func (c Constant) Millivolts() float32 {
	return float32(c)
}

// Sine is a slowly varying input: Bias + Amplitude*sin(2*pi*t/Period)
// plus uniform noise of +/-Noise, all in millivolts.
type Sine struct {
	Bias      float32
	Amplitude float32
	Period    time.Duration
	Noise     float32

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	start time.Time
	rng   *rand.Rand
}

// Millivolts evaluates the waveform at the current time.
func (s *Sine) Millivolts() float32 {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now()
	if s.start.IsZero() {
		s.start = t
	}

	v := s.Bias
	if s.Period > 0 {
		phase := float32(t.Sub(s.start).Seconds() / s.Period.Seconds())
		v += s.Amplitude * math32.Sin(2*math32.Pi*phase)
	}
	if s.Noise > 0 {
		if s.rng == nil {
			s.rng = rand.New(rand.NewSource(t.UnixNano()))
		}
		v += (s.rng.Float32()*2 - 1) * s.Noise
	}
	return v
}

// Quantize converts an input voltage into the sample an ideal converter
// would produce, clamped to [0, MaxRaw].
func Quantize(mv float32) RawSample {
	if mv <= 0 || math32.IsNaN(mv) {
		return 0
	}
	r := math32.Floor(mv * Steps / ReferenceMillivolts)
	if r >= float32(MaxRaw) {
		return MaxRaw
	}
	return RawSample(r)
}
