package adc

const (
	// Resolution is the converter resolution in bits.
	Resolution = 10
	// Steps is the number of quantisation steps over the full scale (2^10).
	Steps = 1 << Resolution
	// MaxRaw is the largest value a single conversion can produce.
	MaxRaw RawSample = Steps - 1

	// ReferenceMillivolts is the reference voltage (5 V) fixing the conversion scale.
	ReferenceMillivolts = 5000
	// MaxDisplay is the display value of a full-scale reading.
	MaxDisplay DisplayValue = DisplayValue(uint32(MaxRaw) * ReferenceMillivolts / Steps)
)

// RawSample is the unscaled output of one conversion, in [0, MaxRaw].
type RawSample uint16

// DisplayValue is a RawSample rescaled into millivolts, in [0, MaxDisplay].
type DisplayValue uint16

// Millivolts converts a raw sample into millivolts against the 5 V reference.
// The result is truncated toward zero: floor(r * 5000 / 1024).
func Millivolts(r RawSample) DisplayValue {
	if r > MaxRaw {
		r = MaxRaw
	}
	return DisplayValue(uint32(r) * ReferenceMillivolts / Steps)
}
