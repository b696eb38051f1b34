package adc

// HAL is the hardware abstraction the converter depends on.
// It is implemented once per target platform; the sampling protocol in
// Converter never touches raw registers or addresses.
type HAL interface {
	// Configure prepares the analog front end: disables the digital input
	// buffer of the sensing pin, selects the channel and reference and
	// enables the converter with its clock prescaler.
	Configure() error

	// TriggerConversion starts a single conversion.
	TriggerConversion()

	// ConversionDone reports whether the completion flag is set.
	ConversionDone() bool

	// ClearDone clears the completion flag. Must be called exactly once
	// per completed conversion or the next wait returns on a stale flag.
	ClearDone()

	// ReadRaw assembles the result registers into a sample.
	ReadRaw() RawSample
}
