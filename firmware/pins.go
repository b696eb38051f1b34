//go:build tinygo

package main

import "time"

const (
	// Sampling configuration
	SETTLE_DELAY     = time.Second // Idle time before each conversion
	ADC_CHANNEL      = 0           // ADC0 (PF0, A5 on the Leonardo)
	MAX_POLLS        = 100000      // Completion polls before a conversion is abandoned
	RETRY_DELAY      = time.Second // Pause after a failed cycle
	READY_POLL_DELAY = 10 * time.Millisecond

	// Serial configuration
	// The longest line is "the voltage is 65535 mV \n" (25 bytes), sent once a second.
	// USB CDC ignores the rate; it only matters on boards with a hardware UART.
	UART_BAUD_RATE = 9600
)
