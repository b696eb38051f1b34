package device

import (
	"time"

	"github.com/itohio/govm/pkg/adc"
)

// Reading is one parsed report line.
type Reading struct {
	Timestamp  time.Time        // Host receive time
	Millivolts adc.DisplayValue // Reported value (0-4995 mV)
}

// Device defines the interface for voltage reporters (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Readings() <-chan Reading
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
