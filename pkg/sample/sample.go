package sample

import (
	"log"
	"time"

	"github.com/itohio/govm/pkg/device"
)

// Sample represents a processed reading in volts.
type Sample struct {
	Timestamp time.Time
	Voltage   float64 // Input voltage (V)
}

// Converter is a function type that converts a Reading channel to a Sample channel.
type Converter func(in <-chan device.Reading) <-chan Sample

// NewConverter creates a converter function that transforms Readings to Samples.
// The output channel is closed when the input channel closes.
func NewConverter(bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan device.Reading) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			for r := range in {
				select {
				case out <- convertReading(r):
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}

// convertReading converts a millivolt Reading to a Sample in volts.
func convertReading(r device.Reading) Sample {
	return Sample{
		Timestamp: r.Timestamp,
		Voltage:   float64(r.Millivolts) / 1000.0,
	}
}
