package sample

import (
	"log"
	"time"
)

// NewAveragingConverter creates a stage that replaces every sample with the
// moving average of the last windowSize samples. This reduces noise at the
// cost of lag; readings arrive about once per second, so windows stay small.
func NewAveragingConverter(windowSize int, bufSize int) func(in <-chan Sample) <-chan Sample {
	if windowSize <= 0 {
		windowSize = 1
	}
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan Sample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			buffer := make([]Sample, 0, windowSize)
			for s := range in {
				buffer = append(buffer, s)
				if len(buffer) > windowSize {
					buffer = buffer[1:] // Remove oldest
				}

				select {
				case out <- averageSamples(buffer):
				case <-time.After(time.Second):
					log.Printf("Averaging converter output channel full")
				}
			}
		}()

		return out
	}
}

// averageSamples averages a slice of Samples, keeping the most recent timestamp.
func averageSamples(samples []Sample) Sample {
	if len(samples) == 0 {
		return Sample{}
	}

	var sum float64
	for _, s := range samples {
		sum += s.Voltage
	}

	return Sample{
		Timestamp: samples[len(samples)-1].Timestamp,
		Voltage:   sum / float64(len(samples)),
	}
}
