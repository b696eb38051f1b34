package sample

import (
	"testing"
	"time"

	"github.com/itohio/govm/pkg/device"
	"github.com/stretchr/testify/assert"
)

// TestConverter_GracefulShutdown tests that the converter chain closes its
// output when the input channel is closed.
func TestConverter_GracefulShutdown(t *testing.T) {
	input := make(chan device.Reading, 10)
	output := NewAveragingConverter(3, 10)(NewConverter(10)(input))

	done := make(chan int)
	go func() {
		count := 0
		for range output {
			count++
		}
		done <- count
	}()

	now := time.Now()
	for i := range 3 {
		input <- device.Reading{Timestamp: now.Add(time.Duration(i) * time.Second), Millivolts: 1000}
	}
	close(input)

	select {
	case count := <-done:
		assert.Equal(t, 3, count)
	case <-time.After(5 * time.Second):
		t.Fatal("Output channel did not close within timeout")
	}
}
