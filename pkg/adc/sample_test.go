package adc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMillivolts(t *testing.T) {
	tests := []struct {
		name string
		raw  RawSample
		want DisplayValue
	}{
		{name: "zero", raw: 0, want: 0},
		{name: "one step truncates", raw: 1, want: 4},
		{name: "one volt", raw: 205, want: 1000},
		{name: "mid scale", raw: 512, want: 2500},
		{name: "full scale", raw: 1023, want: 4995},
		{name: "out of range clamps", raw: 4095, want: 4995},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Millivolts(tt.raw))
		})
	}
}

func TestMillivolts_AllSamples(t *testing.T) {
	var prev DisplayValue
	for r := RawSample(0); r <= MaxRaw; r++ {
		got := Millivolts(r)
		assert.Equal(t, DisplayValue(uint32(r)*5000/1024), got, "raw %d", r)
		assert.GreaterOrEqual(t, got, prev, "not monotonic at raw %d", r)
		assert.LessOrEqual(t, got, MaxDisplay)
		prev = got
	}
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, RawSample(0), Quantize(-10))
	assert.Equal(t, RawSample(0), Quantize(0))
	assert.Equal(t, RawSample(204), Quantize(1000))
	assert.Equal(t, RawSample(512), Quantize(2500))
	assert.Equal(t, MaxRaw, Quantize(5000))
	assert.Equal(t, MaxRaw, Quantize(12000))
}
