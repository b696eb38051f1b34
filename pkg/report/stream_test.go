package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushingBuffer struct {
	bytes.Buffer
	resets int
}

func (b *flushingBuffer) ResetInputBuffer() error {
	b.resets++
	return nil
}

func TestStreamLink_WritesWholeLines(t *testing.T) {
	var buf bytes.Buffer
	link := NewStreamLink(&buf)
	assert.True(t, link.IsReady())

	for _, b := range []byte("the voltage") {
		require.NoError(t, link.PutByte(b))
	}
	assert.Zero(t, buf.Len(), "partial line stays buffered")

	require.NoError(t, link.PutByte('\n'))
	assert.Equal(t, "the voltage\n", buf.String())
}

func TestStreamLink_FlushInput(t *testing.T) {
	buf := &flushingBuffer{}
	link := NewStreamLink(buf)
	ch := NewChannel(link)

	require.NoError(t, ch.TransmitLine(3))
	assert.Equal(t, 1, buf.resets)
	assert.Equal(t, "the voltage is 3 mV \n", buf.String())

	// Plain writers are fine too.
	NewStreamLink(&bytes.Buffer{}).FlushInput()
}

func TestStreamLink_SetReady(t *testing.T) {
	link := NewStreamLink(&bytes.Buffer{})
	link.SetReady(false)
	assert.False(t, link.IsReady())
}
