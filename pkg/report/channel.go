package report

import (
	"strconv"

	"github.com/itohio/govm/pkg/adc"
)

const (
	linePrefix = "the voltage is "
	lineSuffix = " mV \n"

	// MaxLineLength is the length of the longest line a uint16 value can produce.
	MaxLineLength = len(linePrefix) + 5 + len(lineSuffix)
)

// Link is the outbound serial-over-USB transport.
type Link interface {
	// IsReady reports whether the host has finished enumerating the link.
	IsReady() bool
	// FlushInput discards any unread inbound data.
	FlushInput()
	// PutByte queues one byte for transmission.
	PutByte(b byte) error
}

// Channel turns display values into transmitted text lines.
// Every line reaches the wire whole or as a fragment terminated by '\n',
// so a reader discards a broken line without losing the next one.
type Channel struct {
	link Link
	// open is set while a failed line still lacks its terminator.
	open bool
}

// NewChannel returns a channel transmitting on link.
func NewChannel(link Link) *Channel {
	return &Channel{link: link}
}

// TransmitLine flushes pending input, formats v and pushes the line one
// byte at a time. The link's readiness is not checked; a link that is not
// enumerated yet drops or buffers the bytes on its own.
//
// If the link fails mid-line the fragment is terminated with '\n' before
// the error is returned. When even that fails, the terminator is sent
// ahead of the next line instead.
func (c *Channel) TransmitLine(v adc.DisplayValue) error {
	var buf [MaxLineLength]byte

	c.link.FlushInput()

	if c.open {
		if err := c.link.PutByte('\n'); err != nil {
			return err
		}
		c.open = false
	}

	for i, b := range AppendLine(buf[:0], v) {
		if err := c.link.PutByte(b); err != nil {
			if i > 0 {
				c.open = c.link.PutByte('\n') != nil
			}
			return err
		}
	}
	return nil
}

// AppendLine appends the wire form of v, "the voltage is <v> mV \n", to dst.
func AppendLine(dst []byte, v adc.DisplayValue) []byte {
	dst = append(dst, linePrefix...)
	dst = strconv.AppendUint(dst, uint64(v), 10)
	return append(dst, lineSuffix...)
}
