package report

import (
	"bufio"
	"io"
	"sync"
)

// StreamLink is a Link over an io.Writer, such as a host serial port or a pipe.
// Bytes are buffered and pushed to the writer at the end of each line.
// FlushInput resets the inbound buffer when the writer supports it, as
// serial ports do.
type StreamLink struct {
	mu    sync.Mutex
	w     *bufio.Writer
	in    inputFlusher
	ready bool
}

// inputFlusher is implemented by serial ports that can drop their input buffer.
type inputFlusher interface {
	ResetInputBuffer() error
}

var _ Link = (*StreamLink)(nil)

// NewStreamLink wraps w. The link reports ready immediately.
func NewStreamLink(w io.Writer) *StreamLink {
	l := &StreamLink{
		w:     bufio.NewWriterSize(w, MaxLineLength),
		ready: true,
	}
	if f, ok := w.(inputFlusher); ok {
		l.in = f
	}
	return l
}

// IsReady reports whether the link is open.
func (l *StreamLink) IsReady() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// SetReady changes the reported readiness.
func (l *StreamLink) SetReady(ready bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ready = ready
}

// FlushInput discards pending inbound bytes when the stream supports it.
func (l *StreamLink) FlushInput() {
	if l.in != nil {
		_ = l.in.ResetInputBuffer()
	}
}

// PutByte queues b and writes the buffered line out on '\n'.
func (l *StreamLink) PutByte(b byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.w.WriteByte(b); err != nil {
		return err
	}
	if b == '\n' {
		return l.w.Flush()
	}
	return nil
}
