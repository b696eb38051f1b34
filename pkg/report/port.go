package report

// Port is the byte-level surface of an MCU serial port, as provided by
// TinyGo's machine.Serialer.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

// dtrPort is implemented by USB CDC ports that expose the host's DTR line.
type dtrPort interface {
	DTR() bool
}

// PortLink is a Link over a Port.
type PortLink struct {
	port Port
}

var _ Link = (*PortLink)(nil)

// NewPortLink wraps port.
func NewPortLink(port Port) *PortLink {
	return &PortLink{port: port}
}

// IsReady reports whether the host has opened the port. Ports without a
// DTR line, such as a hardware UART, carry no such signal and are always
// ready.
func (l *PortLink) IsReady() bool {
	if p, ok := l.port.(dtrPort); ok {
		return p.DTR()
	}
	return true
}

// FlushInput drains every buffered inbound byte.
func (l *PortLink) FlushInput() {
	for l.port.Buffered() > 0 {
		if _, err := l.port.ReadByte(); err != nil {
			return
		}
	}
}

func (l *PortLink) PutByte(b byte) error {
	return l.port.WriteByte(b)
}
