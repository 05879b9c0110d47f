// Package serial writes diagnostics to a 16550-compatible UART.
//
// Transmission is a blocking busy-wait: before every byte the line status
// register is polled until the transmit holding register is empty. There is
// no buffering and no interrupt use.
package serial

import "io"

// COM1 is the conventional base I/O port of the first serial port.
const COM1 uint16 = 0x3F8

// Register offsets from the base port.
const (
	regData        = 0 // THR on write, RBR on read; divisor low with DLAB
	regIntEnable   = 1 // IER; divisor high with DLAB
	regFIFOControl = 2
	regLineControl = 3
	regModemCtl    = 4
	regLineStatus  = 5

	lsrTHREmpty = 0x20
	lcrDLAB     = 0x80
	lcr8N1      = 0x03
)

// Bus is port-mapped I/O.
type Bus interface {
	In8(port uint16) uint8
	Out8(port uint16, v uint8)
}

// Port is a UART at a fixed base port.
type Port struct {
	bus  Bus
	base uint16
}

// NewPort returns a port on bus at base.
func NewPort(bus Bus, base uint16) *Port {
	return &Port{bus: bus, base: base}
}

// Base returns the base I/O port.
func (p *Port) Base() uint16 {
	return p.base
}

// Init programs the UART for 8N1 at 115200/divisor baud with FIFOs on and
// interrupts off. The loader usually leaves COM1 usable, so this is optional.
func (p *Port) Init(divisor uint16) {
	if divisor == 0 {
		divisor = 1
	}
	p.bus.Out8(p.base+regIntEnable, 0x00)
	p.bus.Out8(p.base+regLineControl, lcrDLAB)
	p.bus.Out8(p.base+regData, uint8(divisor))
	p.bus.Out8(p.base+regIntEnable, uint8(divisor>>8))
	p.bus.Out8(p.base+regLineControl, lcr8N1)
	p.bus.Out8(p.base+regFIFOControl, 0xC7)
	p.bus.Out8(p.base+regModemCtl, 0x0B)
}

// PutByte waits for the transmitter and sends one byte.
//
//go:nosplit
func (p *Port) PutByte(b byte) {
	for p.bus.In8(p.base+regLineStatus)&lsrTHREmpty == 0 {
	}
	p.bus.Out8(p.base+regData, b)
}

// WriteString sends s as-is. Newlines are not translated.
//
//go:nosplit
func (p *Port) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		p.PutByte(s[i])
	}
	return len(s), nil
}

// Write implements io.Writer. It never fails.
func (p *Port) Write(b []byte) (int, error) {
	for _, c := range b {
		p.PutByte(c)
	}
	return len(b), nil
}

// PutHex32 writes v as eight uppercase hex digits.
//
//go:nosplit
func (p *Port) PutHex32(v uint32) {
	for shift := 28; shift >= 0; shift -= 4 {
		p.PutByte(hexDigit(uint8(v>>uint(shift)) & 0xF))
	}
}

// PutHex64 writes v as sixteen uppercase hex digits.
//
//go:nosplit
func (p *Port) PutHex64(v uint64) {
	p.PutHex32(uint32(v >> 32))
	p.PutHex32(uint32(v))
}

func hexDigit(d uint8) byte {
	if d < 10 {
		return '0' + d
	}
	return 'A' + d - 10
}

var _ io.Writer = (*Port)(nil)
var _ io.StringWriter = (*Port)(nil)
