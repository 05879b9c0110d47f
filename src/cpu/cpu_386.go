//go:build copium && 386

package cpu

// Inb reads a byte from an I/O port.
func Inb(port uint16) uint8

// Outb writes a byte to an I/O port.
func Outb(port uint16, v uint8)

// Halt stops the processor until the next interrupt.
func Halt()

// DisableInterrupts clears the interrupt flag.
func DisableInterrupts()

// HaltForever never returns. With interrupts off the loop only turns over on
// an NMI.
//
//go:nosplit
func HaltForever() {
	DisableInterrupts()
	for {
		Halt()
	}
}

// PortBus is port-mapped I/O on the real machine.
type PortBus struct{}

//go:nosplit
func (PortBus) In8(port uint16) uint8 { return Inb(port) }

//go:nosplit
func (PortBus) Out8(port uint16, v uint8) { Outb(port, v) }

// Halter stops the machine for good.
type Halter struct{}

func (Halter) Halt() { HaltForever() }
