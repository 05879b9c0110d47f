package serial

import "io"

// WriterBus is a host-side Bus that behaves like a UART whose transmitted
// bytes go to an io.Writer. Register writes other than THR are recorded.
type WriterBus struct {
	base uint16
	out  io.Writer

	// BusyPolls is how many status reads report "not ready" before each
	// byte, to exercise the wait loop.
	BusyPolls int

	pending int
	dlab    bool
	polls   int

	// Registers holds the last value written to each offset.
	Registers [8]uint8
	Divisor   uint16
}

// NewWriterBus returns a bus emulating a UART at base that forwards output
// to out.
func NewWriterBus(base uint16, out io.Writer) *WriterBus {
	return &WriterBus{base: base, out: out}
}

// Polls returns the number of line status reads so far.
func (w *WriterBus) Polls() int {
	return w.polls
}

func (w *WriterBus) In8(port uint16) uint8 {
	if port != w.base+regLineStatus {
		return 0
	}
	w.polls++
	if w.pending < w.BusyPolls {
		w.pending++
		return 0
	}
	return lsrTHREmpty
}

func (w *WriterBus) Out8(port uint16, v uint8) {
	off := port - w.base
	if off >= uint16(len(w.Registers)) {
		return
	}
	switch {
	case off == regData && w.dlab:
		w.Divisor = w.Divisor&0xFF00 | uint16(v)
	case off == regIntEnable && w.dlab:
		w.Divisor = w.Divisor&0x00FF | uint16(v)<<8
	case off == regData:
		w.pending = 0
		if w.out != nil {
			w.out.Write([]byte{v})
		}
		return
	case off == regLineControl:
		w.dlab = v&lcrDLAB != 0
	}
	w.Registers[off] = v
}
