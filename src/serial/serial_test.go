package serial

import (
	"bytes"
	"fmt"
	"testing"
)

func TestWriteStringIsVerbatim(t *testing.T) {
	var out bytes.Buffer
	p := NewPort(NewWriterBus(COM1, &out), COM1)
	msg := "Copium OS - Serial Output Active\n"
	if n, err := p.WriteString(msg); n != len(msg) || err != nil {
		t.Fatalf("WriteString() = %d, %v", n, err)
	}
	if out.String() != msg {
		t.Errorf("wire = %q, want %q", out.String(), msg)
	}
}

func TestPutByteWaitsForTransmitter(t *testing.T) {
	var out bytes.Buffer
	bus := NewWriterBus(COM1, &out)
	bus.BusyPolls = 3
	p := NewPort(bus, COM1)
	p.WriteString("ok")
	if out.String() != "ok" {
		t.Errorf("wire = %q", out.String())
	}
	// three busy reads and one ready read per byte
	if bus.Polls() != 8 {
		t.Errorf("status polled %d times, want 8", bus.Polls())
	}
}

func TestOtherBaseIgnoresCOM1(t *testing.T) {
	var out bytes.Buffer
	bus := NewWriterBus(0x2F8, &out)
	p := NewPort(bus, 0x2F8)
	p.PutByte('x')
	if out.String() != "x" {
		t.Errorf("COM2 wire = %q", out.String())
	}
}

func TestPutHex(t *testing.T) {
	tests := []struct {
		name string
		put  func(p *Port)
		want string
	}{
		{"hex32 magic", func(p *Port) { p.PutHex32(0x36D76289) }, "36D76289"},
		{"hex32 zero", func(p *Port) { p.PutHex32(0) }, "00000000"},
		{"hex64", func(p *Port) { p.PutHex64(0xFD000000_000B8000) }, "FD000000000B8000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			tt.put(NewPort(NewWriterBus(COM1, &out), COM1))
			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestInitProgramsUART(t *testing.T) {
	var out bytes.Buffer
	bus := NewWriterBus(COM1, &out)
	NewPort(bus, COM1).Init(3)

	if bus.Divisor != 3 {
		t.Errorf("divisor = %d, want 3", bus.Divisor)
	}
	if bus.Registers[regLineControl] != lcr8N1 {
		t.Errorf("LCR = 0x%02x, want 0x%02x", bus.Registers[regLineControl], lcr8N1)
	}
	if bus.Registers[regIntEnable] != 0 {
		t.Errorf("IER = 0x%02x, want interrupts off", bus.Registers[regIntEnable])
	}
	if out.Len() != 0 {
		t.Errorf("Init transmitted %q", out.String())
	}
}

func ExamplePort_PutHex32() {
	var out bytes.Buffer
	p := NewPort(NewWriterBus(COM1, &out), COM1)
	p.WriteString("magic=0x")
	p.PutHex32(0x36D76289)
	fmt.Println(out.String())
	// Output: magic=0x36D76289
}
