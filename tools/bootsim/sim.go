package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/moogchi/os/src/config"
	"github.com/moogchi/os/src/kernel"
	"github.com/moogchi/os/src/memory"
	"github.com/moogchi/os/src/multiboot"
	"github.com/moogchi/os/src/serial"
	"github.com/moogchi/os/src/subsys"
)

// Where the simulated loader leaves things.
const (
	defaultInfoAddr = 0x10000
	defaultFBAddr   = 0xFD000000
)

// machineSpec describes one simulated boot.
type machineSpec struct {
	Config   config.Config
	Magic    uint32
	Blob     []byte
	InfoAddr uint64

	// Serial receives a copy of every transmitted byte, if set.
	Serial io.Writer
}

// run is the outcome of a simulated boot.
type run struct {
	Machine *kernel.Machine
	Arena   *memory.Arena
	Serial  string
	Halted  bool
	Err     error
}

// defaultBlob is what a loader produces for a linear framebuffer of the
// given size, or with no framebuffer tag when width is 0.
func defaultBlob(width, height uint32) []byte {
	var b multiboot.Builder
	b.BootLoaderName("bootsim").CommandLine("")
	if width > 0 && height > 0 {
		b.RGBFramebuffer(defaultFBAddr, width, height, width*4, 32)
	}
	return b.Bytes()
}

// prepare lays out simulated physical memory: the info block, the VGA text
// buffer and, when the block carries a usable framebuffer tag, the
// framebuffer it points at.
func prepare(spec machineSpec, log zerolog.Logger) (*memory.Arena, error) {
	a := memory.NewArena()
	if err := a.Load(spec.InfoAddr, spec.Blob); err != nil {
		return nil, fmt.Errorf("load info block: %w", err)
	}
	vga := spec.Config.VGA
	if _, err := a.Reserve(vga.Addr, vga.Columns*vga.Rows*2); err != nil {
		return nil, fmt.Errorf("reserve text buffer: %w", err)
	}

	info, err := multiboot.Parse(spec.Blob)
	if err != nil {
		log.Warn().Err(err).Msg("info block does not parse; kernel will fall back")
		return a, nil
	}
	fb, ok, err := info.FindFramebuffer()
	if !ok {
		if err != nil {
			log.Warn().Err(err).Msg("framebuffer tag unreadable")
		}
		return a, nil
	}
	size := int(fb.Pitch) * int(fb.Height)
	if size == 0 {
		return a, nil
	}
	if _, err := a.Reserve(fb.Addr, size); err != nil {
		if !errors.Is(err, memory.ErrOverlap) {
			return nil, fmt.Errorf("reserve framebuffer: %w", err)
		}
		log.Warn().Err(err).Uint64("addr", fb.Addr).Msg("framebuffer left unmapped")
	}
	return a, nil
}

// simulate prepares memory and runs the boot sequence once.
func simulate(spec machineSpec, log zerolog.Logger) (*run, error) {
	if spec.InfoAddr == 0 {
		spec.InfoAddr = defaultInfoAddr
	}
	arena, err := prepare(spec, log)
	if err != nil {
		return nil, err
	}

	var wire bytes.Buffer
	var out io.Writer = &wire
	if spec.Serial != nil {
		out = io.MultiWriter(&wire, spec.Serial)
	}
	r := &run{Arena: arena}
	r.Machine = kernel.NewMachine(kernel.Options{
		Config: spec.Config,
		Mapper: arena,
		Serial: serial.NewWriterBus(spec.Config.Serial.Base, out),
		Halter: kernel.HalterFunc(func() { r.Halted = true }),
		Hooks:  subsys.Defaults(log),
		Logger: log,
	})
	r.Err = r.Machine.Boot(spec.Magic, spec.InfoAddr)
	r.Serial = wire.String()
	return r, nil
}
