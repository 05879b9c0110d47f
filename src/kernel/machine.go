// Package kernel runs the boot display sequence: check the loader's magic,
// find a framebuffer in the boot information, bring up whichever display
// backend that allows, print the status banner and start the subsystems.
//
// A Machine owns all display state for the whole boot phase. Nothing here
// runs concurrently; there is one execution context and no scheduler yet.
package kernel

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/moogchi/os/src/config"
	"github.com/moogchi/os/src/display"
	"github.com/moogchi/os/src/framebuffer"
	"github.com/moogchi/os/src/memory"
	"github.com/moogchi/os/src/multiboot"
	"github.com/moogchi/os/src/serial"
	"github.com/moogchi/os/src/subsys"
	"github.com/moogchi/os/src/vgatext"
)

// Diagnostic lines sent over the serial port, byte for byte.
const (
	MsgInvalidMagic   = "ERROR: Invalid multiboot magic\n"
	MsgSerialActive   = "Copium OS - Serial Output Active\n"
	MsgFoundFB        = "Found framebuffer tag!\n"
	MsgFBInitialized  = "Framebuffer initialized!\n"
	MsgTextFallback   = "No framebuffer, using VGA text mode\n"
	MsgNoDisplay      = "ERROR: No display available\n"
	MsgAllInitialized = "All components initialized\n"
)

var (
	ErrInvalidMagic  = errors.New("kernel: invalid multiboot magic")
	ErrNoDisplay     = errors.New("kernel: no display backend available")
	ErrAlreadyBooted = errors.New("kernel: boot already ran")
)

// Halter stops the processor. On the machine Halt never returns; host
// halters record the call and return so the caller can inspect the result.
type Halter interface {
	Halt()
}

// HalterFunc adapts a function to Halter.
type HalterFunc func()

func (f HalterFunc) Halt() { f() }

// Options wires a Machine to its collaborators.
type Options struct {
	Config config.Config
	Mapper memory.Mapper
	Serial serial.Bus
	Halter Halter
	Hooks  []subsys.Hook
	Logger zerolog.Logger
}

const maxHistory = 8

// Machine is the boot sequence and the display state it owns.
type Machine struct {
	cfg    config.Config
	mapper memory.Mapper
	port   *serial.Port
	halter Halter
	hooks  []subsys.Hook
	log    zerolog.Logger

	state   State
	history [maxHistory]State
	visited int

	fb       *framebuffer.Framebuffer
	console  *vgatext.Console
	renderer display.Renderer
}

// NewMachine returns a machine in the Unvalidated state.
func NewMachine(opts Options) *Machine {
	m := &Machine{
		cfg:    opts.Config,
		mapper: opts.Mapper,
		port:   serial.NewPort(opts.Serial, opts.Config.Serial.Base),
		halter: opts.Halter,
		hooks:  opts.Hooks,
		log:    opts.Logger,
		fb:     framebuffer.New(opts.Mapper),
	}
	m.history[0] = Unvalidated
	m.visited = 1
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// History lists every state entered so far, starting with Unvalidated.
func (m *Machine) History() []State {
	out := make([]State, m.visited)
	copy(out, m.history[:m.visited])
	return out
}

// Renderer returns the active backend, or nil before one is chosen.
func (m *Machine) Renderer() display.Renderer {
	return m.renderer
}

// Framebuffer returns the framebuffer backend. It stays uninitialized when
// the text backend is in use.
func (m *Machine) Framebuffer() *framebuffer.Framebuffer {
	return m.fb
}

// Console returns the text backend, or nil when the framebuffer is in use.
func (m *Machine) Console() *vgatext.Console {
	return m.console
}

func (m *Machine) enter(s State) {
	if !canTransition(m.state, s) {
		panic(fmt.Sprintf("kernel: illegal transition %s -> %s", m.state, s))
	}
	m.log.Debug().Stringer("from", m.state).Stringer("to", s).Msg("transition")
	m.state = s
	if m.visited < maxHistory {
		m.history[m.visited] = s
		m.visited++
	}
}

func (m *Machine) halt(msg string, err error) error {
	m.port.WriteString(msg)
	m.enter(Halted)
	m.log.Error().Err(err).Msg("halting")
	if m.halter != nil {
		m.halter.Halt()
	}
	return err
}

// Boot runs the whole sequence. infoAddr is the physical address of the
// boot information block. On the machine an invalid magic never returns;
// with a returning Halter Boot reports ErrInvalidMagic.
func (m *Machine) Boot(magic uint32, infoAddr uint64) error {
	if m.state != Unvalidated {
		return ErrAlreadyBooted
	}
	if m.cfg.Serial.Program {
		m.port.Init(m.cfg.Serial.Divisor)
	}

	if magic != m.cfg.BootMagic {
		return m.halt(MsgInvalidMagic, fmt.Errorf("got 0x%08x: %w", magic, ErrInvalidMagic))
	}
	m.enter(BackendSelecting)
	m.port.WriteString(MsgSerialActive)

	if err := m.selectBackend(infoAddr); err != nil {
		return m.halt(MsgNoDisplay, err)
	}

	m.enter(Rendering)
	banner := m.cfg.Banner
	if m.renderer.Kind() == display.KindFramebuffer {
		m.port.WriteString(MsgFBInitialized)
	} else {
		m.port.WriteString(MsgTextFallback)
	}
	m.renderer.Clear()
	m.renderer.DrawString(banner.Title, 0, display.ToneTitle)
	m.renderer.DrawString(banner.Booted, 1, display.ToneText)

	m.enter(SubsystemInit)
	subsys.Run(m.hooks, m.log)

	display.Separate(m.renderer)
	m.renderer.DrawString(banner.Initialized, 2, display.ToneSuccess)
	m.renderer.DrawString(banner.Ready, 3, display.ToneText)
	m.port.WriteString(MsgAllInitialized)
	m.enter(Ready)
	m.log.Info().Stringer("backend", m.renderer.Kind()).Msg("boot complete")
	return nil
}

// selectBackend walks the boot information for a framebuffer tag and
// initializes the matching backend. Any problem with the framebuffer path
// falls back to text mode.
func (m *Machine) selectBackend(infoAddr uint64) error {
	if m.tryFramebuffer(infoAddr) {
		m.renderer = display.NewFramebufferRenderer(m.fb, m.cfg.Colors, display.Layout{
			OriginX:    m.cfg.Banner.OriginX,
			OriginY:    m.cfg.Banner.OriginY,
			LineHeight: m.cfg.Banner.LineHeight,
		})
		return nil
	}

	con, err := vgatext.Open(m.mapper, m.cfg.VGA.Addr, m.cfg.VGA.Columns, m.cfg.VGA.Rows)
	if err != nil {
		return fmt.Errorf("%w: text console: %v", ErrNoDisplay, err)
	}
	con.SetDefaultAttribute(m.cfg.VGA.Attribute())
	m.console = con
	m.renderer = display.NewTextRenderer(con)
	return nil
}

func (m *Machine) tryFramebuffer(infoAddr uint64) bool {
	info, err := multiboot.Load(m.mapper, infoAddr)
	if err != nil {
		m.log.Warn().Err(err).Uint64("addr", infoAddr).Msg("boot information unreadable")
		return false
	}
	if s, ok := info.BootLoaderName(); ok {
		m.log.Debug().Str("loader", s).Msg("boot loader")
	}
	if s, ok := info.CommandLine(); ok {
		m.log.Debug().Str("cmdline", s).Msg("command line")
	}

	tag, found, err := info.FindFramebuffer()
	if err != nil {
		m.log.Warn().Err(err).Msg("malformed boot information")
	}
	if !found {
		return false
	}
	m.port.WriteString(MsgFoundFB)
	m.log.Debug().
		Uint64("addr", tag.Addr).
		Uint32("width", tag.Width).
		Uint32("height", tag.Height).
		Uint32("pitch", tag.Pitch).
		Uint8("bpp", tag.Bpp).
		Stringer("type", tag.Type).
		Msg("framebuffer tag")

	if err := m.fb.Init(tag.Addr, tag.Width, tag.Height, tag.Pitch, tag.Bpp); err != nil {
		m.log.Warn().Err(err).Msg("framebuffer unusable")
		return false
	}
	return true
}
