// Package config holds every hardware constant and banner string the boot
// path uses, so host runs can point the kernel at emulated memory and ports.
package config

import (
	"errors"
	"fmt"

	"github.com/moogchi/os/src/framebuffer"
	"github.com/moogchi/os/src/multiboot"
	"github.com/moogchi/os/src/serial"
	"github.com/moogchi/os/src/vgatext"
)

var ErrInvalid = errors.New("config: invalid value")

// VGA describes the legacy text display.
type VGA struct {
	Addr       uint64
	Columns    int
	Rows       int
	Foreground vgatext.Color
	Background vgatext.Color
}

// Attribute is the default text attribute built from the colours.
func (v VGA) Attribute() vgatext.Attribute {
	return vgatext.EntryColor(v.Foreground, v.Background)
}

// Serial describes the diagnostic UART.
type Serial struct {
	Base uint16
	// Program reprograms the UART before first use. Off by default; the
	// loader leaves COM1 usable.
	Program bool
	Divisor uint16
}

// Banner is the status text drawn during boot and where the framebuffer
// backend draws it.
type Banner struct {
	Title       string
	Booted      string
	Initialized string
	Ready       string

	OriginX    uint32
	OriginY    uint32
	LineHeight uint32
}

// Lines returns the banner in drawing order.
func (b Banner) Lines() [4]string {
	return [4]string{b.Title, b.Booted, b.Initialized, b.Ready}
}

// Config is the complete boot configuration.
type Config struct {
	BootMagic uint32
	VGA       VGA
	Serial    Serial
	Banner    Banner
	Colors    framebuffer.ColorScheme
}

// Default reproduces the stock kernel.
func Default() Config {
	return Config{
		BootMagic: multiboot.BootloaderMagic,
		VGA: VGA{
			Addr:       vgatext.DefaultAddr,
			Columns:    vgatext.DefaultColumns,
			Rows:       vgatext.DefaultRows,
			Foreground: vgatext.LightBrown,
			Background: vgatext.Blue,
		},
		Serial: Serial{
			Base:    serial.COM1,
			Divisor: 1,
		},
		Banner: Banner{
			Title:       "Copium OS v0.1.0",
			Booted:      "Kernel booted successfully!",
			Initialized: "All components initialized!",
			Ready:       "System ready.",
			OriginX:     10,
			OriginY:     10,
			LineHeight:  10,
		},
		Colors: framebuffer.DefaultScheme,
	}
}

// Validate reports the first field that cannot work.
func (c Config) Validate() error {
	switch {
	case c.VGA.Addr == 0:
		return fmt.Errorf("vga.addr must be non-zero: %w", ErrInvalid)
	case c.VGA.Columns <= 0 || c.VGA.Rows <= 0:
		return fmt.Errorf("vga size %dx%d: %w", c.VGA.Columns, c.VGA.Rows, ErrInvalid)
	case c.VGA.Foreground > vgatext.White || c.VGA.Background > vgatext.White:
		return fmt.Errorf("vga colours out of range: %w", ErrInvalid)
	case c.Serial.Base == 0:
		return fmt.Errorf("serial.base must be non-zero: %w", ErrInvalid)
	case c.Serial.Program && c.Serial.Divisor == 0:
		return fmt.Errorf("serial.divisor must be non-zero: %w", ErrInvalid)
	case c.Banner.LineHeight == 0:
		return fmt.Errorf("banner.line_height must be non-zero: %w", ErrInvalid)
	}
	return nil
}
