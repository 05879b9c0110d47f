package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/moogchi/os/src/framebuffer"
	"github.com/moogchi/os/src/vgatext"
)

type fileConfig struct {
	BootMagic uint32     `toml:"boot_magic"`
	VGA       vgaFile    `toml:"vga"`
	Serial    serialFile `toml:"serial"`
	Banner    bannerFile `toml:"banner"`
	Colors    colorsFile `toml:"colors"`
}

type vgaFile struct {
	Addr       uint64 `toml:"addr"`
	Columns    int    `toml:"columns"`
	Rows       int    `toml:"rows"`
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

type serialFile struct {
	Base    uint16 `toml:"base"`
	Program bool   `toml:"program"`
	Divisor uint16 `toml:"divisor"`
}

type bannerFile struct {
	Title       string `toml:"title"`
	Booted      string `toml:"booted"`
	Initialized string `toml:"initialized"`
	Ready       string `toml:"ready"`
	X           uint32 `toml:"x"`
	Y           uint32 `toml:"y"`
	LineHeight  uint32 `toml:"line_height"`
}

type colorsFile struct {
	Scheme     string `toml:"scheme"`
	Background string `toml:"background"`
	Title      string `toml:"title"`
	Text       string `toml:"text"`
	Success    string `toml:"success"`
}

// Load reads a TOML file. Keys that are absent keep their Default value.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return Config{}, fmt.Errorf("unknown key %q: %w", undec[0].String(), ErrInvalid)
	}

	if meta.IsDefined("boot_magic") {
		cfg.BootMagic = raw.BootMagic
	}

	if meta.IsDefined("vga", "addr") {
		cfg.VGA.Addr = raw.VGA.Addr
	}
	if meta.IsDefined("vga", "columns") {
		cfg.VGA.Columns = raw.VGA.Columns
	}
	if meta.IsDefined("vga", "rows") {
		cfg.VGA.Rows = raw.VGA.Rows
	}
	if meta.IsDefined("vga", "foreground") {
		if cfg.VGA.Foreground, err = vgatext.ParseColor(raw.VGA.Foreground); err != nil {
			return Config{}, fmt.Errorf("vga.foreground: %w", err)
		}
	}
	if meta.IsDefined("vga", "background") {
		if cfg.VGA.Background, err = vgatext.ParseColor(raw.VGA.Background); err != nil {
			return Config{}, fmt.Errorf("vga.background: %w", err)
		}
	}

	if meta.IsDefined("serial", "base") {
		cfg.Serial.Base = raw.Serial.Base
	}
	if meta.IsDefined("serial", "program") {
		cfg.Serial.Program = raw.Serial.Program
	}
	if meta.IsDefined("serial", "divisor") {
		cfg.Serial.Divisor = raw.Serial.Divisor
	}

	if meta.IsDefined("banner", "title") {
		cfg.Banner.Title = raw.Banner.Title
	}
	if meta.IsDefined("banner", "booted") {
		cfg.Banner.Booted = raw.Banner.Booted
	}
	if meta.IsDefined("banner", "initialized") {
		cfg.Banner.Initialized = raw.Banner.Initialized
	}
	if meta.IsDefined("banner", "ready") {
		cfg.Banner.Ready = raw.Banner.Ready
	}
	if meta.IsDefined("banner", "x") {
		cfg.Banner.OriginX = raw.Banner.X
	}
	if meta.IsDefined("banner", "y") {
		cfg.Banner.OriginY = raw.Banner.Y
	}
	if meta.IsDefined("banner", "line_height") {
		cfg.Banner.LineHeight = raw.Banner.LineHeight
	}

	if meta.IsDefined("colors", "scheme") {
		s, ok := framebuffer.SchemeByName(strings.TrimSpace(raw.Colors.Scheme))
		if !ok {
			return Config{}, fmt.Errorf("colors.scheme %q: %w", raw.Colors.Scheme, ErrInvalid)
		}
		cfg.Colors = s
	}
	for _, o := range []struct {
		key string
		raw string
		dst *framebuffer.Color
	}{
		{"background", raw.Colors.Background, &cfg.Colors.Background},
		{"title", raw.Colors.Title, &cfg.Colors.Title},
		{"text", raw.Colors.Text, &cfg.Colors.Text},
		{"success", raw.Colors.Success, &cfg.Colors.Success},
	} {
		if !meta.IsDefined("colors", o.key) {
			continue
		}
		c, err := ParseColor(o.raw)
		if err != nil {
			return Config{}, fmt.Errorf("colors.%s: %w", o.key, err)
		}
		*o.dst = c
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseColor reads "#RRGGBB" or "0xRRGGBB".
func ParseColor(s string) (framebuffer.Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	default:
		return 0, fmt.Errorf("colour %q: want #RRGGBB: %w", s, ErrInvalid)
	}
	if len(s) != 6 {
		return 0, fmt.Errorf("colour %q: want 6 hex digits: %w", s, ErrInvalid)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, ErrInvalid)
	}
	return framebuffer.Color(v), nil
}
