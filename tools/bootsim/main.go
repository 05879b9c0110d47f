// bootsim runs the boot display sequence on the host against simulated
// memory, prints what went out over COM1 and captures the screen.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	tty "github.com/mattn/go-tty"

	"github.com/moogchi/os/src/config"
	"github.com/moogchi/os/src/display"
	"github.com/moogchi/os/src/klog"
)

func main() {
	blobPath := flag.String("blob", "", "boot information block (see mbgen); default is a generated one")
	configPath := flag.String("config", "", "TOML kernel configuration")
	magicStr := flag.String("magic", "", "value passed as the loader magic (default: the configured one)")
	pngPath := flag.String("png", "", "write a PNG of the screen")
	serialDev := flag.String("serial", "", "also send serial output to this tty device")
	frame := flag.Bool("frame", false, "outline the framebuffer before capturing it")
	width := flag.Uint("width", 800, "framebuffer width of the generated block, 0 for text mode")
	height := flag.Uint("height", 600, "framebuffer height of the generated block")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: bootsim [flags]\n")
		fmt.Fprintf(os.Stderr, "Boots the display path once on simulated hardware.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	klog.ConfigureRuntime()
	log := klog.Component("bootsim")

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}

	spec := machineSpec{Config: cfg, Magic: cfg.BootMagic}
	if *magicStr != "" {
		m, err := strconv.ParseUint(*magicStr, 0, 32)
		if err != nil {
			log.Fatal().Err(err).Msg("parse -magic")
		}
		spec.Magic = uint32(m)
	}
	if *blobPath != "" {
		b, err := os.ReadFile(*blobPath)
		if err != nil {
			log.Fatal().Err(err).Msg("read block")
		}
		spec.Blob = b
	} else {
		spec.Blob = defaultBlob(uint32(*width), uint32(*height))
	}

	if *serialDev != "" {
		dev, err := tty.OpenDevice(*serialDev)
		if err != nil {
			log.Fatal().Err(err).Str("device", *serialDev).Msg("open serial device")
		}
		defer dev.Close()
		spec.Serial = dev.Output()
	}

	r, err := simulate(spec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare machine")
	}
	fmt.Print(r.Serial)
	if r.Err != nil {
		log.Error().Err(r.Err).Bool("halted", r.Halted).Stringer("state", r.Machine.State()).Msg("boot stopped")
		os.Exit(2)
	}

	if err := capture(os.Stdout, r, cfg, *pngPath, *frame); err != nil {
		log.Fatal().Err(err).Msg("capture screen")
	}
	if *pngPath != "" {
		log.Info().Str("file", *pngPath).Msg("wrote screen")
	}
}

// capture prints the text grid or writes the framebuffer image.
func capture(w io.Writer, r *run, cfg config.Config, pngPath string, frame bool) error {
	switch r.Machine.Renderer().Kind() {
	case display.KindFramebuffer:
		fb := r.Machine.Framebuffer()
		if frame {
			if err := drawFrame(fb, cfg.Colors); err != nil {
				return err
			}
		}
		info := fb.Info()
		fmt.Fprintf(w, "framebuffer %dx%d pitch=%d at 0x%x\n", info.Width, info.Height, info.Pitch, info.Addr)
		if pngPath != "" {
			return savePNG(pngPath, fb.Snapshot())
		}
	default:
		con := r.Machine.Console()
		fmt.Fprint(w, con.Snapshot())
		if pngPath != "" {
			return savePNG(pngPath, textImage(con))
		}
	}
	return nil
}
