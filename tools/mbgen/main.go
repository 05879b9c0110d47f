// mbgen writes and inspects Multiboot2 boot information blocks for the
// boot simulator and for QEMU experiments.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/moogchi/os/src/klog"
)

func main() {
	configPath := flag.String("config", "", "TOML tag description to encode")
	outPath := flag.String("o", "info.bin", "output file for -config")
	dumpPath := flag.String("dump", "", "boot information block to list")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mbgen -config tags.toml [-o info.bin]\n")
		fmt.Fprintf(os.Stderr, "       mbgen -dump info.bin\n")
		fmt.Fprintf(os.Stderr, "Encodes a boot information block (header, 8-byte aligned tags, end tag)\n")
		fmt.Fprintf(os.Stderr, "or lists the tags of an existing one.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	klog.ConfigureRuntime()
	log := klog.Component("mbgen")

	switch {
	case *dumpPath != "":
		blob, err := os.ReadFile(*dumpPath)
		if err != nil {
			log.Fatal().Err(err).Msg("read block")
		}
		if err := dump(os.Stdout, blob); err != nil {
			log.Fatal().Err(err).Str("file", *dumpPath).Msg("malformed block")
		}
	case *configPath != "":
		d, err := loadDescription(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load description")
		}
		blob, err := d.blob()
		if err != nil {
			log.Fatal().Err(err).Msg("encode")
		}
		if err := os.WriteFile(*outPath, blob, 0o644); err != nil {
			log.Fatal().Err(err).Msg("write block")
		}
		log.Info().Str("file", *outPath).Int("bytes", len(blob)).Msg("wrote boot information")
	default:
		flag.Usage()
		os.Exit(1)
	}
}
