//go:build copium && 386

package kernel

import (
	"github.com/rs/zerolog"

	"github.com/moogchi/os/src/config"
	"github.com/moogchi/os/src/cpu"
	"github.com/moogchi/os/src/memory"
	"github.com/moogchi/os/src/subsys"
)

// KernelMain is called by the boot stub with the loader's EAX and EBX.
// Memory is identity mapped at this point.
func KernelMain(magic uint32, info uintptr) {
	log := zerolog.Nop()
	m := NewMachine(Options{
		Config: config.Default(),
		Mapper: memory.Identity{},
		Serial: cpu.PortBus{},
		Halter: cpu.Halter{},
		Hooks:  subsys.Defaults(log),
		Logger: log,
	})
	if err := m.Boot(magic, uint64(info)); err != nil {
		cpu.HaltForever()
	}
}
