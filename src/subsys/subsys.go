// Package subsys lists the subsystems brought up once a display exists.
// Their bodies are placeholders; the boot sequence only fixes the order.
package subsys

import "github.com/rs/zerolog"

// Hook is one subsystem initializer. Init has no result; failures are the
// subsystem's own business.
type Hook struct {
	Name string
	Init func()
}

// Names is the fixed bring-up order.
var Names = [...]string{"debug", "env", "mcu", "events", "visual"}

// Defaults returns the placeholder hooks in bring-up order. Each one only
// logs that it ran.
func Defaults(log zerolog.Logger) []Hook {
	hooks := make([]Hook, 0, len(Names))
	for _, name := range Names {
		name := name
		hooks = append(hooks, Hook{
			Name: name,
			Init: func() {
				log.Debug().Str("subsystem", name).Msg("initialized")
			},
		})
	}
	return hooks
}

// Run calls every hook in order, logging each one before it starts.
func Run(hooks []Hook, log zerolog.Logger) {
	for _, h := range hooks {
		log.Debug().Str("hook", h.Name).Msg("subsystem init")
		if h.Init != nil {
			h.Init()
		}
	}
}
