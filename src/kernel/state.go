package kernel

import "fmt"

// State is a step of the boot sequence.
type State int

const (
	Unvalidated State = iota
	BackendSelecting
	Rendering
	SubsystemInit
	Ready
	Halted
)

func (s State) String() string {
	switch s {
	case Unvalidated:
		return "unvalidated"
	case BackendSelecting:
		return "backend-selecting"
	case Rendering:
		return "rendering"
	case SubsystemInit:
		return "subsystem-init"
	case Ready:
		return "ready"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition can leave s.
func (s State) Terminal() bool {
	return s == Ready || s == Halted
}

// next lists the legal transitions.
var next = map[State][]State{
	Unvalidated:      {BackendSelecting, Halted},
	BackendSelecting: {Rendering, Halted},
	Rendering:        {SubsystemInit},
	SubsystemInit:    {Ready},
}

func canTransition(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}
