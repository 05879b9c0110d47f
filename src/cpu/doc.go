// Package cpu holds the x86 instructions the boot path cannot express in
// Go: port I/O and halting. The implementations only build for the bare
// metal target (GOARCH=386 with the copium tag); host builds use the
// emulated buses in package serial instead.
package cpu
