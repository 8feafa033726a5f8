// Package console wraps the kernel's single output/input device (the
// UART, out of scope per spec.md) behind a mutex-guarded singleton, the
// way the teacher logs straight to a writer with fmt.Printf. Grounded on
// original_source/kernel/src/console.rs's CONSOLE: Mutex<Option<Console>>
// and the teacher's caller.Callerdump diagnostics, adapted to an
// explicit "uninitialized" sentinel per this module's singleton design
// note rather than an Option.
package console

import (
	"fmt"
	"io"
	"sync"
)

/// Device is what board glue must supply: a byte sink and a
/// non-blocking byte source (true reports a byte was available). A real
/// UART backs TryReadByte with its receive-FIFO-not-empty status bit;
/// the supervisor-call layer polls it from inside a Waiting predicate
/// rather than blocking here, per §4.4's read_byte.
type Device interface {
	io.Writer
	TryReadByte() (byte, bool)
}

var (
	mu  sync.Mutex
	dev Device // nil until Init
)

/// Init installs d as the console's backing device. Called once by
/// board glue during boot.
func Init(d Device) {
	mu.Lock()
	defer mu.Unlock()
	dev = d
}

func current() Device {
	if dev == nil {
		panic("console: used before Init")
	}
	return dev
}

/// Printf formats and writes to the console, holding the lock for the
/// duration of the write so concurrent writers never interleave bytes.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(current(), format, args...)
}

/// Write implements a raw byte write, used by the print supervisor call
/// to copy a user buffer through unformatted.
func Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	return current().Write(p)
}

/// TryReadByte polls the console's input side once, returning false
/// immediately if no byte is waiting.
func TryReadByte() (byte, bool) {
	mu.Lock()
	defer mu.Unlock()
	return current().TryReadByte()
}
