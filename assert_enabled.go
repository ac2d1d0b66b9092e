//go:build assert

package virt

import "fmt"

// assertEnabled reports whether invariant checks panic. Enabled with the
// "assert" build tag; release builds clamp instead of crashing.
const assertEnabled = true

// assertf panics with a formatted message when cond is false.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("virt: "+format, args...))
	}
}
