//go:build heapdebug

package alloc

import "fmt"

const debugChecks = true

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("alloc: "+format, args...))
	}
}
