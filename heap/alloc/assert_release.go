//go:build !heapdebug

package alloc

// debugChecks enables invariant assertions on the hot path. Build with
// -tags heapdebug to turn them on.
const debugChecks = false

func assertf(bool, string, ...any) {}
